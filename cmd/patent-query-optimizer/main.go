// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patent-query-optimizer CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maechanneler/patent-query-optimizer/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the explicit value if set, else the secret for key,
// else the environment variable envKey.
func secretDefault(explicit, key, envKey string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return os.Getenv(envKey)
}

// rootCmd is the base command for the patent-query-optimizer CLI.
var rootCmd = &cobra.Command{
	Use:   "patent-query-optimizer",
	Short: "Iterative patent search with AI-assisted query refinement",
	Long: `patent-query-optimizer searches patent databases and uses a language model
to pick the best-matching patent, evaluate result quality, and rewrite the
query between iterations. Best matches are cached locally and every run's
query history is exported for later review.

Each concern is a subcommand: search runs the iterative loop, cache
inspects the best-match cache, and history lists past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./patent-query-optimizer.yaml or ~/.config/patent-query-optimizer/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patent-query-optimizer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patent-query-optimizer"))
		}
	}

	viper.SetEnvPrefix("PATENT_OPTIMIZER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
