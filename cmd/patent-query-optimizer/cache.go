// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maechanneler/patent-query-optimizer/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the best-match patent cache",
	Long: `Cache manages the local JSON file that maps past queries to their
best-matching patent. Use subcommands to list cached entries or wipe the
cache.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached best matches",
	RunE:  runCacheShow,
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("cache")
	c := cache.Open(path)

	entries := c.Entries()
	if len(entries) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	queries := make([]string, 0, len(entries))
	for q := range entries {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	fmt.Fprintf(os.Stdout, "%-40s  %-18s  %-40s  %s\n", "Query", "Number", "Title", "Cached")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for _, q := range queries {
		e := entries[q]
		fmt.Fprintf(os.Stdout, "%-40s  %-18s  %-40s  %s\n",
			clip(q, 40), clip(e.Patent.PatentNumber, 18), clip(e.Patent.Title, 40),
			e.LastUpdated.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d cached entries\n", len(entries))
	return nil
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached best matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("cache")
		c := cache.Open(path)
		n := len(c.Entries())
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Printf("Cleared %d cached entries.\n", n)
		return nil
	},
}

// clip bounds s to max characters for table display, rune-based so Japanese
// queries and titles are never cut mid-rune.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	cacheCmd.PersistentFlags().String("cache", cache.DefaultPath, "best-match cache file")
	cacheShowCmd.Flags().Bool("json", false, "output entries as JSON")

	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
