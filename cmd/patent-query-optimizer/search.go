// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maechanneler/patent-query-optimizer/internal/cache"
	"github.com/maechanneler/patent-query-optimizer/internal/history"
	"github.com/maechanneler/patent-query-optimizer/internal/llm"
	"github.com/maechanneler/patent-query-optimizer/internal/optimize"
	"github.com/maechanneler/patent-query-optimizer/internal/relevance"
	"github.com/maechanneler/patent-query-optimizer/internal/search"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "patent-query-optimizer/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run the iterative patent search loop",
	Long: `Search runs up to N iterations against the patent search provider. Each
iteration picks the best-matching patent (cached locally), evaluates the
result set, and, when --optimize is set, rewrites the query for the next pass.
The per-iteration history is exported to a CSV file and recorded in the
run database.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "initial search query (or pass as positional argument)")
	searchCmd.Flags().Int("iterations", 3, "number of search iterations")
	searchCmd.Flags().Int("max-results", 100, "results requested per search")
	searchCmd.Flags().String("country", "", "restrict to one patent office (default JP)")
	searchCmd.Flags().String("lang", "", "provider language hint (default ja)")
	searchCmd.Flags().Bool("optimize", false, "rewrite the query between iterations")
	searchCmd.Flags().String("model", "", "chat model for selection, evaluation, and rewriting (default gpt-4o-mini)")
	searchCmd.Flags().String("cache", cache.DefaultPath, "best-match cache file")
	searchCmd.Flags().String("history-dir", history.DefaultDir, "directory for per-run CSV exports")
	searchCmd.Flags().String("index-dir", history.DefaultIndexDir, "directory for the run database")
	searchCmd.Flags().String("out", "", "also save the full run as a YAML file")
	searchCmd.Flags().Bool("json", false, "print the final result set as JSON")
	searchCmd.Flags().Bool("show-cache", false, "list all cached best matches after the run")
	searchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	searchCmd.Flags().String("serpapi-key", "", "SerpAPI key (default: .secrets/serpapi-api-key or SERPAPI_API_KEY)")
	searchCmd.Flags().String("openai-key", "", "OpenAI key (default: .secrets/openai-api-key or OPENAI_API_KEY)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("provide a search query")
	}

	iterations, _ := cmd.Flags().GetInt("iterations")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	country, _ := cmd.Flags().GetString("country")
	lang, _ := cmd.Flags().GetString("lang")
	optimizeQuery, _ := cmd.Flags().GetBool("optimize")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	cachePath, _ := cmd.Flags().GetString("cache")
	historyDir, _ := cmd.Flags().GetString("history-dir")
	indexDir, _ := cmd.Flags().GetString("index-dir")

	if country == "" {
		country = viper.GetString("search.country")
	}
	if country == "" {
		country = "JP"
	}
	if lang == "" {
		lang = viper.GetString("search.language")
	}
	if lang == "" {
		lang = "ja"
	}

	serpKey, _ := cmd.Flags().GetString("serpapi-key")
	serpKey = secretDefault(serpKey, "serpapi-api-key", "SERPAPI_API_KEY")
	if serpKey == "" {
		return fmt.Errorf("SerpAPI key required: set --serpapi-key, .secrets/serpapi-api-key, or SERPAPI_API_KEY")
	}

	openaiKey, _ := cmd.Flags().GetString("openai-key")
	openaiKey = secretDefault(openaiKey, "openai-api-key", "OPENAI_API_KEY")

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	searchCfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
		Country:    country,
		Language:   lang,
		APIKey:     serpKey,
	}

	bestCache := cache.Open(cachePath)

	aiClient, err := llm.NewOpenAIClient(types.AIConfig{
		Model:   model,
		APIKey:  openaiKey,
		BaseURL: viper.GetString("ai.base_url"),
	})
	if err != nil {
		return err
	}

	provider := &search.SerpAPIBackend{
		Client: &http.Client{Timeout: timeout},
		APIKey: serpKey,
	}

	evaluator := &relevance.Evaluator{Model: aiClient}
	loop := &optimize.Loop{
		Provider:  provider,
		Selector:  &relevance.Selector{Model: aiClient, Cache: bestCache, Log: os.Stdout},
		Evaluator: evaluator,
		Optimizer: &optimize.Optimizer{
			Provider:  provider,
			Evaluator: evaluator,
			Model:     aiClient,
			Config:    searchCfg,
			Log:       os.Stdout,
		},
		Config:     searchCfg,
		Iterations: iterations,
		Optimize:   optimizeQuery,
		Log:        os.Stdout,
	}

	startedAt := time.Now()
	result := loop.Run(context.Background(), query)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut && len(result.LastResults) > 0 {
		if err := search.FormatJSON(result.LastResults, os.Stdout); err != nil {
			return err
		}
	}

	if showCache, _ := cmd.Flags().GetBool("show-cache"); showCache {
		printCached(bestCache)
	}

	return saveRun(cmd, query, startedAt, searchCfg, loop, result, historyDir, indexDir)
}

// saveRun persists the run three ways: a CSV history export, a row in the run
// database, and optionally a full YAML run file. Persistence failures after a
// completed loop are reported but only the first is returned.
func saveRun(cmd *cobra.Command, query string, startedAt time.Time, searchCfg types.SearchConfig, loop *optimize.Loop, result optimize.RunResult, historyDir, indexDir string) error {
	if len(result.History) == 0 {
		fmt.Println("\nNo iterations completed; nothing to export.")
		return nil
	}

	var firstErr error

	path, err := history.WriteCSV(historyDir, query, startedAt, result.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: CSV export failed: %v\n", err)
		firstErr = err
	} else {
		fmt.Printf("\nQuery history exported to %s\n", path)
	}

	store, err := history.NewStore(indexDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening run database failed: %v\n", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		defer store.Close()
		runID, err := store.RecordRun(context.Background(), query, result.FinalQuery, startedAt, result.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run failed: %v\n", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			fmt.Printf("Recorded run %d in %s\n", runID, indexDir)
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		rf := history.RunFile{
			Query: query,
			Config: history.RunFileConfig{
				Iterations: loop.Iterations,
				Optimize:   loop.Optimize,
				MaxResults: searchCfg.MaxResults,
				Country:    searchCfg.Country,
				Language:   searchCfg.Language,
			},
			History: result.History,
			Results: result.LastResults,
			Summary: history.RunSummary{
				FinalQuery:          result.FinalQuery,
				CompletedIterations: len(result.History),
			},
		}
		if err := history.WriteRunFile(out, rf); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing run file failed: %v\n", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			fmt.Printf("Run saved to %s\n", out)
		}
	}

	return firstErr
}

// printCached lists every cached best match after the run.
func printCached(c *cache.Cache) {
	entries := c.Entries()
	if len(entries) == 0 {
		fmt.Println("\nCache is empty.")
		return
	}

	queries := make([]string, 0, len(entries))
	for q := range entries {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	fmt.Printf("\nCached best matches (%d):\n", len(entries))
	for _, q := range queries {
		e := entries[q]
		fmt.Printf("  %q: %s (%s)\n", q, e.Patent.PatentNumber, e.Patent.Title)
	}
}
