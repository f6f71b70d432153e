// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maechanneler/patent-query-optimizer/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect past search runs",
	Long: `History reads the run database written after each search. Use list to
see recent runs and show to print the iteration-by-iteration record of
one run.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-19s  %-5s  %-40s  %s\n", "Run", "Started", "Iters", "Initial query", "Final query")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-6d  %-19s  %-5d  %-40s  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Iterations,
			clip(r.InitialQuery, 40), clip(r.FinalQuery, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print the iteration record of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.RunIterations(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no iterations recorded for run %d", runID)
	}

	for _, rec := range records {
		fmt.Printf("Iteration %d (%s)\n", rec.Iteration, rec.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Query:   %s\n", rec.Query)
		fmt.Printf("  Results: %d\n", rec.NumResults)
		fmt.Printf("  Evaluation:\n    %s\n\n", strings.ReplaceAll(rec.Evaluation, "\n", "\n    "))
	}
	return nil
}

func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	return history.NewStore(indexDir)
}

func init() {
	historyCmd.PersistentFlags().String("index-dir", history.DefaultIndexDir, "directory for the run database")
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(historyCmd)
}
