// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package optimize

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/maechanneler/patent-query-optimizer/internal/relevance"
	"github.com/maechanneler/patent-query-optimizer/internal/search"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// interIterationDelay is the courtesy pause between optimize-and-retry
// cycles, respecting collaborator rate limits. Tests override this to
// avoid real sleeps.
var interIterationDelay = time.Second

// Loop drives N search iterations: search, select-and-cache the best match,
// evaluate, then optionally rewrite the query for the next pass. One Loop
// instance owns its collaborator handles; there is no ambient state.
type Loop struct {
	Provider  search.Provider
	Selector  *relevance.Selector
	Evaluator *relevance.Evaluator
	Optimizer *Optimizer

	Config     types.SearchConfig
	Iterations int
	Optimize   bool

	// Log receives per-iteration progress. Nil means discard.
	Log io.Writer
}

// RunResult accumulates what a run produced.
type RunResult struct {
	// History holds one record per completed iteration, ordered by iteration.
	History []types.IterationRecord

	// FinalQuery is the query in effect when the loop stopped.
	FinalQuery string

	// LastResults is the result set of the final completed search.
	LastResults []types.PatentRecord
}

// Run executes the loop starting from query. The loop stops when the
// iteration count is exhausted, the result set comes back empty, or ctx is
// cancelled during the courtesy delay. An iteration that finds no results
// records no history row: the loop breaks before the append.
//
// Collaborator failures inside an iteration never abort the run; each
// component degrades to its documented fallback and the loop proceeds.
func (l *Loop) Run(ctx context.Context, query string) RunResult {
	iterations := l.Iterations
	if iterations <= 0 {
		iterations = 3
	}

	out := RunResult{FinalQuery: query}

	for i := 0; i < iterations; i++ {
		fmt.Fprintf(l.log(), "\nIteration %d/%d\n", i+1, iterations)
		fmt.Fprintf(l.log(), "Current query: %s\n", query)

		results, err := l.Provider.Search(ctx, query, l.Config)
		if err != nil {
			// A failed search is treated as an empty result set.
			fmt.Fprintf(l.log(), "warning: search failed: %v\n", err)
			results = nil
		}

		if len(results) == 0 {
			fmt.Fprintln(l.log(), "No results found")
			break
		}
		out.LastResults = results

		fmt.Fprintf(l.log(), "\nFound %d results\n", len(results))
		search.FormatTable(results, l.log())

		best := l.Selector.Select(ctx, query, results)
		if !best.IsEmpty() {
			fmt.Fprintf(l.log(), "Best match: %s\n", best.PatentNumber)
		}

		evaluation := l.Evaluator.Evaluate(ctx, query, results)
		fmt.Fprintf(l.log(), "\nEvaluation:\n%s\n", evaluation)

		out.History = append(out.History, types.IterationRecord{
			Iteration:  i + 1,
			Query:      query,
			NumResults: len(results),
			Evaluation: evaluation,
			Timestamp:  time.Now(),
		})
		out.FinalQuery = query

		if l.Optimize && i < iterations-1 {
			fmt.Fprintln(l.log(), "\nOptimizing query for next iteration...")
			next, _ := l.Optimizer.Optimize(ctx, query, out.History)
			fmt.Fprintf(l.log(), "Next iteration will use query: %s\n", next)
			query = next
			out.FinalQuery = next

			select {
			case <-ctx.Done():
				return out
			case <-time.After(interIterationDelay):
			}
		}
	}

	return out
}

func (l *Loop) log() io.Writer {
	if l.Log == nil {
		return io.Discard
	}
	return l.Log
}
