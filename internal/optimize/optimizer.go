// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package optimize

import (
	"context"
	"fmt"
	"io"

	"github.com/maechanneler/patent-query-optimizer/internal/llm"
	"github.com/maechanneler/patent-query-optimizer/internal/relevance"
	"github.com/maechanneler/patent-query-optimizer/internal/search"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// Optimizer rewrites a query for the next iteration. It re-runs a live
// search and evaluation first, so the rewrite always reflects the query's
// current standing rather than a stale count from the caller.
type Optimizer struct {
	Provider  search.Provider
	Evaluator *relevance.Evaluator
	Model     llm.Client
	Config    types.SearchConfig

	// Log receives regime and failure notices. Nil means discard.
	Log io.Writer
}

// Optimize proposes a rewritten query from the live result count, the live
// evaluation, and the most recent history entries. Any collaborator failure
// degrades to a no-op: the original query comes back unchanged, paired with
// a failure description instead of an evaluation. Optimize never returns an
// error to the caller.
func (o *Optimizer) Optimize(ctx context.Context, query string, history []types.IterationRecord) (newQuery, evaluation string) {
	results, err := o.Provider.Search(ctx, query, o.Config)
	if err != nil {
		fmt.Fprintf(o.log(), "warning: optimization search failed: %v\n", err)
		return query, fmt.Sprintf("optimization failed: %v", err)
	}

	evaluation = o.Evaluator.Evaluate(ctx, query, results)
	count := len(results)
	regime := ClassifyResultCount(count)

	systemPrompt, userPrompt, err := renderOptimizePrompts(query, count, evaluation, history)
	if err != nil {
		fmt.Fprintf(o.log(), "warning: %v\n", err)
		return query, fmt.Sprintf("optimization failed: %v", err)
	}

	answer, err := o.Model.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		fmt.Fprintf(o.log(), "warning: optimization model call failed: %v\n", err)
		return query, fmt.Sprintf("optimization failed: %v", err)
	}

	cleaned := CleanModelQuery(answer)
	if cleaned == "" {
		fmt.Fprintf(o.log(), "warning: model returned an empty query, keeping %q\n", query)
		return query, evaluation
	}

	fmt.Fprintf(o.log(), "optimized query (%s, %d results): %s\n", regime, count, cleaned)
	return cleaned, evaluation
}

func (o *Optimizer) log() io.Writer {
	if o.Log == nil {
		return io.Discard
	}
	return o.Log
}
