// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"fmt"
	"io"

	"github.com/maechanneler/patent-query-optimizer/internal/cache"
	"github.com/maechanneler/patent-query-optimizer/internal/llm"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// selectWindow bounds how many records the model sees. Records beyond the
// window are never eligible for selection.
const selectWindow = 10

// Selector picks the best-matching patent for a query and caches it.
// The model call is inherently non-deterministic; Select wraps it in a
// deterministic policy with a rank-1 fallback.
type Selector struct {
	Model llm.Client
	Cache *cache.Cache

	// Log receives fallback and cache-write notices. Nil means discard.
	Log io.Writer
}

// Select asks the model for the most relevant of the first 10 results and
// matches its answer back by normalized patent number.
//
// An empty result set returns the zero record without a model call. A model
// failure or an unrecognized answer falls back to the first candidate, never
// to an empty record. The selected record is written to the cache keyed by
// the literal query string.
func (s *Selector) Select(ctx context.Context, query string, results []types.PatentRecord) types.PatentRecord {
	if len(results) == 0 {
		return types.PatentRecord{}
	}

	candidates := results
	if len(candidates) > selectWindow {
		candidates = candidates[:selectWindow]
	}

	selected := s.pick(ctx, query, candidates)

	if err := s.Cache.Put(query, selected); err != nil {
		fmt.Fprintf(s.log(), "warning: caching best match for %q: %v\n", query, err)
	}
	return selected
}

// pick runs the model call and answer matching. Failures degrade to the
// rank-1 candidate.
func (s *Selector) pick(ctx context.Context, query string, candidates []types.PatentRecord) types.PatentRecord {
	prompt, err := renderSelectPrompt(query, candidates)
	if err != nil {
		fmt.Fprintf(s.log(), "warning: best-match selection failed, using first result: %v\n", err)
		return candidates[0]
	}

	answer, err := s.Model.Complete(ctx, selectSystemPrompt, prompt)
	if err != nil {
		fmt.Fprintf(s.log(), "warning: best-match selection failed, using first result: %v\n", err)
		return candidates[0]
	}

	want := NormalizePatentNumber(answer)
	for _, c := range candidates {
		if NormalizePatentNumber(c.PatentNumber) == want {
			return c
		}
	}

	fmt.Fprintf(s.log(), "warning: model answer %q matched no candidate, using first result\n", answer)
	return candidates[0]
}

func (s *Selector) log() io.Writer {
	if s.Log == nil {
		return io.Discard
	}
	return s.Log
}
