// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"fmt"

	"github.com/maechanneler/patent-query-optimizer/internal/llm"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// evaluateWindow bounds how many records the evaluation prompt carries.
const evaluateWindow = 5

// NoResultsMessage is returned for an empty result set without a model call.
const NoResultsMessage = "No results were found for this query."

// Evaluator asks the model for a free-text quality assessment of a result set.
type Evaluator struct {
	Model llm.Client
}

// Evaluate returns the model's one-paragraph assessment of the first 5
// results. An empty result set returns NoResultsMessage without calling the
// model. A model failure returns a message embedding the failure description;
// Evaluate never surfaces an error to the caller, so a human reading the
// output can tell a poor result set from a collaborator error.
func (e *Evaluator) Evaluate(ctx context.Context, query string, results []types.PatentRecord) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	candidates := results
	if len(candidates) > evaluateWindow {
		candidates = candidates[:evaluateWindow]
	}

	prompt, err := renderEvaluatePrompt(query, candidates)
	if err != nil {
		return fmt.Sprintf("evaluation failed: %v", err)
	}

	assessment, err := e.Model.Complete(ctx, evaluateSystemPrompt, prompt)
	if err != nil {
		return fmt.Sprintf("evaluation failed: %v", err)
	}
	return assessment
}
