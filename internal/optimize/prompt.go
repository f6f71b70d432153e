// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package optimize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// historyWindow is how many of the most recent iteration records the
// optimization prompt carries. Older entries are excluded.
const historyWindow = 3

// maxEvaluationChars caps evaluation text included in prompt context.
const maxEvaluationChars = 200

// queryLabelPrefixes are leading labels models sometimes prepend despite
// being told not to. CleanModelQuery strips them.
var queryLabelPrefixes = []string{
	"Suggested query: ",
	"Improved query: ",
	"Optimized query: ",
}

// optimizeSystemTmpl is the system prompt for query rewriting. The
// regime-specific instruction is injected per the live result count.
var optimizeSystemTmpl = template.Must(template.New("optimize-system").Parse(`You are an expert at optimizing patent search queries.
Using the past search history and evaluations, propose one query expected to produce better search results.

Important instruction:
{{.Instruction}}

Return only the query. Do not add explanations or prefixes such as "Suggested query:".`))

// optimizeUserTmpl is the user message: the live query's current standing
// plus a bounded window of prior attempts.
var optimizeUserTmpl = template.Must(template.New("optimize-user").Parse(`Base query: {{.Query}}
Current result count: {{.Count}}
Current evaluation: {{.Evaluation}}
{{if .History}}
Previous searches ({{len .History}} most recent):
{{range .History}}Query: {{.Query}}
Evaluation: {{.Evaluation}}

{{end}}{{end}}Based on the information above, propose one better search query.
In particular, choose an abstraction level appropriate for the result count.`))

type optimizePromptData struct {
	Query      string
	Count      int
	Evaluation string
	History    []historyEntry
}

type historyEntry struct {
	Query      string
	Evaluation string
}

func renderOptimizePrompts(query string, count int, evaluation string, history []types.IterationRecord) (system, user string, err error) {
	regime := ClassifyResultCount(count)

	var sysBuf bytes.Buffer
	if err := optimizeSystemTmpl.Execute(&sysBuf, struct{ Instruction string }{regime.instruction()}); err != nil {
		return "", "", fmt.Errorf("rendering optimization system prompt: %w", err)
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	entries := make([]historyEntry, 0, len(window))
	for _, rec := range window {
		entries = append(entries, historyEntry{
			Query:      rec.Query,
			Evaluation: truncateEvaluation(rec.Evaluation),
		})
	}

	var userBuf bytes.Buffer
	err = optimizeUserTmpl.Execute(&userBuf, optimizePromptData{
		Query:      query,
		Count:      count,
		Evaluation: truncateEvaluation(evaluation),
		History:    entries,
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering optimization prompt: %w", err)
	}
	return sysBuf.String(), userBuf.String(), nil
}

// truncateEvaluation bounds evaluation text to maxEvaluationChars characters,
// marking the cut with an ellipsis. Counting runes, not bytes: evaluations
// are frequently Japanese and a byte cut would split a rune.
func truncateEvaluation(text string) string {
	runes := []rune(text)
	if len(runes) > maxEvaluationChars {
		return string(runes[:maxEvaluationChars]) + "..."
	}
	return text
}

// CleanModelQuery turns a raw model answer into a usable query: known
// leading labels are stripped and surrounding whitespace trimmed. The
// parsing of unstructured model replies lives entirely here so its edge
// cases are testable without a network call.
func CleanModelQuery(answer string) string {
	query := strings.TrimSpace(answer)
	for _, prefix := range queryLabelPrefixes {
		query = strings.TrimPrefix(query, prefix)
	}
	return strings.TrimSpace(query)
}
