// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// selectSystemPrompt instructs the model to name exactly one patent from the
// candidate set, in complete identifier form so it survives normalization.
const selectSystemPrompt = `You are a patent search expert.
Given a search query, choose the single most relevant patent from the search results.
Return the patent number in its complete form (for example: JP2020123456A).`

// selectUserTmpl is the user message for best-match selection.
var selectUserTmpl = template.Must(template.New("select").Parse(`Search query: {{.Query}}

Search results (top {{.Count}}):
{{.Candidates}}
Return only the patent number of the most relevant patent. Do not include any explanation.`))

// evaluateSystemPrompt asks for a one-paragraph qualitative assessment.
const evaluateSystemPrompt = `You are an expert at evaluating patent search results.
Analyze the search query and the results, and give a concise one-paragraph assessment of the quality of the results.`

// evaluateUserTmpl is the user message for result evaluation.
var evaluateUserTmpl = template.Must(template.New("evaluate").Parse(`Search query: {{.Query}}

Search results (first {{.Count}}):
{{.Candidates}}`))

// formatCandidates renders records as a numbered list for prompt context.
// withNumber includes the patent number line used by selection.
func formatCandidates(records []types.PatentRecord, withNumber bool) string {
	var b strings.Builder
	for i, r := range records {
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, r.Title)
		if withNumber {
			fmt.Fprintf(&b, "   Patent number: %s\n", r.PatentNumber)
		}
		fmt.Fprintf(&b, "   Abstract: %s\n", r.Abstract)
	}
	return b.String()
}

type promptData struct {
	Query      string
	Count      int
	Candidates string
}

func renderSelectPrompt(query string, candidates []types.PatentRecord) (string, error) {
	var buf bytes.Buffer
	err := selectUserTmpl.Execute(&buf, promptData{
		Query:      query,
		Count:      len(candidates),
		Candidates: formatCandidates(candidates, true),
	})
	if err != nil {
		return "", fmt.Errorf("rendering selection prompt: %w", err)
	}
	return buf.String(), nil
}

func renderEvaluatePrompt(query string, candidates []types.PatentRecord) (string, error) {
	var buf bytes.Buffer
	err := evaluateUserTmpl.Execute(&buf, promptData{
		Query:      query,
		Count:      len(candidates),
		Candidates: formatCandidates(candidates, false),
	})
	if err != nil {
		return "", fmt.Errorf("rendering evaluation prompt: %w", err)
	}
	return buf.String(), nil
}
