// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the patent search provider and maps raw results
// into PatentRecords. The provider is a black box behind the Provider
// interface; an empty result set is a valid outcome, not an error.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// Provider searches a patent API. Implementations map provider-specific
// response fields into PatentRecords, defaulting absent fields to "".
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.PatentRecord, error)
}

// previewLimit caps the number of rows FormatTable prints.
const previewLimit = 10

// FormatTable writes the top results as a human-readable table to w.
func FormatTable(results []types.PatentRecord, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-18s  %-50s  %s\n", "Rank", "Number", "Title", "Abstract")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	shown := results
	if len(shown) > previewLimit {
		shown = shown[:previewLimit]
	}
	for i, r := range shown {
		fmt.Fprintf(w, "%-4d  %-18s  %-50s  %s\n",
			i+1, truncate(r.PatentNumber, 18), truncate(r.Title, 50), truncate(r.Abstract, 34))
	}

	fmt.Fprintf(w, "\n%d results", len(results))
	if len(results) > previewLimit {
		fmt.Fprintf(w, " (showing first %d)", previewLimit)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.PatentRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// truncate clips s to max characters for table display. Rune-based: titles
// and abstracts are frequently Japanese and a byte cut would split a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
