// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists search-loop iteration records: a per-run CSV
// export, a YAML run file, and a SQLite store accumulating every run.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// DefaultDir is where per-run CSV exports land when none is configured.
const DefaultDir = "search_history"

// safeQueryPrefixLen bounds how much of the query goes into the filename.
const safeQueryPrefixLen = 30

const timestampFmt = "2006-01-02 15:04:05"

// WriteCSV writes one record-per-iteration CSV file for a run. The filename
// derives from the run start time and a sanitized prefix of the initial
// query. Returns the path written.
func WriteCSV(dir, initialQuery string, startedAt time.Time, records []types.IterationRecord) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}

	name := fmt.Sprintf("query_history_%s_%s.csv",
		startedAt.Format("20060102_150405"), SafeFileQuery(initialQuery))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"iteration", "query", "num_results", "evaluation", "timestamp"}); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Iteration),
			rec.Query,
			strconv.Itoa(rec.NumResults),
			rec.Evaluation,
			rec.Timestamp.Format(timestampFmt),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing history file: %w", err)
	}
	return path, nil
}

// SafeFileQuery turns a query into a filename fragment: only alphanumerics,
// spaces, and underscores from the first 30 bytes survive, then spaces
// become underscores.
func SafeFileQuery(query string) string {
	if len(query) > safeQueryPrefixLen {
		query = query[:safeQueryPrefixLen]
	}
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
