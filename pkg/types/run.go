// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// IterationRecord is one row of search-loop history: the query that was
// searched, how many results came back, and the model's assessment of them.
// Records are append-only and ordered by Iteration, which starts at 1.
// The optimizer reads the most recent rows to steer query rewriting.
type IterationRecord struct {
	// Iteration is the 1-based loop pass that produced this row.
	Iteration int `json:"iteration" yaml:"iteration"`

	// Query is the literal search string used for this pass.
	Query string `json:"query" yaml:"query"`

	// NumResults is the provider result count for Query.
	NumResults int `json:"num_results" yaml:"num_results"`

	// Evaluation is the model's free-text quality assessment, or an
	// embedded failure description when the model call did not succeed.
	Evaluation string `json:"evaluation" yaml:"evaluation"`

	// Timestamp is when the iteration completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
