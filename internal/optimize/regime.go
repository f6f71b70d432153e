// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package optimize rewrites search queries between iterations and drives the
// search loop. The rewrite direction comes from a result-count heuristic:
// broaden on zero results, narrow on an excessive count, otherwise hold the
// abstraction level and optimize for relevance.
package optimize

// Regime is the abstraction-level adjustment chosen for a query rewrite.
type Regime int

const (
	// HoldSteady keeps the current abstraction level and optimizes relevance.
	HoldSteady Regime = iota

	// Broaden moves to a more general, higher-level concept.
	Broaden

	// Narrow moves to a more specific, lower-level concept.
	Narrow
)

// maxModerateResults is the count above which a query is considered too broad.
const maxModerateResults = 1000

// ClassifyResultCount maps a live result count to a rewrite regime. Pure
// function, decoupled from prompt construction so the classification is
// testable without a model call.
func ClassifyResultCount(count int) Regime {
	switch {
	case count == 0:
		return Broaden
	case count > maxModerateResults:
		return Narrow
	default:
		return HoldSteady
	}
}

// String returns the regime name for log output.
func (r Regime) String() string {
	switch r {
	case Broaden:
		return "broaden"
	case Narrow:
		return "narrow"
	default:
		return "hold-steady"
	}
}

// instruction returns the regime-specific rewrite guidance included in the
// optimization prompt.
func (r Regime) instruction() string {
	switch r {
	case Broaden:
		return `The current query returned no results. Rewrite it using a more general, higher-level concept.
Example: "folding wings for flying cars" -> "variable-geometry wings for vehicles".`
	case Narrow:
		return `The current query returned too many results (more than 1000). Rewrite it using a more specific, narrower concept.
Example: "autonomous driving" -> "control method for urban autonomous driving".`
	default:
		return `The current result count is moderate. Keep the current level of abstraction and optimize the query for relevance.`
	}
}
