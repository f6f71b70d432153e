// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the patent-query-optimizer
// pipeline: patent records returned by the search provider, cache entries,
// and per-iteration history rows.
package types

import "time"

// PatentRecord represents one patent returned by the search provider.
// Fields are carried verbatim from the provider response; absent fields
// default to the empty string. Records are never mutated after mapping.
type PatentRecord struct {
	// Title is the patent title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// PatentNumber is the provider-format identifier (e.g. "JP2020-123456A").
	// The raw form is preserved; normalization happens only at comparison time.
	PatentNumber string `json:"patent_number" yaml:"patent_number"`

	// FilingDate is the filing date string as returned by the provider.
	FilingDate string `json:"filing_date" yaml:"filing_date"`

	// PublicationDate is the publication date string as returned by the provider.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Inventors is the provider's inventor list joined with ", ".
	Inventors string `json:"inventors" yaml:"inventors"`

	// Assignee is the patent assignee.
	Assignee string `json:"assignee" yaml:"assignee"`

	// Abstract is the result snippet or abstract text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Link is the provider URL for the patent.
	Link string `json:"link" yaml:"link"`
}

// IsEmpty reports whether the record carries no data. The zero PatentRecord
// is the "no result" value returned by cache misses and empty-set selection.
func (p PatentRecord) IsEmpty() bool {
	return p == PatentRecord{}
}

// CacheEntry pairs a cached patent with the time it was stored. Entries are
// keyed by the literal query string; a later search for the same string
// overwrites the entry.
type CacheEntry struct {
	// Patent is the best-matching record for the query.
	Patent PatentRecord `json:"patent_data" yaml:"patent_data"`

	// LastUpdated is when the entry was written (ISO-8601 in the store).
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}
