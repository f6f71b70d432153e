// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists the best-matching patent per query string.
//
// The store is a single human-inspectable JSON file mapping the literal
// query string to a patent record and a timestamp. Keys are exact-match
// and case-sensitive: two query strings never collapse to one entry even
// when semantically identical. Every mutation rewrites the whole file;
// an unparseable file is treated as empty, never as a fatal error.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// DefaultPath is the cache file location when none is configured.
const DefaultPath = "patent_cache.json"

// Cache is a query→best-patent store backed by one JSON file. It is not
// safe for concurrent processes sharing the same file: the whole-file
// rewrite makes concurrent writers last-write-wins.
type Cache struct {
	path    string
	entries map[string]types.CacheEntry
}

// Open loads the cache at path, creating an empty cache when the file is
// missing or unparseable.
func Open(path string) *Cache {
	if path == "" {
		path = DefaultPath
	}
	return &Cache{path: path, entries: load(path)}
}

// load reads persisted state. Corrupt or missing state resets to empty.
func load(path string) map[string]types.CacheEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]types.CacheEntry{}
	}
	var entries map[string]types.CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return map[string]types.CacheEntry{}
	}
	return entries
}

// Put stores patent as the best match for query, stamped with the current
// time, and persists immediately.
func (c *Cache) Put(query string, patent types.PatentRecord) error {
	c.entries[query] = types.CacheEntry{
		Patent:      patent,
		LastUpdated: time.Now(),
	}
	return c.save()
}

// Get returns the cached patent for an exact query match. A miss returns
// the zero record.
func (c *Cache) Get(query string) types.PatentRecord {
	return c.entries[query].Patent
}

// Entries returns a copy of all cached entries keyed by query.
func (c *Cache) Entries() map[string]types.CacheEntry {
	out := make(map[string]types.CacheEntry, len(c.entries))
	for q, e := range c.entries {
		out[q] = e
	}
	return out
}

// Clear discards all entries and persists the empty state.
func (c *Cache) Clear() error {
	c.entries = map[string]types.CacheEntry{}
	return c.save()
}

// save rewrites the whole store. A crash mid-write may corrupt the file,
// which load tolerates by resetting to empty.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache %s: %w", c.path, err)
	}
	return nil
}
