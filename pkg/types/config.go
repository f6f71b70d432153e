// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "patent-query-optimizer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the patent search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of results requested per search (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Country restricts results to one patent office (e.g. "JP", "US").
	Country string `json:"country" yaml:"country"`

	// Language is the interface language hint sent to the provider (e.g. "ja").
	Language string `json:"language" yaml:"language"`

	// APIKey authenticates with the search provider. Required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// AIConfig holds settings for the language-model collaborator.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates with the model API. Required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL points at an OpenAI-compatible endpoint. Empty means the
	// default OpenAI API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// CacheConfig holds settings for the best-match patent cache.
type CacheConfig struct {
	// Path is the cache file location (default "patent_cache.json").
	Path string `json:"path" yaml:"path"`
}

// HistoryConfig holds settings for run-history persistence.
type HistoryConfig struct {
	// Dir is the base directory for per-run CSV exports (default "search_history").
	Dir string `json:"dir" yaml:"dir"`

	// IndexDir is the base directory for the run-history database
	// (contains runs.db; default "history/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// LoopConfig holds settings for the search loop.
type LoopConfig struct {
	// Iterations is the number of search passes to run (default 3).
	Iterations int `json:"iterations" yaml:"iterations"`

	// Optimize enables query rewriting between iterations.
	Optimize bool `json:"optimize" yaml:"optimize"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	History HistoryConfig `json:"history" yaml:"history"`
	Loop    LoopConfig    `json:"loop" yaml:"loop"`
}
