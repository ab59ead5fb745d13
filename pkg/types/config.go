// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for network-facing components.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-lens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the E-utilities endpoint root. Tests point this at an
	// httptest server.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the NCBI API key. Without one the service allows 3
	// requests/second; with one, 10.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Tool and Email identify the caller per E-utilities etiquette.
	Tool  string `json:"tool" yaml:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// RequestsPerSecond is the global outbound rate ceiling shared by
	// all in-flight searches (default 3).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries bounds retry attempts on rate-limit and transient
	// server errors (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PageSize is the number of IDs requested per esearch call
	// (default 100, the service maximum for JSON responses).
	PageSize int `json:"page_size" yaml:"page_size"`

	// SummaryBatchSize is the number of PMIDs per efetch call
	// (default 100).
	SummaryBatchSize int `json:"summary_batch_size" yaml:"summary_batch_size"`
}

// EngineConfig holds settings for the aggregation engine.
type EngineConfig struct {
	// MaxConcurrent bounds simultaneous term fetches across all
	// manufacturers (default 4). The client's rate limiter still
	// applies underneath.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// MaxSample caps the number of articles fetched per resolved term
	// for statistics (default 1000).
	MaxSample int `json:"max_sample" yaml:"max_sample"`
}

// StoreConfig selects and locates the identity store backend.
type StoreConfig struct {
	// Backend is "yaml" or "sqlite".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the YAML file or SQLite database path.
	Path string `json:"path" yaml:"path"`
}

// Config groups all component configurations.
type Config struct {
	PubMed PubMedConfig `json:"pubmed" yaml:"pubmed"`
	Engine EngineConfig `json:"engine" yaml:"engine"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
