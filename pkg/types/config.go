// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the OpenAlex catalog client.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// PageSize is the requested page size (default 25).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPageSize is the client-side page-size ceiling (default 200).
	// The catalog rejects larger pages, so requests are clamped to this
	// on every call regardless of what was asked for.
	MaxPageSize int `json:"max_page_size" yaml:"max_page_size"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Sort is the catalog sort key (default "publication_date:desc").
	// Sorting is always delegated to the catalog, never recomputed locally.
	Sort string `json:"sort" yaml:"sort"`
}

// LLMConfig holds settings for calls to the language-model API.
type LLMConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DialogConfig holds settings for the conversation state machine.
type DialogConfig struct {
	// DefaultMaxResults is the result count used when the user did not
	// state one (default 25).
	DefaultMaxResults int `json:"default_max_results" yaml:"default_max_results"`

	// MaxResultsCeiling caps the result count a user may request
	// (default 500).
	MaxResultsCeiling int `json:"max_results_ceiling" yaml:"max_results_ceiling"`

	// HistoryWindow is the number of recent turns replayed to the
	// extractor as context (default 10).
	HistoryWindow int `json:"history_window" yaml:"history_window"`

	// OptimizeQueries enables keyword reduction of long queries before
	// they are sent to the catalog (default true).
	OptimizeQueries bool `json:"optimize_queries" yaml:"optimize_queries"`

	// OptimizeThreshold is the query length above which keyword
	// reduction applies (default 50).
	OptimizeThreshold int `json:"optimize_threshold" yaml:"optimize_threshold"`
}

// RetrievalConfig holds settings for the pagination loop.
type RetrievalConfig struct {
	// MaxPages is a hard ceiling on page fetches per retrieval. Zero
	// means derive it from the requested count and page size.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// HistoryConfig holds settings for the search archive.
type HistoryConfig struct {
	// Dir is the directory holding the archive database (default
	// "history"). Empty disables archiving.
	Dir string `json:"dir" yaml:"dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Port is the TCP port to listen on (default "8000").
	Port string `json:"port" yaml:"port"`

	// AllowedOrigins lists CORS origins permitted to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// AgentConfig groups all component configurations.
type AgentConfig struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Dialog    DialogConfig    `json:"dialog" yaml:"dialog"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
