// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single adapter invocation (default 20s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "icarus/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourcesConfig selects and configures the catalogue adapters.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the per-adapter result cap (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0,lte=1000"`

	// Offline replaces the network adapters with seeded synthetic generators.
	Offline bool `json:"offline" yaml:"offline" mapstructure:"offline"`

	// Seed drives the synthetic generators in offline mode.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	EnablePatentsView     bool `json:"enable_patentsview" yaml:"enable_patentsview" mapstructure:"enable_patentsview"`
	EnableArxiv           bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar" mapstructure:"enable_semantic_scholar"`
	EnableOpenAlex        bool `json:"enable_openalex" yaml:"enable_openalex" mapstructure:"enable_openalex"`

	PatentsViewAPIKey     string `json:"-" yaml:"-" mapstructure:"patentsview_api_key"`
	SemanticScholarAPIKey string `json:"-" yaml:"-" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as mailto for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// AIProvider names a text-completion backend.
type AIProvider string

const (
	ProviderNone      AIProvider = "none"
	ProviderAnthropic AIProvider = "anthropic"
	ProviderOpenAI    AIProvider = "openai"
	ProviderGroq      AIProvider = "groq"
	ProviderOllama    AIProvider = "ollama"
	ProviderGemini    AIProvider = "gemini"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the completion backend. "none" disables it and every
	// stage takes its deterministic path.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=none anthropic openai groq ollama gemini"`

	// Model is the model identifier for the selected provider.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible or Ollama).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is passed to providers that accept it.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`

	// MaxRetries is the number of retry attempts for failed API calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// PlannerConfig holds settings for query decomposition.
type PlannerConfig struct {
	// DefaultIPC is used when no classification code is extracted (default "B64G").
	DefaultIPC string `json:"default_ipc" yaml:"default_ipc" mapstructure:"default_ipc" validate:"required"`

	// WindowYears is the length of the default trailing date window (default 15).
	WindowYears int `json:"window_years" yaml:"window_years" mapstructure:"window_years" validate:"gte=1,lte=100"`

	// MaxKeywords caps the keywords taken from a structured response (default 8).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords" mapstructure:"max_keywords" validate:"gte=1"`
}

// GraphConfig holds settings for the citation graph builder.
type GraphConfig struct {
	// PriorArt is the number of earliest documents that emit no edges (default 3).
	PriorArt int `json:"prior_art" yaml:"prior_art" mapstructure:"prior_art" validate:"gte=1"`

	// MaxRefs caps the references emitted per document (default 3).
	MaxRefs int `json:"max_refs" yaml:"max_refs" mapstructure:"max_refs" validate:"gte=1"`

	// Seed makes edge selection reproducible. Unset means time-seeded;
	// any value, zero included, pins the selection.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
}

// SynthesisConfig holds settings for the summary synthesizer.
type SynthesisConfig struct {
	// RecencyThreshold is the date at or after which a document earns the
	// readiness recency bonus (default 2020-01-01).
	RecencyThreshold string `json:"recency_threshold" yaml:"recency_threshold" mapstructure:"recency_threshold"`

	// MaxInnovations caps the innovations list (default 5).
	MaxInnovations int `json:"max_innovations" yaml:"max_innovations" mapstructure:"max_innovations" validate:"gte=1"`

	// SampleDocuments is the number of documents shown to the backend (default 10).
	SampleDocuments int `json:"sample_documents" yaml:"sample_documents" mapstructure:"sample_documents" validate:"gte=1"`
}

// StoreConfig locates the run archive.
type StoreConfig struct {
	// Path is the SQLite database file (default "icarus.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Enabled turns on archiving of completed runs.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RunTimeout bounds a single research run served over HTTP (default 2m).
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout" mapstructure:"run_timeout"`
}

// ExportConfig holds settings for report exports.
type ExportConfig struct {
	// Dir is the local export directory (default "reports").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Bucket, when set, uploads exports to this S3 bucket.
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`

	AccessKey string `json:"-" yaml:"-" mapstructure:"access_key"`
	SecretKey string `json:"-" yaml:"-" mapstructure:"secret_key"`
}

// Config groups all settings. It is built once at startup and passed to
// the components that need it.
type Config struct {
	Sources   SourcesConfig   `json:"sources" yaml:"sources" mapstructure:"sources"`
	AI        AIConfig        `json:"ai" yaml:"ai" mapstructure:"ai"`
	Planner   PlannerConfig   `json:"planner" yaml:"planner" mapstructure:"planner"`
	Graph     GraphConfig     `json:"graph" yaml:"graph" mapstructure:"graph"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis" mapstructure:"synthesis"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Export    ExportConfig    `json:"export" yaml:"export" mapstructure:"export"`

	// Trends are the keyword groups the trend analyzer tracks. Empty means
	// the built-in aerospace groups.
	Trends []KeywordGroup `json:"trends,omitempty" yaml:"trends,omitempty" mapstructure:"trends"`

	// Parameters maps parameter names to canonical units for extraction.
	// Empty means the built-in vocabulary.
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`

	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
}
