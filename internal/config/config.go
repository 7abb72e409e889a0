// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the runtime configuration from defaults, a
// config file, ICARUS_* environment variables and the secrets directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/spf13/viper"

	"github.com/ashr-exe/icarus-insight/internal/secrets"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// EnvPrefix is the prefix of environment overrides (e.g. ICARUS_AI_PROVIDER).
const EnvPrefix = "ICARUS"

// DefaultUserAgent identifies icarus to the catalogues.
const DefaultUserAgent = "icarus/0.1"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("sources.timeout", 20*time.Second)
	v.SetDefault("sources.user_agent", DefaultUserAgent)
	v.SetDefault("sources.max_results", 20)
	v.SetDefault("sources.offline", false)
	v.SetDefault("sources.seed", 42)
	v.SetDefault("sources.enable_patentsview", true)
	v.SetDefault("sources.enable_arxiv", true)
	v.SetDefault("sources.enable_semantic_scholar", true)
	v.SetDefault("sources.enable_openalex", false)
	v.SetDefault("sources.patentsview_api_key", "")
	v.SetDefault("sources.semantic_scholar_api_key", "")
	v.SetDefault("sources.openalex_email", "")

	v.SetDefault("ai.provider", string(types.ProviderNone))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_retries", 2)

	v.SetDefault("planner.default_ipc", "B64G")
	v.SetDefault("planner.window_years", 15)
	v.SetDefault("planner.max_keywords", 8)

	v.SetDefault("graph.prior_art", 3)
	v.SetDefault("graph.max_refs", 3)

	v.SetDefault("synthesis.recency_threshold", "2020-01-01")
	v.SetDefault("synthesis.max_innovations", 5)
	v.SetDefault("synthesis.sample_documents", 10)

	v.SetDefault("store.path", "icarus.db")
	v.SetDefault("store.enabled", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.run_timeout", 2*time.Minute)

	v.SetDefault("export.dir", "reports")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.region", "")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.prefix", "")
	v.SetDefault("export.access_key", "")
	v.SetDefault("export.secret_key", "")
}

// BindEnv enables ICARUS_SECTION_KEY environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// graph.seed has no default so that an unset seed stays nil.
	_ = v.BindEnv("graph.seed")
}

// Load unmarshals v into a Config, fills credentials from s where the
// config leaves them empty, and validates the result.
func Load(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	ApplySecrets(&cfg, s)
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() types.Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v, nil)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// providerSecrets maps each provider to its key file and environment variable.
var providerSecrets = map[types.AIProvider][2]string{
	types.ProviderAnthropic: {"anthropic-api-key", "ANTHROPIC_API_KEY"},
	types.ProviderOpenAI:    {"openai-api-key", "OPENAI_API_KEY"},
	types.ProviderGroq:      {"groq-api-key", "GROQ_API_KEY"},
	types.ProviderGemini:    {"gemini-api-key", "GEMINI_API_KEY"},
	types.ProviderOllama:    {"ollama-api-key", "OLLAMA_API_KEY"},
}

// ApplySecrets fills empty credential fields of cfg from s.
func ApplySecrets(cfg *types.Config, s secrets.Secrets) {
	fill := func(dst *string, key string, env ...string) {
		if *dst == "" {
			*dst = s.Lookup(key, env...)
		}
	}
	if ps, ok := providerSecrets[cfg.AI.Provider]; ok {
		fill(&cfg.AI.APIKey, ps[0], ps[1])
	}
	fill(&cfg.Sources.PatentsViewAPIKey, "patentsview-api-key", "PATENTSVIEW_API_KEY")
	fill(&cfg.Sources.SemanticScholarAPIKey, "semantic-scholar-api-key", "SEMANTIC_SCHOLAR_API_KEY")
	fill(&cfg.Sources.OpenAlexEmail, "openalex-email")
	fill(&cfg.Export.AccessKey, "aws-access-key", "AWS_ACCESS_KEY_ID")
	fill(&cfg.Export.SecretKey, "aws-secret-key", "AWS_SECRET_ACCESS_KEY")
}

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func Validate(cfg types.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := RecencyThreshold(cfg.Synthesis); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for i, g := range cfg.Trends {
		if strings.TrimSpace(g.Name) == "" || len(g.Keywords) == 0 {
			return fmt.Errorf("invalid config: trend group %d needs a name and keywords", i)
		}
	}
	return nil
}

// RecencyThreshold parses the configured readiness recency threshold.
func RecencyThreshold(c types.SynthesisConfig) (time.Time, error) {
	if c.RecencyThreshold == "" {
		return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", c.RecencyThreshold)
	if err != nil {
		return time.Time{}, fmt.Errorf("recency_threshold %q: %w", c.RecencyThreshold, err)
	}
	return t, nil
}
