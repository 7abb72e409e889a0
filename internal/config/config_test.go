// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/internal/secrets"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.Sources.UserAgent)
	assert.Equal(t, 20, cfg.Sources.MaxResults)
	assert.Equal(t, types.ProviderNone, cfg.AI.Provider)
	assert.Equal(t, "B64G", cfg.Planner.DefaultIPC)
	assert.Equal(t, 15, cfg.Planner.WindowYears)
	assert.Equal(t, 3, cfg.Graph.PriorArt)
	assert.Equal(t, 3, cfg.Graph.MaxRefs)
	assert.Equal(t, 5, cfg.Synthesis.MaxInnovations)
	assert.Equal(t, 2*time.Minute, cfg.Server.RunTimeout)
}

func TestLoad_GraphSeed(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want *uint64
	}{
		{name: "unset is time-seeded"},
		{name: "zero is pinned", env: "0", want: new(uint64)},
		{name: "explicit", env: "12", want: func() *uint64 { n := uint64(12); return &n }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("ICARUS_GRAPH_SEED", tt.env)
			}
			v := viper.New()
			SetDefaults(v)
			BindEnv(v)

			cfg, err := Load(v, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Graph.Seed)
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icarus.yaml")
	yaml := `log_level: debug
sources:
  timeout: 5s
  offline: true
ai:
  provider: groq
  model: llama-3.1-8b-instant
  base_url: https://api.groq.com/openai/v1
trends:
  - name: Solar Sails
    keywords: [solar, sail]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("ICARUS_GRAPH_SEED", "7")
	t.Setenv("GROQ_API_KEY", "")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v, secrets.Secrets{"groq-api-key": "gsk_test"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.True(t, cfg.Sources.Offline)
	assert.Equal(t, types.ProviderGroq, cfg.AI.Provider)
	assert.Equal(t, "gsk_test", cfg.AI.APIKey)
	require.NotNil(t, cfg.Graph.Seed)
	assert.Equal(t, uint64(7), *cfg.Graph.Seed)
	require.Len(t, cfg.Trends, 1)
	assert.Equal(t, "Solar Sails", cfg.Trends[0].Name)
	assert.Equal(t, []string{"solar", "sail"}, cfg.Trends[0].Keywords)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*types.Config) {}},
		{name: "unknown provider", mutate: func(c *types.Config) { c.AI.Provider = "skynet" }, wantErr: true},
		{name: "bad log level", mutate: func(c *types.Config) { c.LogLevel = "chatty" }, wantErr: true},
		{name: "zero prior art", mutate: func(c *types.Config) { c.Graph.PriorArt = 0 }, wantErr: true},
		{name: "bad threshold", mutate: func(c *types.Config) { c.Synthesis.RecencyThreshold = "2020/01/01" }, wantErr: true},
		{name: "empty trend group", mutate: func(c *types.Config) {
			c.Trends = []types.KeywordGroup{{Name: "Empty"}}
		}, wantErr: true},
		{name: "missing ipc", mutate: func(c *types.Config) { c.Planner.DefaultIPC = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplySecrets_KeepsExplicitValues(t *testing.T) {
	t.Setenv("PATENTSVIEW_API_KEY", "")
	cfg := Default()
	cfg.AI.Provider = types.ProviderAnthropic
	cfg.AI.APIKey = "explicit"
	ApplySecrets(&cfg, secrets.Secrets{
		"anthropic-api-key":   "from-file",
		"patentsview-api-key": "pv",
	})
	assert.Equal(t, "explicit", cfg.AI.APIKey)
	assert.Equal(t, "pv", cfg.Sources.PatentsViewAPIKey)
}

func TestRecencyThreshold(t *testing.T) {
	got, err := RecencyThreshold(types.SynthesisConfig{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = RecencyThreshold(types.SynthesisConfig{RecencyThreshold: "2022-06-01"})
	require.NoError(t, err)
	assert.Equal(t, 2022, got.Year())
}
