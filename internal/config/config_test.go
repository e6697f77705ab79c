package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osintlabs/numharvest/internal/harvest"
)

const sampleConfig = `
server:
  port: 9090
logging:
  development: false
regions:
  - name: India
    tag: in
    dial_code: "91"
    search_tokens: ["india", "indian"]
  - name: Bangladesh
    tag: bd
    dial_code: "880"
    search_tokens: ["bangladesh"]
categories:
  - name: crypto
    keywords: ["binance", "bitcoin"]
  - name: trading
    keywords: ["signal", "forex"]
base_phrases:
  - "contact number"
  - "whatsapp group"
sources:
  - id: forum
    kind: filedrop
    enabled: true
    min_delay_ms: 1500
    dir: testdata/forum
  - id: board
    kind: noop
    enabled: false
validation:
  min_digits: 10
  max_digits: 15
  default_region_tag: in
timing:
  cycle_period_seconds: 30
  max_session_minutes: 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.False(t, cfg.Logging.Development)
	require.Len(t, cfg.Regions, 2)
	require.Equal(t, harvest.Region{
		Name:         "India",
		Tag:          "in",
		DialCode:     "91",
		SearchTokens: []string{"india", "indian"},
	}, cfg.Regions[0])
	require.Equal(t, "crypto", cfg.Categories[0].Name)
	require.Equal(t, []string{"contact number", "whatsapp group"}, cfg.BasePhrases)
	require.Equal(t, 1500*time.Millisecond, cfg.Sources[0].MinDelay())
	require.False(t, cfg.Sources[1].Enabled)
	require.Equal(t, 30*time.Second, cfg.Timing.CyclePeriod())
	require.Equal(t, time.Hour, cfg.Timing.MaxSession())
}

func TestLoad_DefaultsApplied(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, 10000, cfg.Limits.MaxEntries)
	require.Equal(t, 200, cfg.Limits.ExcerptLength)
	require.Equal(t, 5, cfg.Limits.TermsPerSource)
	require.Equal(t, 5*time.Minute, cfg.Timing.Autosave())
	require.Equal(t, time.Minute, cfg.Timing.StatsWindow())
	require.Equal(t, "file", cfg.Storage.Provider)
	require.Equal(t, "noop", cfg.Archive.Provider)
	require.Equal(t, "log", cfg.Notify.Provider)
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	valid, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "no regions", mutate: func(c *Config) { c.Regions = nil }},
		{name: "region without dial code", mutate: func(c *Config) { c.Regions[0].DialCode = "" }},
		{name: "digit bounds inverted", mutate: func(c *Config) { c.Validation.MaxDigits = 5 }},
		{name: "zero max entries", mutate: func(c *Config) { c.Limits.MaxEntries = 0 }},
		{name: "duplicate source ids", mutate: func(c *Config) { c.Sources[1].ID = c.Sources[0].ID }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Provider = "postgres" }},
		{name: "unknown storage provider", mutate: func(c *Config) { c.Storage.Provider = "tape" }},
		{name: "gcs without bucket", mutate: func(c *Config) { c.Archive.Provider = "gcs" }},
		{name: "pubsub without topic", mutate: func(c *Config) { c.Notify.Provider = "pubsub" }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			cfg.Regions = append([]harvest.Region(nil), valid.Regions...)
			cfg.Sources = append([]SourceConfig(nil), valid.Sources...)
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
