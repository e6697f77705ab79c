// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Config captures all service configuration knobs loaded via Viper. It is
// loaded once at process start and read-only thereafter; components receive
// the slices they need through their constructors.
type Config struct {
	Server      ServerConfig       `mapstructure:"server"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Regions     []harvest.Region   `mapstructure:"regions"`
	Categories  []harvest.Category `mapstructure:"categories"`
	BasePhrases []string           `mapstructure:"base_phrases"`
	Sources     []SourceConfig     `mapstructure:"sources"`
	Validation  ValidationConfig   `mapstructure:"validation"`
	Limits      LimitsConfig       `mapstructure:"limits"`
	Timing      TimingConfig       `mapstructure:"timing"`
	Storage     StorageConfig      `mapstructure:"storage"`
	Archive     ArchiveConfig      `mapstructure:"archive"`
	Notify      NotifyConfig       `mapstructure:"notify"`
	Report      ReportConfig       `mapstructure:"report"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SourceConfig describes one connector registration.
type SourceConfig struct {
	ID         string `mapstructure:"id"`
	Kind       string `mapstructure:"kind"`
	Enabled    bool   `mapstructure:"enabled"`
	MinDelayMs int    `mapstructure:"min_delay_ms"`
	Dir        string `mapstructure:"dir"`
}

// MinDelay returns the per-source minimum inter-request gap.
func (s SourceConfig) MinDelay() time.Duration {
	return time.Duration(s.MinDelayMs) * time.Millisecond
}

// ValidationConfig bounds accepted identifiers.
type ValidationConfig struct {
	MinDigits        int    `mapstructure:"min_digits"`
	MaxDigits        int    `mapstructure:"max_digits"`
	DefaultRegionTag string `mapstructure:"default_region_tag"`
}

// LimitsConfig caps collection growth and per-cycle work.
type LimitsConfig struct {
	MaxEntries     int `mapstructure:"max_entries"`
	ExcerptLength  int `mapstructure:"excerpt_length"`
	TermsPerSource int `mapstructure:"terms_per_source"`
}

// TimingConfig drives the scheduler.
type TimingConfig struct {
	CyclePeriodSeconds int `mapstructure:"cycle_period_seconds"`
	MaxSessionMinutes  int `mapstructure:"max_session_minutes"`
	AutosaveSeconds    int `mapstructure:"autosave_seconds"`
	StatsWindowSeconds int `mapstructure:"stats_window_seconds"`
}

// CyclePeriod returns the recurring cycle interval.
func (t TimingConfig) CyclePeriod() time.Duration {
	return time.Duration(t.CyclePeriodSeconds) * time.Second
}

// MaxSession returns the maximum session duration before auto-stop.
func (t TimingConfig) MaxSession() time.Duration {
	return time.Duration(t.MaxSessionMinutes) * time.Minute
}

// Autosave returns the periodic persistence interval.
func (t TimingConfig) Autosave() time.Duration {
	return time.Duration(t.AutosaveSeconds) * time.Second
}

// StatsWindow returns the trailing window for the new-entries statistic.
func (t TimingConfig) StatsWindow() time.Duration {
	return time.Duration(t.StatsWindowSeconds) * time.Second
}

// StorageConfig selects and configures the snapshot store.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
}

// ArchiveConfig selects the optional snapshot archive blob store.
type ArchiveConfig struct {
	Provider string `mapstructure:"provider"`
	Dir      string `mapstructure:"dir"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// NotifyConfig selects the notification publisher.
type NotifyConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// ReportConfig controls report artifact generation.
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NUMHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
	v.SetDefault("validation.min_digits", 10)
	v.SetDefault("validation.max_digits", 15)
	v.SetDefault("limits.max_entries", 10000)
	v.SetDefault("limits.excerpt_length", 200)
	v.SetDefault("limits.terms_per_source", 5)
	v.SetDefault("timing.cycle_period_seconds", 60)
	v.SetDefault("timing.max_session_minutes", 120)
	v.SetDefault("timing.autosave_seconds", 300)
	v.SetDefault("timing.stats_window_seconds", 60)
	v.SetDefault("storage.provider", "file")
	v.SetDefault("storage.path", "data/entries.json")
	v.SetDefault("storage.table", "entries")
	v.SetDefault("archive.provider", "noop")
	v.SetDefault("archive.dir", "archive")
	v.SetDefault("archive.prefix", "snapshots")
	v.SetDefault("notify.provider", "log")
	v.SetDefault("report.dir", "reports")
}

// Validate enforces required values and reasonable limits. A failure here is
// fatal at process start.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one target region is required")
	}
	for _, r := range c.Regions {
		if r.Name == "" || r.DialCode == "" {
			return fmt.Errorf("region %q must have a name and dial_code", r.Name)
		}
	}
	if c.Validation.MinDigits <= 0 || c.Validation.MaxDigits < c.Validation.MinDigits {
		return fmt.Errorf("validation digit bounds are inconsistent")
	}
	if c.Limits.MaxEntries <= 0 {
		return fmt.Errorf("limits.max_entries must be > 0")
	}
	if c.Timing.CyclePeriodSeconds <= 0 {
		return fmt.Errorf("timing.cycle_period_seconds must be > 0")
	}
	if c.Timing.MaxSessionMinutes <= 0 {
		return fmt.Errorf("timing.max_session_minutes must be > 0")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		if s.ID == "" {
			return fmt.Errorf("source id must not be empty")
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	switch c.Storage.Provider {
	case "file", "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres provider")
		}
	default:
		return fmt.Errorf("unknown storage provider %q", c.Storage.Provider)
	}
	switch c.Archive.Provider {
	case "noop", "local":
	case "gcs":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket is required for the gcs provider")
		}
	default:
		return fmt.Errorf("unknown archive provider %q", c.Archive.Provider)
	}
	switch c.Notify.Provider {
	case "log", "memory":
	case "pubsub":
		if c.Notify.ProjectID == "" || c.Notify.TopicID == "" {
			return fmt.Errorf("notify.project_id and notify.topic_id are required for the pubsub provider")
		}
	default:
		return fmt.Errorf("unknown notify provider %q", c.Notify.Provider)
	}
	return nil
}
