// Package config loads and validates the skill hub configuration: a single
// YAML document with sources, evaluation, integration, security, and cache
// sections. Values can be overridden through SKILLHUB_* environment
// variables. Missing sections fall back to the documented defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SourceConfig holds per-adapter options.
type SourceConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Priority orders adapters during fan-out searches; lower runs first.
	Priority int `mapstructure:"priority"`
	// Tool is the external command-line tool the adapter shells out to,
	// for adapters that have one.
	Tool string `mapstructure:"tool"`
	// APIKeyEnv names the environment variable carrying the adapter's
	// credential. Unset variable means the adapter declares itself
	// unavailable when the credential is required.
	APIKeyEnv string `mapstructure:"api_key_env"`
	// Path is the scan root for the local adapter.
	Path string `mapstructure:"path"`
}

// SourcesConfig groups the per-adapter sections.
type SourcesConfig struct {
	OfficialRegistry  SourceConfig `mapstructure:"official_registry"`
	Local             SourceConfig `mapstructure:"local"`
	PluginMarketplace SourceConfig `mapstructure:"plugin_marketplace"`
	CodeHost          SourceConfig `mapstructure:"code_host"`
}

// EvaluationConfig holds the decision engine thresholds.
type EvaluationConfig struct {
	OverlapThreshold float64 `mapstructure:"overlap_threshold"` // [0, 1]
	QualityThreshold float64 `mapstructure:"quality_threshold"` // [0, 1], scaled to 0-100 at decision time
	AutoAdapt        bool    `mapstructure:"auto_adapt"`
}

// IntegrationConfig wires adapted skills into the local catalogue.
type IntegrationConfig struct {
	SkillsPath    string `mapstructure:"skills_path"`
	RouterPath    string `mapstructure:"router_path"`
	AutoRegister  bool   `mapstructure:"auto_register"`
	ScanOnStartup bool   `mapstructure:"scan_on_startup"`
}

// SecurityConfig tunes the safety pre-scanner.
type SecurityConfig struct {
	ScanOnInstall       bool `mapstructure:"scan_on_install"`
	AllowUnknownSources bool `mapstructure:"allow_unknown_sources"`
	MaxDependencyCount  int  `mapstructure:"max_dependency_count"`
	// RiskyDependencies is the dependency blocklist matched as lowercase
	// substrings.
	RiskyDependencies []string `mapstructure:"risky_dependencies"`
	// AntiPatterns maps a named forbidden-phrase group to its phrases for
	// the style anchor checker.
	AntiPatterns map[string][]string `mapstructure:"anti_patterns"`
}

// CacheConfig locates the metadata cache.
type CacheConfig struct {
	Dir           string `mapstructure:"dir"`
	DBPath        string `mapstructure:"db_path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config is the root configuration document.
type Config struct {
	Sources     SourcesConfig     `mapstructure:"sources"`
	Evaluation  EvaluationConfig  `mapstructure:"evaluation"`
	Integration IntegrationConfig `mapstructure:"integration"`
	Security    SecurityConfig    `mapstructure:"security"`
	Cache       CacheConfig       `mapstructure:"cache"`
}

// DefaultRiskyDependencies is the built-in dependency blocklist, used when
// the security section does not provide one.
var DefaultRiskyDependencies = []string{"request", "urllib"}

// DefaultAntiPatterns is the built-in forbidden-phrase dictionary for the
// style anchor checker.
var DefaultAntiPatterns = map[string][]string{
	"generic AI aesthetics": {"inter", "roboto", "purple gradient", "rounded card"},
	"academic cliches":      {"as is well known", "of great significance", "further research is needed"},
	"over-abstraction":      {"implementation omitted", "obviously", "left to the reader"},
	"buzzword stacking":     {"disruptive", "paradigm shift", "revolutionary", "game-changing"},
}

// SetDefaults registers the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sources.official_registry.enabled", true)
	v.SetDefault("sources.official_registry.priority", 1)
	v.SetDefault("sources.official_registry.tool", "skillslm")
	v.SetDefault("sources.local.enabled", true)
	v.SetDefault("sources.local.priority", 0)
	v.SetDefault("sources.plugin_marketplace.enabled", true)
	v.SetDefault("sources.plugin_marketplace.priority", 2)
	v.SetDefault("sources.plugin_marketplace.tool", "42plugin")
	v.SetDefault("sources.plugin_marketplace.api_key_env", "SKILLHUB_MARKETPLACE_API_KEY")
	v.SetDefault("sources.code_host.enabled", true)
	v.SetDefault("sources.code_host.priority", 3)
	v.SetDefault("sources.code_host.api_key_env", "GITHUB_TOKEN")

	v.SetDefault("evaluation.overlap_threshold", 0.8)
	v.SetDefault("evaluation.quality_threshold", 0.6)
	v.SetDefault("evaluation.auto_adapt", true)

	v.SetDefault("integration.auto_register", true)
	v.SetDefault("integration.scan_on_startup", true)

	v.SetDefault("security.scan_on_install", true)
	v.SetDefault("security.allow_unknown_sources", false)
	v.SetDefault("security.max_dependency_count", 20)

	v.SetDefault("cache.retention_days", 7)
}

// Load reads the configuration from the given path, or from the default
// search locations when path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("SKILLHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	} else {
		v.SetConfigName("skillhub-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.skillhub")
		// Missing config file is fine; defaults apply.
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	applyFallbacks(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFallbacks(cfg *Config) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(home, ".skillhub", "cache")
	}
	if cfg.Cache.DBPath == "" {
		cfg.Cache.DBPath = filepath.Join(home, ".skillhub", "skills.db")
	}
	if cfg.Integration.SkillsPath == "" {
		cfg.Integration.SkillsPath = filepath.Join(home, ".claude", "skills")
	}
	if cfg.Sources.Local.Path == "" {
		cfg.Sources.Local.Path = cfg.Integration.SkillsPath
	}
	if len(cfg.Security.RiskyDependencies) == 0 {
		cfg.Security.RiskyDependencies = DefaultRiskyDependencies
	}
	if len(cfg.Security.AntiPatterns) == 0 {
		cfg.Security.AntiPatterns = DefaultAntiPatterns
	}
}

// Validate checks threshold ranges.
func (c *Config) Validate() error {
	if c.Evaluation.OverlapThreshold < 0 || c.Evaluation.OverlapThreshold > 1 {
		return errors.Errorf("evaluation.overlap_threshold must be in [0, 1], got %v", c.Evaluation.OverlapThreshold)
	}
	if c.Evaluation.QualityThreshold < 0 || c.Evaluation.QualityThreshold > 1 {
		return errors.Errorf("evaluation.quality_threshold must be in [0, 1], got %v", c.Evaluation.QualityThreshold)
	}
	if c.Cache.RetentionDays < 0 {
		return errors.Errorf("cache.retention_days must not be negative, got %d", c.Cache.RetentionDays)
	}
	return nil
}

// APIKey resolves the credential for a source config from its environment
// variable. Empty when unset.
func (s SourceConfig) APIKey() string {
	if s.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.APIKeyEnv)
}
