package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/spf13/viper"
)

// Filter policies.
const (
	PolicyAllowList         = "allow-list"
	PolicyAcceptAllWithText = "accept-all-with-text"
)

// Extraction strategies.
const (
	StrategyBoundary      = "boundary"
	StrategyKeyValue      = "key-value"
	StrategyLanguageModel = "language-model"
)

// DefaultSource is the mail client whose notifications carry transaction JSON.
const DefaultSource = "com.google.android.gm"

// DedupeWindow is how long identical candidates are suppressed.
const DedupeWindow = 30 * time.Second

// Config is the fully resolved application configuration.
type Config struct {
	Logging  LoggingConfig
	Filter   FilterConfig
	Extract  ExtractConfig
	Dedupe   DedupeConfig
	Submit   SubmitConfig
	LLM      LLMConfig
	Location LocationConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Server   ServerConfig
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string
	Format string
}

// FilterConfig selects the notification filter policy.
type FilterConfig struct {
	Policy      string
	Sources     []string
	DebugEvents bool
}

// ExtractConfig selects the extraction strategy.
type ExtractConfig struct {
	Strategy string
}

// DedupeConfig tunes the duplicate suppression sweep.
type DedupeConfig struct {
	SweepBatch int
}

// SubmitConfig describes the scoring endpoint.
type SubmitConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// LLMConfig configures the text-completion provider used by the language-model strategy.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	CacheTTL    time.Duration
	RateLimit   int
}

// LocationConfig controls device location enrichment.
type LocationConfig struct {
	Enabled   bool
	Latitude  float64
	Longitude float64
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string
}

// PipelineConfig sizes the worker pool.
type PipelineConfig struct {
	Workers int
}

// ServerConfig configures the HTTP ingestion API.
type ServerConfig struct {
	Addr    string
	TLS     bool
	CertDir string
	Hosts   []string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("filter.policy", PolicyAllowList)
	v.SetDefault("filter.sources", []string{DefaultSource})
	v.SetDefault("filter.debug_events", true)
	v.SetDefault("extract.strategy", StrategyBoundary)
	v.SetDefault("dedupe.sweep_batch", 256)
	v.SetDefault("submit.timeout", 30*time.Second)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.cache_ttl", 10*time.Minute)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("location.enabled", false)
	v.SetDefault("storage.path", filepath.Join(DataDir(), "spicewatch.db"))
	v.SetDefault("pipeline.workers", 8)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", filepath.Join(DataDir(), "certs"))
}

// Load reads a Config out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Filter: FilterConfig{
			Policy:      strings.ToLower(v.GetString("filter.policy")),
			Sources:     v.GetStringSlice("filter.sources"),
			DebugEvents: v.GetBool("filter.debug_events"),
		},
		Extract: ExtractConfig{
			Strategy: strings.ToLower(v.GetString("extract.strategy")),
		},
		Dedupe: DedupeConfig{
			SweepBatch: v.GetInt("dedupe.sweep_batch"),
		},
		Submit: SubmitConfig{
			Endpoint: strings.TrimRight(v.GetString("submit.endpoint"), "/"),
			Token:    v.GetString("submit.token"),
			Timeout:  v.GetDuration("submit.timeout"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Timeout:     v.GetDuration("llm.timeout"),
			CacheTTL:    v.GetDuration("llm.cache_ttl"),
			RateLimit:   v.GetInt("llm.rate_limit"),
		},
		Location: LocationConfig{
			Enabled:   v.GetBool("location.enabled"),
			Latitude:  v.GetFloat64("location.latitude"),
			Longitude: v.GetFloat64("location.longitude"),
		},
		Storage: StorageConfig{
			Path: ExpandPath(v.GetString("storage.path")),
		},
		Pipeline: PipelineConfig{
			Workers: v.GetInt("pipeline.workers"),
		},
		Server: ServerConfig{
			Addr:    v.GetString("server.addr"),
			TLS:     v.GetBool("server.tls"),
			CertDir: ExpandPath(v.GetString("server.cert_dir")),
			Hosts:   v.GetStringSlice("server.hosts"),
		},
	}

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration names a single explicit filter policy
// and extraction strategy.
func (c Config) Validate() error {
	switch c.Filter.Policy {
	case PolicyAllowList:
		if len(c.Filter.Sources) == 0 {
			return fmt.Errorf("%w: filter.sources must list at least one source for %s", common.ErrInvalidConfig, PolicyAllowList)
		}
	case PolicyAcceptAllWithText:
	default:
		return fmt.Errorf("%w: unknown filter.policy %q (want %s or %s)",
			common.ErrInvalidConfig, c.Filter.Policy, PolicyAllowList, PolicyAcceptAllWithText)
	}

	switch c.Extract.Strategy {
	case StrategyBoundary, StrategyKeyValue:
	case StrategyLanguageModel:
		if c.LLM.Provider == "" {
			return fmt.Errorf("%w: llm.provider is required for %s", common.ErrMissingConfig, StrategyLanguageModel)
		}
	default:
		return fmt.Errorf("%w: unknown extract.strategy %q", common.ErrInvalidConfig, c.Extract.Strategy)
	}

	if c.Dedupe.SweepBatch <= 0 {
		return fmt.Errorf("%w: dedupe.sweep_batch must be positive", common.ErrInvalidConfig)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("%w: pipeline.workers must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// RequireEndpoint reports a missing scoring endpoint. Commands that submit call it;
// session and history commands do not need one.
func (c Config) RequireEndpoint() error {
	if c.Submit.Endpoint == "" {
		return fmt.Errorf("%w: submit.endpoint", common.ErrMissingConfig)
	}
	return nil
}
