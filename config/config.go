package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BaseURLEnv overrides upstream.base_url. It is the only environment-persisted setting.
const BaseURLEnv = "POS_API_URL"

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Poller     PollerConfig     `yaml:"poller"`
	Search     SearchConfig     `yaml:"search"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Push       PushConfig       `yaml:"push"`
	Log        LogConfig        `yaml:"log"`
	Dev        DevConfig        `yaml:"dev"`
	Menu       []MenuItem       `yaml:"menu"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// UpstreamConfig describes the remote POS API.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	RetryCount     int           `yaml:"retry_count"`
	HTTPProxy      string        `yaml:"http_proxy"`
	LegacyFallback bool          `yaml:"legacy_fallback"`
}

// PollerConfig controls the periodic refresh of the state tree.
type PollerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
}

// SearchConfig holds the free-text search debounce window.
type SearchConfig struct {
	DebounceMillis int           `yaml:"debounce_ms"`
	Debounce       time.Duration `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the detached task pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// WorkflowConfig controls how long an abandoned tab-creation or cart session is kept.
type WorkflowConfig struct {
	SessionTTLMinutes int           `yaml:"session_ttl_minutes"`
	SessionTTL        time.Duration `yaml:"-"`
}

// PushConfig holds the VAPID keys for idle-table web push alerts.
type PushConfig struct {
	PublicKey            string `yaml:"vapid_public_key"`
	PrivateKey           string `yaml:"vapid_private_key"`
	Subject              string `yaml:"subject"`
	TTL                  int    `yaml:"ttl"`
	AlertCooldownMinutes int    `yaml:"alert_cooldown_minutes"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DevConfig configures the local fake of the remote API started with --dev.
type DevConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	DSN     string `yaml:"dsn"`
	Seed    bool   `yaml:"seed"`
}

// MenuItem is one product of the menu catalog.
type MenuItem struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// Load reads the configuration from the given path. A .env file next to the working directory
// is loaded first so POS_API_URL can be kept out of the YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, for tests and --dev runs without a file.
func Default() *Config {
	cfg := &Config{Poller: PollerConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if url := os.Getenv(BaseURLEnv); url != "" {
		cfg.Upstream.BaseURL = url
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://localhost:4000"
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 10
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	if cfg.Upstream.RetryCount < 0 {
		cfg.Upstream.RetryCount = 0
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 20
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Poller.IntervalSeconds <= 0 {
		cfg.Poller.IntervalSeconds = 30
	}
	cfg.Poller.Interval = time.Duration(cfg.Poller.IntervalSeconds) * time.Second

	if cfg.Search.DebounceMillis <= 0 {
		cfg.Search.DebounceMillis = 500
	}
	cfg.Search.Debounce = time.Duration(cfg.Search.DebounceMillis) * time.Millisecond

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 2
	}

	if cfg.Workflow.SessionTTLMinutes <= 0 {
		cfg.Workflow.SessionTTLMinutes = 30
	}
	cfg.Workflow.SessionTTL = time.Duration(cfg.Workflow.SessionTTLMinutes) * time.Minute

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.AlertCooldownMinutes <= 0 {
		cfg.Push.AlertCooldownMinutes = 15
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Dev.Port <= 0 {
		cfg.Dev.Port = 4000
	}
	if cfg.Dev.DSN == "" {
		cfg.Dev.DSN = "file::memory:?cache=shared"
	}
}
