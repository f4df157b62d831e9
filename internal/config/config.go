package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIMode selects how the upstream backend is reached.
type APIMode string

const (
	// APIModeLive talks to the real backend at backend.base_url.
	APIModeLive APIMode = "live"
	// APIModeMock mounts an in-process simulated backend and points the
	// client at it. Used for offline development and demos.
	APIModeMock APIMode = "mock"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Generate GenerateConfig `mapstructure:"generate"`
	Images   ImagesConfig   `mapstructure:"images"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type BackendConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIMode        APIMode `mapstructure:"api_mode"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

type FeedConfig struct {
	PageSize       int `mapstructure:"page_size"`
	DebounceMs     int `mapstructure:"debounce_ms"`
	RetryAttempts  int `mapstructure:"retry_attempts"`
}

type LayoutConfig struct {
	Gap      int `mapstructure:"gap"`
	Overscan int `mapstructure:"overscan"`
}

type GenerateConfig struct {
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	StorePath      string `mapstructure:"store_path"`
}

type ImagesConfig struct {
	CacheType string   `mapstructure:"cache_type"` // memory or s3
	S3        S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("backend.api_mode", "live")
	v.SetDefault("backend.timeout_seconds", 30)
	v.SetDefault("feed.page_size", 30)
	v.SetDefault("feed.debounce_ms", 1000)
	v.SetDefault("feed.retry_attempts", 2)
	v.SetDefault("layout.gap", 8)
	v.SetDefault("layout.overscan", 5)
	v.SetDefault("generate.poll_interval_ms", 2000)
	v.SetDefault("generate.store_path", "./data/memeboard.db")
	v.SetDefault("images.cache_type", "memory")
	v.SetDefault("images.s3.use_ssl", false)
	v.SetDefault("images.s3.bucket", "memeboard-images")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for deployment-sensitive values
	v.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	v.BindEnv("backend.api_mode", "API_MODE")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("images.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("images.s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("images.s3.secret_key", "S3_SECRET_KEY")
	v.BindEnv("images.s3.bucket", "S3_BUCKET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the process must not run under.
// A misconfigured backend URL or mode aborts startup rather than leaving
// the app in an undefined half-working state.
func (c *Config) Validate() error {
	switch c.Backend.APIMode {
	case APIModeLive:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("config: backend.base_url is required when backend.api_mode is %q (set BACKEND_BASE_URL)", APIModeLive)
		}
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
		}
	case APIModeMock:
		// Base URL is assigned by the in-process mock server.
	default:
		return fmt.Errorf("config: backend.api_mode %q is invalid (expected %q or %q)",
			c.Backend.APIMode, APIModeLive, APIModeMock)
	}

	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("config: feed.page_size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Generate.PollIntervalMs <= 0 {
		return fmt.Errorf("config: generate.poll_interval_ms must be positive, got %d", c.Generate.PollIntervalMs)
	}

	switch c.Images.CacheType {
	case "memory", "s3":
	default:
		return fmt.Errorf("config: images.cache_type %q is invalid (expected \"memory\" or \"s3\")", c.Images.CacheType)
	}

	return nil
}
