package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 3000, Mode: "debug"},
		Backend: BackendConfig{BaseURL: "https://api.example.com", APIMode: APIModeLive, TimeoutSeconds: 30},
		Feed:    FeedConfig{PageSize: 30, DebounceMs: 1000, RetryAttempts: 2},
		Layout:  LayoutConfig{Gap: 8, Overscan: 5},
		Generate: GenerateConfig{
			PollIntervalMs: 2000,
			StorePath:      "./data/memeboard.db",
		},
		Images: ImagesConfig{CacheType: "memory"},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*Config)
		wantPart string
	}{
		{
			name:     "live mode without base url",
			mutate:   func(c *Config) { c.Backend.BaseURL = "" },
			wantPart: "base_url",
		},
		{
			name:     "relative base url",
			mutate:   func(c *Config) { c.Backend.BaseURL = "/api" },
			wantPart: "absolute",
		},
		{
			name:     "base url without scheme",
			mutate:   func(c *Config) { c.Backend.BaseURL = "api.example.com" },
			wantPart: "absolute",
		},
		{
			name:     "unknown api mode",
			mutate:   func(c *Config) { c.Backend.APIMode = "staging" },
			wantPart: "api_mode",
		},
		{
			name:     "zero page size",
			mutate:   func(c *Config) { c.Feed.PageSize = 0 },
			wantPart: "page_size",
		},
		{
			name:     "negative poll interval",
			mutate:   func(c *Config) { c.Generate.PollIntervalMs = -1 },
			wantPart: "poll_interval",
		},
		{
			name:     "unknown cache type",
			mutate:   func(c *Config) { c.Images.CacheType = "redis" },
			wantPart: "cache_type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.wantPart) {
				t.Errorf("error %q does not mention %q", err, tc.wantPart)
			}
		})
	}
}

// TestValidateMockModeNeedsNoBaseURL verifies mock mode runs without
// BACKEND_BASE_URL; the in-process server supplies its own address.
func TestValidateMockModeNeedsNoBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.APIMode = APIModeMock
	cfg.Backend.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock mode rejected: %v", err)
	}
}

// TestLoadDefaults verifies Load supplies workable defaults when no
// config file exists.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_MODE", "mock")
	t.Setenv("BACKEND_BASE_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("default port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Feed.PageSize != 30 {
		t.Errorf("default page size: got %d, want 30", cfg.Feed.PageSize)
	}
	if cfg.Feed.DebounceMs != 1000 {
		t.Errorf("default debounce: got %d, want 1000", cfg.Feed.DebounceMs)
	}
	if cfg.Generate.PollIntervalMs != 2000 {
		t.Errorf("default poll interval: got %d, want 2000", cfg.Generate.PollIntervalMs)
	}
	if cfg.Layout.Overscan != 5 {
		t.Errorf("default overscan: got %d, want 5", cfg.Layout.Overscan)
	}
	if cfg.Images.CacheType != "memory" {
		t.Errorf("default cache type: got %q, want memory", cfg.Images.CacheType)
	}
}
