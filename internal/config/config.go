// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is built once at startup and handed to every component that
// needs it. Nothing reads site text or feature flags from globals.
type AppConfig struct {
	Server   ServerConfig  `yaml:"server"`
	Backend  BackendConfig `yaml:"backend"`
	Site     SiteConfig    `yaml:"site"`
	Features FeatureConfig `yaml:"features"`
	Logging  LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	SessionSecret string `yaml:"session_secret"`
	TemplatesGlob string `yaml:"templates_glob"`
}

type BackendConfig struct {
	// BaseURL is the root of the platform backend; the c2s API namespace
	// hangs off it.
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	FallbackBio string `yaml:"fallback_bio"`
}

type FeatureConfig struct {
	// AllowUnlike keeps the deliberate asymmetry of the platform: with it
	// off, unliking a post is refused with a notice instead of a request.
	AllowUnlike     bool `yaml:"allow_unlike"`
	Recommendations bool `yaml:"recommendations"`
	TrackViews      bool `yaml:"track_views"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			ListenAddr:    ":8080",
			TemplatesGlob: "templates/*",
		},
		Backend: BackendConfig{
			Timeout: "30s",
		},
		Site: SiteConfig{
			Title:   "Quill",
			Tagline: "A small corner of the fediverse",
		},
		Features: FeatureConfig{
			Recommendations: true,
			TrackViews:      true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the yaml config at path (if it exists), layers environment
// overrides on top and validates the result. An empty path means
// defaults plus environment only.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base_url is required (set QUILL_BACKEND_URL or backend.base_url)")
	}
	if _, err := cfg.BackendTimeout(); err != nil {
		return nil, fmt.Errorf("backend timeout: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("QUILL_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("QUILL_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("QUILL_SESSION_SECRET"); v != "" {
		cfg.Server.SessionSecret = v
	}
	if v := os.Getenv("QUILL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *AppConfig) BackendTimeout() (time.Duration, error) {
	if c.Backend.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.Backend.Timeout)
}
