package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	IPMABaseURL string
	IPMATimeout time.Duration

	NarrativeURL     string
	NarrativeModel   string
	NarrativeTimeout time.Duration

	RequestTimeout time.Duration

	AllLocationsWorkers int
	MessageMaxLength    int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	IPMA struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"ipma"`

	Narrative struct {
		URL     string `yaml:"url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"narrative"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Chat struct {
		AllLocationsWorkers int `yaml:"all_locations_workers"`
		MessageMaxLength    int `yaml:"message_max_length"`
	} `yaml:"chat"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev).
// IPMA_BASE_URL and NARRATIVE_URL env vars override the file. Call from
// project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.IPMABaseURL = strings.TrimSpace(os.Getenv("IPMA_BASE_URL"))
	if cfg.IPMABaseURL == "" {
		cfg.IPMABaseURL = fc.IPMA.BaseURL
	}
	if cfg.IPMABaseURL == "" {
		cfg.IPMABaseURL = "https://api.ipma.pt/open-data"
	}
	cfg.IPMATimeout = parseDuration(fc.IPMA.Timeout, 5*time.Second)

	cfg.NarrativeURL = strings.TrimSpace(os.Getenv("NARRATIVE_URL"))
	if cfg.NarrativeURL == "" {
		cfg.NarrativeURL = fc.Narrative.URL
	}
	if cfg.NarrativeURL == "" {
		cfg.NarrativeURL = "http://localhost:11434/api/generate"
	}
	cfg.NarrativeModel = fc.Narrative.Model
	if cfg.NarrativeModel == "" {
		cfg.NarrativeModel = "mistral"
	}
	cfg.NarrativeTimeout = parseDuration(fc.Narrative.Timeout, 60*time.Second)

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 90*time.Second)

	cfg.AllLocationsWorkers = fc.Chat.AllLocationsWorkers
	if cfg.AllLocationsWorkers <= 0 {
		cfg.AllLocationsWorkers = 4
	}
	cfg.MessageMaxLength = fc.Chat.MessageMaxLength
	if cfg.MessageMaxLength <= 0 {
		cfg.MessageMaxLength = 500
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation. The request timeout must leave room
// for the slowest upstream call, which is the narrative backend.
func validate(cfg *Config) error {
	if cfg.IPMATimeout <= 0 {
		return fmt.Errorf("ipma.timeout must be positive")
	}
	if cfg.NarrativeTimeout <= 0 {
		return fmt.Errorf("narrative.timeout must be positive")
	}
	if cfg.RequestTimeout <= cfg.NarrativeTimeout {
		cfg.RequestTimeout = cfg.NarrativeTimeout + 10*time.Second
	}
	return nil
}
