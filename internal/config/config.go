// Package config loads the YAML configuration file. internal/cli layers
// a few flag overrides (listen host and port, dashboards) on top of a
// loaded file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default values, used for every field the config file omits.
const (
	DefaultListenHost           = "127.0.0.1"
	DefaultListenPort           = 1080
	DefaultProbeHost            = "www.google.com"
	DefaultProbePort            = 80
	DefaultProbePeriodSeconds   = 10
	DefaultProbeTimeoutSeconds  = 3
	DefaultDialTimeoutSeconds   = 5
	DefaultHistoryLength        = 20
	DefaultOutageBackoffSeconds = 60
	DefaultSelectorPolicy       = "heuristic"
)

// Config is the complete egressd configuration surface.
type Config struct {
	ListenHost string `yaml:"listen_host"`
	ListenPort int    `yaml:"listen_port"`

	ProbeHost            string `yaml:"probe_host"`
	ProbePort            int    `yaml:"probe_port"`
	ProbePeriodSeconds   int    `yaml:"probe_period_seconds"`
	ProbeTimeoutSeconds  int    `yaml:"probe_timeout_seconds"`
	OutageBackoffSeconds int    `yaml:"outage_backoff_seconds"`

	DialTimeoutSeconds int `yaml:"dial_timeout_seconds"`
	HistoryLength      int `yaml:"history_length"`

	// SelectorPolicy is "heuristic" or "model". ModelPath is required
	// when SelectorPolicy is "model".
	SelectorPolicy string `yaml:"selector_policy"`
	ModelPath      string `yaml:"model_path,omitempty"`

	// Observation log.
	ObservationLogEnabled bool   `yaml:"observation_log_enabled"`
	ObservationLogPath    string `yaml:"observation_log_path,omitempty"`

	// Overlay (ZeroTier) gateway substitution.
	OverlayEnabled bool `yaml:"overlay_enabled"`

	// Dashboards.
	TUIDashboardEnabled bool   `yaml:"tui_dashboard_enabled"`
	WebDashboardAddr    string `yaml:"web_dashboard_addr,omitempty"`
}

// Default returns a Config with every field set to its documented
// default.
func Default() Config {
	return Config{
		ListenHost:            DefaultListenHost,
		ListenPort:            DefaultListenPort,
		ProbeHost:             DefaultProbeHost,
		ProbePort:             DefaultProbePort,
		ProbePeriodSeconds:    DefaultProbePeriodSeconds,
		ProbeTimeoutSeconds:   DefaultProbeTimeoutSeconds,
		OutageBackoffSeconds:  DefaultOutageBackoffSeconds,
		DialTimeoutSeconds:    DefaultDialTimeoutSeconds,
		HistoryLength:         DefaultHistoryLength,
		SelectorPolicy:        DefaultSelectorPolicy,
		ObservationLogEnabled: false,
		OverlayEnabled:        false,
		TUIDashboardEnabled:   false,
	}
}

// Load reads a YAML file at path, starting from Default() so that any
// field the file omits keeps its documented default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "validate config file %s", path)
	}
	return cfg, nil
}

// Validate checks for configuration errors that would otherwise only
// surface as confusing runtime failures.
func (c *Config) Validate() error {
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return errors.Errorf("listen_port out of range: %d", c.ListenPort)
	}
	if c.SelectorPolicy != "heuristic" && c.SelectorPolicy != "model" {
		return errors.Errorf("selector_policy must be 'heuristic' or 'model', got %q", c.SelectorPolicy)
	}
	if c.SelectorPolicy == "model" && c.ModelPath == "" {
		return errors.New("model_path is required when selector_policy is 'model'")
	}
	if c.ProbePeriodSeconds <= 0 {
		return errors.Errorf("probe_period_seconds must be positive, got %d", c.ProbePeriodSeconds)
	}
	if c.ProbeTimeoutSeconds <= 0 {
		return errors.Errorf("probe_timeout_seconds must be positive, got %d", c.ProbeTimeoutSeconds)
	}
	if c.HistoryLength <= 0 {
		return errors.Errorf("history_length must be positive, got %d", c.HistoryLength)
	}
	return nil
}
