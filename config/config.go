package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/refinelab/feedplan/connectors/simulator"
	"github.com/refinelab/feedplan/core/metrics"
)

type Config struct {
	Simulator simulator.Config `json:"simulator"`
	Metrics   metrics.Config   `json:"metrics"`
	History   HistoryConfig    `json:"history"`
	Server    ServerConfig     `json:"server"`
	Plan      PlanConfig       `json:"plan"`
}

// HistoryConfig locates the local run history store.
type HistoryConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "feedplan.db"
	}
}

// ServerConfig defines the dashboard HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// PlanConfig holds the plan form submitted to the simulation service and the
// plant parameters the summary derives from.
type PlanConfig struct {
	// Name selects the stored plan form to run.
	Name string `json:"name"`
	// ProcessingRateBblPerDay feeds the days-of-stock-remaining estimate.
	ProcessingRateBblPerDay float64 `json:"processing_rate_bbl_per_day"`
	// Inputs is the plan form posted to the service when no stored form exists.
	Inputs map[string]any `json:"inputs"`
}

// SetDefaults applies sane defaults.
func (c *PlanConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.ProcessingRateBblPerDay <= 0 {
		c.ProcessingRateBblPerDay = 50000
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulator.SetDefaults()
	cfg.Simulator.Notify.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Server.SetDefaults()
	cfg.Plan.SetDefaults()
	if err := cfg.Simulator.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulator.Notify.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
