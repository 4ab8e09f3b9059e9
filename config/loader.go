package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied after load when the file leaves fields unset. The
// analysis defaults match the dashboard this engine serves: a 45-minute
// threshold, 15-minute bands and the jobs attribute.
const (
	DefaultPort        = 17181
	DefaultThreshold   = 45
	DefaultBandWidth   = 15
	DefaultAttribute   = "Emp 2024"
	DefaultBatchSize   = 10000
	DefaultMaxUploadMB = 50
)

// Load reads and validates the application configuration. When path is
// empty the TAZ_ACCESS_CONFIG environment variable is consulted, then
// config.yml in the working directory.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = os.Getenv("TAZ_ACCESS_CONFIG")
	}
	if path == "" {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Analysis.DefaultThreshold == 0 {
		cfg.Analysis.DefaultThreshold = DefaultThreshold
	}
	if cfg.Analysis.DefaultBandWidth == 0 {
		cfg.Analysis.DefaultBandWidth = DefaultBandWidth
	}
	if cfg.Analysis.DefaultAttribute == "" {
		cfg.Analysis.DefaultAttribute = DefaultAttribute
	}
	if cfg.Analysis.AggregateRule == "" {
		cfg.Analysis.AggregateRule = "min"
	}
	if cfg.Analysis.BatchSize == 0 {
		cfg.Analysis.BatchSize = DefaultBatchSize
	}
	if cfg.Analysis.MaxUploadMB == 0 {
		cfg.Analysis.MaxUploadMB = DefaultMaxUploadMB
	}
}
