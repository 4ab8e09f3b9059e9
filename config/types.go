package config

// ServerConfig contains the HTTP API configuration.
type ServerConfig struct {
	Port        int      `yaml:"port" validate:"gt=0"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DataConfig points at the externally provided input tables. Formats are
// fixed by the data provider and consumed read-only.
type DataConfig struct {
	Zones       string `yaml:"zones" validate:"required"`
	NodeMapping string `yaml:"node_mapping" validate:"required"`
	BaseSkim    string `yaml:"base_skim" validate:"required"`
}

// AnalysisConfig contains defaults and knobs for the computation engine.
type AnalysisConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold" validate:"gt=0"`
	DefaultBandWidth float64 `yaml:"default_band_width" validate:"gt=0"`
	DefaultAttribute string  `yaml:"default_attribute"`
	AggregateRule    string  `yaml:"aggregate_rule" validate:"omitempty,oneof=min mean"`
	BatchSize        int     `yaml:"batch_size" validate:"gte=0"`
	MaxUploadMB      int     `yaml:"max_upload_mb" validate:"gte=0"`
}

// CacheConfig controls the on-disk zone-pair aggregation cache. An empty
// dir disables it.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// AttributeConfig declares an additional catalog attribute beyond the
// built-in set, or overrides a built-in entry.
type AttributeConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Label      string `yaml:"label"`
	Unit       string `yaml:"unit"`
	Category   string `yaml:"category"`
	Aggregable *bool  `yaml:"aggregable"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server     ServerConfig      `yaml:"server"`
	Data       DataConfig        `yaml:"data" validate:"required"`
	Analysis   AnalysisConfig    `yaml:"analysis"`
	Cache      CacheConfig       `yaml:"cache"`
	Attributes []AttributeConfig `yaml:"attributes"`
}
