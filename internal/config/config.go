// Package config handles converter configuration loading and management.
package config

// Config holds all ctmconv settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds the export tuning applied when writing CTM files.
type ConvertConfig struct {
	Method            string  `yaml:"method"`             // raw, mg1 or mg2
	VertexPrecision   float32 `yaml:"vertex_precision"`   // absolute grid size; 0 keeps the library default
	RelativePrecision float32 `yaml:"relative_precision"` // fraction of mean edge length; overrides vertex_precision when > 0
	Comment           string  `yaml:"comment"`            // file comment embedded in the header
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Method:            "mg1",
			VertexPrecision:   0,
			RelativePrecision: 0,
			Comment:           "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
