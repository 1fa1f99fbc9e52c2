package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagMethod    = flag.String("method", "", "Compression method: raw, mg1 or mg2")
	flagPrecision = flag.Float64("precision", 0, "Absolute vertex precision")
	flagRelPrec   = flag.Float64("rel-precision", 0, "Vertex precision relative to mean edge length")
	flagComment   = flag.String("comment", "", "File comment to embed")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags(args []string) {
	flag.CommandLine.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMethod != "" {
		cfg.Convert.Method = *flagMethod
	}
	if *flagPrecision > 0 {
		cfg.Convert.VertexPrecision = float32(*flagPrecision)
	}
	if *flagRelPrec > 0 {
		cfg.Convert.RelativePrecision = float32(*flagRelPrec)
	}
	if *flagComment != "" {
		cfg.Convert.Comment = *flagComment
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
