package config

import "flag"

// Flags holds the command-line overrides shared by every subcommand.
type Flags struct {
	Config  *string
	Debug   *bool
	Workers *int
	Scheme  *string
	Data    *string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:  fs.String("config", "", "Path to config file"),
		Debug:   fs.Bool("debug", false, "Enable debug logging"),
		Workers: fs.Int("workers", 0, "Tessellation workers (0 = config value)"),
		Scheme:  fs.String("scheme", "", "Tiling scheme: webmercator or geographic"),
		Data:    fs.String("data", "", "Terrain tile directory"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil || f.Config == nil {
		return ""
	}
	return *f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug != nil && *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Workers != nil && *f.Workers > 0 {
		cfg.Terrain.Workers = *f.Workers
	}
	if f.Scheme != nil && *f.Scheme != "" {
		cfg.Tiling.Scheme = *f.Scheme
	}
	if f.Data != nil && *f.Data != "" {
		cfg.Terrain.DataDir = *f.Data
	}
}
