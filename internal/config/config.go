// Package config handles terraglobe configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/terraglobe/internal/engine/terrain"
	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/tiling"
)

// Config holds all settings.
type Config struct {
	Body    EllipsoidConfig `yaml:"ellipsoid"`
	Terrain TerrainConfig   `yaml:"terrain"`
	Tiling  TilingConfig    `yaml:"tiling"`
	Logging LoggingConfig   `yaml:"logging"`
}

// EllipsoidConfig selects the central body.
type EllipsoidConfig struct {
	Name  string     `yaml:"name"`  // wgs84, unit_sphere or custom
	Radii [3]float64 `yaml:"radii"` // Used when Name is custom
}

// TerrainConfig holds heightmap and tessellation settings.
type TerrainConfig struct {
	DataDir       string  `yaml:"data_dir"` // Root of the level/x/y tile tree
	Format        string  `yaml:"format"`   // png or tiff
	Workers       int     `yaml:"workers"`  // 0 means one per CPU
	Normals       bool    `yaml:"normals"`
	TextureCoords bool    `yaml:"texture_coords"`
	HeightScale   float64 `yaml:"height_scale"`
	HeightOffset  float64 `yaml:"height_offset"`

	// Raw heightmap layout, for files without an image header.
	BytesPerHeight int    `yaml:"bytes_per_height"`
	StrideBytes    int    `yaml:"stride_bytes"`
	Endianness     string `yaml:"endianness"`
}

// TilingConfig selects the tiling scheme and level range.
type TilingConfig struct {
	Scheme   string `yaml:"scheme"` // webmercator or geographic
	MinLevel int    `yaml:"min_level"`
	MaxLevel int    `yaml:"max_level"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console or json
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Body: EllipsoidConfig{
			Name: "wgs84",
		},
		Terrain: TerrainConfig{
			DataDir:        "tiles",
			Format:         "png",
			Workers:        0,
			Normals:        false,
			TextureCoords:  true,
			HeightScale:    1,
			HeightOffset:   0,
			BytesPerHeight: 2,
			StrideBytes:    2,
			Endianness:     "big",
		},
		Tiling: TilingConfig{
			Scheme:   "webmercator",
			MinLevel: 0,
			MaxLevel: 14,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
	}
}

// Ellipsoid resolves the configured central body. Custom bodies are built
// on every call; compare them with Equals.
func (c *Config) Ellipsoid() (*geodesy.Ellipsoid, error) {
	switch c.Body.Name {
	case "", "wgs84":
		return geodesy.WGS84, nil
	case "unit_sphere":
		return geodesy.UnitSphere, nil
	case "custom":
		r := c.Body.Radii
		return geodesy.NewEllipsoid(r[0], r[1], r[2])
	}
	return nil, fmt.Errorf("unknown ellipsoid %q", c.Body.Name)
}

// Scheme builds the configured tiling scheme on the configured ellipsoid.
func (c *Config) Scheme() (tiling.Scheme, error) {
	e, err := c.Ellipsoid()
	if err != nil {
		return nil, err
	}
	switch c.Tiling.Scheme {
	case "", "webmercator":
		return tiling.NewWebMercator(e), nil
	case "geographic":
		return tiling.NewGeographic(e), nil
	}
	return nil, fmt.Errorf("unknown tiling scheme %q", c.Tiling.Scheme)
}

// Encoding returns the raw heightmap sample layout.
func (t TerrainConfig) Encoding() (terrain.Encoding, error) {
	endianness, err := terrain.ParseEndianness(t.Endianness)
	if err != nil {
		return terrain.Encoding{}, err
	}
	enc := terrain.Encoding{
		BytesPerHeight: t.BytesPerHeight,
		StrideBytes:    t.StrideBytes,
		HeightScale:    t.HeightScale,
		HeightOffset:   t.HeightOffset,
		Endianness:     endianness,
	}
	if err := enc.Validate(); err != nil {
		return terrain.Encoding{}, err
	}
	return enc, nil
}

// Attributes returns the vertex attributes to emit.
func (t TerrainConfig) Attributes() terrain.Attributes {
	return terrain.Attributes{WithNormals: t.Normals, WithTextureCoords: t.TextureCoords}
}

// Source returns the tile source rooted at DataDir.
func (t TerrainConfig) Source() (terrain.DirSource, error) {
	format, err := terrain.FormatFromPath("tile." + t.Format)
	if err != nil {
		return terrain.DirSource{}, err
	}
	return terrain.DirSource{Root: t.DataDir, Format: format}, nil
}

// ProviderConfig returns the provider settings.
func (t TerrainConfig) ProviderConfig() terrain.ProviderConfig {
	return terrain.ProviderConfig{
		Attributes:   t.Attributes(),
		HeightScale:  t.HeightScale,
		HeightOffset: t.HeightOffset,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, err := c.Scheme(); err != nil {
		return err
	}
	if _, err := c.Terrain.Encoding(); err != nil {
		return err
	}
	if _, err := c.Terrain.Source(); err != nil {
		return err
	}
	if c.Terrain.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative", c.Terrain.Workers)
	}
	if c.Tiling.MinLevel < 0 || c.Tiling.MaxLevel < c.Tiling.MinLevel {
		return fmt.Errorf("level range [%d, %d] is invalid", c.Tiling.MinLevel, c.Tiling.MaxLevel)
	}
	return nil
}
