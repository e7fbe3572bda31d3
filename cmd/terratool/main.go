// terratool is a CLI for ellipsoid conversions, heightmap tessellation and
// terrain level-of-detail error analysis.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/terraglobe/internal/config"
	"github.com/Faultbox/terraglobe/internal/engine/terrain"
	"github.com/Faultbox/terraglobe/internal/logger"
	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/Faultbox/terraglobe/pkg/tiling"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert":
		cmdConvert(args)
	case "distance":
		cmdDistance(args)
	case "tessellate":
		cmdTessellate(args)
	case "errors":
		cmdErrors(args)
	case "tiles":
		cmdTiles(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terratool - ellipsoid and terrain tile utility

Usage:
  terratool <command> [options]

Commands:
  convert <lon> <lat> [height]       Geodetic degrees to Cartesian
  convert -reverse <x> <y> <z>       Cartesian to geodetic degrees
  distance <lon1> <lat1> <lon2> <lat2>
                                     Surface distance in meters
  tessellate <z/x/y> [-o out.bin] [-enu]
                                     Tessellate tiles from the data directory
  errors <z/x/y> [-min level]        Compare a tile against its ancestors
  tiles -level <n> [-bbox w,s,e,n]   Write tile footprints as GeoJSON

Shared options:
  -config <file>   Config file
  -data <dir>      Terrain tile directory (level/x/y.png)
  -scheme <name>   webmercator or geographic
  -workers <n>     Tessellation workers
  -debug           Debug logging

Examples:
  terratool convert 2.2945 48.8584 300
  terratool tessellate -data ./dem 12/2074/1409 -o tile.bin
  terratool errors -scheme geographic 10/1700/300 -min 6
  terratool tiles -level 3 -bbox -10,35,30,60 > tiles.geojson`)
}

// setup parses args, loads config and initializes logging.
func setup(fs *flag.FlagSet, flags *config.Flags, args []string) *config.Config {
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fatal(err)
	}

	err = logger.InitWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: os.Stderr,
		File:    logFile(cfg.Logging.LogFile),
	})
	if err != nil {
		fatal(err)
	}
	return cfg
}

func logFile(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	reverse := fs.Bool("reverse", false, "Convert Cartesian x y z to geodetic")
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	e, err := cfg.Ellipsoid()
	if err != nil {
		fatal(err)
	}

	values, err := parseFloats(fs.Args())
	if err != nil {
		fatal(err)
	}

	if *reverse {
		if len(values) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: terratool convert -reverse <x> <y> <z>")
			os.Exit(1)
		}
		c, ok := e.CartesianToCartographic(math.Vec3{X: values[0], Y: values[1], Z: values[2]})
		if !ok {
			fatal(fmt.Errorf("position has no geodetic equivalent"))
		}
		lon, lat := c.Degrees()
		fmt.Printf("lon %.10f lat %.10f height %.4f\n", lon, lat, c.Height)
		return
	}

	if len(values) < 2 || len(values) > 3 {
		fmt.Fprintln(os.Stderr, "Usage: terratool convert <lon> <lat> [height]")
		os.Exit(1)
	}
	height := 0.0
	if len(values) == 3 {
		height = values[2]
	}

	c := geodesy.CartographicFromDegrees(values[0], values[1], height)
	p := e.CartographicToCartesian(c)
	n := e.GeodeticSurfaceNormalCartographic(c)
	fmt.Printf("position %.4f %.4f %.4f\n", p.X, p.Y, p.Z)
	fmt.Printf("normal   %.10f %.10f %.10f\n", n.X, n.Y, n.Z)
}

func cmdDistance(args []string) {
	fs := flag.NewFlagSet("distance", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	values, err := parseFloats(fs.Args())
	if err != nil {
		fatal(err)
	}
	if len(values) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: terratool distance <lon1> <lat1> <lon2> <lat2>")
		os.Exit(1)
	}

	e, err := cfg.Ellipsoid()
	if err != nil {
		fatal(err)
	}
	d, err := e.SurfaceDistance(
		geodesy.CartographicFromDegrees(values[0], values[1], 0),
		geodesy.CartographicFromDegrees(values[2], values[3], 0),
	)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%.3f m\n", d)
}

// parseTile parses a "level/x/y" path.
func parseTile(s string, scheme tiling.Scheme) (tiling.Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return tiling.Tile{}, fmt.Errorf("tile %q: want level/x/y", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return tiling.Tile{}, fmt.Errorf("tile %q: %w", s, err)
		}
		n[i] = v
	}
	return tiling.NewTile(scheme, n[1], n[2], n[0])
}

func newProvider(cfg *config.Config) (*terrain.Provider, tiling.Scheme) {
	scheme, err := cfg.Scheme()
	if err != nil {
		fatal(err)
	}
	source, err := cfg.Terrain.Source()
	if err != nil {
		fatal(err)
	}
	return terrain.NewProvider(source, scheme, cfg.Terrain.ProviderConfig(), logger.Log), scheme
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdTessellate(args []string) {
	fs := flag.NewFlagSet("tessellate", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	output := fs.String("o", "", "Write vertices as little-endian float32 to file")
	enu := fs.Bool("enu", false, "Write positions in the east-north-up frame of each tile center")
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terratool tessellate <z/x/y> [-o out.bin]")
		os.Exit(1)
	}

	provider, scheme := newProvider(cfg)
	ctx, cancel := signalContext()
	defer cancel()

	tiles := make([]tiling.Tile, 0, fs.NArg())
	for _, arg := range fs.Args() {
		tile, err := parseTile(arg, scheme)
		if err != nil {
			fatal(err)
		}
		tiles = append(tiles, tile)
	}

	meshes, err := terrain.LoadAll(ctx, provider, tiles, cfg.Terrain.Workers)
	if err != nil {
		fatal(err)
	}

	for i, mesh := range meshes {
		printMesh(tiles[i], mesh)
	}

	if *output != "" {
		var frame *geodesy.Ellipsoid
		if *enu {
			frame = scheme.Ellipsoid()
		}
		if err := writeVertices(*output, meshes, frame); err != nil {
			fatal(err)
		}
		logger.Info("Vertices written", zap.String("path", *output), zap.Int("tiles", len(meshes)))
	}
}

func printMesh(tile tiling.Tile, m *terrain.Mesh) {
	lon, lat := tile.Extent().Center().Degrees()
	fmt.Printf("Tile:      %s (center %.5f, %.5f)\n", tile.Path(), lon, lat)
	fmt.Printf("Grid:      %dx%d, %d triangles, stride %d\n", m.Width, m.Height, len(m.Indices)/3, m.Stride)
	fmt.Printf("Heights:   %.2f .. %.2f m\n", m.MinHeight, m.MaxHeight)
	fmt.Printf("Sphere:    center %v radius %.2f m\n", m.BoundingSphere.Center, m.BoundingSphere.Radius)
	if m.HasOcclusionPoint {
		fmt.Printf("Occlusion: %v\n", m.OcclusionPoint)
	} else {
		fmt.Println("Occlusion: none")
	}
	fmt.Println()
}

// writeVertices writes each mesh as a uint32 vertex count followed by its
// interleaved vertices. With a non-nil enu ellipsoid the vertices are first
// moved into the east-north-up frame of the mesh center.
func writeVertices(path string, meshes []*terrain.Mesh, enu *geodesy.Ellipsoid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, m := range meshes {
		if err := binary.Write(w, binary.LittleEndian, uint32(m.VertexCount())); err != nil {
			return err
		}
		vertices := m.Vertices
		if enu != nil {
			vertices = m.Transformed(m.LocalFrame(enu))
		}
		for _, v := range vertices {
			if err := binary.Write(w, binary.LittleEndian, float32(v)); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func cmdErrors(args []string) {
	fs := flag.NewFlagSet("errors", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	minLevel := fs.Int("min", -1, "Coarsest ancestor level (default: tiling.min_level)")
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terratool errors <z/x/y> [-min level]")
		os.Exit(1)
	}
	if *minLevel < 0 {
		*minLevel = cfg.Tiling.MinLevel
	}

	provider, scheme := newProvider(cfg)
	ctx, cancel := signalContext()
	defer cancel()

	acc := terrain.NewAccumulator()
	for _, arg := range fs.Args() {
		tile, err := parseTile(arg, scheme)
		if err != nil {
			fatal(err)
		}

		stats, err := terrain.AnalyzeLevels(ctx, provider, tile, min(*minLevel, tile.Level))
		if err != nil {
			fatal(err)
		}
		for _, s := range stats {
			acc.Add(s)
		}
		logger.Debug("Tile analyzed", zap.String("tile", tile.Path()), zap.Int("ancestors", len(stats)))
	}

	fmt.Printf("%-6s %10s %12s %12s %12s %12s\n", "level", "samples", "min", "max", "mean", "rms")
	for _, s := range acc.Stats() {
		fmt.Printf("%-6d %10d %12.3f %12.3f %12.3f %12.3f\n", s.Level, s.Count, s.Min, s.Max, s.Mean(), s.RMS)
	}
}

func cmdTiles(args []string) {
	fs := flag.NewFlagSet("tiles", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	level := fs.Int("level", 0, "Tile level")
	bbox := fs.String("bbox", "", "Extent in degrees: west,south,east,north (default: whole scheme)")
	load := fs.Bool("load", false, "Load each tile and record its state")
	output := fs.String("o", "", "Output file (default: stdout)")
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	provider, scheme := newProvider(cfg)

	extent := scheme.Extent()
	if *bbox != "" {
		values, err := parseFloats(strings.Split(*bbox, ","))
		if err != nil || len(values) != 4 {
			fatal(fmt.Errorf("bbox %q: want west,south,east,north", *bbox))
		}
		extent = geodesy.ExtentFromDegrees(values[0], values[1], values[2], values[3])
		if err := extent.Validate(); err != nil {
			fatal(err)
		}
	}

	tiles := tiling.TilesInExtent(scheme, extent, *level)
	logger.Info("Tiles selected", zap.Int("level", *level), zap.Int("count", len(tiles)))

	if *load {
		ctx, cancel := signalContext()
		defer cancel()
		for i := range tiles {
			// Failures are recorded in the tile state.
			_, _ = provider.Load(ctx, &tiles[i])
		}
	}

	data, err := tiling.FeatureCollection(tiles).MarshalJSON()
	if err != nil {
		fatal(err)
	}

	if *output == "" {
		os.Stdout.Write(data)
		fmt.Println()
		return
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		fatal(err)
	}
}
