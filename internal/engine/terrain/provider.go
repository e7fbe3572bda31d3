package terrain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/terraglobe/pkg/tiling"
)

// Source opens the raster of a tile.
type Source interface {
	Open(ctx context.Context, tile tiling.Tile) (io.ReadCloser, Format, error)
}

// DirSource reads rasters from Root/level/x/y.ext.
type DirSource struct {
	Root   string
	Format Format
}

// Path returns the raster path of tile.
func (s DirSource) Path(tile tiling.Tile) string {
	return filepath.Join(s.Root, strconv.Itoa(tile.Level), strconv.Itoa(tile.X),
		strconv.Itoa(tile.Y)+"."+s.Format.Extension())
}

func (s DirSource) Open(ctx context.Context, tile tiling.Tile) (io.ReadCloser, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	f, err := os.Open(s.Path(tile))
	if err != nil {
		return nil, "", err
	}
	return f, s.Format, nil
}

// Result is the outcome of one tile request.
type Result struct {
	Tile tiling.Tile
	Mesh *Mesh
	Err  error
}

// ProviderConfig configures a Provider.
type ProviderConfig struct {
	Attributes   Attributes
	HeightScale  float64
	HeightOffset float64
}

// Provider loads and tessellates tiles of one scheme and tracks their state.
type Provider struct {
	source Source
	scheme tiling.Scheme
	cfg    ProviderConfig
	log    *zap.Logger

	mu     sync.Mutex
	states map[string]tiling.State
	wg     sync.WaitGroup
}

// NewProvider creates a provider. A nil log discards output.
func NewProvider(source Source, scheme tiling.Scheme, cfg ProviderConfig, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.HeightScale == 0 {
		cfg.HeightScale = 1
	}
	return &Provider{
		source: source,
		scheme: scheme,
		cfg:    cfg,
		log:    log.Named("terrain"),
		states: make(map[string]tiling.State),
	}
}

// Scheme returns the tiling scheme of the provider.
func (p *Provider) Scheme() tiling.Scheme { return p.scheme }

// State returns the last recorded state of tile.
func (p *Provider) State(tile tiling.Tile) tiling.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[tile.Path()]
}

func (p *Provider) setState(tile *tiling.Tile, state tiling.State) {
	tile.State = state
	p.mu.Lock()
	p.states[tile.Path()] = state
	p.mu.Unlock()
}

// Load fetches, decodes and tessellates tile synchronously, advancing
// tile.State to Requested and then Loaded or Failed.
func (p *Provider) Load(ctx context.Context, tile *tiling.Tile) (*Mesh, error) {
	if tile.Scheme == nil {
		tile.Scheme = p.scheme
	}
	p.setState(tile, tiling.Requested)
	p.log.Debug("Loading tile", zap.String("tile", tile.Path()))

	mesh, err := p.load(ctx, *tile)
	if err != nil {
		p.setState(tile, tiling.Failed)
		if !errors.Is(err, context.Canceled) {
			p.log.Warn("Tile failed", zap.String("tile", tile.Path()), zap.Error(err))
		}
		return nil, err
	}

	p.setState(tile, tiling.Loaded)
	p.log.Debug("Tile loaded",
		zap.String("tile", tile.Path()),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Float64("minHeight", mesh.MinHeight),
		zap.Float64("maxHeight", mesh.MaxHeight))
	return mesh, nil
}

func (p *Provider) load(ctx context.Context, tile tiling.Tile) (*Mesh, error) {
	rc, format, err := p.source.Open(ctx, tile)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", tile, err)
	}
	defer rc.Close()

	raster, err := LoadRaster(rc, format, p.cfg.HeightScale, p.cfg.HeightOffset)
	if err != nil {
		return nil, fmt.Errorf("raster %v: %w", tile, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return BuildMesh(TileParams(tile, raster, p.cfg.Attributes))
}

// Request loads tile in the background and calls done with the result.
// done runs at most once and is skipped when ctx is cancelled before the
// load completes.
func (p *Provider) Request(ctx context.Context, tile tiling.Tile, done func(Result)) {
	var once sync.Once
	deliver := func(r Result) {
		once.Do(func() {
			if ctx.Err() != nil || done == nil {
				return
			}
			done(r)
		})
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		mesh, err := p.Load(ctx, &tile)
		deliver(Result{Tile: tile, Mesh: mesh, Err: err})
	}()
}

// Wait blocks until every outstanding Request has finished.
func (p *Provider) Wait() {
	p.wg.Wait()
}

// TileParams builds tessellation parameters for tile from raster. Vertices
// are relative to the tile's center on the ellipsoid.
func TileParams(tile tiling.Tile, raster *Raster, attrs Attributes) Params {
	scheme := tile.Scheme
	e := scheme.Ellipsoid()

	params := raster.Params().WithEllipsoid(e)
	params.IsGeographic = scheme.IsGeographic()
	params.Attributes = attrs
	if params.IsGeographic {
		params.Extent = tile.Extent()
	} else {
		params.Extent = tile.NativeExtent()
	}
	params.RelativeToCenter = e.CartographicToCartesian(tile.Extent().Center())
	return params
}
