package terrain

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/terraglobe/pkg/tiling"
)

// TessellateAll builds one mesh per params entry using at most workers
// goroutines, each writing its own vertex buffer. workers <= 0 means
// GOMAXPROCS. The first error cancels the remaining jobs.
func TessellateAll(ctx context.Context, params []Params, workers int) ([]*Mesh, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	meshes := make([]*Mesh, len(params))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range params {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := BuildMesh(params[i])
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			meshes[i] = mesh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// LoadAll loads tiles through p with at most workers concurrent loads. The
// meshes are in tile order and each tile's State is updated in place.
func LoadAll(ctx context.Context, p *Provider, tiles []tiling.Tile, workers int) ([]*Mesh, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	meshes := make([]*Mesh, len(tiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range tiles {
		g.Go(func() error {
			mesh, err := p.Load(ctx, &tiles[i])
			if err != nil {
				return err
			}
			meshes[i] = mesh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}
