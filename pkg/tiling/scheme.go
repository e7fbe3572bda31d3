// Package tiling addresses geographic extents with a quadtree of tiles.
//
// Tiles are numbered from the north-west corner: x grows east, y grows south,
// and level 0 is the coarsest level.
package tiling

import (
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
)

// Scheme maps tile coordinates to geographic and projected extents.
type Scheme interface {
	Ellipsoid() *geodesy.Ellipsoid
	Extent() geodesy.Extent
	Projection() geodesy.Projection

	NumberOfXTilesAtLevel(level int) int
	NumberOfYTilesAtLevel(level int) int

	// TileXYToExtent returns the tile's geographic extent in radians.
	TileXYToExtent(x, y, level int) geodesy.Extent
	// TileXYToNativeExtent returns the tile's extent in the scheme's native
	// units: radians for geographic schemes, projected meters otherwise.
	TileXYToNativeExtent(x, y, level int) geodesy.Extent
	// PositionToTileXY returns the tile containing c, or false if c lies
	// outside the scheme's extent.
	PositionToTileXY(c geodesy.Cartographic, level int) (x, y int, ok bool)

	IsGeographic() bool
}

// grid is the quadtree arithmetic shared by the concrete schemes.
type grid struct {
	levelZeroX int
	levelZeroY int
	// native bounds of the whole scheme
	west, south, east, north float64
}

func (g grid) tilesX(level int) int { return g.levelZeroX << uint(level) }
func (g grid) tilesY(level int) int { return g.levelZeroY << uint(level) }

func (g grid) nativeExtent(x, y, level int) geodesy.Extent {
	w := (g.east - g.west) / float64(g.tilesX(level))
	h := (g.north - g.south) / float64(g.tilesY(level))
	return geodesy.Extent{
		West:  g.west + float64(x)*w,
		East:  g.west + float64(x+1)*w,
		North: g.north - float64(y)*h,
		South: g.north - float64(y+1)*h,
	}
}

func (g grid) tileAt(px, py float64, level int) (int, int) {
	nx, ny := g.tilesX(level), g.tilesY(level)
	w := (g.east - g.west) / float64(nx)
	h := (g.north - g.south) / float64(ny)

	x := int(gomath.Floor((px - g.west) / w))
	y := int(gomath.Floor((g.north - py) / h))
	return clamp(x, 0, nx-1), clamp(y, 0, ny-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
