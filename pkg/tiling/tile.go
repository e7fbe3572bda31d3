package tiling

import (
	"fmt"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
)

// State is the load state of a tile.
type State int

const (
	Unloaded State = iota
	Requested
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Requested:
		return "requested"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Tile is one quad of a tiling scheme. State is advanced by the terrain
// provider; the tiling package never changes it.
type Tile struct {
	X, Y, Level int
	Scheme      Scheme
	State       State
}

// NewTile returns an unloaded tile, validating the coordinates against scheme.
func NewTile(scheme Scheme, x, y, level int) (Tile, error) {
	if scheme == nil {
		return Tile{}, fmt.Errorf("tile: nil scheme: %w", geodesy.ErrInvalidArgument)
	}
	if level < 0 || x < 0 || y < 0 ||
		x >= scheme.NumberOfXTilesAtLevel(level) || y >= scheme.NumberOfYTilesAtLevel(level) {
		return Tile{}, fmt.Errorf("tile %d/%d/%d out of range: %w", level, x, y, geodesy.ErrInvalidArgument)
	}
	return Tile{X: x, Y: y, Level: level, Scheme: scheme}, nil
}

// Extent returns the geographic extent of the tile.
func (t Tile) Extent() geodesy.Extent {
	return t.Scheme.TileXYToExtent(t.X, t.Y, t.Level)
}

// NativeExtent returns the extent in the scheme's native units.
func (t Tile) NativeExtent() geodesy.Extent {
	return t.Scheme.TileXYToNativeExtent(t.X, t.Y, t.Level)
}

// Parent returns the enclosing tile one level up. Level-zero tiles have none.
func (t Tile) Parent() (Tile, bool) {
	return t.Ancestor(t.Level - 1)
}

// Ancestor returns the tile at level that contains t.
func (t Tile) Ancestor(level int) (Tile, bool) {
	if level < 0 || level > t.Level {
		return Tile{}, false
	}
	shift := uint(t.Level - level)
	return Tile{X: t.X >> shift, Y: t.Y >> shift, Level: level, Scheme: t.Scheme}, true
}

// Children returns the four tiles one level down in NW, NE, SW, SE order.
func (t Tile) Children() [4]Tile {
	x, y, l := t.X*2, t.Y*2, t.Level+1
	return [4]Tile{
		{X: x, Y: y, Level: l, Scheme: t.Scheme},
		{X: x + 1, Y: y, Level: l, Scheme: t.Scheme},
		{X: x, Y: y + 1, Level: l, Scheme: t.Scheme},
		{X: x + 1, Y: y + 1, Level: l, Scheme: t.Scheme},
	}
}

// Path returns the "level/x/y" path of the tile.
func (t Tile) Path() string {
	return fmt.Sprintf("%d/%d/%d", t.Level, t.X, t.Y)
}

func (t Tile) String() string {
	return fmt.Sprintf("L%d(%d,%d)", t.Level, t.X, t.Y)
}

// TilesInExtent returns every tile at level that overlaps extent, row by
// row from the north-west corner. Extents crossing the antimeridian yield nil.
func TilesInExtent(scheme Scheme, extent geodesy.Extent, level int) []Tile {
	nw := extent.Northwest()
	se := extent.Southeast()

	schemeExtent := scheme.Extent()
	nw.Latitude = min(nw.Latitude, schemeExtent.North)
	se.Latitude = max(se.Latitude, schemeExtent.South)

	x0, y0, ok0 := scheme.PositionToTileXY(nw, level)
	x1, y1, ok1 := scheme.PositionToTileXY(se, level)
	if !ok0 || !ok1 || x1 < x0 || y1 < y0 {
		return nil
	}

	tiles := make([]Tile, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			tiles = append(tiles, Tile{X: x, Y: y, Level: level, Scheme: scheme})
		}
	}
	return tiles
}
