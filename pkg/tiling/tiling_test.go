package tiling

import (
	gomath "math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
)

func degrees(e geodesy.Extent) (west, south, east, north float64) {
	const d = 180 / gomath.Pi
	return e.West * d, e.South * d, e.East * d, e.North * d
}

func TestWebMercatorTileCounts(t *testing.T) {
	s := NewWebMercator(nil)
	assert.Same(t, geodesy.WGS84, s.Ellipsoid())
	assert.False(t, s.IsGeographic())

	for level := 0; level < 5; level++ {
		assert.Equal(t, 1<<level, s.NumberOfXTilesAtLevel(level))
		assert.Equal(t, 1<<level, s.NumberOfYTilesAtLevel(level))
	}
}

func TestWebMercatorRootExtent(t *testing.T) {
	s := NewWebMercator(geodesy.WGS84)
	e := s.TileXYToExtent(0, 0, 0)

	assert.InDelta(t, -gomath.Pi, e.West, 1e-15)
	assert.InDelta(t, gomath.Pi, e.East, 1e-15)
	assert.InDelta(t, geodesy.MaxWebMercatorLatitude, e.North, 1e-12)
	assert.InDelta(t, -geodesy.MaxWebMercatorLatitude, e.South, 1e-12)
	assert.Equal(t, s.Extent(), e)

	native := s.TileXYToNativeExtent(0, 0, 0)
	assert.InDelta(t, gomath.Pi*6378137, native.North, 1e-6)
	assert.InDelta(t, -gomath.Pi*6378137, native.West, 1e-6)
}

func TestWebMercatorMatchesMaptile(t *testing.T) {
	s := NewWebMercator(geodesy.WGS84)

	tests := []struct{ x, y, level int }{
		{0, 0, 1},
		{5, 3, 4},
		{1023, 511, 10},
	}
	for _, tt := range tests {
		west, south, east, north := degrees(s.TileXYToExtent(tt.x, tt.y, tt.level))
		b := maptile.New(uint32(tt.x), uint32(tt.y), maptile.Zoom(tt.level)).Bound()

		assert.InDelta(t, b.Min.Lon(), west, 1e-9)
		assert.InDelta(t, b.Max.Lon(), east, 1e-9)
		assert.InDelta(t, b.Min.Lat(), south, 1e-9)
		assert.InDelta(t, b.Max.Lat(), north, 1e-9)
	}
}

func TestWebMercatorPositionToTileXY(t *testing.T) {
	s := NewWebMercator(geodesy.WGS84)

	for _, p := range []orb.Point{{10, 20}, {-122.4, 37.8}, {151.2, -33.9}} {
		want := maptile.At(p, 7)
		x, y, ok := s.PositionToTileXY(geodesy.CartographicFromDegrees(p.Lon(), p.Lat(), 0), 7)
		require.True(t, ok)
		assert.Equal(t, int(want.X), x, "x for %v", p)
		assert.Equal(t, int(want.Y), y, "y for %v", p)
	}

	_, _, ok := s.PositionToTileXY(geodesy.CartographicFromDegrees(0, 89, 0), 3)
	assert.False(t, ok)
}

func TestGeographicScheme(t *testing.T) {
	s := NewGeographic(nil)
	assert.True(t, s.IsGeographic())
	assert.Equal(t, 2, s.NumberOfXTilesAtLevel(0))
	assert.Equal(t, 1, s.NumberOfYTilesAtLevel(0))
	assert.Equal(t, 8, s.NumberOfXTilesAtLevel(2))
	assert.Equal(t, 4, s.NumberOfYTilesAtLevel(2))

	east := s.TileXYToExtent(1, 0, 0)
	assert.Equal(t, geodesy.Extent{West: 0, South: -gomath.Pi / 2, East: gomath.Pi, North: gomath.Pi / 2}, east)

	e := s.TileXYToExtent(3, 1, 1)
	assert.InDelta(t, gomath.Pi/2, e.West, 1e-15)
	assert.InDelta(t, gomath.Pi, e.East, 1e-15)
	assert.InDelta(t, -gomath.Pi/2, e.South, 1e-15)
	assert.InDelta(t, 0, e.North, 1e-15)
	assert.Equal(t, e, s.TileXYToNativeExtent(3, 1, 1))
}

func TestGeographicPositionToTileXY(t *testing.T) {
	s := NewGeographic(geodesy.WGS84)

	x, y, ok := s.PositionToTileXY(geodesy.CartographicFromDegrees(-89, 45, 0), 1)
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 0, y)

	// The east and south edges belong to the last tile.
	x, y, ok = s.PositionToTileXY(geodesy.CartographicFromDegrees(180, -90, 0), 2)
	require.True(t, ok)
	assert.Equal(t, 7, x)
	assert.Equal(t, 3, y)
}

func TestNewTile(t *testing.T) {
	s := NewGeographic(nil)

	tile, err := NewTile(s, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Unloaded, tile.State)

	_, err = NewTile(s, 4, 0, 1)
	assert.ErrorIs(t, err, geodesy.ErrInvalidArgument)
	_, err = NewTile(s, 0, 0, -1)
	assert.ErrorIs(t, err, geodesy.ErrInvalidArgument)
	_, err = NewTile(nil, 0, 0, 0)
	assert.ErrorIs(t, err, geodesy.ErrInvalidArgument)
}

func TestTileHierarchy(t *testing.T) {
	s := NewWebMercator(nil)
	tile := Tile{X: 5, Y: 6, Level: 3, Scheme: s}

	parent, ok := tile.Parent()
	require.True(t, ok)
	assert.Equal(t, Tile{X: 2, Y: 3, Level: 2, Scheme: s}, parent)

	root, ok := tile.Ancestor(0)
	require.True(t, ok)
	assert.Equal(t, 0, root.X)
	assert.Equal(t, 0, root.Y)

	_, ok = tile.Ancestor(4)
	assert.False(t, ok)
	_, ok = root.Parent()
	assert.False(t, ok)

	children := parent.Children()
	assert.Contains(t, children[:], Tile{X: 5, Y: 6, Level: 3, Scheme: s})
	for _, c := range children {
		p, ok := c.Parent()
		require.True(t, ok)
		assert.Equal(t, parent, p)
	}
}

func TestChildrenCoverParent(t *testing.T) {
	s := NewGeographic(nil)
	parent := Tile{X: 1, Y: 0, Level: 0, Scheme: s}
	pe := parent.Extent()

	children := parent.Children()
	nw, se := children[0].Extent(), children[3].Extent()

	assert.InDelta(t, pe.West, nw.West, 1e-15)
	assert.InDelta(t, pe.North, nw.North, 1e-15)
	assert.InDelta(t, pe.East, se.East, 1e-15)
	assert.InDelta(t, pe.South, se.South, 1e-15)
}

func TestTileNames(t *testing.T) {
	tile := Tile{X: 5, Y: 6, Level: 3}
	assert.Equal(t, "3/5/6", tile.Path())
	assert.Equal(t, "L3(5,6)", tile.String())
	assert.Equal(t, "requested", Requested.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestTilesInExtent(t *testing.T) {
	geographic := NewGeographic(nil)
	assert.Len(t, TilesInExtent(geographic, geodesy.MaxExtent, 1), 8)

	mercator := NewWebMercator(nil)
	tiles := TilesInExtent(mercator, geodesy.MaxExtent, 2)
	require.Len(t, tiles, 16)
	assert.Equal(t, Tile{X: 0, Y: 0, Level: 2, Scheme: mercator}, tiles[0])
	assert.Equal(t, Tile{X: 3, Y: 3, Level: 2, Scheme: mercator}, tiles[15])

	small := geodesy.ExtentFromDegrees(1, 1, 2, 2)
	assert.Len(t, TilesInExtent(geographic, small, 0), 1)
}

func TestFeatureCollection(t *testing.T) {
	s := NewGeographic(nil)
	tiles := []Tile{
		{X: 0, Y: 0, Level: 0, Scheme: s},
		{X: 1, Y: 0, Level: 0, Scheme: s, State: Loaded},
	}

	fc := FeatureCollection(tiles)
	require.Len(t, fc.Features, 2)

	f := fc.Features[1]
	polygon, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, polygon[0], 5)
	assert.InDelta(t, 0, polygon[0][0].Lon(), 1e-12)
	assert.InDelta(t, 90, polygon[0][0].Lat(), 1e-12)
	assert.Equal(t, polygon[0][0], polygon[0][4])

	assert.Equal(t, "loaded", f.Properties["state"])
	assert.Equal(t, 1, f.Properties["x"])
}
