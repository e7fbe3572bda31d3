package tiling

import (
	"github.com/Faultbox/terraglobe/pkg/geodesy"
)

// Geographic tiles longitude and latitude directly, with two level-zero
// tiles covering the western and eastern hemispheres.
type Geographic struct {
	ellipsoid  *geodesy.Ellipsoid
	projection *geodesy.GeographicProjection
	extent     geodesy.Extent
	grid       grid
}

// NewGeographic creates the scheme on e, WGS84 if nil.
func NewGeographic(e *geodesy.Ellipsoid) *Geographic {
	if e == nil {
		e = geodesy.WGS84
	}
	ext := geodesy.MaxExtent
	return &Geographic{
		ellipsoid:  e,
		projection: geodesy.NewGeographicProjection(e),
		extent:     ext,
		grid:       grid{levelZeroX: 2, levelZeroY: 1, west: ext.West, south: ext.South, east: ext.East, north: ext.North},
	}
}

func (s *Geographic) Ellipsoid() *geodesy.Ellipsoid       { return s.ellipsoid }
func (s *Geographic) Extent() geodesy.Extent              { return s.extent }
func (s *Geographic) Projection() geodesy.Projection      { return s.projection }
func (s *Geographic) IsGeographic() bool                  { return true }
func (s *Geographic) NumberOfXTilesAtLevel(level int) int { return s.grid.tilesX(level) }
func (s *Geographic) NumberOfYTilesAtLevel(level int) int { return s.grid.tilesY(level) }

func (s *Geographic) TileXYToExtent(x, y, level int) geodesy.Extent {
	return s.grid.nativeExtent(x, y, level)
}

func (s *Geographic) TileXYToNativeExtent(x, y, level int) geodesy.Extent {
	return s.grid.nativeExtent(x, y, level)
}

func (s *Geographic) PositionToTileXY(c geodesy.Cartographic, level int) (int, int, bool) {
	if !s.extent.Contains(c) {
		return 0, 0, false
	}
	x, y := s.grid.tileAt(c.Longitude, c.Latitude, level)
	return x, y, true
}
