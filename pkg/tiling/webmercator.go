package tiling

import (
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/math"
)

// WebMercator is the single-root-tile Web Mercator quadtree used by most
// web map tile services.
type WebMercator struct {
	ellipsoid  *geodesy.Ellipsoid
	projection *geodesy.WebMercatorProjection
	extent     geodesy.Extent
	grid       grid
}

// NewWebMercator creates the scheme on e, WGS84 if nil.
func NewWebMercator(e *geodesy.Ellipsoid) *WebMercator {
	if e == nil {
		e = geodesy.WGS84
	}
	projection := geodesy.NewWebMercatorProjection(e)
	half := e.MaximumRadius() * gomath.Pi

	s := &WebMercator{
		ellipsoid:  e,
		projection: projection,
		grid:       grid{levelZeroX: 1, levelZeroY: 1, west: -half, south: -half, east: half, north: half},
	}
	s.extent = s.nativeToGeographic(geodesy.Extent{West: -half, South: -half, East: half, North: half})
	return s
}

func (s *WebMercator) Ellipsoid() *geodesy.Ellipsoid       { return s.ellipsoid }
func (s *WebMercator) Extent() geodesy.Extent              { return s.extent }
func (s *WebMercator) Projection() geodesy.Projection      { return s.projection }
func (s *WebMercator) IsGeographic() bool                  { return false }
func (s *WebMercator) NumberOfXTilesAtLevel(level int) int { return s.grid.tilesX(level) }
func (s *WebMercator) NumberOfYTilesAtLevel(level int) int { return s.grid.tilesY(level) }

func (s *WebMercator) TileXYToNativeExtent(x, y, level int) geodesy.Extent {
	return s.grid.nativeExtent(x, y, level)
}

func (s *WebMercator) TileXYToExtent(x, y, level int) geodesy.Extent {
	return s.nativeToGeographic(s.grid.nativeExtent(x, y, level))
}

func (s *WebMercator) PositionToTileXY(c geodesy.Cartographic, level int) (int, int, bool) {
	if !s.extent.Contains(c) {
		return 0, 0, false
	}
	p := s.projection.Project(c)
	x, y := s.grid.tileAt(p.X, p.Y, level)
	return x, y, true
}

func (s *WebMercator) nativeToGeographic(native geodesy.Extent) geodesy.Extent {
	sw := s.projection.Unproject(math.Vec3{X: native.West, Y: native.South})
	ne := s.projection.Unproject(math.Vec3{X: native.East, Y: native.North})
	return geodesy.Extent{West: sw.Longitude, South: sw.Latitude, East: ne.Longitude, North: ne.Latitude}
}
