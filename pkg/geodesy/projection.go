package geodesy

import (
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/math"
)

// MaxWebMercatorLatitude is the latitude at which the Web Mercator square ends.
var MaxWebMercatorLatitude = MercatorAngleToGeodeticLatitude(gomath.Pi)

// Projection maps geodetic positions to a planar coordinate system. The
// returned Z component carries the height unchanged.
type Projection interface {
	Ellipsoid() *Ellipsoid
	Project(c Cartographic) math.Vec3
	Unproject(p math.Vec3) Cartographic
}

// GeographicProjection is the equidistant cylindrical projection: longitude
// and latitude scaled by the semimajor axis.
type GeographicProjection struct {
	ellipsoid            *Ellipsoid
	semimajor            float64
	oneOverSemimajorAxis float64
}

// NewGeographicProjection creates a projection for e, WGS84 if nil.
func NewGeographicProjection(e *Ellipsoid) *GeographicProjection {
	if e == nil {
		e = WGS84
	}
	a := e.MaximumRadius()
	return &GeographicProjection{ellipsoid: e, semimajor: a, oneOverSemimajorAxis: reciprocal(a)}
}

func (p *GeographicProjection) Ellipsoid() *Ellipsoid { return p.ellipsoid }

func (p *GeographicProjection) Project(c Cartographic) math.Vec3 {
	return math.Vec3{X: c.Longitude * p.semimajor, Y: c.Latitude * p.semimajor, Z: c.Height}
}

func (p *GeographicProjection) Unproject(v math.Vec3) Cartographic {
	return Cartographic{Longitude: v.X * p.oneOverSemimajorAxis, Latitude: v.Y * p.oneOverSemimajorAxis, Height: v.Z}
}

// WebMercatorProjection is the spherical Mercator projection used by most
// web map tile services. Latitudes beyond MaxWebMercatorLatitude are clamped.
type WebMercatorProjection struct {
	ellipsoid            *Ellipsoid
	semimajor            float64
	oneOverSemimajorAxis float64
}

// NewWebMercatorProjection creates a projection for e, WGS84 if nil.
func NewWebMercatorProjection(e *Ellipsoid) *WebMercatorProjection {
	if e == nil {
		e = WGS84
	}
	a := e.MaximumRadius()
	return &WebMercatorProjection{ellipsoid: e, semimajor: a, oneOverSemimajorAxis: reciprocal(a)}
}

func (p *WebMercatorProjection) Ellipsoid() *Ellipsoid { return p.ellipsoid }

func (p *WebMercatorProjection) Project(c Cartographic) math.Vec3 {
	return math.Vec3{
		X: c.Longitude * p.semimajor,
		Y: GeodeticLatitudeToMercatorAngle(c.Latitude) * p.semimajor,
		Z: c.Height,
	}
}

func (p *WebMercatorProjection) Unproject(v math.Vec3) Cartographic {
	return Cartographic{
		Longitude: v.X * p.oneOverSemimajorAxis,
		Latitude:  MercatorAngleToGeodeticLatitude(v.Y * p.oneOverSemimajorAxis),
		Height:    v.Z,
	}
}

// MercatorAngleToGeodeticLatitude converts a Mercator angle in [-π, π] to latitude.
func MercatorAngleToGeodeticLatitude(angle float64) float64 {
	return gomath.Pi/2 - 2*gomath.Atan(gomath.Exp(-angle))
}

// GeodeticLatitudeToMercatorAngle converts a latitude to a Mercator angle,
// clamping to the Web Mercator square.
func GeodeticLatitudeToMercatorAngle(lat float64) float64 {
	if lat > MaxWebMercatorLatitude {
		lat = MaxWebMercatorLatitude
	} else if lat < -MaxWebMercatorLatitude {
		lat = -MaxWebMercatorLatitude
	}
	s := gomath.Sin(lat)
	return 0.5 * gomath.Log((1+s)/(1-s))
}

// ProjectExtent returns the planar rectangle covered by extent under p.
func ProjectExtent(extent Extent, p Projection) math.BoundingRectangle {
	sw := p.Project(extent.Southwest())
	ne := p.Project(extent.Northeast())
	return math.BoundingRectangle{X: sw.X, Y: sw.Y, Width: ne.X - sw.X, Height: ne.Y - sw.Y}
}
