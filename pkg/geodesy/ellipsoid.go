// Package geodesy converts between geocentric Cartesian and geodetic
// coordinates on a triaxial ellipsoid and builds local frames on its surface.
package geodesy

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/math"
)

// ErrInvalidArgument is returned when a required input is missing or out of range.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// geodeticTolerance bounds |f(λ)| in the surface projection, where f is the
	// normalized quadratic form minus one.
	geodeticTolerance = 1e-12

	// maxGeodeticIterations caps Newton iteration in ScaleToGeodeticSurface.
	maxGeodeticIterations = 25

	// centerToleranceSquared is the quadratic form below which a point is
	// treated as near the center and only scaled geocentrically.
	centerToleranceSquared = 0.1
)

// Named ellipsoids. They are shared read-only values.
var (
	WGS84      = mustEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)
	UnitSphere = mustEllipsoid(1.0, 1.0, 1.0)
)

// Ellipsoid is a quadratic surface centered at the origin, defined by its
// semi-axis radii along x, y and z. It is immutable once constructed.
type Ellipsoid struct {
	radii               math.Vec3
	radiiSquared        math.Vec3
	radiiToTheFourth    math.Vec3
	oneOverRadii        math.Vec3
	oneOverRadiiSquared math.Vec3
	minimumRadius       float64
	maximumRadius       float64
}

// NewEllipsoid creates an ellipsoid with the given radii. All radii must be
// non-negative; a zero radius gives a zero reciprocal.
func NewEllipsoid(x, y, z float64) (*Ellipsoid, error) {
	for axis, r := range [3]float64{x, y, z} {
		if r < 0 || gomath.IsNaN(r) {
			return nil, fmt.Errorf("radius %c = %g must be non-negative: %w", "xyz"[axis], r, ErrInvalidArgument)
		}
	}

	radii := math.Vec3{X: x, Y: y, Z: z}
	squared := radii.MultiplyComponents(radii)

	return &Ellipsoid{
		radii:               radii,
		radiiSquared:        squared,
		radiiToTheFourth:    squared.MultiplyComponents(squared),
		oneOverRadii:        math.Vec3{X: reciprocal(x), Y: reciprocal(y), Z: reciprocal(z)},
		oneOverRadiiSquared: math.Vec3{X: reciprocal(x * x), Y: reciprocal(y * y), Z: reciprocal(z * z)},
		minimumRadius:       radii.MinComponent(),
		maximumRadius:       radii.MaxComponent(),
	}, nil
}

// EllipsoidFromVec3 creates an ellipsoid from a radii vector.
func EllipsoidFromVec3(radii math.Vec3) (*Ellipsoid, error) {
	return NewEllipsoid(radii.X, radii.Y, radii.Z)
}

func mustEllipsoid(x, y, z float64) *Ellipsoid {
	e, err := NewEllipsoid(x, y, z)
	if err != nil {
		panic(err)
	}
	return e
}

func reciprocal(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

// Radii returns the semi-axis radii.
func (e *Ellipsoid) Radii() math.Vec3 { return e.radii }

// RadiiSquared returns the component-wise squared radii.
func (e *Ellipsoid) RadiiSquared() math.Vec3 { return e.radiiSquared }

// RadiiToTheFourth returns the component-wise fourth power of the radii.
func (e *Ellipsoid) RadiiToTheFourth() math.Vec3 { return e.radiiToTheFourth }

// OneOverRadii returns the component-wise reciprocal radii.
func (e *Ellipsoid) OneOverRadii() math.Vec3 { return e.oneOverRadii }

// OneOverRadiiSquared returns the component-wise reciprocal squared radii.
func (e *Ellipsoid) OneOverRadiiSquared() math.Vec3 { return e.oneOverRadiiSquared }

// MinimumRadius returns the smallest radius.
func (e *Ellipsoid) MinimumRadius() float64 { return e.minimumRadius }

// MaximumRadius returns the largest radius.
func (e *Ellipsoid) MaximumRadius() float64 { return e.maximumRadius }

// IsBiaxial reports whether the equatorial radii are equal.
func (e *Ellipsoid) IsBiaxial() bool { return e.radii.X == e.radii.Y }

// Flattening returns (a-c)/a for a biaxial ellipsoid, 0 for a zero ellipsoid.
func (e *Ellipsoid) Flattening() float64 {
	if e.radii.X == 0 {
		return 0
	}
	return (e.radii.X - e.radii.Z) / e.radii.X
}

// GeocentricSurfaceNormal returns the unit vector from the center toward p.
func (e *Ellipsoid) GeocentricSurfaceNormal(p math.Vec3) math.Vec3 {
	return p.Normalize()
}

// GeodeticSurfaceNormal returns the outward surface normal at the point on
// the ellipsoid nearest to p along p ⊙ oneOverRadiiSquared. The zero vector
// has no normal. On the zero ellipsoid the result is NaN.
func (e *Ellipsoid) GeodeticSurfaceNormal(p math.Vec3) (math.Vec3, error) {
	if p.IsZero() {
		return math.Vec3{}, fmt.Errorf("surface normal of zero vector: %w", ErrInvalidArgument)
	}

	n := p.MultiplyComponents(e.oneOverRadiiSquared)
	if n.IsZero() {
		nan := gomath.NaN()
		return math.Vec3{X: nan, Y: nan, Z: nan}, nil
	}
	return n.Normalize(), nil
}

// GeodeticSurfaceNormalCartographic returns the surface normal at the given
// longitude and latitude.
func (e *Ellipsoid) GeodeticSurfaceNormalCartographic(c Cartographic) math.Vec3 {
	sinLon, cosLon := gomath.Sincos(c.Longitude)
	sinLat, cosLat := gomath.Sincos(c.Latitude)
	return math.Vec3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}.Normalize()
}

// CartographicToCartesian converts a geodetic position to Cartesian.
func (e *Ellipsoid) CartographicToCartesian(c Cartographic) math.Vec3 {
	n := e.GeodeticSurfaceNormalCartographic(c)
	k := e.radiiSquared.MultiplyComponents(n)
	gamma := gomath.Sqrt(n.Dot(k))
	return k.DivideByScalar(gamma).Add(n.Scale(c.Height))
}

// CartesianToCartographic converts a Cartesian position to geodetic.
// It reports false when p is the center or the ellipsoid is degenerate.
func (e *Ellipsoid) CartesianToCartographic(p math.Vec3) (Cartographic, bool) {
	surface, ok := e.ScaleToGeodeticSurface(p)
	if !ok {
		return Cartographic{}, false
	}

	n := surface.MultiplyComponents(e.oneOverRadiiSquared).Normalize()
	if n.IsZero() {
		return Cartographic{}, false
	}
	h := p.Sub(surface)

	return Cartographic{
		Longitude: gomath.Atan2(n.Y, n.X),
		Latitude:  gomath.Asin(n.Z),
		Height:    sign(h.Dot(p)) * h.Length(),
	}, true
}

// ScaleToGeodeticSurface moves p along the geodetic surface normal onto the
// surface, solving for the Lagrange multiplier λ with Newton-Raphson. After
// maxGeodeticIterations the best estimate is returned.
//
// Points whose quadratic form is below centerToleranceSquared are scaled
// geocentrically instead. It reports false for the center or a zero ellipsoid.
func (e *Ellipsoid) ScaleToGeodeticSurface(p math.Vec3) (math.Vec3, bool) {
	oorr := e.oneOverRadiiSquared

	x2 := p.X * p.X * oorr.X
	y2 := p.Y * p.Y * oorr.Y
	z2 := p.Z * p.Z * oorr.Z

	squaredNorm := x2 + y2 + z2
	ratio := gomath.Sqrt(1 / squaredNorm)

	intersection := p.Scale(ratio)
	if squaredNorm < centerToleranceSquared {
		if gomath.IsInf(ratio, 0) || gomath.IsNaN(ratio) {
			return math.Vec3{}, false
		}
		return intersection, true
	}

	gradient := intersection.MultiplyComponents(oorr).Scale(2)
	lambda := (1 - ratio) * p.Length() / (0.5 * gradient.Length())

	var xm, ym, zm, correction float64
	for i := 0; i < maxGeodeticIterations; i++ {
		lambda -= correction

		xm = 1 / (1 + lambda*oorr.X)
		ym = 1 / (1 + lambda*oorr.Y)
		zm = 1 / (1 + lambda*oorr.Z)

		xm2, ym2, zm2 := xm*xm, ym*ym, zm*zm

		f := x2*xm2 + y2*ym2 + z2*zm2 - 1
		if gomath.Abs(f) <= geodeticTolerance {
			break
		}

		denominator := x2*xm2*xm*oorr.X + y2*ym2*ym*oorr.Y + z2*zm2*zm*oorr.Z
		correction = f / (-2 * denominator)
	}

	return math.Vec3{X: p.X * xm, Y: p.Y * ym, Z: p.Z * zm}, true
}

// ScaleToGeocentricSurface scales p toward the origin until it lies on the
// surface. It reports false for the center or a zero ellipsoid.
func (e *Ellipsoid) ScaleToGeocentricSurface(p math.Vec3) (math.Vec3, bool) {
	oorr := e.oneOverRadiiSquared
	beta := 1 / gomath.Sqrt(p.X*p.X*oorr.X+p.Y*p.Y*oorr.Y+p.Z*p.Z*oorr.Z)
	if gomath.IsInf(beta, 0) || gomath.IsNaN(beta) {
		return math.Vec3{}, false
	}
	return p.Scale(beta), true
}

// CartographicArrayToCartesianArray converts every element of src, writing
// into dst when it has enough capacity. A nil src is rejected.
func (e *Ellipsoid) CartographicArrayToCartesianArray(src []Cartographic, dst []math.Vec3) ([]math.Vec3, error) {
	if src == nil {
		return nil, fmt.Errorf("cartographic array: %w", ErrInvalidArgument)
	}

	dst = resize(dst, len(src))
	for i, c := range src {
		dst[i] = e.CartographicToCartesian(c)
	}
	return dst, nil
}

// CartesianArrayToCartographicArray converts every element of src. The
// returned ok slice flags elements that had no geodetic position; their
// Cartographic is the zero value.
func (e *Ellipsoid) CartesianArrayToCartographicArray(src []math.Vec3, dst []Cartographic) ([]Cartographic, []bool, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("cartesian array: %w", ErrInvalidArgument)
	}

	dst = resize(dst, len(src))
	ok := make([]bool, len(src))
	for i, p := range src {
		dst[i], ok[i] = e.CartesianToCartographic(p)
	}
	return dst, ok, nil
}

// Equals reports whether other has the same radii. A nil other is never equal.
func (e *Ellipsoid) Equals(other *Ellipsoid) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.radii == other.radii
}

// String formats the radii as "(x, y, z)".
func (e *Ellipsoid) String() string {
	return e.radii.String()
}

func resize[T any](dst []T, n int) []T {
	if cap(dst) < n {
		return make([]T, n)
	}
	return dst[:n]
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
