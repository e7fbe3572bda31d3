package geodesy

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/tidwall/geodesic"
)

// IntersectRay returns the ray parameters at which r enters and leaves the
// ellipsoid, near <= far. A ray starting inside has near = 0.
func (e *Ellipsoid) IntersectRay(r math.Ray) (near, far float64, ok bool) {
	q := e.oneOverRadii.MultiplyComponents(r.Origin)
	w := e.oneOverRadii.MultiplyComponents(r.Direction)

	q2 := q.LengthSquared()
	qw := q.Dot(w)
	w2 := w.LengthSquared()
	if w2 == 0 {
		return 0, 0, false
	}

	switch {
	case q2 > 1:
		// Outside the ellipsoid.
		if qw >= 0 {
			return 0, 0, false
		}

		qw2 := qw * qw
		difference := q2 - 1
		product := w2 * difference

		if qw2 < product {
			return 0, 0, false
		}
		if qw2 > product {
			temp := -qw + gomath.Sqrt(qw2-product)
			root0 := temp / w2
			root1 := difference / temp
			if root0 < root1 {
				return root0, root1, true
			}
			return root1, root0, true
		}

		root := gomath.Sqrt(difference / w2)
		return root, root, true

	case q2 < 1:
		// Inside the ellipsoid.
		difference := q2 - 1
		discriminant := qw*qw - w2*difference
		temp := -qw + gomath.Sqrt(discriminant)
		return 0, temp / w2, true

	default:
		// On the surface.
		if qw < 0 {
			return 0, -2 * qw / w2, true
		}
		return 0, 0, false
	}
}

// SurfaceDistance returns the geodesic distance along the surface between a
// and b, ignoring heights. Only biaxial ellipsoids are supported.
func (e *Ellipsoid) SurfaceDistance(a, b Cartographic) (float64, error) {
	if !e.IsBiaxial() {
		return 0, fmt.Errorf("surface distance on triaxial ellipsoid %v: %w", e, ErrInvalidArgument)
	}
	if e.radii.X == 0 {
		return 0, fmt.Errorf("surface distance on zero ellipsoid: %w", ErrInvalidArgument)
	}

	lon1, lat1 := a.Degrees()
	lon2, lat2 := b.Degrees()

	g := geodesic.WGS84
	if !e.Equals(WGS84) {
		g = geodesic.NewEllipsoid(e.radii.X, e.Flattening())
	}

	var s12 float64
	g.Inverse(lat1, lon1, lat2, lon2, &s12, nil, nil)
	return s12, nil
}
