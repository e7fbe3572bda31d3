package geodesy

import (
	"fmt"

	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/fogleman/delaunay"
)

// TangentPlane is a local east/north plane touching the ellipsoid at Origin.
// The plane satisfies Normal·p + D = 0 with D = -Normal·Origin, which is
// -Origin·Origin on the unit sphere.
type TangentPlane struct {
	Origin math.Vec3
	XAxis  math.Vec3
	YAxis  math.Vec3
	Normal math.Vec3
	D      float64

	ellipsoid *Ellipsoid
}

// NewTangentPlane builds the plane frame at origin. The origin is used as
// given; TangentPlaneFromPoints snaps it to the surface first.
func NewTangentPlane(e *Ellipsoid, origin math.Vec3) (*TangentPlane, error) {
	if e == nil {
		return nil, fmt.Errorf("tangent plane: nil ellipsoid: %w", ErrInvalidArgument)
	}

	enu := EastNorthUpToFixedFrame(origin, e)
	return &TangentPlane{
		Origin:    origin,
		XAxis:     enu.Column3(0),
		YAxis:     enu.Column3(1),
		Normal:    enu.Column3(2),
		D:         -enu.Column3(2).Dot(origin),
		ellipsoid: e,
	}, nil
}

// TangentPlaneFromPoints builds a plane at the geodetic surface point below
// the center of the bounding box of positions.
func TangentPlaneFromPoints(e *Ellipsoid, positions []math.Vec3) (*TangentPlane, error) {
	if e == nil || positions == nil {
		return nil, fmt.Errorf("tangent plane: ellipsoid and positions are required: %w", ErrInvalidArgument)
	}

	box := math.AABBFromPoints(positions)
	origin, ok := e.ScaleToGeodeticSurface(box.Center)
	if !ok {
		return nil, fmt.Errorf("tangent plane: bounding box center %v has no surface point: %w", box.Center, ErrInvalidArgument)
	}
	return NewTangentPlane(e, origin)
}

// Ellipsoid returns the ellipsoid the plane was built on.
func (tp *TangentPlane) Ellipsoid() *Ellipsoid { return tp.ellipsoid }

// ProjectPointOntoPlane intersects the line through p and the center with
// the plane and returns the local (east, north) coordinates of the hit.
// It reports false when that line is parallel to the plane or p lies on the
// far side of the center, where the line meets the plane only through it.
func (tp *TangentPlane) ProjectPointOntoPlane(p math.Vec3) (math.Vec2, bool) {
	if p.Dot(tp.Normal) <= 0 {
		return math.Vec2{}, false
	}
	ray := math.NewRay(p, p)
	hit, ok := math.LinePlane(ray, tp.Normal, tp.D)
	if !ok {
		return math.Vec2{}, false
	}

	v := hit.Sub(tp.Origin)
	return math.Vec2{X: tp.XAxis.Dot(v), Y: tp.YAxis.Dot(v)}, true
}

// ProjectPointsOntoPlane projects every position. Positions without a plane
// intersection are dropped, so the result may be shorter than the input.
func (tp *TangentPlane) ProjectPointsOntoPlane(positions []math.Vec3) ([]math.Vec2, error) {
	if positions == nil {
		return nil, fmt.Errorf("project onto plane: nil positions: %w", ErrInvalidArgument)
	}

	out := make([]math.Vec2, 0, len(positions))
	for _, p := range positions {
		if q, ok := tp.ProjectPointOntoPlane(p); ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// ProjectPointsOntoEllipsoid maps local plane coordinates back to the
// geocentric surface. The result has the same length as the input; an
// element that cannot be scaled is left as its plane position.
func (tp *TangentPlane) ProjectPointsOntoEllipsoid(positions []math.Vec2) ([]math.Vec3, error) {
	if positions == nil {
		return nil, fmt.Errorf("project onto ellipsoid: nil positions: %w", ErrInvalidArgument)
	}

	out := make([]math.Vec3, len(positions))
	for i, q := range positions {
		p := tp.Origin.Add(tp.XAxis.Scale(q.X)).Add(tp.YAxis.Scale(q.Y))
		if s, ok := tp.ellipsoid.ScaleToGeocentricSurface(p); ok {
			p = s
		}
		out[i] = p
	}
	return out, nil
}

// Triangulate projects positions onto the plane and returns a Delaunay
// triangulation as index triples into positions. Positions that miss the
// plane are excluded from the triangulation.
func (tp *TangentPlane) Triangulate(positions []math.Vec3) ([]int, error) {
	if positions == nil {
		return nil, fmt.Errorf("triangulate: nil positions: %w", ErrInvalidArgument)
	}

	points := make([]delaunay.Point, 0, len(positions))
	index := make([]int, 0, len(positions))
	for i, p := range positions {
		q, ok := tp.ProjectPointOntoPlane(p)
		if !ok {
			continue
		}
		points = append(points, delaunay.Point{X: q.X, Y: q.Y})
		index = append(index, i)
	}

	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d points: %w", len(points), err)
	}

	triangles := make([]int, len(tri.Triangles))
	for i, t := range tri.Triangles {
		triangles[i] = index[t]
	}
	return triangles, nil
}
