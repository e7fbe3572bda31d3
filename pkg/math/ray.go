package math

import "math"

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // Normalized direction
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// RayPlane intersects a ray with the plane normal·p + d = 0.
// It reports false when the ray is parallel to the plane or the
// intersection lies behind the ray origin.
func RayPlane(r Ray, normal Vec3, d float64) (Vec3, bool) {
	t, ok := planeParameter(r, normal, d)
	if !ok || t < 0 {
		return Vec3{}, false
	}
	return r.At(t), true
}

// LinePlane intersects the infinite line through r with the plane
// normal·p + d = 0, accepting hits on either side of the origin.
func LinePlane(r Ray, normal Vec3, d float64) (Vec3, bool) {
	t, ok := planeParameter(r, normal, d)
	if !ok {
		return Vec3{}, false
	}
	return r.At(t), true
}

func planeParameter(r Ray, normal Vec3, d float64) (float64, bool) {
	denominator := normal.Dot(r.Direction)
	if math.Abs(denominator) < 1e-15 {
		return 0, false
	}
	return (-d - normal.Dot(r.Origin)) / denominator, true
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min    Vec3
	Max    Vec3
	Center Vec3
}

// NewAABB creates an AABB from two corners, handling swapped bounds.
func NewAABB(a, b Vec3) AABB {
	minimum := a.Min(b)
	maximum := a.Max(b)
	return AABB{
		Min:    minimum,
		Max:    maximum,
		Center: minimum.Add(maximum).Scale(0.5),
	}
}

// AABBFromPoints computes the box enclosing points.
// An empty slice yields the zero box.
func AABBFromPoints(points []Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	minimum := points[0]
	maximum := points[0]
	for _, p := range points[1:] {
		minimum = minimum.Min(p)
		maximum = maximum.Max(p)
	}

	return NewAABB(minimum, maximum)
}

// Extend returns a box grown to include p.
func (b AABB) Extend(p Vec3) AABB {
	return NewAABB(b.Min.Min(p), b.Max.Max(p))
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float64, hit bool) {
	tmin := -math.MaxFloat64
	tmax := math.MaxFloat64

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (lo[axis] - origin[axis]) / dir[axis]
			t2 := (hi[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			tmin = math.Max(tmin, t1)
			tmax = math.Min(tmax, t2)
		} else if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
