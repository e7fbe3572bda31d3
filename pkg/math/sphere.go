package math

import "math"

// BoundingSphere is a sphere enclosing a point set.
type BoundingSphere struct {
	Center Vec3
	Radius float64
}

// BoundingSphereFromPoints centers the sphere on the points' AABB and sets
// the radius to the farthest point. The result is not the minimal sphere.
func BoundingSphereFromPoints(points []Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}

	center := AABBFromPoints(points).Center
	var radiusSquared float64
	for _, p := range points {
		if d := p.Sub(center).LengthSquared(); d > radiusSquared {
			radiusSquared = d
		}
	}

	return BoundingSphere{Center: center, Radius: math.Sqrt(radiusSquared)}
}

// Contains reports whether p lies inside or on the sphere.
func (s BoundingSphere) Contains(p Vec3) bool {
	return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}
