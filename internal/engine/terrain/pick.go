package terrain

import (
	"github.com/Faultbox/terraglobe/pkg/math"
)

// Pick returns the nearest point where r, in absolute coordinates, hits the
// mesh surface.
func (m *Mesh) Pick(r math.Ray) (math.Vec3, bool) {
	// Work relative to the mesh center to keep precision.
	model := m.ModelMatrix()
	toLocal := model.Inverse()
	local := math.Ray{Origin: toLocal.TransformPoint(r.Origin), Direction: toLocal.TransformDirection(r.Direction)}
	if _, hit := local.IntersectAABB(m.Bounds); !hit {
		return math.Vec3{}, false
	}

	best := -1.0
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.relative(int(m.Indices[i]))
		b := m.relative(int(m.Indices[i+1]))
		c := m.relative(int(m.Indices[i+2]))

		if t, ok := intersectTriangle(local, a, b, c); ok && (best < 0 || t < best) {
			best = t
		}
	}
	if best < 0 {
		return math.Vec3{}, false
	}
	return model.TransformPoint(local.At(best)), true
}

// intersectTriangle returns the ray parameter of the hit with triangle abc,
// from either side.
func intersectTriangle(r math.Ray, a, b, c math.Vec3) (float64, bool) {
	normal := b.Sub(a).Cross(c.Sub(a))
	denominator := normal.Dot(r.Direction)
	if denominator == 0 {
		return 0, false
	}

	t := normal.Dot(a.Sub(r.Origin)) / denominator
	if t < 0 {
		return 0, false
	}

	p := r.At(t)
	inside := b.Sub(a).Cross(p.Sub(a)).Dot(normal) >= 0 &&
		c.Sub(b).Cross(p.Sub(b)).Dot(normal) >= 0 &&
		a.Sub(c).Cross(p.Sub(c)).Dot(normal) >= 0
	return t, inside
}
