package terrain

import (
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/math"
)

// BuildMesh tessellates p and derives indices, bounds and culling volumes.
func BuildMesh(p Params) (*Mesh, error) {
	return BuildMeshInto(p, nil)
}

// BuildMeshInto is BuildMesh writing vertices into buf when it is large
// enough.
func BuildMeshInto(p Params, buf []float64) (*Mesh, error) {
	vertices, err := Tessellate(p, buf)
	if err != nil {
		return nil, err
	}

	mesh := &Mesh{
		Vertices:   vertices,
		Indices:    GridIndices(p.Width, p.Height),
		Width:      p.Width,
		Height:     p.Height,
		Stride:     p.Stride(),
		Attributes: p.Attributes,
		Center:     p.RelativeToCenter,
	}

	// Tessellate validated the buffer, so decoding cannot fail here.
	heights, _ := p.Encoding.Heights(p.Heightmap, p.VertexCount(), nil)
	mesh.MinHeight, mesh.MaxHeight = heightRange(heights)

	mesh.Bounds, mesh.BoundingSphere = meshBounds(mesh)
	oneOverRadii := math.Vec3{
		X: 1 / gomath.Sqrt(p.RadiiSquared.X),
		Y: 1 / gomath.Sqrt(p.RadiiSquared.Y),
		Z: 1 / gomath.Sqrt(p.RadiiSquared.Z),
	}
	mesh.OcclusionPoint, mesh.HasOcclusionPoint = HorizonOcclusionPoint(mesh, oneOverRadii)

	return mesh, nil
}

// GridIndices triangulates a row-major width x height grid whose row 0 is
// north, two counter-clockwise triangles per quad seen from above.
func GridIndices(width, height int) []uint32 {
	if width < 2 || height < 2 {
		return nil
	}

	indices := make([]uint32, 0, (width-1)*(height-1)*6)
	for v := range height - 1 {
		for h := range width - 1 {
			nw := uint32(v*width + h)
			ne := nw + 1
			sw := nw + uint32(width)
			se := sw + 1

			indices = append(indices, nw, sw, se, nw, se, ne)
		}
	}
	return indices
}

func heightRange(heights []float64) (lo, hi float64) {
	if len(heights) == 0 {
		return 0, 0
	}
	lo, hi = heights[0], heights[0]
	for _, h := range heights[1:] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return lo, hi
}

// meshBounds returns the box of the relative positions and the sphere of
// the absolute ones.
func meshBounds(m *Mesh) (math.AABB, math.BoundingSphere) {
	// Initialize bounds
	lo := math.Vec3{X: gomath.Inf(1), Y: gomath.Inf(1), Z: gomath.Inf(1)}
	hi := math.Vec3{X: gomath.Inf(-1), Y: gomath.Inf(-1), Z: gomath.Inf(-1)}

	n := m.VertexCount()
	for i := range n {
		updateBounds(&lo, &hi, m.relative(i))
	}
	box := math.NewAABB(lo, hi)

	center := box.Center
	var radiusSquared float64
	for i := range n {
		radiusSquared = max(radiusSquared, m.relative(i).Sub(center).LengthSquared())
	}
	sphere := math.BoundingSphere{Center: center.Add(m.Center), Radius: gomath.Sqrt(radiusSquared)}

	return box, sphere
}

func updateBounds(lo, hi *math.Vec3, p math.Vec3) {
	*lo = lo.Min(p)
	*hi = hi.Max(p)
}

// HorizonOcclusionPoint computes the point in ellipsoid-scaled space along
// the bounding sphere's direction that is hidden by the horizon whenever
// every vertex of m is. It reports false when the mesh reaches past the
// horizon of that direction.
func HorizonOcclusionPoint(m *Mesh, oneOverRadii math.Vec3) (math.Vec3, bool) {
	direction := m.BoundingSphere.Center.MultiplyComponents(oneOverRadii).Normalize()
	if direction.IsZero() {
		return math.Vec3{}, false
	}

	maxMagnitude := gomath.Inf(-1)
	for i := range m.VertexCount() {
		scaled := m.relative(i).Add(m.Center).MultiplyComponents(oneOverRadii)
		magnitude := occlusionMagnitude(scaled, direction)
		if magnitude < 0 || gomath.IsInf(magnitude, 0) || gomath.IsNaN(magnitude) {
			return math.Vec3{}, false
		}
		maxMagnitude = max(maxMagnitude, magnitude)
	}

	return direction.Scale(maxMagnitude), true
}

func occlusionMagnitude(position, direction math.Vec3) float64 {
	magnitudeSquared := position.LengthSquared()
	magnitude := gomath.Sqrt(magnitudeSquared)
	toPosition := position.Scale(1 / magnitude)

	// Points below the ellipsoid count as on it.
	magnitudeSquared = max(1, magnitudeSquared)
	magnitude = max(1, magnitude)

	cosAlpha := toPosition.Dot(direction)
	sinAlpha := toPosition.Cross(direction).Length()
	cosBeta := 1 / magnitude
	sinBeta := gomath.Sqrt(magnitudeSquared-1) * cosBeta

	return 1 / (cosAlpha*cosBeta - sinAlpha*sinBeta)
}
