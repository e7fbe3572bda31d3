// Package terrain tessellates heightmap rasters into vertex meshes on an
// ellipsoid and measures how well coarse tiles stand in for finer ones.
package terrain

import (
	"errors"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/math"
)

var (
	// ErrInvalidArgument reports unusable tessellation parameters.
	ErrInvalidArgument = errors.New("terrain: invalid argument")
	// ErrOutOfBounds reports a sample read past the end of the heightmap.
	ErrOutOfBounds = errors.New("terrain: sample out of bounds")
)

// Attributes selects the optional per-vertex attributes written after the
// position triple.
type Attributes struct {
	WithNormals       bool
	WithTextureCoords bool
}

// Stride returns the number of floats per vertex.
func (a Attributes) Stride() int {
	stride := 3
	if a.WithNormals {
		stride += 3
	}
	if a.WithTextureCoords {
		stride += 2
	}
	return stride
}

// Params describes one tessellation call.
type Params struct {
	Heightmap []byte
	Encoding  Encoding
	Width     int // Samples per row
	Height    int // Rows

	// Extent is in radians when IsGeographic, otherwise in Web Mercator
	// meters.
	Extent       geodesy.Extent
	IsGeographic bool

	RadiiSquared                    math.Vec3
	OneOverCentralBodySemimajorAxis float64

	// RelativeToCenter is subtracted from every output position.
	RelativeToCenter math.Vec3

	Attributes Attributes
}

// Stride returns the number of floats per vertex.
func (p Params) Stride() int {
	return p.Attributes.Stride()
}

// VertexCount returns Width*Height.
func (p Params) VertexCount() int {
	return p.Width * p.Height
}

// WithEllipsoid returns p with the ellipsoid fields taken from e.
func (p Params) WithEllipsoid(e *geodesy.Ellipsoid) Params {
	p.RadiiSquared = e.RadiiSquared()
	if r := e.MaximumRadius(); r != 0 {
		p.OneOverCentralBodySemimajorAxis = 1 / r
	}
	return p
}

// Mesh holds a tessellated tile.
type Mesh struct {
	Vertices   []float64 // Interleaved, Stride floats per vertex
	Indices    []uint32
	Width      int
	Height     int
	Stride     int
	Attributes Attributes

	// Center is the RelativeToCenter offset of Vertices.
	Center math.Vec3

	Bounds         math.AABB // Relative to Center
	BoundingSphere math.BoundingSphere
	MinHeight      float64
	MaxHeight      float64

	// OcclusionPoint is the horizon occlusion point in ellipsoid-scaled
	// space. HasOcclusionPoint is false when no such point exists.
	OcclusionPoint    math.Vec3
	HasOcclusionPoint bool
}

// Position returns the absolute position of grid cell (v, h).
func (m *Mesh) Position(v, h int) math.Vec3 {
	return m.ModelMatrix().TransformPoint(m.relative(v*m.Width + h))
}

// ModelMatrix maps stored vertex positions to absolute fixed-frame positions.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return math.Translate(m.Center.X, m.Center.Y, m.Center.Z)
}

// LocalFrame maps stored vertex positions to east, north and up offsets from
// the mesh center on e.
func (m *Mesh) LocalFrame(e *geodesy.Ellipsoid) math.Mat4 {
	return geodesy.FixedFrameToEastNorthUp(m.Center, e).Mul(m.ModelMatrix())
}

// Transformed returns a copy of the vertices with positions mapped by t.
// Normals are rotated by t; texture coordinates are copied as is.
func (m *Mesh) Transformed(t math.Mat4) []float64 {
	out := make([]float64, len(m.Vertices))
	copy(out, m.Vertices)
	if m.Stride < 3 {
		return out
	}

	for i := 0; i+m.Stride <= len(out); i += m.Stride {
		p := t.TransformPoint(math.Vec3{X: out[i], Y: out[i+1], Z: out[i+2]})
		out[i], out[i+1], out[i+2] = p.X, p.Y, p.Z

		if m.Attributes.WithNormals {
			n := t.TransformDirection(math.Vec3{X: out[i+3], Y: out[i+4], Z: out[i+5]})
			out[i+3], out[i+4], out[i+5] = n.X, n.Y, n.Z
		}
	}
	return out
}

func (m *Mesh) relative(index int) math.Vec3 {
	i := index * m.Stride
	return math.Vec3{X: m.Vertices[i], Y: m.Vertices[i+1], Z: m.Vertices[i+2]}
}

// Normal returns the normal of grid cell (v, h) and false when the mesh has
// no normals.
func (m *Mesh) Normal(v, h int) (math.Vec3, bool) {
	if !m.Attributes.WithNormals {
		return math.Vec3{}, false
	}
	i := (v*m.Width+h)*m.Stride + 3
	return math.Vec3{X: m.Vertices[i], Y: m.Vertices[i+1], Z: m.Vertices[i+2]}, true
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return m.Width * m.Height
}
