package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/Faultbox/terraglobe/pkg/tiling"
)

func TestGridIndices(t *testing.T) {
	indices := GridIndices(3, 2)
	require.Len(t, indices, 12)
	assert.Equal(t, []uint32{0, 3, 4, 0, 4, 1}, indices[:6])
	assert.Equal(t, []uint32{1, 4, 5, 1, 5, 2}, indices[6:])

	assert.Nil(t, GridIndices(1, 5))
	assert.Nil(t, GridIndices(4, 0))
}

func TestGridIndicesInRange(t *testing.T) {
	w, h := 7, 5
	for _, i := range GridIndices(w, h) {
		if int(i) >= w*h {
			t.Fatalf("index %d out of range for %dx%d grid", i, w, h)
		}
	}
}

func TestBuildMeshFacesOutward(t *testing.T) {
	scheme := tiling.NewGeographic(nil)
	tile := tiling.Tile{X: 3, Y: 1, Level: 2, Scheme: scheme}
	mesh := tileMesh(t, tile, flatRaster(t, 5, 5, 100), Attributes{})

	require.Len(t, mesh.Indices, 4*4*6)
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mesh.Position(0, int(mesh.Indices[i]))
		b := mesh.Position(0, int(mesh.Indices[i+1]))
		c := mesh.Position(0, int(mesh.Indices[i+2]))

		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Dot(a) <= 0 {
			t.Errorf("triangle %d faces inward", i/3)
		}
	}
}

func TestBuildMeshBounds(t *testing.T) {
	scheme := tiling.NewWebMercator(nil)
	tile := tiling.Tile{X: 2, Y: 1, Level: 2, Scheme: scheme}
	raster := heightRaster(t, 6, 4, func(v, h int) float64 { return float64(v * h * 50) })
	mesh := tileMesh(t, tile, raster, Attributes{WithNormals: true})

	assert.Equal(t, 6, mesh.Stride)
	assert.Equal(t, 0.0, mesh.MinHeight)
	assert.Equal(t, 750.0, mesh.MaxHeight)

	for v := range mesh.Height {
		for h := range mesh.Width {
			p := mesh.Position(v, h)
			assert.True(t, mesh.Bounds.Contains(mesh.relative(v*mesh.Width+h)), "box misses (%d,%d)", v, h)
			assert.LessOrEqual(t, p.Distance(mesh.BoundingSphere.Center), mesh.BoundingSphere.Radius+1e-6)
		}
	}

	n, ok := mesh.Normal(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 1, n.Length(), 1e-14)
}

func TestMeshPositionIsAbsolute(t *testing.T) {
	extent := geodesy.ExtentFromDegrees(20, 20, 21, 21)
	p := geographicParams(t, 2, 2, 0, extent)
	p.RelativeToCenter = geodesy.WGS84.CartographicToCartesian(extent.Center())

	mesh, err := BuildMesh(p)
	require.NoError(t, err)

	want := geodesy.WGS84.CartographicToCartesian(extent.Northwest())
	assertNear(t, want, mesh.Position(0, 0), 1e-6)
	assert.Less(t, mesh.Bounds.Max.Sub(mesh.Bounds.Min).Length(), 2e5)

	_, ok := mesh.Normal(0, 0)
	assert.False(t, ok)
}

func TestHorizonOcclusionPoint(t *testing.T) {
	scheme := tiling.NewGeographic(nil)
	tile := tiling.Tile{X: 10, Y: 3, Level: 3, Scheme: scheme}
	mesh := tileMesh(t, tile, flatRaster(t, 5, 5, 0), Attributes{})

	require.True(t, mesh.HasOcclusionPoint)
	assert.GreaterOrEqual(t, mesh.OcclusionPoint.Length(), 1.0)

	direction := mesh.BoundingSphere.Center.MultiplyComponents(geodesy.WGS84.OneOverRadii()).Normalize()
	assert.InDelta(t, 1, mesh.OcclusionPoint.Normalize().Dot(direction), 1e-12)
}

func TestHorizonOcclusionPointPastHorizon(t *testing.T) {
	// The second vertex lies more than 90 degrees from the sphere center.
	mesh := &Mesh{
		Vertices:       []float64{0, 1, 0, 0.8, -0.6, 0},
		Width:          2,
		Height:         1,
		Stride:         3,
		BoundingSphere: math.BoundingSphere{Center: math.Vec3{Y: 0.5}},
	}
	one := math.Vec3{X: 1, Y: 1, Z: 1}

	_, ok := HorizonOcclusionPoint(mesh, one)
	assert.False(t, ok)

	mesh.Vertices[3], mesh.Vertices[4] = 0.6, 0.8
	point, ok := HorizonOcclusionPoint(mesh, one)
	require.True(t, ok)
	assert.InDelta(t, 1/0.8, point.Y, 1e-12)
	assert.InDelta(t, 0, point.X, 1e-15)
}

func TestBuildMeshIntoReusesBuffer(t *testing.T) {
	p := geographicParams(t, 3, 3, 0, geodesy.ExtentFromDegrees(0, 0, 1, 1))
	buf := make([]float64, 27)

	mesh, err := BuildMeshInto(p, buf)
	require.NoError(t, err)
	assert.Same(t, &buf[0], &mesh.Vertices[0])

	_, err = BuildMesh(Params{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMeshModelMatrix(t *testing.T) {
	tile := tiling.Tile{X: 9, Y: 5, Level: 4, Scheme: tiling.NewWebMercator(nil)}
	mesh := tileMesh(t, tile, flatRaster(t, 4, 4, 50), Attributes{WithNormals: true})

	model := mesh.ModelMatrix()
	assert.Equal(t, mesh.Center, model.TransformPoint(math.Vec3{}))
	assert.Equal(t, mesh.relative(5).Add(mesh.Center), mesh.Position(1, 1))
}

func TestMeshTransformedLocalFrame(t *testing.T) {
	tile := tiling.Tile{X: 3, Y: 1, Level: 2, Scheme: tiling.NewGeographic(nil)}
	mesh := tileMesh(t, tile, flatRaster(t, 5, 5, 0), Attributes{WithNormals: true, WithTextureCoords: true})

	local := mesh.Transformed(mesh.LocalFrame(geodesy.WGS84))
	require.Len(t, local, len(mesh.Vertices))
	assert.NotSame(t, &mesh.Vertices[0], &local[0])

	// The tile center sits at the origin of its own frame, with the normal up.
	i := (2*mesh.Width + 2) * mesh.Stride
	assertNear(t, math.Vec3{}, math.Vec3{X: local[i], Y: local[i+1], Z: local[i+2]}, 1e-6)
	assertNear(t, math.Vec3{Z: 1}, math.Vec3{X: local[i+3], Y: local[i+4], Z: local[i+5]}, 1e-9)
	assert.Equal(t, mesh.Vertices[i+6:i+8], local[i+6:i+8])

	// A flat tile curves away below the center's horizon.
	for v := range mesh.Height {
		for h := range mesh.Width {
			assert.LessOrEqual(t, local[(v*mesh.Width+h)*mesh.Stride+2], 1e-6)
		}
	}

	assert.Empty(t, (&Mesh{}).Transformed(math.Identity()))
}
