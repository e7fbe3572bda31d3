package geodesy

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terraglobe/pkg/math"
)

func TestIntersectRay(t *testing.T) {
	triaxial, err := NewEllipsoid(1, 2, 3)
	require.NoError(t, err)

	tests := []struct {
		name      string
		ellipsoid *Ellipsoid
		ray       math.Ray
		near, far float64
		ok        bool
	}{
		{"through sphere", UnitSphere, math.NewRay(math.Vec3{X: 2}, math.Vec3{X: -1}), 1, 3, true},
		{"from inside", UnitSphere, math.NewRay(math.Vec3{}, math.Vec3{Y: 1}), 0, 1, true},
		{"tangent", UnitSphere, math.NewRay(math.Vec3{X: 2, Y: 1}, math.Vec3{X: -1}), 2, 2, true},
		{"miss", UnitSphere, math.NewRay(math.Vec3{X: 2, Y: 2}, math.Vec3{X: -1}), 0, 0, false},
		{"pointing away", UnitSphere, math.NewRay(math.Vec3{X: 2}, math.Vec3{X: 1}), 0, 0, false},
		{"on surface inward", UnitSphere, math.NewRay(math.Vec3{X: 1}, math.Vec3{X: -1}), 0, 2, true},
		{"triaxial pole", triaxial, math.NewRay(math.Vec3{Z: 10}, math.Vec3{Z: -1}), 7, 13, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			near, far, ok := tt.ellipsoid.IntersectRay(tt.ray)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.near, near, 1e-12)
				assert.InDelta(t, tt.far, far, 1e-12)
			}
		})
	}
}

func TestIntersectRayHitsSurface(t *testing.T) {
	origin := WGS84.CartographicToCartesian(CartographicFromDegrees(30, 20, 1e7))
	ray := math.NewRay(origin, origin.Negate())

	near, _, ok := WGS84.IntersectRay(ray)
	require.True(t, ok)

	hit := ray.At(near)
	c, ok := WGS84.CartesianToCartographic(hit)
	require.True(t, ok)
	assert.InDelta(t, 0, c.Height, 1e-6)
}

func TestSurfaceDistance(t *testing.T) {
	a := CartographicFromDegrees(0, 0, 0)
	b := CartographicFromDegrees(1, 0, 0)

	got, err := WGS84.SurfaceDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 6378137*gomath.Pi/180, got, 1e-6)

	got, err = UnitSphere.SurfaceDistance(a, CartographicFromDegrees(0, 90, 0))
	require.NoError(t, err)
	assert.InDelta(t, gomath.Pi/2, got, 1e-12)
}

func TestSurfaceDistanceRejectsTriaxial(t *testing.T) {
	e, err := NewEllipsoid(1, 2, 3)
	require.NoError(t, err)

	_, err = e.SurfaceDistance(Cartographic{}, Cartographic{Longitude: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
