package geodesy

import (
	gomath "math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terraglobe/pkg/math"
)

func TestExtentValidate(t *testing.T) {
	tests := []struct {
		name    string
		extent  Extent
		wantErr bool
	}{
		{"max", MaxExtent, false},
		{"antimeridian", ExtentFromDegrees(170, -10, -170, 10), false},
		{"north too large", Extent{North: 2}, true},
		{"south too small", Extent{South: -2}, true},
		{"west too small", Extent{West: -4}, true},
		{"east too large", Extent{East: 4}, true},
		{"inverted", Extent{South: 0.5, North: 0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.extent.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtentDimensions(t *testing.T) {
	e := ExtentFromDegrees(170, -10, -170, 20)
	assert.InDelta(t, 20*gomath.Pi/180, e.Width(), 1e-15)
	assert.InDelta(t, 30*gomath.Pi/180, e.Height(), 1e-15)

	lon, lat := e.Center().Degrees()
	assert.InDelta(t, 180, gomath.Abs(lon), 1e-12)
	assert.InDelta(t, 5, lat, 1e-12)

	assert.True(t, e.Contains(CartographicFromDegrees(175, 0, 0)))
	assert.True(t, e.Contains(CartographicFromDegrees(-175, 0, 0)))
	assert.False(t, e.Contains(CartographicFromDegrees(0, 0, 0)))
	assert.False(t, e.Contains(CartographicFromDegrees(175, 30, 0)))
}

func TestExtentBound(t *testing.T) {
	b := ExtentFromDegrees(-10, -5, 10, 5).Bound()
	assert.InDelta(t, -10, b.Min.Lon(), 1e-12)
	assert.InDelta(t, -5, b.Min.Lat(), 1e-12)
	assert.InDelta(t, 10, b.Max.Lon(), 1e-12)
	assert.InDelta(t, 5, b.Max.Lat(), 1e-12)
	assert.True(t, b.Contains(orb.Point{0, 0}))
}

func TestCartographicFromDegrees(t *testing.T) {
	c := CartographicFromDegrees(180, -90, 12)
	assert.InDelta(t, gomath.Pi, c.Longitude, 1e-15)
	assert.InDelta(t, -gomath.Pi/2, c.Latitude, 1e-15)
	assert.Equal(t, 12.0, c.Height)

	lon, lat := c.Degrees()
	assert.InDelta(t, 180, lon, 1e-12)
	assert.InDelta(t, -90, lat, 1e-12)
}

func TestWebMercatorProjectionRoundTrip(t *testing.T) {
	p := NewWebMercatorProjection(nil)
	assert.Same(t, WGS84, p.Ellipsoid())

	for _, c := range []Cartographic{
		CartographicFromDegrees(0, 0, 0),
		CartographicFromDegrees(-120, 45, 100),
		CartographicFromDegrees(60, -80, -30),
	} {
		got := p.Unproject(p.Project(c))
		assertCartographic(t, c, got, 1e-12, 1e-9)
	}
}

func TestWebMercatorClampsLatitude(t *testing.T) {
	p := NewWebMercatorProjection(WGS84)
	top := p.Project(CartographicFromDegrees(0, 89, 0))
	assert.InDelta(t, gomath.Pi*6378137, top.Y, 1e-4)

	_, maxLat := Cartographic{Latitude: MaxWebMercatorLatitude}.Degrees()
	assert.InDelta(t, 85.05112878, maxLat, 1e-8)
}

func TestGeographicProjection(t *testing.T) {
	p := NewGeographicProjection(UnitSphere)
	got := p.Project(Cartographic{Longitude: 1, Latitude: 0.5, Height: 3})
	assert.Equal(t, math.Vec3{X: 1, Y: 0.5, Z: 3}, got)
	assert.Equal(t, Cartographic{Longitude: 1, Latitude: 0.5, Height: 3}, p.Unproject(got))
}

func TestProjectExtent(t *testing.T) {
	p := NewGeographicProjection(WGS84)
	r := ProjectExtent(MaxExtent, p)

	a := 6378137.0
	require.InDelta(t, -gomath.Pi*a, r.X, 1e-6)
	assert.InDelta(t, -gomath.Pi/2*a, r.Y, 1e-6)
	assert.InDelta(t, 2*gomath.Pi*a, r.Width, 1e-6)
	assert.InDelta(t, gomath.Pi*a, r.Height, 1e-6)
}
