package geodesy

import (
	"fmt"

	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/golang/geo/s1"
)

// Cartographic is a geodetic position: longitude and latitude in radians,
// height above the ellipsoid in the ellipsoid's linear units.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}

// CartographicFromDegrees builds a Cartographic from degrees.
func CartographicFromDegrees(lon, lat, height float64) Cartographic {
	return Cartographic{
		Longitude: (s1.Angle(lon) * s1.Degree).Radians(),
		Latitude:  (s1.Angle(lat) * s1.Degree).Radians(),
		Height:    height,
	}
}

// Degrees returns longitude and latitude in degrees.
func (c Cartographic) Degrees() (lon, lat float64) {
	return s1.Angle(c.Longitude).Degrees(), s1.Angle(c.Latitude).Degrees()
}

// EqualsEpsilon compares angles against angleEpsilon and height against heightEpsilon.
func (c Cartographic) EqualsEpsilon(other Cartographic, angleEpsilon, heightEpsilon float64) bool {
	return math.EqualsEpsilon(c.Longitude, other.Longitude, angleEpsilon) &&
		math.EqualsEpsilon(c.Latitude, other.Latitude, angleEpsilon) &&
		math.EqualsEpsilon(c.Height, other.Height, heightEpsilon)
}

func (c Cartographic) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.Longitude, c.Latitude, c.Height)
}
