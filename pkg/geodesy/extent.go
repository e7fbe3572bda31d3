package geodesy

import (
	"fmt"
	gomath "math"

	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
)

// Extent is a geographic rectangle in radians. East may be less than West
// when the extent crosses the antimeridian.
type Extent struct {
	West  float64
	South float64
	East  float64
	North float64
}

// MaxExtent covers the whole ellipsoid.
var MaxExtent = Extent{West: -gomath.Pi, South: -gomath.Pi / 2, East: gomath.Pi, North: gomath.Pi / 2}

// ExtentFromDegrees builds an Extent from degrees.
func ExtentFromDegrees(west, south, east, north float64) Extent {
	return Extent{
		West:  (s1.Angle(west) * s1.Degree).Radians(),
		South: (s1.Angle(south) * s1.Degree).Radians(),
		East:  (s1.Angle(east) * s1.Degree).Radians(),
		North: (s1.Angle(north) * s1.Degree).Radians(),
	}
}

// Validate checks that every bound is in range and South <= North.
func (e Extent) Validate() error {
	switch {
	case gomath.Abs(e.North) > gomath.Pi/2:
		return fmt.Errorf("north %g out of [-π/2, π/2]: %w", e.North, ErrInvalidArgument)
	case gomath.Abs(e.South) > gomath.Pi/2:
		return fmt.Errorf("south %g out of [-π/2, π/2]: %w", e.South, ErrInvalidArgument)
	case gomath.Abs(e.West) > gomath.Pi:
		return fmt.Errorf("west %g out of [-π, π]: %w", e.West, ErrInvalidArgument)
	case gomath.Abs(e.East) > gomath.Pi:
		return fmt.Errorf("east %g out of [-π, π]: %w", e.East, ErrInvalidArgument)
	case e.South > e.North:
		return fmt.Errorf("south %g above north %g: %w", e.South, e.North, ErrInvalidArgument)
	}
	return nil
}

// Width returns the longitudinal span, unwrapping across the antimeridian.
func (e Extent) Width() float64 {
	if e.East < e.West {
		return e.East + 2*gomath.Pi - e.West
	}
	return e.East - e.West
}

// Height returns the latitudinal span.
func (e Extent) Height() float64 {
	return e.North - e.South
}

// Center returns the midpoint at zero height.
func (e Extent) Center() Cartographic {
	lon := e.West + e.Width()/2
	if lon > gomath.Pi {
		lon -= 2 * gomath.Pi
	}
	return Cartographic{Longitude: lon, Latitude: (e.South + e.North) / 2}
}

// Southwest, Northwest, Northeast and Southeast return the corners at zero height.
func (e Extent) Southwest() Cartographic { return Cartographic{Longitude: e.West, Latitude: e.South} }
func (e Extent) Northwest() Cartographic { return Cartographic{Longitude: e.West, Latitude: e.North} }
func (e Extent) Northeast() Cartographic { return Cartographic{Longitude: e.East, Latitude: e.North} }
func (e Extent) Southeast() Cartographic { return Cartographic{Longitude: e.East, Latitude: e.South} }

// Contains reports whether c lies inside or on the extent.
func (e Extent) Contains(c Cartographic) bool {
	if c.Latitude < e.South || c.Latitude > e.North {
		return false
	}
	if e.East < e.West {
		return c.Longitude >= e.West || c.Longitude <= e.East
	}
	return c.Longitude >= e.West && c.Longitude <= e.East
}

// Bound returns the extent in degrees as an orb bound (lon, lat).
func (e Extent) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{s1.Angle(e.West).Degrees(), s1.Angle(e.South).Degrees()},
		Max: orb.Point{s1.Angle(e.East).Degrees(), s1.Angle(e.North).Degrees()},
	}
}

func (e Extent) String() string {
	return fmt.Sprintf("(west %g, south %g, east %g, north %g)", e.West, e.South, e.East, e.North)
}
