package geodesy

import (
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/math"
)

const poleEpsilon = 1e-14

// EastNorthUpToFixedFrame returns the local frame at origin whose columns are
// east, north and the geodetic up direction, translated to origin.
//
// At the poles east is +y and north points toward -x (+x at the south pole).
func EastNorthUpToFixedFrame(origin math.Vec3, e *Ellipsoid) math.Mat4 {
	if gomath.Abs(origin.X) < poleEpsilon && gomath.Abs(origin.Y) < poleEpsilon {
		s := sign(origin.Z)
		return math.FromColumns(
			math.Vec3{X: 0, Y: 1, Z: 0},
			math.Vec3{X: -s, Y: 0, Z: 0},
			math.Vec3{X: 0, Y: 0, Z: s},
			origin,
		)
	}

	up := origin.MultiplyComponents(e.OneOverRadiiSquared()).Normalize()
	east := math.Vec3{X: -origin.Y, Y: origin.X, Z: 0}.Normalize()
	north := up.Cross(east)

	return math.FromColumns(east, north, up, origin)
}

// FixedFrameToEastNorthUp is the inverse of EastNorthUpToFixedFrame: it maps
// fixed-frame positions to east, north and up offsets from origin.
func FixedFrameToEastNorthUp(origin math.Vec3, e *Ellipsoid) math.Mat4 {
	return EastNorthUpToFixedFrame(origin, e).Inverse()
}
