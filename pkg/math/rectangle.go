package math

import "math"

// Intersect classifies the relation between two bounding volumes.
type Intersect int

const (
	Outside Intersect = iota - 1
	Intersecting
	Inside
)

func (i Intersect) String() string {
	switch i {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "intersecting"
	}
}

// BoundingRectangle is an axis-aligned 2D rectangle given by its
// lower-left corner and size.
type BoundingRectangle struct {
	X, Y          float64
	Width, Height float64
}

// BoundingRectangleFromPoints computes the rectangle enclosing points.
// An empty slice yields the zero rectangle.
func BoundingRectangleFromPoints(points []Vec2) BoundingRectangle {
	if len(points) == 0 {
		return BoundingRectangle{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return BoundingRectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Union returns the smallest rectangle enclosing r and other.
func (r BoundingRectangle) Union(other BoundingRectangle) BoundingRectangle {
	lowerLeftX := math.Min(r.X, other.X)
	lowerLeftY := math.Min(r.Y, other.Y)
	upperRightX := math.Max(r.X+r.Width, other.X+other.Width)
	upperRightY := math.Max(r.Y+r.Height, other.Y+other.Height)

	return BoundingRectangle{
		X:      lowerLeftX,
		Y:      lowerLeftY,
		Width:  upperRightX - lowerLeftX,
		Height: upperRightY - lowerLeftY,
	}
}

// Expand returns r grown to contain p.
func (r BoundingRectangle) Expand(p Vec2) BoundingRectangle {
	result := r

	width := p.X - result.X
	height := p.Y - result.Y

	if width > result.Width {
		result.Width = width
	} else if width < 0 {
		result.Width -= width
		result.X = p.X
	}

	if height > result.Height {
		result.Height = height
	} else if height < 0 {
		result.Height -= height
		result.Y = p.Y
	}

	return result
}

// Intersect reports whether r and other overlap. Touching edges count as
// Intersecting.
func (r BoundingRectangle) Intersect(other BoundingRectangle) Intersect {
	if !(r.X > other.X+other.Width ||
		r.X+r.Width < other.X ||
		r.Y+r.Height < other.Y ||
		r.Y > other.Y+other.Height) {
		return Intersecting
	}
	return Outside
}

// Equals reports exact equality.
func (r BoundingRectangle) Equals(other BoundingRectangle) bool {
	return r == other
}
