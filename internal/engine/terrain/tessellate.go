package terrain

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
)

// Tessellate writes one vertex per heightmap sample into vertices and
// returns the filled slice. Vertex (v, h) starts at (v*Width+h)*Stride();
// row 0 is the north edge. vertices is reused when its capacity allows.
func Tessellate(p Params, vertices []float64) ([]float64, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	stride := p.Stride()
	n := p.VertexCount() * stride
	if cap(vertices) < n {
		vertices = make([]float64, n)
	}
	vertices = vertices[:n]

	spanX, spanY := p.spans()
	lastCol := float64(p.Width - 1)
	lastRow := float64(p.Height - 1)
	oneOver := p.OneOverCentralBodySemimajorAxis
	rs := p.RadiiSquared
	rtc := p.RelativeToCenter
	enc := p.Encoding

	for v := range p.Height {
		fv := float64(v) / lastRow
		lat := p.Extent.North - fv*spanY
		if !p.IsGeographic {
			lat = geodesy.MercatorAngleToGeodeticLatitude(lat * oneOver)
		}
		sinLat, cosLat := gomath.Sincos(lat)

		for h := range p.Width {
			fh := float64(h) / lastCol
			lon := p.Extent.West + fh*spanX
			if !p.IsGeographic {
				lon *= oneOver
			}
			sinLon, cosLon := gomath.Sincos(lon)

			sample := v*p.Width + h
			height := enc.decodeAt(p.Heightmap, sample*enc.StrideBytes)

			// Geodetic surface normal
			nx := cosLat * cosLon
			ny := cosLat * sinLon
			nz := sinLat

			kx := rs.X * nx
			ky := rs.Y * ny
			kz := rs.Z * nz
			gamma := gomath.Sqrt(nx*kx + ny*ky + nz*kz)

			i := sample * stride
			vertices[i] = kx/gamma + nx*height - rtc.X
			vertices[i+1] = ky/gamma + ny*height - rtc.Y
			vertices[i+2] = kz/gamma + nz*height - rtc.Z
			i += 3

			if p.Attributes.WithNormals {
				vertices[i] = nx
				vertices[i+1] = ny
				vertices[i+2] = nz
				i += 3
			}
			if p.Attributes.WithTextureCoords {
				vertices[i] = fh
				vertices[i+1] = 1 - fv
			}
		}
	}

	return vertices, nil
}

// spans returns the east-west and north-south extent sizes in extent units.
func (p Params) spans() (x, y float64) {
	if p.IsGeographic {
		return p.Extent.Width(), p.Extent.Height()
	}
	return p.Extent.East - p.Extent.West, p.Extent.Height()
}

func (p Params) validate() error {
	if p.Width < 2 || p.Height < 2 {
		return fmt.Errorf("grid %dx%d needs at least 2x2 samples: %w", p.Width, p.Height, ErrInvalidArgument)
	}
	if err := p.Encoding.Validate(); err != nil {
		return err
	}
	if need := p.Encoding.RequiredBytes(p.VertexCount()); len(p.Heightmap) < need {
		return fmt.Errorf("heightmap has %d bytes, %dx%d grid needs %d: %w",
			len(p.Heightmap), p.Width, p.Height, need, ErrOutOfBounds)
	}
	if x, y := p.spans(); x <= 0 || y <= 0 {
		return fmt.Errorf("extent %v has zero size: %w", p.Extent, ErrInvalidArgument)
	}
	if p.RadiiSquared.X <= 0 || p.RadiiSquared.Y <= 0 || p.RadiiSquared.Z <= 0 {
		return fmt.Errorf("radii squared %v must be positive: %w", p.RadiiSquared, ErrInvalidArgument)
	}
	if !p.IsGeographic && p.OneOverCentralBodySemimajorAxis <= 0 {
		return fmt.Errorf("projected extent needs a positive inverse semimajor axis: %w", ErrInvalidArgument)
	}
	return nil
}
