package terrain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terraglobe/pkg/geodesy"
	"github.com/Faultbox/terraglobe/pkg/tiling"
)

// heightRaster encodes heights row-major into a DefaultEncoding raster.
func heightRaster(t *testing.T, width, height int, sample func(v, h int) float64) *Raster {
	t.Helper()

	enc := DefaultEncoding
	data := make([]byte, width*height*enc.StrideBytes)
	for v := range height {
		for h := range width {
			require.NoError(t, enc.Encode(data, v*width+h, sample(v, h)))
		}
	}
	return &Raster{Data: data, Width: width, Height: height, Encoding: enc}
}

func flatRaster(t *testing.T, width, height int, value float64) *Raster {
	return heightRaster(t, width, height, func(int, int) float64 { return value })
}

// geographicParams tessellates a flat raster over extent on WGS84.
func geographicParams(t *testing.T, width, height int, value float64, extent geodesy.Extent) Params {
	t.Helper()

	p := flatRaster(t, width, height, value).Params().WithEllipsoid(geodesy.WGS84)
	p.Extent = extent
	p.IsGeographic = true
	return p
}

func tileMesh(t *testing.T, tile tiling.Tile, raster *Raster, attrs Attributes) *Mesh {
	t.Helper()

	mesh, err := BuildMesh(TileParams(tile, raster, attrs))
	require.NoError(t, err)
	return mesh
}
