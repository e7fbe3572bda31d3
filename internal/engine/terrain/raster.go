package terrain

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is a heightmap raster file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("unknown raster format %q: %w", path, ErrInvalidArgument)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatTIFF {
		return "tif"
	}
	return string(f)
}

// Raster is a decoded heightmap ready for tessellation.
type Raster struct {
	Data     []byte
	Width    int
	Height   int
	Encoding Encoding
}

// Terrain-RGB packs height*10+100000 into the red, green and blue bytes.
var terrainRGB = Encoding{
	BytesPerHeight: 3,
	StrideBytes:    4,
	HeightScale:    0.1,
	HeightOffset:   -10000,
}

// LoadRaster decodes a heightmap image. 16-bit grayscale keeps one sample
// per pixel; RGB images are read as Terrain-RGB; other models are converted
// to 16-bit gray. scale and offset apply to gray samples only.
func LoadRaster(r io.Reader, format Format, scale, offset float64) (*Raster, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	default:
		return nil, fmt.Errorf("raster format %q: %w", format, ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s raster: %w", format, err)
	}

	b := img.Bounds()
	raster := &Raster{Width: b.Dx(), Height: b.Dy()}
	gray := Encoding{BytesPerHeight: 2, StrideBytes: 2, HeightScale: scale, HeightOffset: offset}

	switch m := img.(type) {
	case *image.Gray16:
		raster.Data = packRows(m.Pix, m.Stride, raster.Width*2, raster.Height)
		raster.Encoding = gray
	case *image.Gray:
		raster.Data = packRows(m.Pix, m.Stride, raster.Width, raster.Height)
		raster.Encoding = Encoding{BytesPerHeight: 1, StrideBytes: 1, HeightScale: scale, HeightOffset: offset}
	case *image.NRGBA:
		raster.Data = packRows(m.Pix, m.Stride, raster.Width*4, raster.Height)
		raster.Encoding = terrainRGB
	case *image.RGBA:
		raster.Data = packRows(m.Pix, m.Stride, raster.Width*4, raster.Height)
		raster.Encoding = terrainRGB
	default:
		raster.Data = make([]byte, 0, raster.Width*raster.Height*2)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				raster.Data = append(raster.Data, byte(g.Y>>8), byte(g.Y))
			}
		}
		raster.Encoding = gray
	}

	return raster, nil
}

// packRows drops row padding so samples are contiguous.
func packRows(pix []byte, stride, rowBytes, rows int) []byte {
	if stride == rowBytes {
		return pix[:rowBytes*rows]
	}
	out := make([]byte, 0, rowBytes*rows)
	for y := range rows {
		out = append(out, pix[y*stride:y*stride+rowBytes]...)
	}
	return out
}

// Params returns tessellation parameters for the raster with the remaining
// fields left for the caller.
func (r *Raster) Params() Params {
	return Params{
		Heightmap: r.Data,
		Encoding:  r.Encoding,
		Width:     r.Width,
		Height:    r.Height,
	}
}

// EncodePNG writes heights as a 16-bit grayscale PNG using enc's scale and
// offset. Row 0 of heights is the top of the image.
func EncodePNG(w io.Writer, heights []float64, width, height int, enc Encoding) error {
	if width < 1 || height < 1 || len(heights) < width*height {
		return fmt.Errorf("%d heights for %dx%d image: %w", len(heights), width, height, ErrInvalidArgument)
	}

	enc.BytesPerHeight, enc.StrideBytes, enc.Endianness = 2, 2, BigEndian
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for i, h := range heights[:width*height] {
		if err := enc.Encode(img.Pix, i, h); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}
