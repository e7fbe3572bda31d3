package terrain

import (
	"fmt"
)

// Endianness is the byte order of a multi-byte height sample.
type Endianness int

const (
	BigEndian Endianness = iota
	LittleEndian
)

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// ParseEndianness accepts "big" or "little". Empty means big.
func ParseEndianness(s string) (Endianness, error) {
	switch s {
	case "", "big":
		return BigEndian, nil
	case "little":
		return LittleEndian, nil
	}
	return BigEndian, fmt.Errorf("endianness %q: %w", s, ErrInvalidArgument)
}

// Encoding maps raw heightmap bytes to heights.
type Encoding struct {
	BytesPerHeight int // Significant bytes per sample, at most 8
	StrideBytes    int // Distance between consecutive samples
	HeightScale    float64
	HeightOffset   float64
	Endianness     Endianness
}

// DefaultEncoding is one big-endian uint16 per sample, in meters.
var DefaultEncoding = Encoding{
	BytesPerHeight: 2,
	StrideBytes:    2,
	HeightScale:    1,
}

// Validate checks the byte layout.
func (e Encoding) Validate() error {
	if e.BytesPerHeight < 1 || e.BytesPerHeight > 8 {
		return fmt.Errorf("bytes per height %d: %w", e.BytesPerHeight, ErrInvalidArgument)
	}
	if e.StrideBytes < e.BytesPerHeight {
		return fmt.Errorf("stride %d shorter than sample size %d: %w", e.StrideBytes, e.BytesPerHeight, ErrInvalidArgument)
	}
	return nil
}

// RequiredBytes returns the smallest buffer holding count samples.
func (e Encoding) RequiredBytes(count int) int {
	if count <= 0 {
		return 0
	}
	return (count-1)*e.StrideBytes + e.BytesPerHeight
}

// Decode returns the height of sample index in buf.
func (e Encoding) Decode(buf []byte, index int) (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	offset := index * e.StrideBytes
	if index < 0 || offset+e.BytesPerHeight > len(buf) {
		return 0, fmt.Errorf("sample %d at byte %d of %d: %w", index, offset, len(buf), ErrOutOfBounds)
	}
	return e.decodeAt(buf, offset), nil
}

// decodeAt assumes the sample at offset is in range.
func (e Encoding) decodeAt(buf []byte, offset int) float64 {
	var raw uint64
	sample := buf[offset : offset+e.BytesPerHeight]
	if e.Endianness == LittleEndian {
		for i := len(sample) - 1; i >= 0; i-- {
			raw = raw<<8 | uint64(sample[i])
		}
	} else {
		for _, b := range sample {
			raw = raw<<8 | uint64(b)
		}
	}
	return float64(raw)*e.HeightScale + e.HeightOffset
}

// Encode writes height into buf at sample index, the inverse of Decode.
// Heights are rounded to the nearest step and clamped to the sample range.
func (e Encoding) Encode(buf []byte, index int, height float64) error {
	if err := e.Validate(); err != nil {
		return err
	}
	offset := index * e.StrideBytes
	if index < 0 || offset+e.BytesPerHeight > len(buf) {
		return fmt.Errorf("sample %d at byte %d of %d: %w", index, offset, len(buf), ErrOutOfBounds)
	}
	if e.HeightScale == 0 {
		return fmt.Errorf("zero height scale: %w", ErrInvalidArgument)
	}

	step := (height-e.HeightOffset)/e.HeightScale + 0.5
	maxRaw := ^uint64(0) >> (64 - 8*uint(e.BytesPerHeight))
	var raw uint64
	switch {
	case step <= 0:
		raw = 0
	case step >= float64(maxRaw):
		raw = maxRaw
	default:
		raw = uint64(step)
	}

	sample := buf[offset : offset+e.BytesPerHeight]
	for i := range sample {
		shift := 8 * uint(len(sample)-1-i)
		if e.Endianness == LittleEndian {
			shift = 8 * uint(i)
		}
		sample[i] = byte(raw >> shift)
	}
	return nil
}

// Heights decodes the first count samples of buf into dst, reusing its
// storage when large enough.
func (e Encoding) Heights(buf []byte, count int, dst []float64) ([]float64, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if need := e.RequiredBytes(count); len(buf) < need {
		return nil, fmt.Errorf("heightmap has %d bytes, need %d: %w", len(buf), need, ErrOutOfBounds)
	}

	if cap(dst) < count {
		dst = make([]float64, count)
	}
	dst = dst[:count]
	for i := range dst {
		dst[i] = e.decodeAt(buf, i*e.StrideBytes)
	}
	return dst, nil
}

// InterpolatedHeight returns the bilinear height at fractional grid
// coordinates (row, col) of a width x height heightmap.
func InterpolatedHeight(heights []float64, width, height int, row, col float64) float64 {
	if width < 1 || height < 1 || len(heights) < width*height {
		return 0
	}

	// Clamp to valid range
	row = clampf(row, 0, float64(height-1))
	col = clampf(col, 0, float64(width-1))

	r0, c0 := int(row), int(col)
	r1, c1 := min(r0+1, height-1), min(c0+1, width-1)
	fr, fc := row-float64(r0), col-float64(c0)

	north := heights[r0*width+c0]*(1-fc) + heights[r0*width+c1]*fc
	south := heights[r1*width+c0]*(1-fc) + heights[r1*width+c1]*fc
	return north*(1-fr) + south*fr
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
