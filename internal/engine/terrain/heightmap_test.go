package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	tests := []struct {
		name  string
		enc   Encoding
		index int
		want  float64
	}{
		{"big endian", Encoding{BytesPerHeight: 2, StrideBytes: 2, HeightScale: 1}, 0, 0x0102},
		{"little endian", Encoding{BytesPerHeight: 2, StrideBytes: 2, HeightScale: 1, Endianness: LittleEndian}, 1, 0x0403},
		{"stride skips bytes", Encoding{BytesPerHeight: 1, StrideBytes: 3, HeightScale: 2, HeightOffset: -1}, 1, 7},
		{"three bytes", Encoding{BytesPerHeight: 3, StrideBytes: 3, HeightScale: 1}, 1, 0x040506},
		{"scale and offset", Encoding{BytesPerHeight: 1, StrideBytes: 1, HeightScale: 0.5, HeightOffset: 10}, 5, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.enc.Decode(buf, tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOutOfBounds(t *testing.T) {
	enc := Encoding{BytesPerHeight: 2, StrideBytes: 2, HeightScale: 1}
	buf := []byte{0, 1, 2}

	_, err := enc.Decode(buf, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = enc.Decode(buf, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestEncodingValidate(t *testing.T) {
	assert.NoError(t, DefaultEncoding.Validate())
	assert.ErrorIs(t, Encoding{BytesPerHeight: 0, StrideBytes: 2}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, Encoding{BytesPerHeight: 9, StrideBytes: 9}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, Encoding{BytesPerHeight: 4, StrideBytes: 2}.Validate(), ErrInvalidArgument)
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, endianness := range []Endianness{BigEndian, LittleEndian} {
		enc := Encoding{BytesPerHeight: 2, StrideBytes: 3, HeightScale: 0.5, HeightOffset: -100, Endianness: endianness}
		heights := []float64{-100, 0, 12.5, 3000}
		buf := make([]byte, enc.RequiredBytes(len(heights)))

		for i, h := range heights {
			require.NoError(t, enc.Encode(buf, i, h))
		}
		got, err := enc.Heights(buf, len(heights), nil)
		require.NoError(t, err)
		assert.Equal(t, heights, got, endianness.String())
	}
}

func TestEncodeClamps(t *testing.T) {
	enc := Encoding{BytesPerHeight: 2, StrideBytes: 2, HeightScale: 0.5, HeightOffset: -100}
	buf := make([]byte, 4)

	require.NoError(t, enc.Encode(buf, 0, -200))
	require.NoError(t, enc.Encode(buf, 1, 1e9))

	low, _ := enc.Decode(buf, 0)
	high, _ := enc.Decode(buf, 1)
	assert.Equal(t, -100.0, low)
	assert.Equal(t, 65535*0.5-100, high)

	assert.ErrorIs(t, enc.Encode(buf, 2, 0), ErrOutOfBounds)
	assert.ErrorIs(t, Encoding{BytesPerHeight: 1, StrideBytes: 1}.Encode(buf, 0, 0), ErrInvalidArgument)
}

func TestHeightsReusesBuffer(t *testing.T) {
	buf := []byte{0, 1, 0, 2}
	dst := make([]float64, 8)

	got, err := DefaultEncoding.Heights(buf, 2, dst)
	require.NoError(t, err)
	assert.Same(t, &dst[0], &got[0])
	assert.Equal(t, []float64{1, 2}, got)

	_, err = DefaultEncoding.Heights(buf, 3, nil)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRequiredBytes(t *testing.T) {
	enc := Encoding{BytesPerHeight: 3, StrideBytes: 4}
	assert.Equal(t, 0, enc.RequiredBytes(0))
	assert.Equal(t, 3, enc.RequiredBytes(1))
	assert.Equal(t, 11, enc.RequiredBytes(3))
}

func TestInterpolatedHeight(t *testing.T) {
	heights := []float64{0, 10, 20, 30}

	assert.InDelta(t, 15, InterpolatedHeight(heights, 2, 2, 0.5, 0.5), 1e-12)
	assert.InDelta(t, 10, InterpolatedHeight(heights, 2, 2, 0, 1), 1e-12)
	assert.InDelta(t, 25, InterpolatedHeight(heights, 2, 2, 1, 0.5), 1e-12)
	// Clamped to the grid
	assert.InDelta(t, 10, InterpolatedHeight(heights, 2, 2, -1, 5), 1e-12)
	assert.Equal(t, 0.0, InterpolatedHeight(heights, 3, 3, 0, 0))
}

func TestParseEndianness(t *testing.T) {
	e, err := ParseEndianness("little")
	require.NoError(t, err)
	assert.Equal(t, LittleEndian, e)

	e, err = ParseEndianness("")
	require.NoError(t, err)
	assert.Equal(t, BigEndian, e)

	_, err = ParseEndianness("middle")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
