package encode

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ks0108/bitmap"
	"periph.io/x/devices/v3/ks0108/font"
)

// plot records pixel writes for round-trip checks.
type plot struct {
	pixels map[[2]int]bool
}

func newPlot() *plot {
	return &plot{pixels: map[[2]int]bool{}}
}

func (p *plot) SetPixel(x, y int, on bool) error {
	p.pixels[[2]int{x, y}] = on
	return nil
}

// mono builds a w by h test image with the given pixels bright.
func mono(w, h int, on ...[2]int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, pt := range on {
		m.SetGray(pt[0], pt[1], color.Gray{Y: 0xFF})
	}
	return m
}

func TestImage(t *testing.T) {
	// 2x2 with (1,0) and (0,1) set packs to 0b0110 row major.
	m := mono(2, 2, [2]int{1, 0}, [2]int{0, 1})

	enc, err := Image(m, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{bitmap.FlagHV, 2, 2, 0b00000110}, enc)

	enc, err = Image(m, ColumnMajor)
	require.NoError(t, err)
	// Column major reads (0,0),(0,1),(1,0),(1,1): bits 0,1,1,0 again.
	assert.Equal(t, []byte{bitmap.FlagVH, 2, 2, 0b00000110}, enc)
}

func TestImagePadsFinalByte(t *testing.T) {
	// 3x4 all set: 12 bits over two bytes, the high nibble zero padded.
	var pts [][2]int
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			pts = append(pts, [2]int{x, y})
		}
	}
	enc, err := Image(mono(3, 4, pts...), RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{bitmap.FlagHV, 3, 4, 0xFF, 0x0F}, enc)
}

func TestImageThreshold(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 1))
	m.SetGray(0, 0, color.Gray{Y: 0x70})
	m.SetGray(1, 0, color.Gray{Y: 0x90})

	enc, err := Image(m, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{bitmap.FlagHV, 2, 1, 0b00000010}, enc)
}

func TestImageErrors(t *testing.T) {
	_, err := Image(nil, RowMajor)
	assert.Error(t, err)

	_, err = Image(image.NewGray(image.Rect(0, 0, 256, 1)), RowMajor)
	assert.Error(t, err)
}

func TestImageRoundTrip(t *testing.T) {
	want := [][2]int{{0, 0}, {4, 0}, {2, 3}, {1, 6}, {4, 6}}
	m := mono(5, 7, want...)

	for _, order := range []Order{RowMajor, ColumnMajor} {
		enc, err := Image(m, order)
		require.NoError(t, err)

		p := newPlot()
		require.NoError(t, bitmap.Draw(p, 0, 0, false, enc))
		assert.Len(t, p.pixels, len(want), "order %v", order)
		for _, pt := range want {
			assert.True(t, p.pixels[pt], "order %v pixel %v", order, pt)
		}
	}
}

func TestFontDense(t *testing.T) {
	glyphs := map[byte]image.Image{
		0: mono(2, 2, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}),
		2: mono(2, 2, [2]int{1, 0}, [2]int{0, 1}),
	}

	enc, err := Font(glyphs, Dense, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		font.FlagDense | font.FlagHV, 2, 2,
		0x01, 0x0F,
		0x00, 0x00, // code 1 missing: zero-filled fixed-size slot
		0x01, 0x06,
	}, enc)
}

func TestFontSparse(t *testing.T) {
	glyphs := map[byte]image.Image{
		0: mono(2, 2, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}),
		2: mono(2, 2, [2]int{1, 0}, [2]int{0, 1}),
	}

	enc, err := Font(glyphs, Sparse, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		font.FlagSparse | font.FlagHV, 2, 2,
		0x01, 0x0F,
		0x00, // code 1 missing: marker only
		0x01, 0x06,
	}, enc)
}

func TestFontBlankGlyphEncodesEmpty(t *testing.T) {
	glyphs := map[byte]image.Image{
		0: mono(2, 2, [2]int{0, 0}),
		1: mono(2, 2), // present but blank
	}

	enc, err := Font(glyphs, Sparse, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		font.FlagSparse | font.FlagHV, 2, 2,
		0x01, 0x01,
		0x00,
	}, enc)
}

func TestFontErrors(t *testing.T) {
	_, err := Font(nil, Dense, RowMajor)
	assert.Error(t, err)

	_, err = Font(map[byte]image.Image{0: nil}, Dense, RowMajor)
	assert.Error(t, err)

	_, err = Font(map[byte]image.Image{
		0: mono(2, 2, [2]int{0, 0}),
		1: mono(3, 2, [2]int{0, 0}),
	}, Dense, RowMajor)
	assert.Error(t, err)
}

func TestFontRoundTrip(t *testing.T) {
	glyphs := map[byte]image.Image{
		0: mono(3, 5, [2]int{0, 0}, [2]int{2, 4}),
		7: mono(3, 5, [2]int{1, 2}),
	}

	for _, storage := range []Storage{Dense, Sparse} {
		for _, order := range []Order{RowMajor, ColumnMajor} {
			enc, err := Font(glyphs, storage, order)
			require.NoError(t, err)

			p := newPlot()
			require.NoError(t, font.DrawChar(p, 7, 0, 0, false, enc))
			assert.Len(t, p.pixels, 1, "%v/%v", storage, order)
			assert.True(t, p.pixels[[2]int{1, 2}], "%v/%v", storage, order)

			// A code with an empty slot renders the glyph of code 0.
			p = newPlot()
			require.NoError(t, font.DrawChar(p, 3, 0, 0, false, enc))
			assert.Len(t, p.pixels, 2, "%v/%v", storage, order)
			assert.True(t, p.pixels[[2]int{0, 0}], "%v/%v", storage, order)
			assert.True(t, p.pixels[[2]int{2, 4}], "%v/%v", storage, order)
		}
	}
}
