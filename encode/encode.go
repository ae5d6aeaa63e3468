// Package encode produces the compact byte sequences consumed by the bitmap
// and font packages from regular Go images.
//
// Encoding runs offline, on the machine preparing assets rather than the one
// driving the display; the ucgfxenc command wraps this package for use from
// build scripts.
package encode

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/devices/v3/ks0108/bitmap"
	"periph.io/x/devices/v3/ks0108/font"
	"periph.io/x/devices/v3/ks0108/image1bit"
)

// Order selects how pixels are packed into the bit stream.
type Order int

const (
	// RowMajor packs pixels left to right, then top to bottom.
	RowMajor Order = iota
	// ColumnMajor packs pixels top to bottom, then left to right.
	ColumnMajor
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return "unknown"
	}
}

// Storage selects the glyph table layout of an encoded font.
type Storage int

const (
	// Dense gives every character code a fixed-size slot.
	Dense Storage = iota
	// Sparse shrinks empty slots to a single byte.
	Sparse
)

// String implements fmt.Stringer.
func (s Storage) String() string {
	switch s {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// Image encodes m for bitmap.Draw. Pixels are thresholded on luminance,
// bright pixels becoming foreground bits. The image must be at most 255
// pixels on each side.
func Image(m image.Image, order Order) ([]byte, error) {
	if m == nil {
		return nil, errors.New("encode: nil image")
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 || w > 255 || h > 255 {
		return nil, fmt.Errorf("encode: image is %dx%d, the encoded form needs 1x1 to 255x255", w, h)
	}

	out := make([]byte, 0, 3+(w*h+7)/8)
	out = append(out, orderFlag(order, bitmap.FlagHV, bitmap.FlagVH), byte(w), byte(h))
	return appendBits(out, m, order), nil
}

// Font encodes a glyph table for font.DrawChar and friends. glyphs maps
// character codes to same-sized images; codes without an entry, and entries
// with no bright pixel, encode as empty slots. All glyphs must be at most
// 255 pixels on each side.
func Font(glyphs map[byte]image.Image, storage Storage, order Order) ([]byte, error) {
	if len(glyphs) == 0 {
		return nil, errors.New("encode: no glyphs")
	}

	w, h := -1, -1
	maxCode := byte(0)
	for code, g := range glyphs {
		if g == nil {
			return nil, fmt.Errorf("encode: glyph %d is nil", code)
		}
		b := g.Bounds()
		switch {
		case w == -1:
			w, h = b.Dx(), b.Dy()
		case b.Dx() != w || b.Dy() != h:
			return nil, fmt.Errorf("encode: glyph %d is %dx%d, others are %dx%d", code, b.Dx(), b.Dy(), w, h)
		}
		if code > maxCode {
			maxCode = code
		}
	}
	if w < 1 || h < 1 || w > 255 || h > 255 {
		return nil, fmt.Errorf("encode: glyphs are %dx%d, the encoded form needs 1x1 to 255x255", w, h)
	}

	settings := orderFlag(order, font.FlagHV, font.FlagVH)
	if storage == Dense {
		settings |= font.FlagDense
	} else {
		settings |= font.FlagSparse
	}

	payloadLen := (w*h + 7) / 8
	out := []byte{settings, byte(w), byte(h)}
	for code := 0; code <= int(maxCode); code++ {
		g, present := glyphs[byte(code)]
		if present {
			present = hasForeground(g)
		}
		if !present {
			out = append(out, 0x00)
			if storage == Dense {
				out = append(out, make([]byte, payloadLen)...)
			}
			continue
		}
		out = append(out, 0x01)
		out = appendBits(out, g, order)
	}
	return out, nil
}

func orderFlag(order Order, hv, vh byte) byte {
	if order == ColumnMajor {
		return vh
	}
	return hv
}

// appendBits packs the thresholded pixels of m LSB first in the given order,
// zero padding the final byte.
func appendBits(out []byte, m image.Image, order Order) []byte {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	var cur byte
	n := 0
	emit := func(on bool) {
		if on {
			cur |= 1 << (n % 8)
		}
		n++
		if n%8 == 0 {
			out = append(out, cur)
			cur = 0
		}
	}

	if order == ColumnMajor {
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				emit(bitAt(m, b.Min.X+x, b.Min.Y+y))
			}
		}
	} else {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				emit(bitAt(m, b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	if n%8 != 0 {
		out = append(out, cur)
	}
	return out
}

func bitAt(m image.Image, x, y int) bool {
	return image1bit.BitModel.Convert(m.At(x, y)) == image1bit.On
}

func hasForeground(m image.Image) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if bitAt(m, x, y) {
				return true
			}
		}
	}
	return false
}
