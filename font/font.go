// Package font renders text from compact pre-encoded fixed-size bitmap
// fonts.
//
// The encoded form is a self-describing byte sequence: byte 0 holds the
// storage and orientation flags, bytes 1 and 2 the fixed glyph width and
// height, and the remaining bytes the glyph table. Every non-empty glyph is
// a one-byte non-zero "has pixels" marker followed by the pixel bits packed
// LSB first, exactly like an encoded image payload.
//
// Two storage strategies exist. Dense tables give every character code from
// 0 upwards a fixed-size slot, so locating a glyph is constant time. Sparse
// tables shrink empty glyphs to their marker byte, so locating character N
// requires a linear scan over the slots 0..N-1; callers rendering many
// characters pay that scan per character.
package font

import "periph.io/x/devices/v3/ks0108/gfx"

// Flags of the settings byte. One storage flag and one orientation flag
// should be set; a font missing the storage flag draws nothing.
const (
	// FlagDense marks a table of fixed-size slots.
	FlagDense = 1 << 7
	// FlagSparse marks a table of variable-size slots requiring a scan.
	FlagSparse = 1 << 6
	// FlagHV packs glyph pixels left to right, then top to bottom.
	FlagHV = 1 << 5
	// FlagVH packs glyph pixels top to bottom, then left to right.
	FlagVH = 1 << 4
)

// tableStart is the offset of the first glyph slot, which doubles as the
// designated null glyph substituted for missing characters.
const tableStart = 3

// Settings returns the settings byte of an encoded font.
func Settings(font []byte) byte {
	return font[0]
}

// CharWidth returns the fixed glyph width in pixels.
func CharWidth(font []byte) int {
	return int(font[1])
}

// CharHeight returns the fixed glyph height in pixels.
func CharHeight(font []byte) int {
	return int(font[2])
}

// GlyphSize returns the number of bytes a non-empty glyph occupies,
// including its marker byte.
func GlyphSize(font []byte) int {
	wh := CharWidth(font) * CharHeight(font)
	size := 1 + wh/8
	if wh%8 > 0 {
		size++
	}
	return size
}

// GlyphIndex returns the table offset of the marker byte of code. ok is
// false when the font carries no storage flag.
//
// Dense lookups are constant time. Sparse lookups scan the marker of every
// slot below code, costing O(code) regardless of which slots are empty.
func GlyphIndex(code byte, font []byte) (offset int, ok bool) {
	settings := Settings(font)
	switch {
	case settings&FlagDense != 0:
		return tableStart + int(code)*GlyphSize(font), true
	case settings&FlagSparse != 0:
		size := GlyphSize(font)
		offset = tableStart
		for i := 0; i < int(code); i++ {
			if offset < len(font) && font[offset] != 0 {
				offset += size
			} else {
				offset++
			}
		}
		return offset, true
	}
	return 0, false
}

// DrawChar draws a single character with its top left corner at (x, y).
//
// Character code 32 is always treated as pure whitespace: the glyph box is
// filled with background pixels if drawBackground is set, nothing else is
// drawn. Any other code whose slot marker is zero renders the font's null
// glyph (the glyph stored at the head of the table). Code 0 is the one
// exception: its zero marker is taken literally as empty and nothing is
// drawn.
func DrawChar(p gfx.Plotter, code byte, x, y int, drawBackground bool, font []byte) error {
	if len(font) < tableStart {
		return nil
	}
	settings := Settings(font)
	width := CharWidth(font)
	height := CharHeight(font)

	if code == 32 {
		if drawBackground {
			return gfx.FillRect(p, x, y, width, height, false)
		}
		return nil
	}

	offset, ok := GlyphIndex(code, font)
	if !ok {
		return nil
	}
	if code != 0 && offset < len(font) && font[offset] == 0 {
		offset = tableStart
	}
	if offset >= len(font) || font[offset] == 0 {
		return nil
	}
	offset++

	return drawGlyphBits(p, x, y, drawBackground, settings, width, height, font[offset:])
}

// drawGlyphBits streams width*height packed bits, one payload byte fetched
// every 8 bits, identically to the image decoder.
func drawGlyphBits(p gfx.Plotter, x, y int, drawBackground bool, settings byte, width, height int, payload []byte) error {
	total := width * height
	cx, cy := x, y
	var cur byte

	rowMajor := settings&FlagHV != 0
	if !rowMajor && settings&FlagVH == 0 {
		return nil
	}

	for i := 0; i < total; i++ {
		if i%8 == 0 {
			if len(payload) == 0 {
				return nil
			}
			cur = payload[0]
			payload = payload[1:]
		}
		if cur&0x01 != 0 {
			if err := p.SetPixel(cx, cy, true); err != nil {
				return err
			}
		} else if drawBackground {
			if err := p.SetPixel(cx, cy, false); err != nil {
				return err
			}
		}
		cur >>= 1
		if rowMajor {
			cx++
			if cx-x == width {
				cx = x
				cy++
			}
		} else {
			cy++
			if cy-y == height {
				cy = y
				cx++
			}
		}
	}
	return nil
}

// DrawString draws a run of characters on a single line starting at (x, y).
//
// The cursor advances by the glyph width plus one per character. With
// fillGaps the one-pixel separator between consecutive characters is drawn
// in background color. No wrapping happens; use DrawText for that.
func DrawString(p gfx.Plotter, text string, x, y int, drawBackground, fillGaps bool, font []byte) error {
	xAdvance := CharWidth(font) + 1
	height := CharHeight(font)

	cx := x
	for i := 0; i < len(text); i++ {
		if i > 0 {
			cx += xAdvance
			if fillGaps {
				if err := gfx.Line(p, cx-1, y, cx-1, y+height-1, false); err != nil {
					return err
				}
			}
		}
		if err := DrawChar(p, text[i], cx, y, drawBackground, font); err != nil {
			return err
		}
	}
	return nil
}

// DrawText draws text starting at (x, y), wrapping to a new line whenever
// the next character would reach past maxX.
//
// Lines advance by the glyph height plus lineSpacing; with fillGaps the
// spacing band between lines is filled with background pixels, as are the
// separators between characters. Once advancing would reach past maxY the
// remaining text is dropped. Nothing is drawn if the very first character
// does not fit within maxX and maxY.
func DrawText(p gfx.Plotter, text string, x, y, lineSpacing, maxX, maxY int, drawBackground, fillGaps bool, font []byte) error {
	width := CharWidth(font)
	height := CharHeight(font)

	xAdvance := width + 1
	xAdvanceEdge := xAdvance + width - 1
	yAdvance := height + lineSpacing
	yAdvanceEdge := yAdvance + height - 1

	if x+width-1 > maxX || y+height-1 > maxY {
		return nil
	}

	cx, cy := x, y
	lineBeginning := true
	for i := 0; i < len(text); i++ {
		if !lineBeginning && fillGaps {
			if err := gfx.Line(p, cx-1, cy, cx-1, cy+height-1, false); err != nil {
				return err
			}
		}
		lineBeginning = false

		if err := DrawChar(p, text[i], cx, cy, drawBackground, font); err != nil {
			return err
		}

		if cx+xAdvanceEdge > maxX {
			if cy+yAdvanceEdge > maxY {
				break
			}
			if fillGaps {
				if err := gfx.FillRect(p, x, cy+height, cx+width-x, lineSpacing, false); err != nil {
					return err
				}
			}
			cx = x
			cy += yAdvance
			lineBeginning = true
		} else {
			cx += xAdvance
		}
	}
	return nil
}
