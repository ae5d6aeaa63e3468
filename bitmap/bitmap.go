// Package bitmap decodes compact pre-encoded monochrome images and replays
// them onto a pixel-set capability.
//
// The encoded form is a self-describing byte sequence: byte 0 holds the
// orientation flags, byte 1 the width, byte 2 the height, and the remaining
// bytes the pixel bits packed LSB first and zero padded at the end. Images
// can be produced with the ucgfxenc tool or the encode package.
package bitmap

// Orientation flags of the settings byte. Exactly one should be set; an
// image with neither draws nothing.
const (
	// FlagHV packs pixels left to right, then top to bottom (row major).
	FlagHV = 1 << 5
	// FlagVH packs pixels top to bottom, then left to right (column major).
	FlagVH = 1 << 4
)

// Plotter is the pixel-set capability images are replayed through.
type Plotter interface {
	SetPixel(x, y int, on bool) error
}

// Settings returns the settings byte of an encoded image.
func Settings(img []byte) byte {
	return img[0]
}

// Width returns the width of an encoded image in pixels.
func Width(img []byte) int {
	return int(img[1])
}

// Height returns the height of an encoded image in pixels.
func Height(img []byte) int {
	return int(img[2])
}

// Draw replays an encoded image with its top left corner at (x, y).
//
// Set bits draw foreground pixels. Unset bits draw background pixels only if
// drawBackground is true, otherwise the spot is left untouched. A header
// with no orientation flag draws nothing and returns normally.
func Draw(p Plotter, x, y int, drawBackground bool, img []byte) error {
	if len(img) < 3 {
		return nil
	}
	settings := img[0]
	width := int(img[1])
	height := int(img[2])

	switch {
	case settings&FlagHV != 0:
		return drawBits(p, x, y, drawBackground, img[3:], width*height, func(cx, cy int) (int, int) {
			cx++
			if cx-x == width {
				cx -= width
				cy++
			}
			return cx, cy
		})
	case settings&FlagVH != 0:
		return drawBits(p, x, y, drawBackground, img[3:], width*height, func(cx, cy int) (int, int) {
			cy++
			if cy-y == height {
				cy = y
				cx++
			}
			return cx, cy
		})
	}
	return nil
}

// drawBits streams total packed bits, fetching one payload byte every 8
// bits and advancing the cursor along the minor axis after each pixel.
func drawBits(p Plotter, x, y int, drawBackground bool, payload []byte, total int, advance func(cx, cy int) (int, int)) error {
	cx, cy := x, y
	var cur byte
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
		cx, cy = advance(cx, cy)
	}
	return nil
}
