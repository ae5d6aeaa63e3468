package font

import "testing"

// plot records pixel writes, implementing gfx.Plotter.
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

func (p *plot) on() map[[2]int]bool {
	m := map[[2]int]bool{}
	for pt, v := range p.pixels {
		if v {
			m[pt] = true
		}
	}
	return m
}

func samePixels(a, b map[[2]int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for pt := range a {
		if !b[pt] {
			return false
		}
	}
	return true
}

// denseFont is a 2x2 row major dense table with three slots:
//
//	code 0: the null glyph, a full 2x2 box
//	code 1: diagonal pixels (1,0) and (0,1)
//	code 2: empty
var denseFont = []byte{
	FlagDense | FlagHV, 2, 2,
	0x01, 0x0F,
	0x01, 0x06,
	0x00, 0x00,
}

// sparseFont encodes the same glyphs sparsely: the empty slot of code 1
// shrinks to its zero marker.
//
//	code 0: the null glyph, a full 2x2 box
//	code 1: empty
//	code 2: pixels (0,0) and (1,1)
var sparseFont = []byte{
	FlagSparse | FlagHV, 2, 2,
	0x01, 0x0F,
	0x00,
	0x01, 0x09,
}

func TestHeaderAccessors(t *testing.T) {
	if Settings(denseFont) != FlagDense|FlagHV {
		t.Errorf("Settings = 0x%02X, want 0x%02X", Settings(denseFont), byte(FlagDense|FlagHV))
	}
	if CharWidth(denseFont) != 2 {
		t.Errorf("CharWidth = %d, want 2", CharWidth(denseFont))
	}
	if CharHeight(denseFont) != 2 {
		t.Errorf("CharHeight = %d, want 2", CharHeight(denseFont))
	}
}

func TestGlyphSize(t *testing.T) {
	tests := []struct {
		w, h byte
		want int
	}{
		{2, 2, 2},  // 4 bits round up to 1 payload byte
		{3, 3, 3},  // 9 bits round up to 2
		{8, 1, 2},  // exactly 1 payload byte
		{8, 8, 9},  // exactly 8
		{5, 7, 6},  // 35 bits round up to 5
	}
	for _, tt := range tests {
		font := []byte{FlagDense | FlagHV, tt.w, tt.h}
		if got := GlyphSize(font); got != tt.want {
			t.Errorf("GlyphSize(%dx%d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestGlyphIndexDense(t *testing.T) {
	for code, want := range map[byte]int{0: 3, 1: 5, 2: 7} {
		got, ok := GlyphIndex(code, denseFont)
		if !ok || got != want {
			t.Errorf("GlyphIndex(%d) = %d, %v, want %d, true", code, got, ok, want)
		}
	}
}

func TestGlyphIndexSparse(t *testing.T) {
	// Slot 0 is full (2 bytes), slot 1 empty (1 byte), slot 2 full.
	for code, want := range map[byte]int{0: 3, 1: 5, 2: 6} {
		got, ok := GlyphIndex(code, sparseFont)
		if !ok || got != want {
			t.Errorf("GlyphIndex(%d) = %d, %v, want %d, true", code, got, ok, want)
		}
	}
}

func TestGlyphIndexNoStorageFlag(t *testing.T) {
	font := []byte{FlagHV, 2, 2, 0x01, 0x0F}
	if _, ok := GlyphIndex(1, font); ok {
		t.Error("GlyphIndex reported ok for a font without a storage flag")
	}
}

func TestDrawChar(t *testing.T) {
	p := newPlot()
	if err := DrawChar(p, 1, 0, 0, false, denseFont); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]bool{{1, 0}: true, {0, 1}: true}
	if !samePixels(p.on(), want) {
		t.Errorf("DrawChar(1) = %v, want %v", p.on(), want)
	}
	if len(p.pixels) != 2 {
		t.Errorf("background pixels drawn without drawBackground: %v", p.pixels)
	}
}

func TestDrawCharWithBackground(t *testing.T) {
	p := newPlot()
	if err := DrawChar(p, 1, 0, 0, true, denseFont); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 4 {
		t.Fatalf("pixels = %v, want all 4 drawn", p.pixels)
	}
	if p.pixels[[2]int{0, 0}] || p.pixels[[2]int{1, 1}] {
		t.Errorf("background pixels on: %v", p.pixels)
	}
}

func TestDrawCharSparse(t *testing.T) {
	p := newPlot()
	if err := DrawChar(p, 2, 0, 0, false, sparseFont); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]bool{{0, 0}: true, {1, 1}: true}
	if !samePixels(p.on(), want) {
		t.Errorf("DrawChar(2) = %v, want %v", p.on(), want)
	}
}

func TestDrawCharMissingGlyphSubstitutesNull(t *testing.T) {
	// Code 2 is empty in the dense font, code 1 in the sparse one; both
	// render the full box stored at the head of the table instead.
	for _, font := range [][]byte{denseFont, sparseFont} {
		code := byte(2)
		if Settings(font)&FlagSparse != 0 {
			code = 1
		}
		p := newPlot()
		if err := DrawChar(p, code, 0, 0, false, font); err != nil {
			t.Fatal(err)
		}
		if len(p.on()) != 4 {
			t.Errorf("missing glyph drew %v, want the 2x2 null glyph", p.on())
		}
	}
}

func TestDrawCharCodeZeroEmptyDrawsNothing(t *testing.T) {
	// An empty slot for code 0 is taken literally, not substituted.
	font := []byte{
		FlagDense | FlagHV, 2, 2,
		0x00, 0x00,
		0x01, 0x0F,
	}
	p := newPlot()
	if err := DrawChar(p, 0, 0, 0, true, font); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 0 {
		t.Errorf("code 0 with empty slot drew %v", p.pixels)
	}
}

func TestDrawCharWhitespace(t *testing.T) {
	p := newPlot()
	if err := DrawChar(p, 32, 0, 0, false, denseFont); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 0 {
		t.Errorf("whitespace without drawBackground drew %v", p.pixels)
	}

	p = newPlot()
	if err := DrawChar(p, 32, 0, 0, true, denseFont); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 4 {
		t.Fatalf("whitespace with drawBackground drew %d pixels, want 4", len(p.pixels))
	}
	if len(p.on()) != 0 {
		t.Errorf("whitespace drew foreground pixels: %v", p.on())
	}
}

func TestDrawCharColumnMajor(t *testing.T) {
	font := []byte{
		FlagDense | FlagVH, 2, 2,
		0x01, 0x06,
	}
	p := newPlot()
	if err := DrawChar(p, 0, 0, 0, false, font); err != nil {
		t.Fatal(err)
	}
	// Bits 0,1,1,0 packed top to bottom first.
	want := map[[2]int]bool{{0, 1}: true, {1, 0}: true}
	if !samePixels(p.on(), want) {
		t.Errorf("column major glyph = %v, want %v", p.on(), want)
	}
}

func TestDrawCharNoStorageFlag(t *testing.T) {
	font := []byte{FlagHV, 2, 2, 0x01, 0x0F}
	p := newPlot()
	if err := DrawChar(p, 1, 0, 0, true, font); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 0 {
		t.Errorf("font without storage flag drew %v", p.pixels)
	}
}

func TestDrawString(t *testing.T) {
	p := newPlot()
	if err := DrawString(p, "\x01\x01", 0, 0, false, false, denseFont); err != nil {
		t.Fatal(err)
	}
	// Second character starts at x=3 (width 2 plus a 1 pixel separator).
	want := map[[2]int]bool{
		{1, 0}: true, {0, 1}: true,
		{4, 0}: true, {3, 1}: true,
	}
	if !samePixels(p.on(), want) {
		t.Errorf("DrawString = %v, want %v", p.on(), want)
	}
}

func TestDrawStringFillsGaps(t *testing.T) {
	p := newPlot()
	if err := DrawString(p, "\x01\x01", 0, 0, true, true, denseFont); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		v, drawn := p.pixels[[2]int{2, y}]
		if !drawn || v {
			t.Errorf("separator pixel (2,%d): drawn=%v on=%v, want drawn off", y, drawn, v)
		}
	}
}

func TestDrawTextWraps(t *testing.T) {
	p := newPlot()
	if err := DrawText(p, "\x01\x01\x01", 0, 0, 1, 5, 7, false, false, denseFont); err != nil {
		t.Fatal(err)
	}
	// Two characters fit per line; the third wraps to y=3 (height 2 plus
	// line spacing 1).
	want := map[[2]int]bool{
		{1, 0}: true, {0, 1}: true,
		{4, 0}: true, {3, 1}: true,
		{1, 3}: true, {0, 4}: true,
	}
	if !samePixels(p.on(), want) {
		t.Errorf("DrawText = %v, want %v", p.on(), want)
	}
}

func TestDrawTextFillsLineSpacing(t *testing.T) {
	p := newPlot()
	if err := DrawText(p, "\x01\x01\x01", 0, 0, 1, 5, 7, true, true, denseFont); err != nil {
		t.Fatal(err)
	}
	// The spacing band under the first line spans the drawn width.
	for x := 0; x < 5; x++ {
		v, drawn := p.pixels[[2]int{x, 2}]
		if !drawn || v {
			t.Errorf("spacing pixel (%d,2): drawn=%v on=%v, want drawn off", x, drawn, v)
		}
	}
}

func TestDrawTextStopsAtBottom(t *testing.T) {
	p := newPlot()
	if err := DrawText(p, "\x01\x01\x01", 0, 0, 1, 5, 1, false, false, denseFont); err != nil {
		t.Fatal(err)
	}
	// One line fits; wrapping past maxY drops the rest.
	want := map[[2]int]bool{
		{1, 0}: true, {0, 1}: true,
		{4, 0}: true, {3, 1}: true,
	}
	if !samePixels(p.on(), want) {
		t.Errorf("DrawText = %v, want %v", p.on(), want)
	}
}

func TestDrawTextFirstCharDoesNotFit(t *testing.T) {
	p := newPlot()
	if err := DrawText(p, "\x01", 0, 0, 0, 0, 7, true, true, denseFont); err != nil {
		t.Fatal(err)
	}
	if len(p.pixels) != 0 {
		t.Errorf("oversized text drew %v", p.pixels)
	}
}
