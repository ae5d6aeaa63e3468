// Package gfx rasterizes lines and rectangles through a single pixel-set
// capability.
//
// The rasterizer knows nothing about frame layout or transmission; anything
// exposing SetPixel can be drawn on, including *ks0108.Dev. Callers drawing
// many primitives on an Immediate mode display should group them with
// BeginBatch/EndBatch.
package gfx

// Plotter is the pixel-set capability primitives are drawn through.
//
// Implementations must treat out-of-range coordinates as a silent no-op.
type Plotter interface {
	SetPixel(x, y int, on bool) error
}

// Line draws a straight line from (x1, y1) to (x2, y2).
//
// Slopes are rasterized by stepping along the major axis and deriving the
// minor coordinate with truncating integer interpolation. Endpoint order
// does not affect the set of pixels drawn; the dispatch below only keeps
// the interpolation loop iterating forward.
func Line(p Plotter, x1, y1, x2, y2 int, on bool) error {
	if x1 < x2 {
		if y1 < y2 {
			return lineLeftTopRightBottom(p, x1, y1, x2, y2, on)
		}
		return lineLeftBottomRightTop(p, x1, y1, x2, y2, on)
	}
	if y1 < y2 {
		return lineLeftBottomRightTop(p, x2, y2, x1, y1, on)
	}
	return lineLeftTopRightBottom(p, x2, y2, x1, y1, on)
}

// lineLeftTopRightBottom expects x1 <= x2 and y1 <= y2.
func lineLeftTopRightBottom(p Plotter, x1, y1, x2, y2 int, on bool) error {
	switch {
	case x1 == x2 && y1 == y2:
		return p.SetPixel(x1, y1, on)
	case x1 == x2:
		return vSpan(p, x1, y1, y2, on)
	case y1 == y2:
		return hSpan(p, x1, x2, y1, on)
	}
	if y2-y1 > x2-x1 {
		for y := y1; y <= y2; y++ {
			x := (x2-x1)*(y-y1)/(y2-y1) + x1
			if err := p.SetPixel(x, y, on); err != nil {
				return err
			}
		}
		return nil
	}
	for x := x1; x <= x2; x++ {
		y := (y2-y1)*(x-x1)/(x2-x1) + y1
		if err := p.SetPixel(x, y, on); err != nil {
			return err
		}
	}
	return nil
}

// lineLeftBottomRightTop expects x1 <= x2 and y1 >= y2.
func lineLeftBottomRightTop(p Plotter, x1, y1, x2, y2 int, on bool) error {
	switch {
	case x1 == x2 && y1 == y2:
		return p.SetPixel(x1, y1, on)
	case x1 == x2:
		return vSpan(p, x1, y2, y1, on)
	case y1 == y2:
		return hSpan(p, x1, x2, y1, on)
	}
	if x2-x1 < y1-y2 {
		for y := y2; y <= y1; y++ {
			x := (x2-x1)*(y-y1)/(y2-y1) + x1
			if err := p.SetPixel(x, y, on); err != nil {
				return err
			}
		}
		return nil
	}
	for x := x1; x <= x2; x++ {
		y := (y2-y1)*(x-x1)/(x2-x1) + y1
		if err := p.SetPixel(x, y, on); err != nil {
			return err
		}
	}
	return nil
}

// Rect draws the four-sided outline of a w by h rectangle with its top left
// corner at (x, y). A rectangle of width or height 1 degrades to a single
// run, 1 by 1 to a single pixel. Nothing is drawn for w or h below 1.
func Rect(p Plotter, x, y, w, h int, on bool) error {
	switch {
	case w > 1 && h > 1:
		right := x + w - 1
		bottom := y + h - 1
		if err := hSpan(p, x, right, y, on); err != nil {
			return err
		}
		if err := vSpan(p, x, y, bottom, on); err != nil {
			return err
		}
		if err := vSpan(p, right, y, bottom, on); err != nil {
			return err
		}
		return hSpan(p, x, right, bottom, on)
	case w == 1 && h > 1:
		return vSpan(p, x, y, y+h-1, on)
	case h == 1 && w > 1:
		return hSpan(p, x, x+w-1, y, on)
	case w == 1 && h == 1:
		return p.SetPixel(x, y, on)
	}
	return nil
}

// FillRect fills a w by h rectangle with its top left corner at (x, y),
// pixel by pixel. Degenerate sizes behave like Rect.
func FillRect(p Plotter, x, y, w, h int, on bool) error {
	switch {
	case w > 1 && h > 1:
		for j := 0; j < h; j++ {
			if err := hSpan(p, x, x+w-1, y+j, on); err != nil {
				return err
			}
		}
		return nil
	case w == 1 && h > 1:
		return vSpan(p, x, y, y+h-1, on)
	case h == 1 && w > 1:
		return hSpan(p, x, x+w-1, y, on)
	case w == 1 && h == 1:
		return p.SetPixel(x, y, on)
	}
	return nil
}

// hSpan draws the horizontal run x1..x2 (inclusive) at row y.
func hSpan(p Plotter, x1, x2, y int, on bool) error {
	for x := x1; x <= x2; x++ {
		if err := p.SetPixel(x, y, on); err != nil {
			return err
		}
	}
	return nil
}

// vSpan draws the vertical run y1..y2 (inclusive) at column x.
func vSpan(p Plotter, x, y1, y2 int, on bool) error {
	for y := y1; y <= y2; y++ {
		if err := p.SetPixel(x, y, on); err != nil {
			return err
		}
	}
	return nil
}
