package ks0108

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/devices/v3/ks0108/image1bit"
)

// Display geometry. The KS0108 pairing is fixed: two controllers ("planes")
// of 64 columns by 8 pages, 8 pixels per page byte.
const (
	Width  = 128
	Height = 64

	pages        = 8
	planeColumns = 64
	planeBytes   = pages * planeColumns
	bufferSize   = 2 * planeBytes
)

// Controller commands, issued with the RS line low.
const (
	cmdDisplayOn  = 0x3F
	cmdDisplayOff = 0x3E
	cmdStartLine  = 0xC0 // ored with the start line (0-63)
	cmdSetPage    = 0xB8 // ored with the page (0-7)
	cmdSetColumn  = 0x40 // ored with the column (0-63)
)

// DrawMode selects when pixel writes reach the hardware.
type DrawMode int

const (
	// Buffered only mutates the in-memory frame and raises a dirty flag.
	// Flush transmits the whole frame if anything changed. Recommended when
	// the frame changes often; pair it with a periodic task calling Flush
	// for a fixed refresh rate.
	Buffered DrawMode = iota

	// Immediate retransmits the touched frame byte right after every pixel
	// write. Group larger drawing operations with BeginBatch/EndBatch so the
	// frame is sent once instead of per pixel.
	Immediate
)

// String implements fmt.Stringer.
func (m DrawMode) String() string {
	switch m {
	case Buffered:
		return "buffered"
	case Immediate:
		return "immediate"
	default:
		return fmt.Sprintf("DrawMode(%d)", int(m))
	}
}

// Bus transmits one control or data byte to the display controllers.
//
// cs1 and cs2 select the left and right controller, data selects between a
// command (false) and display data (true), b is the byte to latch. Parallel
// and Serial implement this over the two supported wirings; the driver never
// depends on wiring details.
type Bus interface {
	Send(cs1, cs2 bool, data bool, b byte) error
}

// Opts is the configuration for the display driver.
type Opts struct {
	// Mode selects the drawing mode. It is fixed for the lifetime of the
	// device. The zero value is Buffered.
	Mode DrawMode

	// StartLine is the display RAM line mapped to the topmost screen row
	// (0-63). Almost always 0.
	StartLine int
}

// Dev is the device handle for a KS0108 display pair.
//
// Dev is not safe for concurrent use. All drawing must happen from a single
// goroutine, and drawing operations must not be re-entered from callbacks
// that themselves draw.
type Dev struct {
	bus  Bus
	mode DrawMode

	// Frame state. buffer holds the native page layout: byte page*64+column,
	// plus 512 for the right plane; bit b of a byte is pixel row page*8+b.
	buffer   [bufferSize]byte
	inverted bool

	// Buffered mode: set on any change, cleared by Flush.
	dirty bool

	// Immediate mode: batch nesting and shadow copies of each controller's
	// page and column registers, kept to skip redundant selects.
	batchDepth int
	curPage    [2]uint8
	curColumn  [2]uint8

	halted bool
}

var errHalted = errors.New("ks0108: halted")

// New initializes a display pair behind bus.
//
// opts can be nil to use defaults (Buffered mode, start line 0). The display
// is reset, cleared and turned on. Call New exactly once per display.
func New(bus Bus, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("ks0108: bus is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Mode != Buffered && opts.Mode != Immediate {
		return nil, fmt.Errorf("ks0108: invalid drawing mode %d", int(opts.Mode))
	}
	if opts.StartLine < 0 || opts.StartLine > 63 {
		return nil, errors.New("ks0108: start line must be between 0 and 63")
	}

	d := &Dev{
		bus:  bus,
		mode: opts.Mode,
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	if opts.StartLine != 0 {
		if err := d.setStartLine(opts.StartLine); err != nil {
			return nil, err
		}
	}
	if err := d.On(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset restores the initial display state: inversion off, start line 0,
// both page and column pointers at 0, frame cleared. In Buffered mode the
// cleared frame is flushed out unconditionally.
func (d *Dev) Reset() error {
	if d.halted {
		return errHalted
	}
	if err := d.SetInverted(false); err != nil {
		return err
	}
	if err := d.setStartLine(0); err != nil {
		return err
	}
	for plane := 0; plane < 2; plane++ {
		if err := d.setPage(plane, 0); err != nil {
			return err
		}
		if err := d.setColumn(plane, 0); err != nil {
			return err
		}
	}
	d.batchDepth = 0
	if err := d.Clear(); err != nil {
		return err
	}
	return d.Flush()
}

// On turns both controllers on.
func (d *Dev) On() error {
	if d.halted {
		return errHalted
	}
	return d.bus.Send(true, true, false, cmdDisplayOn)
}

// Off turns both controllers off. The frame content is kept.
func (d *Dev) Off() error {
	if d.halted {
		return errHalted
	}
	return d.bus.Send(true, true, false, cmdDisplayOff)
}

// SetPixel sets the pixel at (x, y).
//
// Coordinates outside the visible area are silently dropped; the display has
// no concept of an out-of-range pixel. In Immediate mode the touched frame
// byte is retransmitted right away unless a batch is open.
func (d *Dev) SetPixel(x, y int, on bool) error {
	if d.halted {
		return errHalted
	}
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return nil
	}

	plane := 0
	if x >= planeColumns {
		plane = 1
	}
	column := x % planeColumns
	page := y / 8
	mask := byte(1) << uint(y%8)

	offset := plane*planeBytes + page*planeColumns + column
	b := d.buffer[offset]
	// While inverted the write direction flips so the visible result stays
	// the same across a polarity change.
	if on != d.inverted {
		b |= mask
	} else {
		b &^= mask
	}
	d.buffer[offset] = b

	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		if d.batchDepth == 0 {
			if err := d.setPage(plane, page); err != nil {
				return err
			}
			if err := d.setColumn(plane, column); err != nil {
				return err
			}
			return d.writeData(plane, b)
		}
	}
	return nil
}

// Clear turns every pixel off, regardless of the current polarity.
// Immediate mode retransmits the whole frame unconditionally.
func (d *Dev) Clear() error {
	return d.fillBuffer(0x00)
}

// Fill turns every pixel on, regardless of the current polarity.
// Immediate mode retransmits the whole frame unconditionally.
func (d *Dev) Fill() error {
	return d.fillBuffer(0xFF)
}

func (d *Dev) fillBuffer(b byte) error {
	if d.halted {
		return errHalted
	}
	if d.inverted {
		b = ^b
	}
	for i := range d.buffer {
		d.buffer[i] = b
	}
	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		return d.sendBuffer()
	}
	return nil
}

// SetInverted flips the display polarity. A change complements every frame
// byte so the visible content is preserved. No-op if unchanged.
func (d *Dev) SetInverted(invert bool) error {
	if d.halted {
		return errHalted
	}
	if invert == d.inverted {
		return nil
	}
	for i := range d.buffer {
		d.buffer[i] = ^d.buffer[i]
	}
	d.inverted = invert
	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		return d.sendBuffer()
	}
	return nil
}

// IsInverted reports whether the display polarity is inverted.
func (d *Dev) IsInverted() bool {
	return d.inverted
}

// Flush transmits the whole frame if anything changed since the last Flush.
// Only meaningful in Buffered mode; in Immediate mode it is a no-op.
//
// Flush is designed to be invoked on a fixed schedule, e.g. by a tasks
// scheduler, for a constant refresh rate.
func (d *Dev) Flush() error {
	if d.halted {
		return errHalted
	}
	if d.mode != Buffered || !d.dirty {
		return nil
	}
	if err := d.sendBuffer(); err != nil {
		return err
	}
	d.dirty = false
	return nil
}

// BeginBatch opens a batch of grouped pixel changes in Immediate mode,
// suppressing per-pixel transmission. Batches nest; only the outermost
// EndBatch transmits. No-op in Buffered mode.
func (d *Dev) BeginBatch() {
	if d.mode == Immediate {
		d.batchDepth++
	}
}

// EndBatch closes the innermost batch. Closing the outermost batch transmits
// the whole frame once. An EndBatch without a matching BeginBatch returns an
// error and leaves the state untouched. No-op in Buffered mode.
func (d *Dev) EndBatch() error {
	if d.mode != Immediate {
		return nil
	}
	if d.batchDepth == 0 {
		return errors.New("ks0108: EndBatch without matching BeginBatch")
	}
	d.batchDepth--
	if d.batchDepth == 0 {
		return d.sendBuffer()
	}
	return nil
}

// sendBuffer streams the whole frame to the hardware.
//
// The controllers auto-increment the column register on every data write,
// but only within a page. So: column pointer to 0 once per plane, then for
// each page one page select followed by 64 data bytes in column order,
// without reissuing a column select mid-stream. Both page pointers are reset
// afterwards so a subsequent partial write starts from a known state; the
// column registers have wrapped back to 0 on their own.
func (d *Dev) sendBuffer() error {
	i := 0
	for plane := 0; plane < 2; plane++ {
		cs1 := plane == 0
		if err := d.setColumn(plane, 0); err != nil {
			return err
		}
		for page := 0; page < pages; page++ {
			if err := d.setPage(plane, page); err != nil {
				return err
			}
			for column := 0; column < planeColumns; column++ {
				if err := d.bus.Send(cs1, !cs1, true, d.buffer[i]); err != nil {
					return err
				}
				i++
			}
		}
	}
	for plane := 0; plane < 2; plane++ {
		if err := d.setPage(plane, 0); err != nil {
			return err
		}
	}
	return nil
}

// setStartLine maps display RAM line n to the topmost screen row on both
// controllers.
func (d *Dev) setStartLine(line int) error {
	return d.bus.Send(true, true, false, cmdStartLine|byte(line&63))
}

// setPage selects the page register of one controller. In Immediate mode a
// select matching the shadow register is skipped.
func (d *Dev) setPage(plane, page int) error {
	if d.mode == Immediate && d.curPage[plane] == uint8(page) {
		return nil
	}
	if err := d.sendPlane(plane, false, cmdSetPage|byte(page&7)); err != nil {
		return err
	}
	d.curPage[plane] = uint8(page)
	return nil
}

// setColumn selects the column register of one controller. In Immediate mode
// a select matching the shadow register is skipped.
func (d *Dev) setColumn(plane, column int) error {
	if d.mode == Immediate && d.curColumn[plane] == uint8(column) {
		return nil
	}
	if err := d.sendPlane(plane, false, cmdSetColumn|byte(column&63)); err != nil {
		return err
	}
	d.curColumn[plane] = uint8(column)
	return nil
}

// writeData writes one data byte to one controller and tracks the hardware
// column auto-increment, which wraps after 63.
func (d *Dev) writeData(plane int, b byte) error {
	if err := d.sendPlane(plane, true, b); err != nil {
		return err
	}
	d.curColumn[plane] = (d.curColumn[plane] + 1) % planeColumns
	return nil
}

func (d *Dev) sendPlane(plane int, data bool, b byte) error {
	return d.bus.Send(plane == 0, plane == 1, data, b)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Write writes a raw frame in the native page layout (1024 bytes: left plane
// pages 0-7, then right plane pages 0-7, 64 column bytes each). The current
// polarity is applied, so the bytes describe visible pixels.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != bufferSize {
		return 0, errors.New("ks0108: invalid buffer size")
	}
	for i, b := range pixels {
		if d.inverted {
			b = ^b
		}
		d.buffer[i] = b
	}
	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		if err := d.sendBuffer(); err != nil {
			return 0, err
		}
	}
	return bufferSize, nil
}

// Draw draws an image onto the display. It implements display.Drawer.
//
// A full-frame *image1bit.VerticalLSB source takes a fast path straight into
// the frame buffer. Everything else is converted pixel by pixel inside a
// batch, so Immediate mode transmits the frame once.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}
	dst = dst.Intersect(d.Bounds())
	if dst.Empty() {
		return nil
	}

	if img, ok := src.(*image1bit.VerticalLSB); ok {
		if dst == d.Bounds() && sp == (image.Point{}) && img.Rect == d.Bounds() {
			return d.writeFrame(img)
		}
	}

	d.BeginBatch()
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			c := src.At(sp.X+x-dst.Min.X, sp.Y+y-dst.Min.Y)
			bit := image1bit.BitModel.Convert(c).(image1bit.Bit)
			if err := d.SetPixel(x, y, bool(bit)); err != nil {
				return err
			}
		}
	}
	return d.EndBatch()
}

// writeFrame converts a full VerticalLSB frame to the native split-plane
// layout.
func (d *Dev) writeFrame(img *image1bit.VerticalLSB) error {
	for page := 0; page < pages; page++ {
		for x := 0; x < Width; x++ {
			b := img.Pix[page*Width+x]
			if d.inverted {
				b = ^b
			}
			plane := 0
			if x >= planeColumns {
				plane = 1
			}
			d.buffer[plane*planeBytes+page*planeColumns+x%planeColumns] = b
		}
	}
	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		return d.sendBuffer()
	}
	return nil
}

// Halt turns the display off. After calling Halt the device does not respond
// to further drawing operations until it is re-initialized.
func (d *Dev) Halt() error {
	if err := d.Off(); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ks0108.Dev{%dx%d, %s}", Width, Height, d.mode)
}
