package ks0108

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ParallelOpts is the wiring of a Parallel bus.
//
// All pins are required. The Read/Write pin of the display is not driven by
// this package; tie it low. The reset pin is not driven either; tie it high.
type ParallelOpts struct {
	// DB are the eight data lines, DB0 (LSB) through DB7 (MSB).
	DB [8]gpio.PinOut

	// CS1 and CS2 select the left and right controller (high means selected).
	CS1 gpio.PinOut
	CS2 gpio.PinOut

	// RS selects between command (low) and display data (high) transfers.
	RS gpio.PinOut

	// E is the enable strobe; the controllers latch on its falling edge.
	E gpio.PinOut

	// Enable strobe timing. Pre runs between settling the lines and raising
	// E, Hold keeps E high, Post runs after the falling edge. Zero skips the
	// delay, except Post which defaults to 1µs: the controllers need that
	// long before accepting the next transfer.
	EnablePreDelay  time.Duration
	EnableHoldDelay time.Duration
	EnablePostDelay time.Duration
}

// Parallel drives a display pair over the full 8-bit parallel interface.
type Parallel struct {
	db              [8]gpio.PinOut
	cs1, cs2, rs, e gpio.PinOut
	pre, hold, post time.Duration
}

// NewParallel validates the wiring and drives every line low.
func NewParallel(opts *ParallelOpts) (*Parallel, error) {
	if opts == nil {
		return nil, errors.New("ks0108: parallel wiring is required")
	}
	for i, p := range opts.DB {
		if p == nil {
			return nil, fmt.Errorf("ks0108: data pin DB%d is required", i)
		}
	}
	if opts.CS1 == nil || opts.CS2 == nil || opts.RS == nil || opts.E == nil {
		return nil, errors.New("ks0108: CS1, CS2, RS and E pins are required")
	}

	p := &Parallel{
		db:   opts.DB,
		cs1:  opts.CS1,
		cs2:  opts.CS2,
		rs:   opts.RS,
		e:    opts.E,
		pre:  opts.EnablePreDelay,
		hold: opts.EnableHoldDelay,
		post: opts.EnablePostDelay,
	}
	if p.post == 0 {
		p.post = time.Microsecond
	}

	for _, pin := range p.db {
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("ks0108: failed to configure data line: %w", err)
		}
	}
	for _, pin := range []gpio.PinOut{p.cs1, p.cs2, p.rs, p.e} {
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("ks0108: failed to configure control line: %w", err)
		}
	}
	return p, nil
}

// Send implements Bus. It settles the data and control lines, then strobes
// the enable pin with the configured timing.
func (p *Parallel) Send(cs1, cs2 bool, data bool, b byte) error {
	for i, pin := range p.db {
		if err := pin.Out(gpio.Level(b&(1<<uint(i)) != 0)); err != nil {
			return err
		}
	}
	if err := p.cs1.Out(gpio.Level(cs1)); err != nil {
		return err
	}
	if err := p.cs2.Out(gpio.Level(cs2)); err != nil {
		return err
	}
	if err := p.rs.Out(gpio.Level(data)); err != nil {
		return err
	}
	return p.strobe(p.e, p.pre, p.hold, p.post)
}

// String returns a string representation of the bus.
func (p *Parallel) String() string {
	return fmt.Sprintf("ks0108.Parallel{E: %s}", p.e)
}

// strobe pulses an enable pin high then low with the given timing.
func (p *Parallel) strobe(e gpio.PinOut, pre, hold, post time.Duration) error {
	busDelay(pre)
	if err := e.Out(gpio.High); err != nil {
		return err
	}
	busDelay(hold)
	if err := e.Out(gpio.Low); err != nil {
		return err
	}
	busDelay(post)
	return nil
}

// busDelay is a bounded fixed-duration wait. No transfer blocks indefinitely.
func busDelay(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
