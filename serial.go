package ks0108

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// SerialOpts is the wiring of a Serial bus.
//
// The serial wiring needs two daisy-chained shift registers (e.g. 74HC595)
// and three pins: the shared shift/storage clock, the serial data line and
// the display enable strobe. The first register carries the data byte (Qa is
// DB0, Qh is DB7); the first three outputs of the second register carry the
// control lines. Tie the registers' reset high and output-enable low, and
// connect shift and storage clock together.
type SerialOpts struct {
	// Clock is the shared shift/storage clock of both registers.
	Clock gpio.PinOut

	// Data is the serial input of the register chain.
	Data gpio.PinOut

	// E is the display enable strobe, driven directly.
	E gpio.PinOut

	// CS1Bit, CS2Bit and RSBit name the output of the second shift register
	// (Qa: 0, Qb: 1, Qc: 2) wired to each control line. They must use each
	// value exactly once. All three left zero selects the default order
	// CS1 on Qa, CS2 on Qb, RS on Qc.
	CS1Bit int
	CS2Bit int
	RSBit  int

	// Enable strobe timing, as in ParallelOpts.
	EnablePreDelay  time.Duration
	EnableHoldDelay time.Duration
	EnablePostDelay time.Duration
}

// Serial drives a display pair over the 3-wire shift register interface.
type Serial struct {
	clock, data, e        gpio.PinOut
	cs1Bit, cs2Bit, rsBit uint
	pre, hold, post       time.Duration
}

// NewSerial validates the wiring and drives every line low.
func NewSerial(opts *SerialOpts) (*Serial, error) {
	if opts == nil {
		return nil, errors.New("ks0108: serial wiring is required")
	}
	if opts.Clock == nil || opts.Data == nil || opts.E == nil {
		return nil, errors.New("ks0108: clock, data and E pins are required")
	}
	cs1Bit, cs2Bit, rsBit := opts.CS1Bit, opts.CS2Bit, opts.RSBit
	if cs1Bit == 0 && cs2Bit == 0 && rsBit == 0 {
		cs1Bit, cs2Bit, rsBit = 0, 1, 2
	}
	for _, b := range []int{cs1Bit, cs2Bit, rsBit} {
		if b < 0 || b > 2 {
			return nil, errors.New("ks0108: control register bits must be 0, 1 or 2")
		}
	}
	if cs1Bit == cs2Bit || cs1Bit == rsBit || cs2Bit == rsBit {
		return nil, errors.New("ks0108: control register bits must be distinct")
	}

	s := &Serial{
		clock:  opts.Clock,
		data:   opts.Data,
		e:      opts.E,
		cs1Bit: uint(cs1Bit),
		cs2Bit: uint(cs2Bit),
		rsBit:  uint(rsBit),
		pre:    opts.EnablePreDelay,
		hold:   opts.EnableHoldDelay,
		post:   opts.EnablePostDelay,
	}
	if s.post == 0 {
		s.post = time.Microsecond
	}

	for _, pin := range []gpio.PinOut{s.clock, s.data, s.e} {
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("ks0108: failed to configure serial line: %w", err)
		}
	}
	return s, nil
}

// Send implements Bus. The control bits and the data byte are shifted into
// the register chain, latched, then the enable pin is strobed.
func (s *Serial) Send(cs1, cs2 bool, data bool, b byte) error {
	var ctl byte
	if cs1 {
		ctl |= 1 << s.cs1Bit
	}
	if cs2 {
		ctl |= 1 << s.cs2Bit
	}
	if data {
		ctl |= 1 << s.rsBit
	}
	if err := s.shiftOut(ctl, b); err != nil {
		return err
	}

	busDelay(s.pre)
	if err := s.e.Out(gpio.High); err != nil {
		return err
	}
	busDelay(s.hold)
	if err := s.e.Out(gpio.Low); err != nil {
		return err
	}
	busDelay(s.post)
	return nil
}

// String returns a string representation of the bus.
func (s *Serial) String() string {
	return fmt.Sprintf("ks0108.Serial{Clock: %s, Data: %s}", s.clock, s.data)
}

// shiftOut clocks the three control bits (bit 2 first) and the data byte
// (MSB first) into the register chain. One extra clock pulse moves the
// shifted levels from the shift stage to the output stage.
func (s *Serial) shiftOut(ctl, b byte) error {
	for i := 2; i >= 0; i-- {
		if err := s.shiftBit(ctl&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	for i := 7; i >= 0; i-- {
		if err := s.shiftBit(b&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	return s.pulseClock()
}

func (s *Serial) shiftBit(level bool) error {
	if err := s.data.Out(gpio.Level(level)); err != nil {
		return err
	}
	return s.pulseClock()
}

func (s *Serial) pulseClock() error {
	if err := s.clock.Out(gpio.High); err != nil {
		return err
	}
	return s.clock.Out(gpio.Low)
}
