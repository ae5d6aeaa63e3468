// Package ks0108 controls a KS0107/KS0108 128x64 graphic LCD via GPIO.
//
// The panel is driven by two KS0108 column drivers under one KS0107 row
// driver. Each column driver owns one 64x64 half of the screen, organized as
// 8 pages of 64 columns; a page byte holds 8 vertically stacked pixels with
// bit 0 on top. This driver keeps a full frame in memory, is strictly
// write-only towards the hardware, and implements the display.Drawer
// interface from periph.io.
//
// # Display Characteristics
//
// - 128x64 monochrome pixels across two independently selected controllers
// - Page addressed RAM: 8 pages per controller, 64 bytes per page
// - Hardware column auto-increment within a page
// - Configurable start line for vertical scrolling effects
// - Software display inversion preserving visible content
//
// # Hardware Connection
//
// Two wirings are supported. The Parallel bus drives all 13 lines directly:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 5V
//	DB0-DB7     → 8 GPIOs (data)
//	CS1         → GPIO (left controller select)
//	CS2         → GPIO (right controller select)
//	RS          → GPIO (command/data select)
//	E           → GPIO (enable strobe)
//	R/W         → GND (the driver never reads)
//	RST         → VCC (or an externally managed GPIO)
//
// The Serial bus places the data byte and control lines behind two
// daisy-chained shift registers (e.g. 74HC595) and needs only three GPIOs:
// clock, serial data and the enable strobe. See SerialOpts for the register
// wiring.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"periph.io/x/conn/v3/gpio"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/devices/v3/ks0108"
//		"periph.io/x/devices/v3/ks0108/gfx"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Wire the parallel bus
//		var db [8]gpio.PinOut
//		for i := range db {
//			db[i] = gpioreg.ByName(fmt.Sprintf("GPIO%d", 2+i))
//		}
//		bus, err := ks0108.NewParallel(&ks0108.ParallelOpts{
//			DB:  db,
//			CS1: gpioreg.ByName("GPIO10"),
//			CS2: gpioreg.ByName("GPIO11"),
//			RS:  gpioreg.ByName("GPIO12"),
//			E:   gpioreg.ByName("GPIO13"),
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Create the device
//		dev, err := ks0108.New(bus, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		// Draw and flush
//		gfx.Rect(dev, 0, 0, ks0108.Width, ks0108.Height, true)
//		dev.Flush()
//	}
//
// # Drawing Modes
//
// The driver supports two drawing modes, fixed at construction:
//
// ## Buffered
//
// Pixel writes only mutate the in-memory frame and raise a dirty flag;
// Flush transmits the whole frame when anything changed. Pair Flush with a
// periodic task (see the tasks package) for a constant refresh rate:
//
//	dev, _ := ks0108.New(bus, &ks0108.Opts{Mode: ks0108.Buffered})
//	s, _ := tasks.New(nil)
//	s.Add(tasks.Task{Interval: 50 * time.Millisecond, Run: dev.Flush})
//
// ## Immediate
//
// Every pixel write retransmits the touched frame byte right away. Group
// larger operations with BeginBatch/EndBatch so the frame goes out once:
//
//	dev.BeginBatch()
//	gfx.FillRect(dev, 0, 0, 64, 32, true)
//	dev.EndBatch()
//
// Batches nest; only the outermost EndBatch transmits.
//
// # Drawing
//
// Dev exposes SetPixel directly and satisfies the Plotter interfaces of the
// gfx, bitmap and font subpackages, so primitives, encoded images and text
// render straight onto the frame. For the image/draw ecosystem, Draw accepts
// any image.Image and takes a fast path for full-frame *image1bit.VerticalLSB
// sources; Write accepts a raw 1024-byte frame in the native page layout.
//
// # Datasheet
//
// For detailed command descriptions and timing information, see:
// https://www.crystalfontz.com/controllers/Samsung/KS0108B
package ks0108
