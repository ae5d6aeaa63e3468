// Package image1bit provides a 1-bit monochrome image format for page
// addressed display controllers like the KS0107/KS0108.
//
// These controllers group pixels into pages of 8 rows; one byte holds 8
// vertically stacked pixels with bit 0 being the topmost row.
//
// Memory layout example for a 2x8 image:
//
//	Byte 0 bit 0 = pixel (0,0) ... bit 7 = pixel (0,7)
//	Byte 1 bit 0 = pixel (1,0) ... bit 7 = pixel (1,7)
//
// This package provides:
//
// - Bit: a 1-bit color type (On or Off)
// - BitModel: a color model converting standard Go colors to Bit
// - VerticalLSB: an image.Image implementation matching the page layout
//
// Example usage:
//
//	// Create a 128x64 image
//	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
//
//	// Turn a pixel on
//	img.SetBit(10, 20, image1bit.On)
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
