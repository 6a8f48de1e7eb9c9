// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image565 implements the 16-bit RGB565 color model used by the
// GC9307 class of display controllers.
//
// Pixels are stored big-endian, two bytes per pixel, which is the byte
// order the controller expects on the wire. An *Image row can therefore
// be streamed to the panel without conversion.
package image565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// RGB565 is a 16-bit color with 5 bits red, 6 bits green and 5 bits blue.
type RGB565 uint16

// Common panel colors.
const (
	Black   RGB565 = 0x0000
	White   RGB565 = 0xFFFF
	Red     RGB565 = 0xF800
	Green   RGB565 = 0x07E0
	Blue    RGB565 = 0x001F
	Yellow  RGB565 = 0xFFE0
	Cyan    RGB565 = 0x07FF
	Magenta RGB565 = 0xF81F
)

// From packs 8-bit color channels into an RGB565 value.
func From(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color.
//
// Channels are expanded by replicating their top bits so that full scale
// maps to 0xffff and conversion back through RGB565Model is lossless.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11) & 0x1f
	g = uint32(c>>5) & 0x3f
	b = uint32(c) & 0x1f
	r = r<<11 | r<<6 | r<<1 | r>>4
	g = g<<10 | g<<4 | g>>2
	b = b<<11 | b<<6 | b<<1 | b>>4
	return r, g, b, 0xffff
}

func toRGB565(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// RGB565Model converts any color.Color to RGB565.
var RGB565Model = color.ModelFunc(toRGB565)

// Image is an in-memory RGB565 image.
//
// Pix holds two bytes per pixel in big-endian order, matching the GC9307
// GRAM stream format.
type Image struct {
	// Pix holds the pixels as big-endian 16-bit values.
	Pix []byte
	// Stride is the distance in bytes between vertically adjacent pixels.
	Stride int
	// Rect is the image bounds.
	Rect image.Rectangle
}

// New returns an initialized (black) Image of the specified bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	stride := w * 2
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return RGB565Model
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the RGB565 color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	o := p.PixOffset(x, y)
	return RGB565(binary.BigEndian.Uint16(p.Pix[o : o+2]))
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, RGB565Model.Convert(c).(RGB565))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	o := p.PixOffset(x, y)
	binary.BigEndian.PutUint16(p.Pix[o:o+2], uint16(c))
}

// PixOffset returns the index into Pix of the first byte of the pixel at
// (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
