// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import "image/color"

// Glyph cell dimensions of the builtin digit font and the horizontal pen
// advance between characters.
const (
	fontWidth   = 12
	fontHeight  = 16
	fontAdvance = 13
)

// PixelWriter is the single-pixel drawing surface shared by Dev and
// Rotated.
type PixelWriter interface {
	SetPixel(x, y int, c color.Color) error
}

// digitFont holds 12x16 glyphs for the digits 0 to 9, two bytes per row,
// MSB first.
var digitFont = [10][2 * fontHeight]byte{
	{
		0x3F, 0xC0, 0x7F, 0xE0, 0xE0, 0x70, 0xC0, 0x30, 0xC0, 0x30, 0xC0, 0x30, 0xC0, 0x30,
		0xC0, 0x30, 0xC0, 0x30, 0xC0, 0x30, 0xC0, 0x30, 0xC0, 0x30, 0xE0, 0x70, 0x7F, 0xE0,
		0x3F, 0xC0, 0x00, 0x00,
	},
	{
		0x0C, 0x00, 0x1C, 0x00, 0x3C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00,
		0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x0C, 0x00, 0x3F, 0x00,
		0x3F, 0x00, 0x00, 0x00,
	},
	{
		0x3F, 0xC0, 0x7F, 0xE0, 0xE0, 0x70, 0x00, 0x30, 0x00, 0x30, 0x00, 0x70, 0x00, 0xE0,
		0x01, 0xC0, 0x03, 0x80, 0x07, 0x00, 0x0E, 0x00, 0x1C, 0x00, 0x38, 0x00, 0x7F, 0xF0,
		0xFF, 0xF0, 0x00, 0x00,
	},
	{
		0x3F, 0xC0, 0x7F, 0xE0, 0xE0, 0x70, 0x00, 0x30, 0x00, 0x30, 0x00, 0x70, 0x0F, 0xE0,
		0x0F, 0xE0, 0x00, 0x70, 0x00, 0x30, 0x00, 0x30, 0xE0, 0x70, 0x7F, 0xE0, 0x3F, 0xC0,
		0x00, 0x00, 0x00, 0x00,
	},
	{
		0x01, 0xC0, 0x03, 0xC0, 0x07, 0xC0, 0x0D, 0xC0, 0x19, 0xC0, 0x31, 0xC0, 0x61, 0xC0,
		0xC1, 0xC0, 0xFF, 0xF0, 0xFF, 0xF0, 0x01, 0xC0, 0x01, 0xC0, 0x01, 0xC0, 0x01, 0xC0,
		0x01, 0xC0, 0x00, 0x00,
	},
	{
		0xFF, 0xF0, 0xFF, 0xF0, 0xE0, 0x00, 0xE0, 0x00, 0xE0, 0x00, 0xE0, 0x00, 0xFF, 0xC0,
		0xFF, 0xE0, 0x00, 0x70, 0x00, 0x30, 0x00, 0x30, 0xE0, 0x70, 0x7F, 0xE0, 0x3F, 0xC0,
		0x00, 0x00, 0x00, 0x00,
	},
	{
		0x1F, 0xC0, 0x3F, 0xE0, 0x70, 0x70, 0xE0, 0x00, 0xE0, 0x00, 0xE0, 0x00, 0xFF, 0xC0,
		0xFF, 0xE0, 0xE0, 0x70, 0xE0, 0x30, 0xE0, 0x30, 0x70, 0x70, 0x7F, 0xE0, 0x3F, 0xC0,
		0x00, 0x00, 0x00, 0x00,
	},
	{
		0xFF, 0xF0, 0xFF, 0xF0, 0x00, 0x30, 0x00, 0x60, 0x00, 0xC0, 0x01, 0x80, 0x03, 0x00,
		0x06, 0x00, 0x0C, 0x00, 0x18, 0x00, 0x30, 0x00, 0x60, 0x00, 0xC0, 0x00, 0xC0, 0x00,
		0xC0, 0x00, 0x00, 0x00,
	},
	{
		0x3F, 0xC0, 0x7F, 0xE0, 0xE0, 0x70, 0xE0, 0x70, 0xE0, 0x70, 0x70, 0xE0, 0x3F, 0xC0,
		0x7F, 0xE0, 0xE0, 0x70, 0xE0, 0x70, 0xE0, 0x70, 0xE0, 0x70, 0x7F, 0xE0, 0x3F, 0xC0,
		0x00, 0x00, 0x00, 0x00,
	},
	{
		0x3F, 0xC0, 0x7F, 0xE0, 0xE0, 0x70, 0xC0, 0x30, 0xC0, 0x30, 0xE0, 0x70, 0x7F, 0xF0,
		0x3F, 0xF0, 0x00, 0x70, 0x00, 0x70, 0x00, 0x70, 0xE0, 0xE0, 0x7F, 0xC0, 0x3F, 0x80,
		0x00, 0x00, 0x00, 0x00,
	},
}

// degreePixels traces a small circle used as the degree symbol.
var degreePixels = [8][2]int{
	{1, 0}, {2, 0},
	{0, 1}, {3, 1},
	{0, 2}, {3, 2},
	{1, 3}, {2, 3},
}

// DrawDigit renders one decimal digit at (x, y) in the builtin 12x16
// font. Only set glyph pixels are written, the background shows through.
// Values outside 0 to 9 are ignored.
func DrawDigit(d PixelWriter, x, y, digit int, c color.Color) error {
	if digit < 0 || digit > 9 {
		return nil
	}
	glyph := &digitFont[digit]
	for row := 0; row < fontHeight; row++ {
		bits := uint16(glyph[2*row])<<8 | uint16(glyph[2*row+1])
		for col := 0; col < fontWidth; col++ {
			if bits&(0x8000>>col) == 0 {
				continue
			}
			if err := d.SetPixel(x+col, y+row, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawAngle renders an angle in degrees followed by a degree symbol, for
// example "270°", at (x, y). Leading zeros are suppressed.
func DrawAngle(d PixelWriter, x, y, angle int, c color.Color) error {
	cur := x
	if angle >= 100 {
		if err := DrawDigit(d, cur, y, angle/100, c); err != nil {
			return err
		}
		cur += fontAdvance
	}
	if angle >= 10 {
		if err := DrawDigit(d, cur, y, (angle/10)%10, c); err != nil {
			return err
		}
		cur += fontAdvance
	}
	if err := DrawDigit(d, cur, y, angle%10, c); err != nil {
		return err
	}
	cur += fontAdvance

	for _, p := range degreePixels {
		if err := d.SetPixel(cur+p[0], y+p[1], c); err != nil {
			return err
		}
	}
	return nil
}

var _ PixelWriter = &Dev{}
var _ PixelWriter = &Rotated{}
