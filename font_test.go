// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import (
	"errors"
	"image"
	"image/color"
	"math/bits"
	"testing"

	"periph.io/x/gc9307/image565"
)

// pixelCanvas collects single pixel writes into an image.
type pixelCanvas struct {
	img *image565.Image
}

func newPixelCanvas(w, h int) *pixelCanvas {
	return &pixelCanvas{img: image565.New(image.Rect(0, 0, w, h))}
}

func (c *pixelCanvas) SetPixel(x, y int, col color.Color) error {
	c.img.Set(x, y, col)
	return nil
}

func (c *pixelCanvas) lit() int {
	n := 0
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.img.RGB565At(x, y) != image565.Black {
				n++
			}
		}
	}
	return n
}

type failWriter struct {
	err error
}

func (w *failWriter) SetPixel(int, int, color.Color) error { return w.err }

func glyphPixels(g [2 * fontHeight]byte) int {
	n := 0
	for _, b := range g {
		n += bits.OnesCount8(b)
	}
	return n
}

func TestDrawDigit(t *testing.T) {
	c := newPixelCanvas(16, 20)
	if err := DrawDigit(c, 0, 0, 0, image565.White); err != nil {
		t.Fatal(err)
	}

	// The top row of the zero glyph covers columns 2 to 9, row 3 only the
	// outer columns.
	for _, tc := range []struct {
		x, y int
		on   bool
	}{
		{x: 0, y: 0, on: false},
		{x: 2, y: 0, on: true},
		{x: 9, y: 0, on: true},
		{x: 10, y: 0, on: false},
		{x: 0, y: 3, on: true},
		{x: 1, y: 3, on: true},
		{x: 5, y: 3, on: false},
		{x: 10, y: 3, on: true},
		{x: 11, y: 3, on: true},
		{x: 11, y: 15, on: false},
	} {
		on := c.img.RGB565At(tc.x, tc.y) != image565.Black
		if on != tc.on {
			t.Errorf("pixel (%d,%d) lit=%t, want %t", tc.x, tc.y, on, tc.on)
		}
	}
	if got, want := c.lit(), glyphPixels(digitFont[0]); got != want {
		t.Errorf("%d pixels lit, want %d", got, want)
	}
}

func TestDrawDigitOffset(t *testing.T) {
	c := newPixelCanvas(32, 32)
	if err := DrawDigit(c, 7, 9, 1, image565.Red); err != nil {
		t.Fatal(err)
	}
	if got, want := c.lit(), glyphPixels(digitFont[1]); got != want {
		t.Errorf("%d pixels lit, want %d", got, want)
	}
	// The one glyph starts with a narrow stem at column 4.
	if c.img.RGB565At(7+4, 9) == image565.Black {
		t.Error("glyph anchor pixel is not lit")
	}
	for x := 0; x < 7; x++ {
		for y := 0; y < 32; y++ {
			if c.img.RGB565At(x, y) != image565.Black {
				t.Fatalf("pixel (%d,%d) lit outside the glyph box", x, y)
			}
		}
	}
}

func TestDrawDigitInvalid(t *testing.T) {
	c := newPixelCanvas(16, 20)
	if err := DrawDigit(c, 0, 0, -1, image565.White); err != nil {
		t.Fatal(err)
	}
	if err := DrawDigit(c, 0, 0, 10, image565.White); err != nil {
		t.Fatal(err)
	}
	if got := c.lit(); got != 0 {
		t.Errorf("%d pixels lit for invalid digits, want 0", got)
	}
}

func TestDrawAngle(t *testing.T) {
	for _, tc := range []struct {
		angle  int
		digits []int
	}{
		{angle: 0, digits: []int{0}},
		{angle: 90, digits: []int{9, 0}},
		{angle: 180, digits: []int{1, 8, 0}},
		{angle: 270, digits: []int{2, 7, 0}},
	} {
		c := newPixelCanvas(64, 20)
		if err := DrawAngle(c, 0, 0, tc.angle, image565.Yellow); err != nil {
			t.Fatal(err)
		}
		want := len(degreePixels)
		for _, d := range tc.digits {
			want += glyphPixels(digitFont[d])
		}
		if got := c.lit(); got != want {
			t.Errorf("angle %d: %d pixels lit, want %d", tc.angle, got, want)
		}
		// The degree symbol sits one advance after the last digit.
		dx := len(tc.digits) * fontAdvance
		if c.img.RGB565At(dx+1, 0) == image565.Black {
			t.Errorf("angle %d: degree symbol not found at column %d", tc.angle, dx)
		}
	}
}

func TestDrawAngleError(t *testing.T) {
	w := &failWriter{err: errors.New("dead panel")}
	if err := DrawAngle(w, 0, 0, 90, image565.White); err == nil {
		t.Error("expected the pixel writer error to surface")
	}
}

func TestDrawAngleOnDevice(t *testing.T) {
	d, rec := newRecordedDev(t, &DefaultOpts)
	if err := DrawAngle(d, 10, 10, 0, image565.White); err != nil {
		t.Fatal(err)
	}
	// Every lit pixel costs one window sequence and one data write.
	pixels := glyphPixels(digitFont[0]) + len(degreePixels)
	if got, want := len(rec.Ops), 6*pixels; got != want {
		t.Errorf("%d operations recorded, want %d", got, want)
	}
}

func TestDrawAngleOnRotated(t *testing.T) {
	d, rec := newRecordedDev(t, &PortraitOpts)
	r := NewRotated(d)
	r.SetRotation(Deg90)
	if err := DrawAngle(r, 10, 10, 90, image565.White); err != nil {
		t.Fatal(err)
	}
	pixels := glyphPixels(digitFont[9]) + glyphPixels(digitFont[0]) + len(degreePixels)
	if got, want := len(rec.Ops), 6*pixels; got != want {
		t.Errorf("%d operations recorded, want %d", got, want)
	}
}
