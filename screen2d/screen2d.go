// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D display.Drawer that renders frames to a
// terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your super nice 1.47" LCD to come by
// mail. The frame buffer uses the RGB565 color model of the panel, so the
// terminal shows the same quantization the hardware would.
package screen2d

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/gc9307/image565"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the frame size in pixels.
	W, H int
	// Cols and Rows are the size of the rendered character grid. Frames
	// are downsampled to fit, one pixel per cell. Zero values default to
	// W and H.
	Cols, Rows int
	Palette    *ansi256.Palette

	_ struct{}
}

// Dev is an LCD panel emulator that outputs to the console.
type Dev struct {
	w          io.Writer
	cols, rows int
	palette    ansi256.Palette

	fb    *image565.Image
	buf   bytes.Buffer
	drawn bool
}

// New returns a Dev that displays at the console.
//
// Permits to do local testing of panel output.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = opts.W
	}
	if rows == 0 {
		rows = opts.H
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		cols:    cols,
		rows:    rows,
		palette: *p,
		fb:      image565.New(image.Rect(0, 0, opts.W, opts.H)),
	}
}

func (d *Dev) String() string {
	return "Screen2D"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Write accepts a stream of raw big-endian RGB565 pixels, the panel wire
// format, and renders it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%2 != 0 || len(pixels) > len(d.fb.Pix) {
		return 0, errors.New("invalid RGB565 stream length")
	}
	copy(d.fb.Pix, pixels)
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.RGB565Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.fb, r, src, sp, draw.Src)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", d.rows)
	}
	b := d.fb.Bounds()
	for row := 0; row < d.rows; row++ {
		y := b.Min.Y + row*b.Dy()/d.rows
		_, _ = d.buf.WriteString("\r")
		for col := 0; col < d.cols; col++ {
			x := b.Min.X + col*b.Dx()/d.cols
			c := color.NRGBAModel.Convert(d.fb.RGB565At(x, y)).(color.NRGBA)
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
