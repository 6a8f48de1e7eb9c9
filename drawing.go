// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/gc9307/image565"
)

// setAddressWindow arms the controller's GRAM window for r, shifted by
// offset into the controller's address space. r uses exclusive Max, the
// wire format wants inclusive end coordinates. Every data write that
// follows fills the window row-major until it is re-armed.
func setAddressWindow(ctrl controller, r image.Rectangle, offset image.Point) {
	r = r.Canon().Add(offset)

	var x, y [4]byte
	binary.BigEndian.PutUint16(x[0:2], uint16(r.Min.X))
	binary.BigEndian.PutUint16(x[2:4], uint16(r.Max.X-1))
	binary.BigEndian.PutUint16(y[0:2], uint16(r.Min.Y))
	binary.BigEndian.PutUint16(y[2:4], uint16(r.Max.Y-1))

	ctrl.sendCommand(columnAddressSet)
	ctrl.sendData(x[:])
	ctrl.sendCommand(pageAddressSet)
	ctrl.sendData(y[:])
	ctrl.sendCommand(memoryWrite)
}

// rgb565 converts any color through the device color model.
func rgb565(c color.Color) image565.RGB565 {
	return image565.RGB565Model.Convert(c).(image565.RGB565)
}

// areaWindowHeight is the fixed window height WriteArea derives from the
// width so the window fills the transfer capacity.
func areaWindowHeight(width int) int {
	return (areaMaxPixels + width - 1) / width
}

// SetAddressWindow arms the GRAM window for r and leaves the controller
// expecting a pixel stream. It is exposed for callers that produce their
// own pixel data; the window must be followed by data writes before any
// other operation, or the stream will land in the wrong place.
func (d *Dev) SetAddressWindow(r image.Rectangle) error {
	eh := errorHandler{d: d}
	setAddressWindow(&eh, r, image.Pt(d.opts.X, d.opts.Y))
	return eh.err
}

// FillScreen fills the whole frame with a single color.
func (d *Dev) FillScreen(c color.Color) error {
	return d.FillRect(d.Bounds(), c)
}

// FillRect fills a rectangle with a single color. The rectangle is clipped
// against the frame; an empty result is a no-op, not an error.
func (d *Dev) FillRect(r image.Rectangle, c color.Color) error {
	r = r.Canon().Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	return d.fillArea(r, rgb565(c))
}

// SetPixel writes a single pixel. Out-of-frame coordinates are ignored.
func (d *Dev) SetPixel(x, y int, c color.Color) error {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return nil
	}
	return d.fillArea(image.Rect(x, y, x+1, y+1), rgb565(c))
}

// fillArea arms the window for r, which must already be clipped, and
// streams r.Dx()*r.Dy() pixels of the color.
func (d *Dev) fillArea(r image.Rectangle, c image565.RGB565) error {
	eh := errorHandler{d: d}
	setAddressWindow(&eh, r, image.Pt(d.opts.X, d.opts.Y))
	d.fillColor(&eh, r.Dx()*r.Dy(), c)
	return eh.err
}

// fillColor emits n pixels of a single color, staging fillChunkPixels at a
// time through the scratch buffer.
func (d *Dev) fillColor(ctrl controller, n int, c image565.RGB565) {
	hi, lo := byte(c>>8), byte(c)
	chunk := d.buf[:2*fillChunkPixels]
	for i := 0; i < fillChunkPixels; i++ {
		chunk[2*i] = hi
		chunk[2*i+1] = lo
	}
	for ; n >= fillChunkPixels; n -= fillChunkPixels {
		ctrl.sendData(chunk)
	}
	if n > 0 {
		ctrl.sendData(chunk[:2*n])
	}
}

// WriteArea expands a 1-bit-per-pixel bitmap, MSB first, into foreground
// and background colors and writes it in one transfer at (x, y).
//
// The armed window is width wide and as tall as the transfer capacity of
// areaMaxPixels allows; the expanded bitmap fills it row-major from the
// top. The width must divide the capacity evenly and the bitmap must fit
// it, otherwise ErrAreaTooLarge is returned and nothing is written.
func (d *Dev) WriteArea(x, y, width int, bitmap []byte, fg, bg color.Color) error {
	if width <= 0 {
		return fmt.Errorf("gc9307: invalid area width %d", width)
	}
	height := areaWindowHeight(width)
	if width*height > areaMaxPixels || len(bitmap)*8 > areaMaxPixels {
		return ErrAreaTooLarge
	}
	eh := errorHandler{d: d}
	d.writeAreaWindow(&eh, image.Rect(x, y, x+width, y+height), bitmap, fg, bg)
	return eh.err
}

// writeAreaWindow expands bitmap into the scratch buffer and streams it
// into the given window. Callers have validated the capacity bound.
func (d *Dev) writeAreaWindow(ctrl controller, win image.Rectangle, bitmap []byte, fg, bg color.Color) {
	var fgb, bgb [2]byte
	binary.BigEndian.PutUint16(fgb[:], uint16(rgb565(fg)))
	binary.BigEndian.PutUint16(bgb[:], uint16(rgb565(bg)))

	n := 0
	for _, bits := range bitmap {
		for j := 0; j < 8; j++ {
			p := bgb
			if bits&(0x80>>j) != 0 {
				p = fgb
			}
			d.buf[n] = p[0]
			d.buf[n+1] = p[1]
			n += 2
		}
	}

	setAddressWindow(ctrl, win, image.Pt(d.opts.X, d.opts.Y))
	ctrl.sendData(d.buf[:n])
}

// Draw implements display.Drawer.
//
// Pixels are converted through image565.RGB565Model. When src is an
// *image565.Image covering the requested region, its rows are streamed to
// the panel without conversion.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	dstRect = dstRect.Canon().Intersect(d.Bounds())
	if dstRect.Empty() {
		return nil
	}

	eh := errorHandler{d: d}
	setAddressWindow(&eh, dstRect, image.Pt(d.opts.X, d.opts.Y))

	if img, ok := src.(*image565.Image); ok {
		region := image.Rectangle{Min: srcPts, Max: srcPts.Add(dstRect.Size())}
		if region.In(img.Bounds()) {
			d.streamRows(&eh, dstRect, img, srcPts)
			return eh.err
		}
	}

	d.streamPixels(&eh, dstRect.Dx(), dstRect.Dy(), func(x, y int) image565.RGB565 {
		return rgb565(src.At(srcPts.X+x, srcPts.Y+y))
	})
	return eh.err
}

// streamRows copies rows out of a wire-format image without conversion.
func (d *Dev) streamRows(ctrl controller, dstRect image.Rectangle, src *image565.Image, srcPts image.Point) {
	w := dstRect.Dx()
	for y := 0; y < dstRect.Dy(); y++ {
		o := src.PixOffset(srcPts.X, srcPts.Y+y)
		ctrl.sendData(src.Pix[o : o+2*w])
	}
}

// streamPixels fills the armed window with w*h pixels produced by sample,
// called in window row-major order, staged through the scratch buffer.
func (d *Dev) streamPixels(ctrl controller, w, h int, sample func(x, y int) image565.RGB565) {
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := sample(x, y)
			d.buf[n] = byte(c >> 8)
			d.buf[n+1] = byte(c)
			n += 2
			if n == bufSize {
				ctrl.sendData(d.buf[:n])
				n = 0
			}
		}
	}
	if n > 0 {
		ctrl.sendData(d.buf[:n])
	}
}
