// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"periph.io/x/conn/v3/display"

	"periph.io/x/gc9307/image565"
)

// Rotation is a software rotation of the logical frame, applied on top of
// the hardware scan direction in 90° steps.
type Rotation int

// Valid Rotation values.
const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

// Next returns the following rotation in the 0, 90, 180, 270 cycle.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Degrees returns the rotation angle in degrees.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// String implements fmt.Stringer.
func (r Rotation) String() string {
	return strconv.Itoa(r.Degrees())
}

// Set implements flag.Value.
func (r *Rotation) Set(s string) error {
	switch s {
	case "0":
		*r = Deg0
	case "90":
		*r = Deg90
	case "180":
		*r = Deg180
	case "270":
		*r = Deg270
	default:
		return fmt.Errorf("gc9307: unknown rotation %q", s)
	}
	return nil
}

// transformPoint maps a logical point onto the physical frame. w and h are
// the logical dimensions for the given rotation.
func transformPoint(r Rotation, w, h, x, y int) (int, int) {
	switch r {
	case Deg90:
		return h - 1 - y, x
	case Deg180:
		return w - 1 - x, h - 1 - y
	case Deg270:
		return y, w - 1 - x
	default:
		return x, y
	}
}

// inversePoint maps a physical point back into the logical frame. It is
// the inverse of transformPoint for the same rotation and logical
// dimensions.
func inversePoint(r Rotation, w, h, px, py int) (int, int) {
	switch r {
	case Deg90:
		return py, h - 1 - px
	case Deg180:
		return w - 1 - px, h - 1 - py
	case Deg270:
		return w - 1 - py, px
	default:
		return px, py
	}
}

// transformRect maps a logical rectangle onto the physical frame. The
// result is the bounding box of the two mapped corners: rotation does not
// preserve which corner is the minimum, so the corners are mapped
// independently and re-sorted per axis.
func transformRect(rot Rotation, w, h int, r image.Rectangle) image.Rectangle {
	r = r.Canon()
	if r.Empty() {
		return image.Rectangle{}
	}
	x0, y0 := transformPoint(rot, w, h, r.Min.X, r.Min.Y)
	x1, y1 := transformPoint(rot, w, h, r.Max.X-1, r.Max.Y-1)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1+1, y1+1)
}

// Rotated wraps a Dev and remaps a rotating logical frame onto the fixed
// physical panel addressing in software. The hardware scan direction only
// offers the four MADCTL presets; software rotation keeps the panel in one
// scan direction and moves the address window instead, so the rotation can
// change between frames without reinitializing.
//
// At Deg0 the logical frame equals the physical frame. Like Dev, a Rotated
// is not safe for concurrent use, and the wrapped Dev must not be drawn on
// directly while the wrapper is in use.
type Rotated struct {
	d        *Dev
	rotation Rotation
	w, h     int
}

// NewRotated wraps a device with a software rotation layer starting at
// Deg0.
func NewRotated(d *Dev) *Rotated {
	return &Rotated{d: d, w: d.opts.W, h: d.opts.H}
}

// SetRotation sets the absolute rotation and recomputes the logical
// dimensions. Setting the current rotation again is a no-op.
func (r *Rotated) SetRotation(rot Rotation) {
	r.rotation = rot
	switch rot {
	case Deg90, Deg270:
		r.w, r.h = r.d.opts.H, r.d.opts.W
	default:
		r.w, r.h = r.d.opts.W, r.d.opts.H
	}
}

// Rotation returns the current rotation.
func (r *Rotated) Rotation() Rotation {
	return r.rotation
}

// LogicalSize returns the logical frame dimensions under the current
// rotation.
func (r *Rotated) LogicalSize() (int, int) {
	return r.w, r.h
}

// ColorModel implements display.Drawer.
func (r *Rotated) ColorModel() color.Model {
	return image565.RGB565Model
}

// Bounds implements display.Drawer. The rectangle is the logical frame and
// swaps dimensions at Deg90 and Deg270.
func (r *Rotated) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.w, r.h)
}

// Halt implements conn.Resource.
func (r *Rotated) Halt() error {
	return r.d.Halt()
}

func (r *Rotated) String() string {
	return fmt.Sprintf("gc9307.Rotated{%s, %d°}", r.d, r.rotation.Degrees())
}

// SetAddressWindow arms the GRAM window for a logical rectangle. The
// pixel stream that follows still fills the transformed window in physical
// row-major order.
func (r *Rotated) SetAddressWindow(rect image.Rectangle) error {
	return r.d.SetAddressWindow(transformRect(r.rotation, r.w, r.h, rect))
}

// FillScreen fills the whole logical frame with a single color.
func (r *Rotated) FillScreen(c color.Color) error {
	return r.FillRect(r.Bounds(), c)
}

// FillRect fills a logical rectangle with a single color, clipped against
// the logical frame.
func (r *Rotated) FillRect(rect image.Rectangle, c color.Color) error {
	rect = rect.Canon().Intersect(r.Bounds())
	if rect.Empty() {
		return nil
	}
	return r.d.fillArea(transformRect(r.rotation, r.w, r.h, rect), rgb565(c))
}

// SetPixel writes a single logical pixel. Out-of-frame coordinates are
// ignored.
func (r *Rotated) SetPixel(x, y int, c color.Color) error {
	if !(image.Point{X: x, Y: y}).In(r.Bounds()) {
		return nil
	}
	px, py := transformPoint(r.rotation, r.w, r.h, x, y)
	return r.d.fillArea(image.Rect(px, py, px+1, py+1), rgb565(c))
}

// WriteArea writes a 1-bit-per-pixel bitmap at a logical position. The
// window is mapped through the rotation but the expanded bit stream is
// not reordered, so at Deg90 and Deg270 the bitmap fills the transformed
// window in physical row-major order. See Dev.WriteArea for the capacity
// contract.
func (r *Rotated) WriteArea(x, y, width int, bitmap []byte, fg, bg color.Color) error {
	if width <= 0 {
		return fmt.Errorf("gc9307: invalid area width %d", width)
	}
	height := areaWindowHeight(width)
	if width*height > areaMaxPixels || len(bitmap)*8 > areaMaxPixels {
		return ErrAreaTooLarge
	}
	win := transformRect(r.rotation, r.w, r.h, image.Rect(x, y, x+width, y+height))
	eh := errorHandler{d: r.d}
	r.d.writeAreaWindow(&eh, win, bitmap, fg, bg)
	return eh.err
}

// Draw implements display.Drawer. dstRect is in the logical frame; the
// source is sampled through the inverse transform so it shows upright. At
// Deg0 this is a direct draw on the wrapped device.
func (r *Rotated) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	dstRect = dstRect.Canon().Intersect(r.Bounds())
	if dstRect.Empty() {
		return nil
	}
	if r.rotation == Deg0 {
		return r.d.Draw(dstRect, src, srcPts)
	}

	win := transformRect(r.rotation, r.w, r.h, dstRect)
	eh := errorHandler{d: r.d}
	setAddressWindow(&eh, win, image.Pt(r.d.opts.X, r.d.opts.Y))
	r.d.streamPixels(&eh, win.Dx(), win.Dy(), func(x, y int) image565.RGB565 {
		lx, ly := inversePoint(r.rotation, r.w, r.h, win.Min.X+x, win.Min.Y+y)
		return rgb565(src.At(srcPts.X+lx-dstRect.Min.X, srcPts.Y+ly-dstRect.Min.Y))
	})
	return eh.err
}

var _ display.Drawer = &Rotated{}
