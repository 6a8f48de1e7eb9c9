// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/gc9307/image565"
)

const (
	// bufSize is the size of the scratch buffer through which all bulk
	// pixel transfers are staged.
	bufSize = 2304
	// areaMaxPixels is the pixel capacity of one WriteArea transfer.
	areaMaxPixels = bufSize / 2
	// fillChunkPixels is the number of pixels sent per transfer while
	// filling an area with a single color.
	fillChunkPixels = 512
)

// Orientation is the hardware scan direction programmed into the memory
// access control register.
type Orientation byte

// Valid Orientation values.
const (
	Portrait         Orientation = 0x40
	Landscape        Orientation = 0x20
	PortraitSwapped  Orientation = 0x80
	LandscapeSwapped Orientation = 0xE0
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case PortraitSwapped:
		return "portrait-swapped"
	case LandscapeSwapped:
		return "landscape-swapped"
	default:
		return fmt.Sprintf("Orientation(0x%02X)", byte(o))
	}
}

// Set implements flag.Value.
func (o *Orientation) Set(s string) error {
	switch s {
	case "portrait":
		*o = Portrait
	case "landscape":
		*o = Landscape
	case "portrait-swapped":
		*o = PortraitSwapped
	case "landscape-swapped":
		*o = LandscapeSwapped
	default:
		return fmt.Errorf("gc9307: unknown orientation %q", s)
	}
	return nil
}

// Opts holds the panel configuration.
type Opts struct {
	// W and H are the panel dimensions in pixels for the chosen
	// orientation.
	W int
	H int
	// X and Y shift the visible area inside the controller's GRAM, which
	// is larger than the glass on 1.47" modules.
	X int
	Y int
	// RGB selects RGB subpixel order. Most modules are wired BGR and want
	// this left false.
	RGB bool
	// Inverted turns on display color inversion during Init.
	Inverted bool
	// Orientation is the scan direction programmed during Init.
	Orientation Orientation
}

// DefaultOpts is the landscape configuration for 1.47" 172x320 modules.
var DefaultOpts = Opts{
	W:           320,
	H:           172,
	X:           0,
	Y:           34,
	Orientation: Landscape,
}

// PortraitOpts is the portrait configuration for 1.47" 172x320 modules.
var PortraitOpts = Opts{
	W:           172,
	H:           320,
	X:           34,
	Y:           0,
	Orientation: Portrait,
}

// Dev is a handle to a GC9307 display controller.
//
// A Dev is not safe for concurrent use: drawing operations arm a GRAM
// window and then stream pixel data, and interleaved calls would corrupt
// the frame.
type Dev struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinOut

	opts Opts

	// maxTxSize bounds a single write on the connection, 0 for no limit.
	maxTxSize int

	// buf stages pixel data so steady-state drawing does not allocate.
	buf [bufSize]byte
}

// errorHandler runs a sequence of device operations, keeping the first
// error and turning the remaining calls into no-ops.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	if err := eh.d.rst.Out(l); err != nil {
		eh.err = &PinError{Pin: "rst", Err: err}
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(cmd)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendData(data)
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	time.Sleep(d)
}

// New opens a handle to the display controller on the given SPI port.
//
// The dc pin selects between command and data bytes, rst drives the
// hardware reset line. The handle does not touch the panel until Init is
// called.
func New(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("gc9307: invalid panel size %dx%d", opts.W, opts.H)
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		c:    c,
		dc:   dc,
		rst:  rst,
		opts: *opts,
	}
	if limits, ok := c.(conn.Limits); ok {
		d.maxTxSize = limits.MaxTxSize()
	}
	return d, nil
}

// Init resets the panel and replays the controller bring-up sequence. On
// return the display is on, scanning in the configured orientation, and
// ready for drawing.
//
// Init can be called again at any time to reinitialize the panel, for
// example after Halt or a power glitch.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	initDisplay(&eh, &d.opts)
	return eh.err
}

// Reset pulses the hardware reset line and waits for the controller to
// come back up. The register state reverts to the chip defaults, so a
// Reset must be followed by Init before drawing.
func (d *Dev) Reset() error {
	eh := errorHandler{d: d}
	eh.rstOut(gpio.High)
	eh.delay(10 * time.Millisecond)
	eh.rstOut(gpio.Low)
	eh.delay(10 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.delay(120 * time.Millisecond)
	return eh.err
}

// SetOrientation reprograms the hardware scan direction. The GRAM content
// is unchanged, so the caller usually wants to redraw afterwards.
func (d *Dev) SetOrientation(o Orientation) error {
	eh := errorHandler{d: d}
	setOrientation(&eh, o, d.opts.RGB)
	if eh.err != nil {
		return eh.err
	}
	d.opts.Orientation = o
	return nil
}

// SetOffset moves the visible area inside the controller's GRAM. It
// applies to subsequent drawing operations.
func (d *Dev) SetOffset(x, y int) {
	d.opts.X = x
	d.opts.Y = y
}

// Invert switches display color inversion on or off without touching GRAM.
func (d *Dev) Invert(inverted bool) error {
	cmd := displayInversionOff
	if inverted {
		cmd = displayInversionOn
	}
	return d.sendCommand(cmd)
}

// sendCommand sends a command byte with the dc line low.
func (d *Dev) sendCommand(cmd byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return &PinError{Pin: "dc", Err: err}
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return &CommError{Err: err}
	}
	return nil
}

// sendData sends parameter or pixel bytes with the dc line high, splitting
// the transfer when the connection has a write size limit.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return &PinError{Pin: "dc", Err: err}
	}
	for len(data) > 0 {
		n := len(data)
		if d.maxTxSize > 0 && n > d.maxTxSize {
			n = d.maxTxSize
		}
		if err := d.c.Tx(data[:n], nil); err != nil {
			return &CommError{Err: err}
		}
		data = data[n:]
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.RGB565Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.W, d.opts.H)
}

// Halt turns the display off. It implements conn.Resource; the panel comes
// back with Init.
func (d *Dev) Halt() error {
	return d.sendCommand(displayOff)
}

func (d *Dev) String() string {
	return fmt.Sprintf("gc9307.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.W, d.opts.H)
}

var _ display.Drawer = &Dev{}
var _ controller = &errorHandler{}
