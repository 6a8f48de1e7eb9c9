// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package videosink mirrors a GC9307 framebuffer over HTTP. Client requests
// get an initial snapshot of the graphics buffer and are updated further on
// every change.
//
// The buffer uses the RGB565 color model of the panel, so clients see the
// exact quantization the hardware would display. The primary use case is
// developing display output on a host machine without the panel attached.
// Additionally devices with network connectivity can use this driver to
// provide a copy of their local display via a web interface.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which is often used by IP cameras. Because of its better suitability for
// computer-drawn graphics the PNG image format is used by default. JPEG as
// a format can be selected via Options.Format or using the "format" URL
// parameter.
package videosink

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"net/http"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/gc9307/image565"
)

// Options for videosink devices.
type Options struct {
	// Width and height of the image buffer.
	Width, Height int

	// Format specifies the image format to send to clients.
	Format ImageFormat

	// PNGCompression is the compression level for PNG-encoded frames. The
	// zero value is png.DefaultCompression.
	PNGCompression png.CompressionLevel

	// JPEGQuality is the quality for JPEG-encoded frames, ranging from 1
	// to 100 inclusive. Defaults to jpeg.DefaultQuality.
	JPEGQuality int
}

type Display struct {
	defaultFormat ImageFormat
	pngLevel      png.CompressionLevel
	jpegOptions   jpeg.Options

	mu       sync.Mutex
	buffer   *image565.Image
	clients  map[*client]struct{}
	snapshot map[imageConfig][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new videosink device instance.
//
// The buffer starts out all black, matching a freshly initialized panel.
func New(opt *Options) *Display {
	quality := opt.JPEGQuality
	if quality == 0 {
		quality = jpeg.DefaultQuality
	}

	return &Display{
		buffer:        image565.New(image.Rect(0, 0, opt.Width, opt.Height)),
		clients:       map[*client]struct{}{},
		snapshot:      map[imageConfig][]byte{},
		defaultFormat: opt.Format,
		pngLevel:      opt.PNGCompression,
		jpegOptions:   jpeg.Options{Quality: quality},
	}
}

// String returns the name of the device.
func (d *Display) String() string {
	return "VideoSink"
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (d *Display) Halt() error {
	d.mu.Lock()
	d.terminateClientsLocked()
	d.mu.Unlock()

	return nil
}

// ColorModel implements display.Drawer. All drawn pixels go through RGB565.
func (d *Display) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.Draw(d.buffer, dstRect, src, srcPts, draw.Src)
	d.bufferChangedLocked()
	d.mu.Unlock()

	return nil
}
