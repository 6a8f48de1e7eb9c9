// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gc9307demo exercises a GC9307 LCD module, such as the 1.47" 172x320
// panels, on a Raspberry Pi class host.
//
// Wiring for a Raspberry Pi:
//
//	Display    Pi
//	GND        GND
//	VCC        3.3V
//	SCL        GPIO11 (SPI0 CLK)
//	SDA        GPIO10 (SPI0 MOSI)
//	DC         GPIO24
//	RST        GPIO25
//	CS         GPIO8 (SPI0 CE0)
//
// Without hardware attached, -term renders the demos to the terminal and
// -http serves them as an MJPEG stream; both are usually combined with
// -loop.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"net/http"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/gc9307"
	"periph.io/x/gc9307/image565"
	"periph.io/x/gc9307/screen2d"
	"periph.io/x/gc9307/videosink"
	"periph.io/x/host/v3"
)

var (
	spiPort  = flag.String("spi", "", "SPI port name (empty for the first available)")
	dcPin    = flag.String("dc", "GPIO24", "data/command pin name")
	rstPin   = flag.String("rst", "GPIO25", "reset pin name")
	inverted = flag.Bool("inverted", false, "enable panel color inversion")
	demo     = flag.String("demo", "all", "demo to run: all, colors, stripes, checkerboard, rotation, card")
	loop     = flag.Bool("loop", false, "cycle the demos forever")
	httpAddr = flag.String("http", "", "serve an HTTP preview at this address (e.g. :8080) instead of driving the panel")
	term     = flag.Bool("term", false, "render to the terminal instead of driving the panel")
	termCols = flag.Int("cols", 80, "terminal preview width in characters")
	termRows = flag.Int("rows", 22, "terminal preview height in characters")

	orientation = gc9307.Landscape
)

// surface is the drawing API shared by the panel and the host-side
// previews.
type surface interface {
	display.Drawer
	FillScreen(c color.Color) error
	FillRect(r image.Rectangle, c color.Color) error
}

// target is the selected output plus the rotation layer, which only exists
// when driving the panel.
type target struct {
	surface
	rotated *gc9307.Rotated
}

// frameSurface adapts a display.Drawer without drawing primitives, such as
// the previews, by rendering into an RGB565 frame and presenting it whole.
type frameSurface struct {
	display.Drawer
	fb *image565.Image
}

func newFrameSurface(d display.Drawer) *frameSurface {
	return &frameSurface{Drawer: d, fb: image565.New(d.Bounds())}
}

func (s *frameSurface) FillScreen(c color.Color) error {
	return s.FillRect(s.Bounds(), c)
}

func (s *frameSurface) FillRect(r image.Rectangle, c color.Color) error {
	draw.Draw(s.fb, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return s.Drawer.Draw(s.Bounds(), s.fb, image.Point{})
}

func (s *frameSurface) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(s.fb, r, src, sp, draw.Src)
	return s.Drawer.Draw(s.Bounds(), s.fb, image.Point{})
}

var demoOrder = []string{"colors", "stripes", "checkerboard", "rotation", "card"}

var demoFuncs = map[string]func(*target) error{
	"colors":       demoColors,
	"stripes":      demoStripes,
	"checkerboard": demoCheckerboard,
	"rotation":     demoRotation,
	"card":         demoCard,
}

func main() {
	flag.Var(&orientation, "orientation", "panel scan direction: portrait, landscape, portrait-swapped or landscape-swapped")
	flag.Parse()

	opts := gc9307.DefaultOpts
	switch orientation {
	case gc9307.Portrait, gc9307.PortraitSwapped:
		opts = gc9307.PortraitOpts
	}
	opts.Orientation = orientation
	opts.Inverted = *inverted

	names := demoOrder
	if *demo != "all" {
		if _, ok := demoFuncs[*demo]; !ok {
			log.Fatalf("Unknown demo %q", *demo)
		}
		names = []string{*demo}
	}

	t, cleanup, err := openTarget(&opts)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	for {
		for _, name := range names {
			log.Printf("Running %s demo", name)
			if err := demoFuncs[name](t); err != nil {
				log.Fatalf("%s demo failed: %v", name, err)
			}
		}
		if !*loop {
			return
		}
	}
}

// openTarget opens the panel, or one of the previews when -term or -http
// is given. The returned cleanup halts the target.
func openTarget(opts *gc9307.Opts) (*target, func(), error) {
	switch {
	case *term && *httpAddr != "":
		return nil, nil, errors.New("-term and -http are mutually exclusive")

	case *term:
		d := screen2d.New(&screen2d.Opts{W: opts.W, H: opts.H, Cols: *termCols, Rows: *termRows})
		cleanup := func() {
			if err := d.Halt(); err != nil {
				log.Printf("Halt failed: %v", err)
			}
		}
		return &target{surface: newFrameSurface(d)}, cleanup, nil

	case *httpAddr != "":
		sink := videosink.New(&videosink.Options{Width: opts.W, Height: opts.H})
		mux := http.NewServeMux()
		mux.Handle("/", sink)
		go func() {
			log.Fatal(http.ListenAndServe(*httpAddr, mux))
		}()
		log.Printf("Serving preview on http://localhost%s", *httpAddr)
		cleanup := func() {
			if err := sink.Halt(); err != nil {
				log.Printf("Halt failed: %v", err)
			}
		}
		return &target{surface: newFrameSurface(sink)}, cleanup, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	b, err := spireg.Open(*spiPort)
	if err != nil {
		return nil, nil, err
	}
	dc := gpioreg.ByName(*dcPin)
	if dc == nil {
		b.Close()
		return nil, nil, fmt.Errorf("no GPIO pin named %q", *dcPin)
	}
	rst := gpioreg.ByName(*rstPin)
	if rst == nil {
		b.Close()
		return nil, nil, fmt.Errorf("no GPIO pin named %q", *rstPin)
	}
	dev, err := gc9307.New(b, dc, rst, opts)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	if err := dev.Init(); err != nil {
		b.Close()
		return nil, nil, err
	}
	log.Printf("Initialized %s", dev)
	cleanup := func() {
		if err := dev.Halt(); err != nil {
			log.Printf("Halt failed: %v", err)
		}
		if err := b.Close(); err != nil {
			log.Printf("Closing SPI port failed: %v", err)
		}
	}
	return &target{surface: dev, rotated: gc9307.NewRotated(dev)}, cleanup, nil
}

// demoColors floods the frame with the RGB primaries.
func demoColors(t *target) error {
	for _, c := range []image565.RGB565{image565.Red, image565.Green, image565.Blue} {
		if err := t.FillScreen(c); err != nil {
			return err
		}
		time.Sleep(800 * time.Millisecond)
	}
	return nil
}

// demoStripes draws vertical color stripes across the frame.
func demoStripes(t *target) error {
	if err := t.FillScreen(image565.Black); err != nil {
		return err
	}
	colors := []image565.RGB565{
		image565.Red, image565.Green, image565.Blue, image565.Yellow,
		image565.Cyan, image565.Magenta, image565.White,
	}
	b := t.Bounds()
	w := b.Dx() / len(colors)
	for i, c := range colors {
		r := image.Rect(i*w, 0, (i+1)*w, b.Max.Y)
		if i == len(colors)-1 {
			// Last stripe fills to the edge.
			r.Max.X = b.Max.X
		}
		if err := t.FillRect(r, c); err != nil {
			return err
		}
		time.Sleep(300 * time.Millisecond)
	}
	return nil
}

// demoCheckerboard draws 20x20 white squares on black.
func demoCheckerboard(t *target) error {
	if err := t.FillScreen(image565.Black); err != nil {
		return err
	}
	const square = 20
	b := t.Bounds()
	for y := 0; y < b.Max.Y; y += square {
		for x := 0; x < b.Max.X; x += square {
			if (x/square+y/square)%2 != 0 {
				continue
			}
			if err := t.FillRect(image.Rect(x, y, x+square, y+square), image565.White); err != nil {
				return err
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

// demoRotation cycles the software rotation, marking each corner and the
// center so the mapping is visible, with the angle rendered as text.
func demoRotation(t *target) error {
	if t.rotated == nil {
		log.Print("The rotation demo needs the panel, skipping")
		return nil
	}
	rot := t.rotated
	for _, r := range []gc9307.Rotation{gc9307.Deg0, gc9307.Deg90, gc9307.Deg180, gc9307.Deg270} {
		rot.SetRotation(r)
		w, h := rot.LogicalSize()
		log.Printf("Rotation %d°, logical %dx%d", r.Degrees(), w, h)
		if err := drawRotationMarkers(rot, r.Degrees()); err != nil {
			return err
		}
		time.Sleep(2500 * time.Millisecond)
	}
	rot.SetRotation(gc9307.Deg0)
	return nil
}

func drawRotationMarkers(rot *gc9307.Rotated, angle int) error {
	if err := rot.FillScreen(image565.Black); err != nil {
		return err
	}

	const marker = 25
	b := rot.Bounds()
	corners := []struct {
		r image.Rectangle
		c image565.RGB565
	}{
		{image.Rect(0, 0, marker, marker), image565.Red},
		{image.Rect(b.Max.X-marker, 0, b.Max.X, marker), image565.Green},
		{image.Rect(0, b.Max.Y-marker, marker, b.Max.Y), image565.Blue},
		{image.Rect(b.Max.X-marker, b.Max.Y-marker, b.Max.X, b.Max.Y), image565.White},
	}
	for _, m := range corners {
		if err := rot.FillRect(m.r, m.c); err != nil {
			return err
		}
	}

	const cross, line = 12, 3
	cx, cy := b.Max.X/2, b.Max.Y/2
	if err := rot.FillRect(image.Rect(cx-cross, cy-line/2, cx+cross, cy-line/2+line), image565.Yellow); err != nil {
		return err
	}
	if err := rot.FillRect(image.Rect(cx-line/2, cy-cross, cx-line/2+line, cy+cross), image565.Yellow); err != nil {
		return err
	}

	return gc9307.DrawAngle(rot, 30, 5, angle, image565.White)
}

// demoCard renders an anti-aliased status card and pushes it as one frame.
func demoCard(t *target) error {
	img, err := statusCard(t.Bounds())
	if err != nil {
		return err
	}
	if err := t.Draw(t.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	time.Sleep(2 * time.Second)
	return nil
}

func statusCard(bounds image.Rectangle) (image.Image, error) {
	w, h := bounds.Dx(), bounds.Dy()
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 16})
	dc.SetFontFace(face)

	dc.SetRGB(1, 1, 1)
	text := "Hello from periph!"
	tw, th := dc.MeasureString(text)
	padding := 8.0
	dc.DrawRoundedRectangle(padding*2, padding*2, tw+padding*2, th+padding, 10)
	dc.Stroke()
	dc.DrawString(text, padding*3, padding*2+th)

	for i := 0; i < 10; i++ {
		dc.DrawCircle(float64(30+10*i), float64(h-40), 5)
	}
	for i := 0; i < 10; i++ {
		dc.DrawRectangle(float64(30+10*i), float64(h-60), 5, 5)
	}
	dc.Fill()

	return dc.Image(), nil
}
