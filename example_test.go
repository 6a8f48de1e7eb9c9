// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307_test

import (
	"image"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"periph.io/x/gc9307"
	"periph.io/x/gc9307/image565"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dc := gpioreg.ByName("GPIO24")
	rst := gpioreg.ByName("GPIO25")
	if dc == nil || rst == nil {
		log.Fatal("failed to find the control pins")
	}

	dev, err := gc9307.New(b, dc, rst, &gc9307.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize driver: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}

	// Draw on it. White text on a black background.
	img := image565.New(dev.Bounds())
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image565.White},
		Face: f,
		Dot:  fixed.P(8, img.Bounds().Dy()/2),
	}
	drawer.DrawString("Hello from periph!")

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
}

func ExampleRotated() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dc := gpioreg.ByName("GPIO24")
	rst := gpioreg.ByName("GPIO25")
	if dc == nil || rst == nil {
		log.Fatal("failed to find the control pins")
	}

	dev, err := gc9307.New(b, dc, rst, &gc9307.PortraitOpts)
	if err != nil {
		log.Fatalf("failed to initialize driver: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}

	// Cycle through all four rotations, labeling each one.
	rot := gc9307.NewRotated(dev)
	for _, r := range []gc9307.Rotation{gc9307.Deg0, gc9307.Deg90, gc9307.Deg180, gc9307.Deg270} {
		rot.SetRotation(r)
		if err := rot.FillScreen(image565.Black); err != nil {
			log.Fatal(err)
		}
		if err := gc9307.DrawAngle(rot, 10, 10, r.Degrees(), image565.White); err != nil {
			log.Fatal(err)
		}
		time.Sleep(2500 * time.Millisecond)
	}
}
