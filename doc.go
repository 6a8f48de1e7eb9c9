// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc9307 controls a color TFT LCD via a GC9307 controller connected
// over SPI with 4 wires, as found on 1.47" 172x320 IPS panels.
//
// The controller is addressed through a rectangular GRAM window: the driver
// programs the window once and then streams RGB565 pixel data which the
// controller stores in row-major order. All bulk transfers go through a
// fixed scratch buffer owned by the device, so drawing does not allocate.
//
// The panel only supports four hardware scan directions. For arbitrary
// 90° rotations wrap the device in a Rotated, which remaps logical
// coordinates onto the panel's fixed physical addressing in software.
//
// The device is not safe for concurrent use. A caller must serialize
// access to a Dev or Rotated; sharing the SPI bus with other peripherals
// is handled by the spi.Port layer through per-device chip select.
//
// # Datasheet
//
// https://www.buydisplay.com/download/ic/GC9307.pdf
package gc9307
