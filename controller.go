// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import "time"

// Commands
const (
	sleepOut             byte = 0x11
	displayInversionOff  byte = 0x20
	displayInversionOn   byte = 0x21
	displayOff           byte = 0x28
	displayOn            byte = 0x29
	columnAddressSet     byte = 0x2A
	pageAddressSet       byte = 0x2B
	memoryWrite          byte = 0x2C
	tearingEffectOn      byte = 0x35
	memoryAccessControl  byte = 0x36
	pixelFormatSet       byte = 0x3A
	setTearScanline      byte = 0x44
	interRegisterEnable1 byte = 0xFE
	interRegisterEnable2 byte = 0xEF
)

// madctlBGR swaps the red and blue subpixel order in the memory access
// control register.
const madctlBGR byte = 0x08

// controller abstracts the command channel of the device so register
// sequences can be tested without hardware.
type controller interface {
	sendCommand(byte)
	sendData([]byte)
	delay(time.Duration)
}

// command is one step of a register sequence: an opcode, its parameters and
// the settle time the controller needs before the next step.
type command struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// initSequence is the register bring-up for 1.47" 172x320 panels, taken
// from the vendor sample code. The registers between 0x85 and 0xFA are
// undocumented power, interface and gamma settings that must be sent
// exactly as listed.
var initSequence = []command{
	{cmd: interRegisterEnable1},
	{cmd: interRegisterEnable2},
	{cmd: memoryAccessControl, data: []byte{0x48}},
	{cmd: pixelFormatSet, data: []byte{0x05}},
	{cmd: 0x85, data: []byte{0xC0}},
	{cmd: 0x86, data: []byte{0x98}},
	{cmd: 0x87, data: []byte{0x28}},
	{cmd: 0x89, data: []byte{0x33}},
	{cmd: 0x8B, data: []byte{0x84}},
	{cmd: 0x8D, data: []byte{0x3B}},
	{cmd: 0x8E, data: []byte{0x0F}},
	{cmd: 0x8F, data: []byte{0x70}},
	{cmd: 0xE8, data: []byte{0x13, 0x17}},
	{cmd: 0xEC, data: []byte{0x57, 0x07, 0xFF}},
	{cmd: 0xED, data: []byte{0x18, 0x09}},
	{cmd: 0xC9, data: []byte{0x10}},
	{cmd: 0xFF, data: []byte{0x61}},
	{cmd: 0x99, data: []byte{0x3A}},
	{cmd: 0x9D, data: []byte{0x43}},
	{cmd: 0x98, data: []byte{0x3E}},
	{cmd: 0x9C, data: []byte{0x4B}},
	{cmd: 0xF0, data: []byte{0x06, 0x08, 0x08, 0x06, 0x05, 0x1D}},
	{cmd: 0xF2, data: []byte{0x00, 0x01, 0x09, 0x07, 0x04, 0x23}},
	{cmd: 0xF1, data: []byte{0x3B, 0x68, 0x66, 0x36, 0x35, 0x2F}},
	{cmd: 0xF3, data: []byte{0x37, 0x6A, 0x66, 0x37, 0x35, 0x35}},
	{cmd: 0xFA, data: []byte{0x80, 0x0F}},
	{cmd: 0xBE, data: []byte{0x11}},
	{cmd: 0xCB, data: []byte{0x02}},
	{cmd: 0xCD, data: []byte{0x22}},
	{cmd: 0x9B, data: []byte{0xFF}},
	{cmd: tearingEffectOn, data: []byte{0x00}},
	{cmd: setTearScanline, data: []byte{0x00, 0x0A}},
	{cmd: sleepOut, delay: 200 * time.Millisecond},
	{cmd: displayOn},
	{cmd: memoryWrite},
}

// initDisplay replays the bring-up sequence and programs the configured
// scan direction and inversion. The display is left on and GRAM is armed
// for a memory write.
func initDisplay(ctrl controller, opts *Opts) {
	for _, c := range initSequence {
		ctrl.sendCommand(c.cmd)
		if len(c.data) > 0 {
			ctrl.sendData(c.data)
		}
		if c.delay > 0 {
			ctrl.delay(c.delay)
		}
	}

	setOrientation(ctrl, opts.Orientation, opts.RGB)

	if opts.Inverted {
		ctrl.sendCommand(displayInversionOn)
	}
}

// setOrientation programs the memory access control register for the given
// scan direction. The BGR bit is set for panels wired with swapped red and
// blue channels.
func setOrientation(ctrl controller, o Orientation, rgb bool) {
	madctl := byte(o)
	if !rgb {
		madctl |= madctlBGR
	}
	ctrl.sendCommand(memoryAccessControl)
	ctrl.sendData([]byte{madctl})
}
