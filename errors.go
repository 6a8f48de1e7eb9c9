// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9307

import (
	"errors"
	"fmt"
)

// ErrAreaTooLarge is returned by WriteArea when the expanded bitmap or the
// derived window would not fit the device scratch buffer.
var ErrAreaTooLarge = errors.New("gc9307: area exceeds scratch buffer")

// CommError wraps a failed write on the SPI connection. The amount of data
// the controller latched before the failure is unknown, so the GRAM content
// and the armed window must be considered stale until the next full drawing
// operation.
type CommError struct {
	Err error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("gc9307: bus write failed: %v", e.Err)
}

func (e *CommError) Unwrap() error {
	return e.Err
}

// PinError wraps a failure to drive one of the control lines.
type PinError struct {
	// Pin is the logical line name, "dc" or "rst".
	Pin string
	Err error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("gc9307: failed to drive %s: %v", e.Pin, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}
