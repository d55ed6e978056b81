// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"errors"
	"fmt"
)

var (
	// ErrBusyTimeout is returned when the controller keeps the busy line
	// asserted past the wait bound. The session keeps its state and the
	// wait may be retried with WaitReady.
	ErrBusyTimeout = errors.New("il0373: timeout waiting for busy line")

	// ErrProtocol is matched by errors of operations that are not valid in
	// the current session state. Retrying them does not help.
	ErrProtocol = errors.New("il0373: operation not valid in current state")

	// ErrUnsupportedColor is returned when drawing the accent color on a
	// panel without an accent plane.
	ErrUnsupportedColor = errors.New("il0373: color not supported by panel")
)

// StateError reports an operation attempted in a state that does not accept
// it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("il0373: %s not valid in state %s", e.Op, e.State)
}

// Is makes StateError match ErrProtocol.
func (e *StateError) Is(target error) bool {
	return target == ErrProtocol
}

// BusError wraps a failure of the SPI connection, a control line or the
// external plane memory. The session keeps the state it had before the
// operation.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("il0373: %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
