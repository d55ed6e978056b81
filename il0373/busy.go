// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// busyWaiter polls the controller's busy line.
type busyWaiter struct {
	pin      gpio.PinIn
	level    gpio.Level
	interval time.Duration
	edges    bool
}

// wait blocks until the busy line leaves the busy level or timeout elapses.
//
// The line is sampled before the deadline is checked, so a line that reads
// ready on the sample taken when the bound expires counts as ready.
func (w *busyWaiter) wait(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		if w.pin.Read() != w.level {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrBusyTimeout
		}

		step := min(w.interval, remaining)

		if w.edges {
			w.pin.WaitForEdge(step)
		} else {
			time.Sleep(step)
		}
	}
}
