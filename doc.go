// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the IL0373 e-paper driver and its
// companions.
//
// il0373 drives the panel controller, sram23k the optional frame memory and
// screen2d previews frames on a terminal. cmd/epd-demo ties them together.
package epaper
