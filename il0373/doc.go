// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package il0373 controls e-paper panels driven by the Good Display IL0373
// controller, such as the Adafruit 2.13" tri-color FeatherWing and the
// Inky pHAT.
//
// The controller is driven over SPI with separate data/command, chip-select,
// reset and busy lines. Pixels are kept in one or two 1-bit planes (black
// and, on tri-color panels, red) which live either in local memory or on an
// external serial SRAM (see package sram23k).
//
// A typical update cycle is Init, drawing into the Surface, Update and
// Sleep. The vendor recommends not refreshing tri-color panels more often
// than every 180 seconds.
//
// Datasheet
//
// https://cdn-learn.adafruit.com/assets/assets/000/057/644/original/Datasheet_IL0373_V1.0_20180511.pdf
//
// Product page:
//
// https://www.adafruit.com/product/4128
//
package il0373
