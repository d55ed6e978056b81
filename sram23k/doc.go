// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sram23k drives Microchip 23K/23LC serial SRAMs.
//
// The e-paper FeatherWings carry a 23K640 next to the display controller
// so microcontrollers without enough RAM can hold the frame. A Dev
// implements il0373.Memory and il0373.Filler.
//
// Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/22126E.pdf
package sram23k
