// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"fmt"
	"image/color"
)

// Color is one of the inks a panel can show.
type Color uint8

// Valid Color.
const (
	White Color = iota
	Black
	Red
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xffff
	case Red:
		return 0xffff, 0, 0, 0xffff
	default:
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// Set sets the Color to a value represented by the string s. Set implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "red":
		*c = Red
	default:
		return fmt.Errorf("unknown color %q: expected either white, black or red", s)
	}
	return nil
}

var (
	monoPalette     = color.Palette{White, Black}
	triColorPalette = color.Palette{White, Black, Red}
)

// Rotation is the orientation of the drawing surface relative to the
// controller's native scan direction.
type Rotation uint8

// Supported Rotation, clockwise.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
}

// Set sets the Rotation to a value represented by the string s. Set implements the flag.Value interface.
func (r *Rotation) Set(s string) error {
	switch s {
	case "0":
		*r = Rotate0
	case "90":
		*r = Rotate90
	case "180":
		*r = Rotate180
	case "270":
		*r = Rotate270
	default:
		return fmt.Errorf("unknown rotation %q: expected 0, 90, 180 or 270", s)
	}
	return nil
}
