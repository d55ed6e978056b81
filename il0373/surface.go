// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"image"
	"image/color"
	"image/draw"
)

// planeBits maps each Color to its primary and accent plane bits. The planes
// are independent bitmaps, so every color sets one plane and clears the
// other.
var planeBits = [...][2]bool{
	White: {false, false},
	Black: {true, false},
	Red:   {false, true},
}

// Surface exposes a Storage as a draw.Image in the Color palette.
//
// Set has no way to report storage failures. The first one is kept and
// returned by Err.
type Surface struct {
	storage  Storage
	rotation Rotation
	bounds   image.Rectangle
	palette  color.Palette
	err      error
}

// NewSurface returns a surface drawing into s with the given rotation.
// Rotate90 and Rotate270 swap width and height.
func NewSurface(s Storage, r Rotation) *Surface {
	g := s.Geometry()
	size := image.Pt(g.Width, g.Height)

	if r == Rotate90 || r == Rotate270 {
		size = image.Pt(g.Height, g.Width)
	}

	palette := monoPalette
	if s.Planes() > 1 {
		palette = triColorPalette
	}

	return &Surface{
		storage:  s,
		rotation: r,
		bounds:   image.Rectangle{Max: size},
		palette:  palette,
	}
}

// physical translates surface coordinates to plane coordinates.
func (s *Surface) physical(x, y int) (int, int) {
	g := s.storage.Geometry()

	switch s.rotation {
	case Rotate90:
		return g.Width - 1 - y, x
	case Rotate180:
		return g.Width - 1 - x, g.Height - 1 - y
	case Rotate270:
		return y, g.Height - 1 - x
	default:
		return x, y
	}
}

// ColorModel implements image.Image. It maps to the nearest color the
// panel can show.
func (s *Surface) ColorModel() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		if pc, ok := c.(Color); ok && int(pc) < len(s.palette) {
			return pc
		}
		return s.palette[s.palette.Index(c)]
	})
}

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle {
	return s.bounds
}

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color {
	c, err := s.ColorAt(x, y)
	s.keep(err)
	return c
}

// Set implements draw.Image.
func (s *Surface) Set(x, y int, c color.Color) {
	s.keep(s.SetColor(x, y, s.ColorModel().Convert(c).(Color)))
}

// SetColor sets the pixel at (x, y). Coordinates outside Bounds are
// ignored.
func (s *Surface) SetColor(x, y int, c Color) error {
	if int(c) >= len(s.palette) {
		return ErrUnsupportedColor
	}

	if !image.Pt(x, y).In(s.bounds) {
		return nil
	}

	px, py := s.physical(x, y)
	bits := planeBits[c]

	for p := 0; p < s.storage.Planes(); p++ {
		if err := s.storage.SetPixel(Plane(p), px, py, bits[p]); err != nil {
			return err
		}
	}

	return nil
}

// ColorAt returns the color of the pixel at (x, y). Coordinates outside
// Bounds read as White.
func (s *Surface) ColorAt(x, y int) (Color, error) {
	if !image.Pt(x, y).In(s.bounds) {
		return White, nil
	}

	px, py := s.physical(x, y)

	if s.storage.Planes() > 1 {
		red, err := s.storage.Pixel(Accent, px, py)
		if err != nil {
			return White, err
		}
		if red {
			return Red, nil
		}
	}

	black, err := s.storage.Pixel(Primary, px, py)
	if err != nil || !black {
		return White, err
	}

	return Black, nil
}

// Fill sets every pixel to c, clearing each plane in a single operation.
func (s *Surface) Fill(c Color) error {
	if int(c) >= len(s.palette) {
		return ErrUnsupportedColor
	}

	bits := planeBits[c]

	for p := 0; p < s.storage.Planes(); p++ {
		var fill byte
		if bits[p] {
			fill = 0xFF
		}

		if err := s.storage.Clear(Plane(p), fill); err != nil {
			return err
		}
	}

	return nil
}

// Err returns the first storage error hit by At or Set.
func (s *Surface) Err() error {
	return s.err
}

func (s *Surface) keep(err error) {
	if s.err == nil {
		s.err = err
	}
}

var _ draw.Image = &Surface{}
