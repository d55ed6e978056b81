// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSurfaceAccent(t *testing.T) {
	b := NewBuffer(Geometry{Width: 16, Height: 16}, 2)
	s := NewSurface(b, Rotate0)

	if err := s.SetColor(3, 4, Black); err != nil {
		t.Fatalf("SetColor(Black) failed: %v", err)
	}

	if err := s.SetColor(3, 4, Red); err != nil {
		t.Fatalf("SetColor(Red) failed: %v", err)
	}

	if got, _ := b.Pixel(Primary, 3, 4); got {
		t.Errorf("primary bit set after drawing red")
	}
	if got, _ := b.Pixel(Accent, 3, 4); !got {
		t.Errorf("accent bit cleared after drawing red")
	}

	if got, err := s.ColorAt(3, 4); err != nil || got != Red {
		t.Errorf("ColorAt() = %v, %v, want red", got, err)
	}

	if err := s.SetColor(3, 4, White); err != nil {
		t.Fatalf("SetColor(White) failed: %v", err)
	}

	if got, err := s.ColorAt(3, 4); err != nil || got != White {
		t.Errorf("ColorAt() = %v, %v, want white", got, err)
	}
}

func TestSurfaceMono(t *testing.T) {
	b := NewBuffer(Geometry{Width: 8, Height: 8}, 1)
	s := NewSurface(b, Rotate0)

	if err := s.SetColor(0, 0, Red); !errors.Is(err, ErrUnsupportedColor) {
		t.Errorf("SetColor(Red) returned %v, want %v", err, ErrUnsupportedColor)
	}

	if err := s.Fill(Red); !errors.Is(err, ErrUnsupportedColor) {
		t.Errorf("Fill(Red) returned %v, want %v", err, ErrUnsupportedColor)
	}

	// Drawing through image/draw maps to the nearest ink.
	s.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	s.Set(2, 2, color.Gray{Y: 0x10})
	s.Set(3, 3, color.Gray{Y: 0xf0})

	for _, tc := range []struct {
		x, y int
		want Color
	}{
		{1, 1, Black},
		{2, 2, Black},
		{3, 3, White},
	} {
		if got := s.At(tc.x, tc.y); got != tc.want {
			t.Errorf("At(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestSurfaceRotation(t *testing.T) {
	g := Geometry{Width: 8, Height: 16}

	for _, tc := range []struct {
		rotation   Rotation
		wantBounds image.Rectangle
		// Physical position of the surface pixel (1, 2).
		wantX, wantY int
	}{
		{Rotate0, image.Rect(0, 0, 8, 16), 1, 2},
		{Rotate90, image.Rect(0, 0, 16, 8), 5, 1},
		{Rotate180, image.Rect(0, 0, 8, 16), 6, 13},
		{Rotate270, image.Rect(0, 0, 16, 8), 2, 14},
	} {
		t.Run(tc.rotation.String(), func(t *testing.T) {
			b := NewBuffer(g, 1)
			s := NewSurface(b, tc.rotation)

			if diff := cmp.Diff(s.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if err := s.SetColor(1, 2, Black); err != nil {
				t.Fatalf("SetColor() failed: %v", err)
			}

			if got, _ := b.Pixel(Primary, tc.wantX, tc.wantY); !got {
				t.Errorf("pixel (%d, %d) not set", tc.wantX, tc.wantY)
			}

			if got, _ := s.ColorAt(1, 2); got != Black {
				t.Errorf("ColorAt(1, 2) = %v, want black", got)
			}
		})
	}
}

func TestSurfaceClipping(t *testing.T) {
	b := NewBuffer(Geometry{Width: 8, Height: 4}, 2)
	s := NewSurface(b, Rotate90)

	for _, pt := range []image.Point{{-1, 0}, {4, 0}, {0, 8}, {100, -100}} {
		if err := s.SetColor(pt.X, pt.Y, Red); err != nil {
			t.Errorf("SetColor(%v) failed: %v", pt, err)
		}
		if got, _ := s.ColorAt(pt.X, pt.Y); got != White {
			t.Errorf("ColorAt(%v) = %v, want white", pt, got)
		}
	}

	for _, p := range []Plane{Primary, Accent} {
		for _, v := range b.Bytes(p) {
			if v != 0 {
				t.Fatalf("plane %s modified by clipped pixels: %x", p, b.Bytes(p))
			}
		}
	}
}

func TestSurfaceDraw(t *testing.T) {
	b := NewBuffer(Geometry{Width: 16, Height: 2}, 2)
	s := NewSurface(b, Rotate0)

	src := image.NewUniform(color.RGBA{R: 0xff, A: 0xff})
	draw.Draw(s, image.Rect(8, 0, 16, 2), src, image.Point{}, draw.Src)

	if diff := cmp.Diff(b.Bytes(Accent), []byte{0x00, 0xFF, 0x00, 0xFF}); diff != "" {
		t.Errorf("Bytes(Accent) difference (-got +want):\n%s", diff)
	}

	if err := s.Fill(Black); err != nil {
		t.Fatalf("Fill() failed: %v", err)
	}

	if diff := cmp.Diff(b.Bytes(Primary), []byte{0xFF, 0xFF, 0xFF, 0xFF}); diff != "" {
		t.Errorf("Bytes(Primary) difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(b.Bytes(Accent), []byte{0, 0, 0, 0}); diff != "" {
		t.Errorf("Bytes(Accent) difference (-got +want):\n%s", diff)
	}
}

func TestSurfaceStorageError(t *testing.T) {
	errBus := errors.New("bus failure")
	mem := newFakeMemory(16)
	mem.err = errBus

	s := NewSurface(NewExternal(mem, Geometry{Width: 8, Height: 8}, 2, 0, 0), Rotate0)

	s.Set(0, 0, Black)
	s.Set(1, 1, Red)

	if err := s.Err(); !errors.Is(err, errBus) {
		t.Errorf("Err() = %v, want %v", err, errBus)
	}

	if got, err := s.ColorAt(0, 0); got != White || !errors.Is(err, errBus) {
		t.Errorf("ColorAt() = %v, %v, want white, %v", got, err, errBus)
	}
}
