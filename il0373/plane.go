// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import "iter"

// Geometry is the size of the panel in pixels, in the controller's native
// orientation.
type Geometry struct {
	Width  int
	Height int
}

// Stride returns the number of bytes per scanline.
func (g Geometry) Stride() int {
	return (g.Width + 7) / 8
}

// Size returns the number of bytes in one plane.
func (g Geometry) Size() int {
	return g.Stride() * g.Height
}

// offset returns the byte index and bit mask of a pixel. Bits are ordered
// MSB first, the way the controller scans a line.
func (g Geometry) offset(x, y int) (int, byte, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, 0, false
	}
	return y*g.Stride() + x/8, 0x80 >> (x % 8), true
}

// Plane identifies one of the 1-bit planes. A set bit means ink of the
// plane's color.
type Plane int

const (
	// Primary is the black plane, present on every panel.
	Primary Plane = iota
	// Accent is the red plane of tri-color panels.
	Accent
)

func (p Plane) String() string {
	switch p {
	case Primary:
		return "primary"
	case Accent:
		return "accent"
	default:
		return "invalid"
	}
}

// Storage holds the planes of a panel.
//
// Pixels outside the geometry and planes beyond Planes() are clipped:
// SetPixel does nothing and Pixel reports false.
type Storage interface {
	Geometry() Geometry
	Planes() int

	SetPixel(p Plane, x, y int, v bool) error
	Pixel(p Plane, x, y int) (bool, error)

	// Clear sets every byte of the plane to fill.
	Clear(p Plane, fill byte) error

	// Chunks returns the plane content in scanline order. The sequence can
	// be iterated more than once; a yielded slice is only valid until the
	// next iteration step.
	Chunks(p Plane) iter.Seq2[[]byte, error]
}

// Buffer is a Storage kept in local memory.
type Buffer struct {
	geometry Geometry
	planes   [][]byte
}

// NewBuffer allocates zeroed planes for the given geometry.
func NewBuffer(g Geometry, planes int) *Buffer {
	b := &Buffer{
		geometry: g,
		planes:   make([][]byte, planes),
	}

	for i := range b.planes {
		b.planes[i] = make([]byte, g.Size())
	}

	return b
}

// Geometry implements Storage.
func (b *Buffer) Geometry() Geometry {
	return b.geometry
}

// Planes implements Storage.
func (b *Buffer) Planes() int {
	return len(b.planes)
}

// Bytes returns the backing memory of a plane, or nil for an unknown plane.
func (b *Buffer) Bytes(p Plane) []byte {
	if p < 0 || int(p) >= len(b.planes) {
		return nil
	}
	return b.planes[p]
}

// SetPixel implements Storage.
func (b *Buffer) SetPixel(p Plane, x, y int, v bool) error {
	buf := b.Bytes(p)
	idx, mask, ok := b.geometry.offset(x, y)
	if buf == nil || !ok {
		return nil
	}

	if v {
		buf[idx] |= mask
	} else {
		buf[idx] &^= mask
	}

	return nil
}

// Pixel implements Storage.
func (b *Buffer) Pixel(p Plane, x, y int) (bool, error) {
	buf := b.Bytes(p)
	idx, mask, ok := b.geometry.offset(x, y)
	if buf == nil || !ok {
		return false, nil
	}
	return buf[idx]&mask != 0, nil
}

// Clear implements Storage.
func (b *Buffer) Clear(p Plane, fill byte) error {
	buf := b.Bytes(p)
	for i := range buf {
		buf[i] = fill
	}
	return nil
}

// Chunks implements Storage. The whole plane is yielded at once.
func (b *Buffer) Chunks(p Plane) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if buf := b.Bytes(p); len(buf) > 0 {
			yield(buf, nil)
		}
	}
}

var _ Storage = &Buffer{}
