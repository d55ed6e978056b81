// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"bytes"
	"iter"
)

// DefaultWindow is the number of bytes External reads from memory per
// transfer chunk when no window is given.
const DefaultWindow = 512

// Memory is a linearly addressed memory device, typically a serial SRAM
// sharing the SPI bus with the controller.
type Memory interface {
	Read(addr uint32, p []byte) error
	Write(addr uint32, p []byte) error
}

// Filler is implemented by memories that can set a range to a single value
// without receiving the whole range from the host.
type Filler interface {
	Fill(addr uint32, n int, v byte) error
}

// External is a Storage that keeps the planes on a Memory device instead of
// local RAM. Plane p occupies Size() bytes starting at base+p*Size().
//
// Every pixel access is a bus transaction; drawing large areas is
// considerably slower than with Buffer.
type External struct {
	mem      Memory
	geometry Geometry
	planes   int
	base     uint32
	window   int
}

// NewExternal returns a Storage on mem. A window of zero or less selects
// DefaultWindow.
func NewExternal(mem Memory, g Geometry, planes int, base uint32, window int) *External {
	if window <= 0 {
		window = DefaultWindow
	}

	return &External{
		mem:      mem,
		geometry: g,
		planes:   planes,
		base:     base,
		window:   window,
	}
}

// Geometry implements Storage.
func (e *External) Geometry() Geometry {
	return e.geometry
}

// Planes implements Storage.
func (e *External) Planes() int {
	return e.planes
}

func (e *External) planeAddr(p Plane) (uint32, bool) {
	if p < 0 || int(p) >= e.planes {
		return 0, false
	}
	return e.base + uint32(int(p)*e.geometry.Size()), true
}

func (e *External) pixelAddr(p Plane, x, y int) (uint32, byte, bool) {
	addr, ok := e.planeAddr(p)
	if !ok {
		return 0, 0, false
	}

	idx, mask, ok := e.geometry.offset(x, y)
	if !ok {
		return 0, 0, false
	}

	return addr + uint32(idx), mask, true
}

// SetPixel implements Storage. The containing byte is read back and only
// written when it changes.
func (e *External) SetPixel(p Plane, x, y int, v bool) error {
	addr, mask, ok := e.pixelAddr(p, x, y)
	if !ok {
		return nil
	}

	var b [1]byte
	if err := e.mem.Read(addr, b[:]); err != nil {
		return err
	}

	old := b[0]
	if v {
		b[0] |= mask
	} else {
		b[0] &^= mask
	}

	if b[0] == old {
		return nil
	}

	return e.mem.Write(addr, b[:])
}

// Pixel implements Storage.
func (e *External) Pixel(p Plane, x, y int) (bool, error) {
	addr, mask, ok := e.pixelAddr(p, x, y)
	if !ok {
		return false, nil
	}

	var b [1]byte
	if err := e.mem.Read(addr, b[:]); err != nil {
		return false, err
	}

	return b[0]&mask != 0, nil
}

// Clear implements Storage with a single memory operation.
func (e *External) Clear(p Plane, fill byte) error {
	addr, ok := e.planeAddr(p)
	if !ok {
		return nil
	}

	size := e.geometry.Size()

	if f, ok := e.mem.(Filler); ok {
		return f.Fill(addr, size, fill)
	}

	return e.mem.Write(addr, bytes.Repeat([]byte{fill}, size))
}

// Chunks implements Storage. Each step reads at most one window from
// memory.
func (e *External) Chunks(p Plane) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		addr, ok := e.planeAddr(p)
		if !ok {
			return
		}

		size := e.geometry.Size()
		buf := make([]byte, min(e.window, size))

		for off := 0; off < size; off += len(buf) {
			chunk := buf[:min(len(buf), size-off)]

			if err := e.mem.Read(addr+uint32(off), chunk); err != nil {
				yield(nil, err)
				return
			}

			if !yield(chunk, nil) {
				return
			}
		}
	}
}

var _ Storage = &External{}
