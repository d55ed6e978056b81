// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sram23k

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	cmdWriteStatus byte = 0x01
	cmdWrite       byte = 0x02
	cmdRead        byte = 0x03
	cmdReadStatus  byte = 0x05

	modeMask byte = 0xC0
)

// Mode is the operation mode held in the status register.
type Mode byte

// Valid Mode.
const (
	// ByteMode limits each transfer to a single byte.
	ByteMode Mode = 0x00
	// PageMode wraps transfers at the end of a 32 byte page.
	PageMode Mode = 0x80
	// SequentialMode lets a transfer run across the whole array.
	SequentialMode Mode = 0x40
)

func (m Mode) String() string {
	switch m {
	case ByteMode:
		return "byte"
	case PageMode:
		return "page"
	case SequentialMode:
		return "sequential"
	default:
		return fmt.Sprintf("Mode(%#02x)", byte(m))
	}
}

// ErrOutOfRange is returned for accesses past the end of the array.
var ErrOutOfRange = errors.New("sram23k: access out of range")

// Opts describes the memory array.
type Opts struct {
	// Capacity in bytes.
	Capacity uint32
	// AddressBytes is the length of the address following each command.
	AddressBytes int
}

var (
	// SRAM23K640 is the 64 Kbit part used on Adafruit e-paper FeatherWings.
	SRAM23K640 = Opts{Capacity: 8 << 10, AddressBytes: 2}
	// SRAM23K256 is the 256 Kbit part.
	SRAM23K256 = Opts{Capacity: 32 << 10, AddressBytes: 2}
	// SRAM23LC1024 is the 1 Mbit part with 24 bit addresses.
	SRAM23LC1024 = Opts{Capacity: 128 << 10, AddressBytes: 3}
)

// Dev is a handle to a serial SRAM.
type Dev struct {
	c         spi.Conn
	opts      Opts
	maxTxSize int
	buf       []byte
}

// New opens a handle to the SRAM on the given port.
func New(p spi.Port, opts *Opts) (*Dev, error) {
	if opts.Capacity == 0 {
		return nil, errors.New("sram23k: capacity must be set")
	}
	if opts.AddressBytes < 2 || opts.AddressBytes > 3 {
		return nil, fmt.Errorf("sram23k: %d address bytes not supported", opts.AddressBytes)
	}

	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("sram23k: %w", err)
	}

	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize <= 0 {
		maxTxSize = 4096
	}

	// A transaction must carry at least one byte after the header.
	if maxTxSize <= 1+opts.AddressBytes {
		return nil, fmt.Errorf("sram23k: transfers of %d bytes are too small", maxTxSize)
	}

	return &Dev{
		c:         c,
		opts:      *opts,
		maxTxSize: maxTxSize,
		buf:       make([]byte, maxTxSize),
	}, nil
}

// Init brings the device back to SPI mode and selects SequentialMode.
func (d *Dev) Init() error {
	// Clocking ones while selected leaves dual and quad I/O mode on the
	// parts supporting it and is ignored otherwise.
	if err := d.c.Tx([]byte{0xFF, 0xFF, 0xFF}, nil); err != nil {
		return fmt.Errorf("sram23k: %w", err)
	}

	return d.SetMode(SequentialMode)
}

// Mode reads the operation mode from the status register.
func (d *Dev) Mode() (Mode, error) {
	w := []byte{cmdReadStatus, 0}
	r := make([]byte, len(w))

	if err := d.c.Tx(w, r); err != nil {
		return 0, fmt.Errorf("sram23k: %w", err)
	}

	return Mode(r[1] & modeMask), nil
}

// SetMode writes the operation mode to the status register.
func (d *Dev) SetMode(m Mode) error {
	if err := d.c.Tx([]byte{cmdWriteStatus, byte(m)}, nil); err != nil {
		return fmt.Errorf("sram23k: %w", err)
	}
	return nil
}

// Capacity returns the size of the array in bytes.
func (d *Dev) Capacity() uint32 {
	return d.opts.Capacity
}

func (d *Dev) check(addr uint32, n int) error {
	if n < 0 || uint64(addr)+uint64(n) > uint64(d.opts.Capacity) {
		return fmt.Errorf("%w: %d bytes at %#x, capacity %d", ErrOutOfRange, n, addr, d.opts.Capacity)
	}
	return nil
}

// header writes the command and address to the start of d.buf and returns
// its length.
func (d *Dev) header(cmd byte, addr uint32) int {
	d.buf[0] = cmd
	for i := range d.opts.AddressBytes {
		d.buf[1+i] = byte(addr >> (8 * (d.opts.AddressBytes - 1 - i)))
	}
	return 1 + d.opts.AddressBytes
}

// Read reads len(p) bytes starting at addr. Reads larger than one
// transaction are split, each part addressed on its own.
func (d *Dev) Read(addr uint32, p []byte) error {
	if err := d.check(addr, len(p)); err != nil {
		return err
	}

	r := make([]byte, min(d.maxTxSize, 1+d.opts.AddressBytes+len(p)))

	for len(p) > 0 {
		hdr := d.header(cmdRead, addr)
		n := min(len(p), d.maxTxSize-hdr)

		w := d.buf[:hdr+n]
		clear(w[hdr:])

		if err := d.c.Tx(w, r[:hdr+n]); err != nil {
			return fmt.Errorf("sram23k: read at %#x: %w", addr, err)
		}

		copy(p, r[hdr:hdr+n])
		p = p[n:]
		addr += uint32(n)
	}

	return nil
}

// Write writes p starting at addr.
func (d *Dev) Write(addr uint32, p []byte) error {
	if err := d.check(addr, len(p)); err != nil {
		return err
	}

	for len(p) > 0 {
		hdr := d.header(cmdWrite, addr)
		n := copy(d.buf[hdr:], p)

		if err := d.c.Tx(d.buf[:hdr+n], nil); err != nil {
			return fmt.Errorf("sram23k: write at %#x: %w", addr, err)
		}

		p = p[n:]
		addr += uint32(n)
	}

	return nil
}

// Fill sets n bytes starting at addr to v.
func (d *Dev) Fill(addr uint32, n int, v byte) error {
	if err := d.check(addr, n); err != nil {
		return err
	}

	for n > 0 {
		hdr := d.header(cmdWrite, addr)
		k := min(n, d.maxTxSize-hdr)

		w := d.buf[:hdr+k]
		for i := hdr; i < len(w); i++ {
			w[i] = v
		}

		if err := d.c.Tx(w, nil); err != nil {
			return fmt.Errorf("sram23k: fill at %#x: %w", addr, err)
		}

		n -= k
		addr += uint32(k)
	}

	return nil
}

// Halt implements conn.Resource. The SRAM has no standby command.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("sram23k.Dev{%s, Capacity: %d}", d.c, d.opts.Capacity)
}

var _ conn.Resource = &Dev{}
