// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/go-logr/logr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	// resetPulse is the hold time of each level of the reset pulses; the
	// vendor sample code uses 10ms.
	resetPulse = 10 * time.Millisecond

	// refreshSettle gives the controller time to assert the busy line after
	// a refresh was triggered.
	refreshSettle = 100 * time.Millisecond

	// DefaultBusyTimeout bounds busy waits when Opts.BusyTimeout is zero. A
	// full tri-color refresh takes about 15 seconds.
	DefaultBusyTimeout = 30 * time.Second

	// DefaultPollInterval is used when Opts.PollInterval is zero.
	DefaultPollInterval = 10 * time.Millisecond
)

// State is the lifecycle state of a session with the controller.
type State int

// Valid State.
const (
	Uninitialized State = iota
	Resetting
	Configuring
	Idle
	TransferringBuffer
	Refreshing
	PoweredDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Resetting:
		return "resetting"
	case Configuring:
		return "configuring"
	case Idle:
		return "idle"
	case TransferringBuffer:
		return "transferring"
	case Refreshing:
		return "refreshing"
	case PoweredDown:
		return "powered down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opts defines the structure of the display configuration. Zero values
// select the controller defaults.
type Opts struct {
	// Width and Height of the panel in the controller's native orientation.
	Width  int
	Height int

	// Planes is 1 for black/white panels and 2 for panels with a red
	// accent plane.
	Planes int

	// Rotation of the drawing surface.
	Rotation Rotation

	// PowerSetting holds the VDH, VDL and VDHR levels. Defaults to
	// 0x2B, 0x2B, 0x09.
	PowerSetting [3]byte
	// BoosterSoftStart holds the soft start phases. Defaults to
	// 0x17, 0x17, 0x17.
	BoosterSoftStart [3]byte
	// PanelResolution defaults to Res160x296.
	PanelResolution Resolution
	// PLL is the frame rate setting. Defaults to 0x29 (50Hz).
	PLL byte
	// VCOMDC is the VCOM DC level. Defaults to 0x0A (-0.6V).
	VCOMDC byte
	// LUT replaces the waveforms stored in the controller's OTP memory.
	LUT *LUT

	// BusyLevel is the level of the busy line while the controller is
	// busy. The IL0373 pulls BUSY_N low.
	BusyLevel gpio.Level
	// BusyTimeout bounds the waits after reset, power on and refresh.
	BusyTimeout time.Duration
	// PollInterval is the delay between samples of the busy line.
	PollInterval time.Duration
	// WaitForEdge waits for edges on the busy line instead of sleeping
	// between samples.
	WaitForEdge bool

	// Logger receives state transitions at V(1). Discarded when unset.
	Logger logr.Logger
}

// TriColor213 contains the display configuration for the Adafruit 2.13"
// tri-color FeatherWing.
var TriColor213 = Opts{
	Width:    104,
	Height:   212,
	Planes:   2,
	Rotation: Rotate270,
}

// Mono290 contains the display configuration for 2.9" black/white panels.
var Mono290 = Opts{
	Width:  128,
	Height: 296,
	Planes: 1,
}

func (o *Opts) geometry() Geometry {
	return Geometry{Width: o.Width, Height: o.Height}
}

// normalize validates the options and returns a copy with defaults
// applied.
func (o *Opts) normalize() (*Opts, error) {
	n := *o

	if n.Width <= 0 || n.Width > MaxSourceOutputs {
		return nil, fmt.Errorf("il0373: width %d out of range 1..%d", n.Width, MaxSourceOutputs)
	}
	if n.Height <= 0 || n.Height > MaxGateOutputs {
		return nil, fmt.Errorf("il0373: height %d out of range 1..%d", n.Height, MaxGateOutputs)
	}
	if n.Planes == 0 {
		n.Planes = 1
	}
	if n.Planes != 1 && n.Planes != 2 {
		return nil, fmt.Errorf("il0373: %d planes not supported", n.Planes)
	}
	if n.Rotation > Rotate270 {
		return nil, fmt.Errorf("il0373: unknown rotation %v", n.Rotation)
	}
	if n.PowerSetting == [3]byte{} {
		n.PowerSetting = [3]byte{0x2B, 0x2B, 0x09}
	}
	if n.BoosterSoftStart == [3]byte{} {
		n.BoosterSoftStart = [3]byte{0x17, 0x17, 0x17}
	}
	if n.PLL == 0 {
		n.PLL = 0x29
	}
	if n.VCOMDC == 0 {
		n.VCOMDC = 0x0A
	}
	if n.BusyTimeout <= 0 {
		n.BusyTimeout = DefaultBusyTimeout
	}
	if n.PollInterval <= 0 {
		n.PollInterval = DefaultPollInterval
	}
	if n.Logger.GetSink() == nil {
		n.Logger = logr.Discard()
	}

	return &n, nil
}

// Dev defines the handler which is used to access the display.
//
// A Dev owns its SPI connection and control lines. It is not safe for
// concurrent use.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy *busyWaiter

	opts    *Opts
	storage Storage
	surface *Surface
	log     logr.Logger

	state   State
	waiting bool

	sleep func(time.Duration)
}

// New creates a handler for the display with the planes kept in local
// memory.
//
// cs may be nil when the SPI port drives chip select itself.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return newDev(p, dc, cs, rst, busy, NewBuffer(o.geometry(), o.Planes), o)
}

// NewWithStorage creates a handler for the display keeping the planes in s,
// e.g. an External storage on a serial SRAM. The geometry and plane count
// of s must match opts.
func NewWithStorage(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, s Storage, opts *Opts) (*Dev, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	if s.Geometry() != o.geometry() || s.Planes() != o.Planes {
		return nil, fmt.Errorf("il0373: storage %+v with %d planes does not match panel %+v with %d planes",
			s.Geometry(), s.Planes(), o.geometry(), o.Planes)
	}

	return newDev(p, dc, cs, rst, busy, s, o)
}

func newDev(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, s Storage, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use the Linux spidev default.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize <= 0 {
		maxTxSize = 4096
	}

	edge := gpio.NoEdge
	if opts.WaitForEdge {
		edge = gpio.BothEdges
	}

	if err := busy.In(gpio.Float, edge); err != nil {
		return nil, err
	}

	d := &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy: &busyWaiter{
			pin:      busy,
			level:    opts.BusyLevel,
			interval: opts.PollInterval,
			edges:    opts.WaitForEdge,
		},
		opts:    opts,
		storage: s,
		surface: NewSurface(s, opts.Rotation),
		log:     opts.Logger,
		sleep:   time.Sleep,
	}

	return d, nil
}

// State returns the current session state.
func (d *Dev) State() State {
	return d.state
}

// Storage returns the plane storage of the display.
func (d *Dev) Storage() Storage {
	return d.storage
}

// Surface returns the drawing surface. Drawing only changes the planes; call
// Update to show them.
func (d *Dev) Surface() *Surface {
	return d.surface
}

func (d *Dev) setState(s State) {
	if s != d.state {
		d.log.V(1).Info("state change", "from", d.state, "to", s)
	}
	d.state = s
}

// Reset pulses the hardware reset line and waits for the controller. It is
// valid in every state and wakes a controller from deep sleep.
func (d *Dev) Reset() error {
	prev := d.state

	eh := errorHandler{d: d}
	held := false

	for range 3 {
		eh.rstOut(gpio.Low)
		held = held || eh.err == nil
		d.sleep(resetPulse)
		eh.rstOut(gpio.High)
		held = held && eh.err != nil
		d.sleep(resetPulse)
	}

	if eh.err != nil {
		// A controller left in reset lost its configuration.
		if held {
			prev = Uninitialized
		}
		d.setState(prev)
		return &BusError{Op: "reset", Err: eh.err}
	}

	d.setState(Resetting)
	d.waiting = true

	return d.WaitReady(d.opts.BusyTimeout)
}

// Configure programs the panel registers and powers the panel on. It is
// valid after Reset completed.
func (d *Dev) Configure() error {
	if d.state != Resetting || d.waiting {
		return d.misuse("configure")
	}

	d.setState(Configuring)

	eh := errorHandler{d: d}
	configureDisplay(&eh, d.opts)

	if eh.err != nil {
		d.setState(Resetting)
		return &BusError{Op: "configure", Err: eh.err}
	}

	d.waiting = true

	return d.WaitReady(d.opts.BusyTimeout)
}

// Init resets and configures the controller for usage through the other
// functions.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}
	return d.Configure()
}

// Transfer sends the planes to the controller RAM.
func (d *Dev) Transfer() error {
	if d.state != Idle {
		return d.misuse("transfer")
	}

	d.setState(TransferringBuffer)

	eh := errorHandler{d: d}
	err := transferPlanes(&eh, d.storage)

	if err == nil {
		err = eh.err
	}

	if err != nil {
		d.setState(Idle)
		return &BusError{Op: "transfer", Err: err}
	}

	return nil
}

// Refresh shows the transferred planes and waits until the panel update
// completed.
func (d *Dev) Refresh() error {
	if d.state != TransferringBuffer {
		return d.misuse("refresh")
	}

	eh := errorHandler{d: d}
	refreshDisplay(&eh)

	if eh.err != nil {
		return &BusError{Op: "refresh", Err: eh.err}
	}

	d.setState(Refreshing)
	d.waiting = true
	d.sleep(refreshSettle)

	return d.WaitReady(d.opts.BusyTimeout)
}

// Update transfers the planes and refreshes the display.
func (d *Dev) Update() error {
	if err := d.Transfer(); err != nil {
		return err
	}
	return d.Refresh()
}

// Sleep makes the controller enter deep sleep mode. It can be woken up by
// calling Init again.
func (d *Dev) Sleep() error {
	if d.state != Idle {
		return d.misuse("sleep")
	}

	if err := d.WaitReady(d.opts.BusyTimeout); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	powerDown(&eh)

	if eh.err != nil {
		return &BusError{Op: "sleep", Err: eh.err}
	}

	d.setState(PoweredDown)

	return nil
}

// WaitReady blocks until the controller releases the busy line or timeout
// elapses. On success a transition waiting for the controller completes;
// on ErrBusyTimeout the state is unchanged and WaitReady may be called
// again.
func (d *Dev) WaitReady(timeout time.Duration) error {
	if err := d.busy.wait(timeout); err != nil {
		d.log.Error(err, "controller busy", "state", d.state, "timeout", timeout)
		return err
	}

	if d.waiting {
		d.waiting = false

		switch d.state {
		case Configuring, Refreshing:
			d.setState(Idle)
		}
	}

	return nil
}

func (d *Dev) misuse(op string) error {
	return &StateError{Op: op, State: d.state}
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return d.surface.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.surface.Bounds()
}

// Draw draws the given image into the planes and updates the display.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.surface.err = nil

	draw.Src.Draw(d.surface, dstRect, src, srcPts)

	if err := d.surface.Err(); err != nil {
		return &BusError{Op: "draw", Err: err}
	}

	return d.Update()
}

// Halt puts an idle controller into deep sleep. The panel keeps showing
// the last image.
func (d *Dev) Halt() error {
	if d.state != Idle {
		return nil
	}
	return d.Sleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("il0373.Dev{%s, %s, Width: %d, Height: %d, Planes: %d}",
		d.c, d.dc, d.opts.Width, d.opts.Height, d.opts.Planes)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
