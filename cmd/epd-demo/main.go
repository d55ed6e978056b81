// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd-demo shows text and pictures on IL0373 e-paper panels.
//
// The panel is refreshed on a cron schedule, at most every three minutes.
// Use -preview to print the frame to the terminal instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/epaper/il0373"
	"github.com/GermanBionicSystems/epaper/screen2d"
	"github.com/GermanBionicSystems/epaper/sram23k"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/robfig/cron/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func pinOut(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// preview draws the frame as the panel would show it.
func preview(c *Config) error {
	opts, err := c.PanelOpts()
	if err != nil {
		return err
	}

	g := il0373.Geometry{Width: opts.Width, Height: opts.Height}
	s := il0373.NewSurface(il0373.NewBuffer(g, opts.Planes), opts.Rotation)

	img, err := render(c, s.Bounds())
	if err != nil {
		return err
	}

	draw.Draw(s, s.Bounds(), img, image.Point{}, draw.Src)
	if err := s.Err(); err != nil {
		return err
	}

	screen := screen2d.New(&screen2d.Opts{X: s.Bounds().Dx(), Y: s.Bounds().Dy()})
	if err := screen.Draw(screen.Bounds(), s, image.Point{}); err != nil {
		return err
	}

	return screen.Halt()
}

func openPanel(c *Config, logger logr.Logger) (*il0373.Dev, func(), error) {
	opts, err := c.PanelOpts()
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	b, err := spireg.Open(c.SPI)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, b.Close)

	dc, err := pinOut(c.Pins.DC)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	rst, err := pinOut(c.Pins.Reset)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	busy, err := pinOut(c.Pins.Busy)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	var cs gpio.PinOut
	if c.Pins.CS != "" {
		if cs, err = pinOut(c.Pins.CS); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	memOpts, err := c.SRAMOpts()
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	if memOpts == nil {
		dev, err := il0373.New(b, dc, cs, rst, busy, &opts)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		return dev, closeAll, nil
	}

	mb, err := spireg.Open(c.SRAM.SPI)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, mb.Close)

	mem, err := sram23k.New(mb, memOpts)
	if err == nil {
		err = mem.Init()
	}
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	g := il0373.Geometry{Width: opts.Width, Height: opts.Height}
	if need := uint32(g.Size() * opts.Planes); need > mem.Capacity() {
		closeAll()
		return nil, nil, fmt.Errorf("%s holds %d bytes, panel needs %d", mem, mem.Capacity(), need)
	}

	storage := il0373.NewExternal(mem, g, opts.Planes, 0, 0)

	dev, err := il0373.NewWithStorage(b, dc, cs, rst, busy, storage, &opts)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return dev, closeAll, nil
}

func mainImpl() error {
	configPath := flag.String("config", "epd-demo.yaml", "configuration file")
	once := flag.Bool("once", false, "refresh once and exit")
	previewOnly := flag.Bool("preview", false, "print the frame to the terminal instead of the panel")
	verbose := flag.Int("v", -1, "log verbosity, overrides the configuration")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	c, err := Load(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("%s not found, using defaults", *configPath)
		c, err = DefaultConfig(), nil
	}
	if err != nil {
		return err
	}

	if *verbose >= 0 {
		c.Verbosity = *verbose
	}
	stdr.SetVerbosity(c.Verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("epd-demo")

	if *previewOnly {
		return preview(c)
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	dev, closeAll, err := openPanel(c, logger)
	if err != nil {
		return err
	}
	defer closeAll()
	logger.Info("opened panel", "dev", dev.String())

	r := newRefresher(dev, func(size image.Rectangle) (image.Image, error) {
		return render(c, size)
	}, logger)

	if *once {
		_, err := r.refresh()
		return err
	}

	sched := cron.New()
	if _, err := sched.AddFunc(c.Refresh, r.run); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", c.Refresh, err)
	}

	// Show something right away instead of waiting for the first tick.
	r.run()

	sched.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	<-sched.Stop().Done()

	return dev.Halt()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "epd-demo: %s.\n", err)
		os.Exit(1)
	}
}
