// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/epaper/il0373"
	"github.com/GermanBionicSystems/epaper/sram23k"
	"gopkg.in/yaml.v3"
)

// PinConfig names the control lines as known to gpioreg.
type PinConfig struct {
	DC    string `yaml:"dc"`
	CS    string `yaml:"cs"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`
}

// SRAMConfig enables keeping the planes on a serial SRAM.
type SRAMConfig struct {
	// SPI is the port of the SRAM, usually the second chip select of the
	// display bus.
	SPI string `yaml:"spi"`
	// Part is one of 23k640, 23k256 or 23lc1024.
	Part string `yaml:"part"`
}

// Config is the demo configuration.
type Config struct {
	// SPI is the display port; empty selects the first available one.
	SPI  string    `yaml:"spi"`
	Pins PinConfig `yaml:"pins"`

	// Panel is tricolor213 or mono290.
	Panel    string `yaml:"panel"`
	Rotation string `yaml:"rotation"`

	SRAM *SRAMConfig `yaml:"sram,omitempty"`

	// Refresh is a cron schedule. Refreshes closer than MinRefreshInterval
	// are skipped.
	Refresh     string `yaml:"refresh"`
	BusyTimeout string `yaml:"busy_timeout"`

	Text     string  `yaml:"text"`
	Color    string  `yaml:"color"`
	FontSize float64 `yaml:"font_size"`
	// Image is an optional PNG or JPEG drawn below the text.
	Image  string `yaml:"image"`
	Dither string `yaml:"dither"`

	Verbosity int `yaml:"verbosity"`
}

// DefaultConfig returns the configuration of the Adafruit 2.13" tri-color
// FeatherWing on a Raspberry Pi.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Pins.DC == "" {
		c.Pins.DC = "GPIO22"
	}
	if c.Pins.Reset == "" {
		c.Pins.Reset = "GPIO27"
	}
	if c.Pins.Busy == "" {
		c.Pins.Busy = "GPIO17"
	}
	if c.Panel == "" {
		c.Panel = "tricolor213"
	}
	if c.Refresh == "" {
		c.Refresh = "*/5 * * * *"
	}
	if c.BusyTimeout == "" {
		c.BusyTimeout = "30s"
	}
	if c.Text == "" && c.Image == "" {
		c.Text = "Hello from periph!"
	}
	if c.Color == "" {
		c.Color = "black"
	}
	if c.FontSize <= 0 {
		c.FontSize = 24
	}
	if c.Dither == "" {
		c.Dither = "floyd-steinberg"
	}
	if c.SRAM != nil && c.SRAM.Part == "" {
		c.SRAM.Part = "23k640"
	}
}

// Load reads the YAML configuration at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	c.Normalize()

	if _, err := c.PanelOpts(); err != nil {
		return nil, err
	}
	if _, err := c.TextColor(); err != nil {
		return nil, err
	}

	return c, nil
}

// PanelOpts returns the driver options selected by the configuration.
func (c *Config) PanelOpts() (il0373.Opts, error) {
	var opts il0373.Opts

	switch c.Panel {
	case "tricolor213":
		opts = il0373.TriColor213
	case "mono290":
		opts = il0373.Mono290
	default:
		return opts, fmt.Errorf("unknown panel %q: expected tricolor213 or mono290", c.Panel)
	}

	if c.Rotation != "" {
		if err := opts.Rotation.Set(c.Rotation); err != nil {
			return opts, err
		}
	}

	d, err := time.ParseDuration(c.BusyTimeout)
	if err != nil {
		return opts, fmt.Errorf("busy_timeout: %w", err)
	}
	opts.BusyTimeout = d

	return opts, nil
}

// TextColor returns the ink of the text.
func (c *Config) TextColor() (il0373.Color, error) {
	var col il0373.Color
	err := col.Set(c.Color)
	return col, err
}

// SRAMOpts returns the SRAM part, if configured.
func (c *Config) SRAMOpts() (*sram23k.Opts, error) {
	if c.SRAM == nil {
		return nil, nil
	}

	switch c.SRAM.Part {
	case "23k640":
		return &sram23k.SRAM23K640, nil
	case "23k256":
		return &sram23k.SRAM23K256, nil
	case "23lc1024":
		return &sram23k.SRAM23LC1024, nil
	default:
		return nil, fmt.Errorf("unknown sram part %q", c.SRAM.Part)
	}
}
