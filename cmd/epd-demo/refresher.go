// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"image"
	"time"

	"github.com/go-logr/logr"
)

// MinRefreshInterval is the shortest period between full refreshes the
// panel vendor allows for tri-color panels.
const MinRefreshInterval = 180 * time.Second

// panel is the part of il0373.Dev used by the refresher.
type panel interface {
	Init() error
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Sleep() error
	Halt() error
}

// refresher wakes the panel, draws a new frame and puts it back to sleep,
// skipping refreshes that come too early.
type refresher struct {
	dev    panel
	render func(image.Rectangle) (image.Image, error)
	log    logr.Logger

	minInterval time.Duration
	now         func() time.Time
	last        time.Time
}

func newRefresher(dev panel, render func(image.Rectangle) (image.Image, error), log logr.Logger) *refresher {
	return &refresher{
		dev:         dev,
		render:      render,
		log:         log,
		minInterval: MinRefreshInterval,
		now:         time.Now,
	}
}

// refresh returns false when the refresh was skipped.
func (r *refresher) refresh() (bool, error) {
	now := r.now()

	if !r.last.IsZero() && now.Sub(r.last) < r.minInterval {
		r.log.V(1).Info("skipping refresh", "since", now.Sub(r.last), "min", r.minInterval)
		return false, nil
	}

	img, err := r.render(r.dev.Bounds())
	if err != nil {
		return false, err
	}

	if err := r.dev.Init(); err != nil {
		return false, err
	}

	start := r.now()
	if err := r.dev.Draw(r.dev.Bounds(), img, image.Point{}); err != nil {
		// Init powered the panel on.
		return false, errors.Join(err, r.dev.Halt())
	}

	r.last = now
	r.log.Info("refreshed", "duration", r.now().Sub(start))

	return true, r.dev.Sleep()
}

// run is the cron job.
func (r *refresher) run() {
	if _, err := r.refresh(); err != nil {
		r.log.Error(err, "refresh failed")
	}
}
