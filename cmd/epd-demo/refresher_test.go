// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/go-logr/logr"
)

type fakePanel struct {
	inits, draws, sleeps int
	err, drawErr         error
}

func (p *fakePanel) Init() error {
	p.inits++
	return p.err
}

func (p *fakePanel) Bounds() image.Rectangle {
	return image.Rect(0, 0, 212, 104)
}

func (p *fakePanel) Draw(image.Rectangle, image.Image, image.Point) error {
	p.draws++
	return p.drawErr
}

func (p *fakePanel) Sleep() error {
	p.sleeps++
	return nil
}

// Halt only powers down a panel that Init left on.
func (p *fakePanel) Halt() error {
	if p.inits > p.sleeps {
		return p.Sleep()
	}
	return nil
}

func TestRefresherInterval(t *testing.T) {
	p := &fakePanel{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	r := newRefresher(p, func(b image.Rectangle) (image.Image, error) {
		return image.NewGray(b), nil
	}, logr.Discard())
	r.now = func() time.Time { return now }

	for _, tc := range []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{time.Minute, false},
		{2*time.Minute - time.Second, false},
		{time.Second, true},
		{MinRefreshInterval - time.Nanosecond, false},
	} {
		now = now.Add(tc.advance)

		got, err := r.refresh()
		if err != nil {
			t.Fatalf("refresh() failed: %v", err)
		}
		if got != tc.want {
			t.Errorf("refresh() at %v = %v, want %v", now, got, tc.want)
		}
	}

	if p.inits != 2 || p.draws != 2 || p.sleeps != 2 {
		t.Errorf("got %d inits, %d draws, %d sleeps, want 2 each", p.inits, p.draws, p.sleeps)
	}
}

func TestRefresherError(t *testing.T) {
	p := &fakePanel{err: errors.New("busy timeout")}

	r := newRefresher(p, func(b image.Rectangle) (image.Image, error) {
		return image.NewGray(b), nil
	}, logr.Discard())

	if _, err := r.refresh(); !errors.Is(err, p.err) {
		t.Errorf("refresh() returned %v, want %v", err, p.err)
	}

	// A failed refresh does not delay the next attempt.
	p.err = nil

	if got, err := r.refresh(); !got || err != nil {
		t.Errorf("refresh() = %v, %v, want true, nil", got, err)
	}
}

func TestRefresherDrawError(t *testing.T) {
	p := &fakePanel{drawErr: errors.New("spi failure")}

	r := newRefresher(p, func(b image.Rectangle) (image.Image, error) {
		return image.NewGray(b), nil
	}, logr.Discard())

	if _, err := r.refresh(); !errors.Is(err, p.drawErr) {
		t.Fatalf("refresh() returned %v, want %v", err, p.drawErr)
	}

	if p.inits != 1 || p.draws != 1 || p.sleeps != 1 {
		t.Errorf("got %d inits, %d draws, %d sleeps, want 1 each", p.inits, p.draws, p.sleeps)
	}

	if !r.last.IsZero() {
		t.Errorf("failed refresh recorded at %v", r.last)
	}
}
