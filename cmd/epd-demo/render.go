// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/MaxHalford/halfgone"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
)

const padding = 4.0

// render lays out the configured image and text on a white canvas of the
// given size.
func render(c *Config, size image.Rectangle) (image.Image, error) {
	ink, err := c.TextColor()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(size.Dx(), size.Dy())
	dc.SetColor(color.White)
	dc.Clear()

	top := padding

	if c.Text != "" {
		font, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}

		dc.SetFontFace(truetype.NewFace(font, &truetype.Options{
			Size: c.FontSize,
		}))
		dc.SetColor(ink)

		width := float64(size.Dx()) - 2*padding
		lines := dc.WordWrap(c.Text, width)
		dc.DrawStringWrapped(c.Text, padding, top, 0, 0, width, 1, gg.AlignLeft)

		top += float64(len(lines))*dc.FontHeight() + padding
	}

	if c.Image != "" {
		img, err := loadImage(c.Image)
		if err != nil {
			return nil, err
		}

		area := image.Rect(0, int(top), size.Dx(), size.Dy())
		if !area.Empty() {
			dc.DrawImage(dither(fit(img, area.Size()), c.Dither), 0, area.Min.Y)
		}
	}

	return dc.Image(), nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return img, nil
}

// fit scales img to fill size, keeping its aspect ratio.
func fit(img image.Image, size image.Point) *image.Gray {
	b := img.Bounds()

	w, h := size.X, b.Dy()*size.X/max(b.Dx(), 1)
	if h > size.Y {
		w, h = b.Dx()*size.Y/max(b.Dy(), 1), size.Y
	}

	dst := image.NewGray(image.Rect(0, 0, max(w, 1), max(h, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	return dst
}

// dither reduces a grayscale image to black and white.
func dither(img *image.Gray, method string) *image.Gray {
	switch method {
	case "threshold":
		return halfgone.ThresholdDitherer{Threshold: 127}.Apply(img)
	case "none":
		return img
	default:
		return halfgone.FloydSteinbergDitherer{}.Apply(img)
	}
}
