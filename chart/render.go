// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

var (
	background = color.RGBA{R: 0x21, G: 0x25, B: 0x29, A: 0xff}
	foreground = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	tickColor  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

const width = 30 * vg.Centimeter

// Plot returns c as an hplot plot.
func (c Chart) Plot() (*hplot.Plot, error) {
	p := hplot.New()
	err := c.fill(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c Chart) fill(p *hplot.Plot) error {
	p.Title.Text = c.Title
	p.Title.TextStyle.Color = foreground
	p.BackgroundColor = background

	ticks := make([]plot.Tick, len(c.Categories))
	for i, cat := range c.Categories {
		ticks[i] = plot.Tick{Value: float64(i), Label: cat}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XRight

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = tickColor
		ax.Tick.Color = tickColor
		ax.Tick.Label.Color = tickColor
		ax.Label.TextStyle.Color = foreground
	}

	p.Legend.Top = true
	p.Legend.TextStyle.Color = foreground

	for _, s := range c.Series {
		if len(s.Y) != len(c.Categories) {
			return errors.Errorf(
				"chart: series %q has %d values for %d categories",
				s.Name, len(s.Y), len(c.Categories),
			)
		}
		xys := make(plotter.XYs, len(s.Y))
		for i, y := range s.Y {
			xys[i].X = float64(i)
			xys[i].Y = y
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return errors.Wrapf(err, "chart: could not create series %q", s.Name)
		}
		line.Color = s.Color
		points.Color = s.Color
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}

	p.Add(plotter.NewGrid())

	return nil
}

// SVG renders c as an SVG document.
func (c Chart) SVG() (string, error) {
	p, err := c.Plot()
	if err != nil {
		return "", err
	}
	return render(p, 1)
}

// Tiled renders charts stacked vertically in a single SVG document.
func Tiled(charts []Chart) (string, error) {
	switch len(charts) {
	case 0:
		return "", errors.New("chart: no chart to render")
	case 1:
		return charts[0].SVG()
	}

	const pad = 10
	tile := hplot.NewTiledPlot(draw.Tiles{
		Cols:      1,
		Rows:      len(charts),
		PadBottom: pad,
		PadLeft:   pad,
		PadRight:  pad,
		PadTop:    pad,
		PadX:      pad,
		PadY:      pad,
	})

	for i, c := range charts {
		err := c.fill(tile.Plot(i, 0))
		if err != nil {
			return "", err
		}
	}

	return render(tile, len(charts))
}

type drawer interface {
	Draw(c draw.Canvas)
}

func render(p drawer, rows int) (string, error) {
	height := vg.Length(rows) * width / vg.Length(math.Phi)
	canvas := vgsvg.New(width, height)
	p.Draw(draw.New(canvas))
	out := new(bytes.Buffer)
	_, err := canvas.WriteTo(out)
	if err != nil {
		return "", errors.Wrapf(err, "chart: could not render SVG")
	}
	return out.String(), nil
}
