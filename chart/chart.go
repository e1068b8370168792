// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart builds and renders hour-of-day detection charts.
package chart

import (
	"fmt"
	"image/color"

	"github.com/third-eye/eye-mon/backend"
)

var (
	HistoricalColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	TodayColor      = color.RGBA{R: 0x18, G: 0xa2, B: 0xb8, A: 0xff}
)

// Series is one line of a chart.
type Series struct {
	Name  string
	Y     []float64
	Color color.Color
}

// Chart is a line chart over categorical x values.
type Chart struct {
	Title      string
	Categories []string
	Series     []Series
}

// FromHourly builds the "today vs. historical average" chart of rows.
// historicalDays is the length of the window the backend averages over,
// today included.
func FromHourly(title string, historicalDays int, rows []backend.HourlyCount) Chart {
	var (
		x     = make([]string, len(rows))
		hist  = make([]float64, len(rows))
		today = make([]float64, len(rows))
	)
	for i, row := range rows {
		x[i] = fmt.Sprintf("%d:00", row.Hour)
		hist[i] = row.Historical
		today[i] = row.Today
	}

	return Chart{
		Title:      title,
		Categories: x,
		Series: []Series{
			{Name: HistoricalLabel(historicalDays), Y: hist, Color: HistoricalColor},
			{Name: "Today", Y: today, Color: TodayColor},
		},
	}
}

// HistoricalLabel is the legend of the historical average series.
func HistoricalLabel(historicalDays int) string {
	return fmt.Sprintf("Last %d Days avg", historicalDays-1)
}

// Title returns the default title of a chart about what.
func Title(what string, historicalDays int) string {
	return fmt.Sprintf("%s: Today's Detections vs %d days avg", what, historicalDays-1)
}
