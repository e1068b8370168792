// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package panels describes the four content panels of the dashboard.
package panels

import "fmt"

// Panel is the index of a content panel.
type Panel int

const (
	Video Panel = iota
	Motion
	Objects
	Forensics
)

// N is the number of panels.
const N = 4

// All lists the panels in navigation order.
var All = [N]Panel{Video, Motion, Objects, Forensics}

var ids = [N]string{
	"video-stream",
	"motion-analysis",
	"objects-analysis",
	"forensics",
}

// Valid reports whether p names one of the four panels.
func (p Panel) Valid() bool { return 0 <= p && p < N }

// ID returns the DOM id of the panel content.
func (p Panel) ID() string {
	if !p.Valid() {
		return fmt.Sprintf("panel-%d", int(p))
	}
	return ids[p]
}

// Button returns the DOM id of the navigation button selecting p.
func (p Panel) Button() string { return "btn-" + p.ID() }

func (p Panel) String() string { return p.ID() }

// Prev returns the panel on the left of p, or p itself at the left end.
func (p Panel) Prev() Panel {
	if p <= Video {
		return Video
	}
	return p - 1
}

// Next returns the panel on the right of p, or p itself at the right end.
func (p Panel) Next() Panel {
	if p >= Forensics {
		return Forensics
	}
	return p + 1
}

// InvalidError is returned when a panel index outside 0..3 is requested.
type InvalidError struct {
	Index int
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("panels: invalid panel index %d", e.Index)
}

// Check converts idx into a Panel.
func Check(idx int) (Panel, error) {
	p := Panel(idx)
	if !p.Valid() {
		return 0, &InvalidError{Index: idx}
	}
	return p, nil
}

// Layout is the visibility state of every panel and button after a
// transition.
type Layout struct {
	Current Panel
	Visible [N]bool // panel content shown
	Active  [N]bool // navigation button marked active
}

// LayoutFor returns the layout where only p is visible and active.
func LayoutFor(p Panel) Layout {
	l := Layout{Current: p}
	if p.Valid() {
		l.Visible[p] = true
		l.Active[p] = true
	}
	return l
}

// Count returns the number of visible panels and active buttons.
func (l Layout) Count() (visible, active int) {
	for i := 0; i < N; i++ {
		if l.Visible[i] {
			visible++
		}
		if l.Active[i] {
			active++
		}
	}
	return visible, active
}
