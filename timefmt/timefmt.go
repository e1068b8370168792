// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timefmt formats timestamps for humans.
package timefmt

import "time"

const (
	clock = "3:04 PM"

	// DateLayout is the layout of date inputs.
	DateLayout = "2006-01-02"
	// TimeLayout is the layout of time inputs.
	TimeLayout = "15:04"
)

// Calendar formats t relative to now:
//
//	Today at 2:30 PM
//	Yesterday at 2:30 PM
//	Last Monday at 2:30 PM
//	Tomorrow at 2:30 PM
//	Monday at 2:30 PM
//	05/01/2020
//
// Days are counted in now's location.
func Calendar(t, now time.Time) string {
	t = t.In(now.Location())
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	days := t.Sub(midnight).Hours() / 24

	switch {
	case days < -6:
		return t.Format("01/02/2006")
	case days < -1:
		return "Last " + t.Format("Monday at "+clock)
	case days < 0:
		return t.Format("Yesterday at " + clock)
	case days < 1:
		return t.Format("Today at " + clock)
	case days < 2:
		return t.Format("Tomorrow at " + clock)
	case days < 7:
		return t.Format("Monday at " + clock)
	default:
		return t.Format("01/02/2006")
	}
}

// Long formats t with the day of the week, the date and the time.
func Long(t time.Time) string {
	return t.Format("Mon, Jan 2, 2006 3:04 PM")
}
