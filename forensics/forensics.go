// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forensics searches the recorded images.
package forensics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/backend"
	"github.com/third-eye/eye-mon/timefmt"
)

// Category is a type of recorded image.
type Category string

const (
	HeartBeat Category = "HEART-BEAT"
	Intruder  Category = "INTRUDER"
)

// Categories lists the searchable categories, in form order.
var Categories = []Category{HeartBeat, Intruder}

var (
	ErrNoCategory   = errors.New("forensics: no image type selected")
	ErrMissingRange = errors.New("forensics: missing date or time")
	ErrBadRange     = errors.New("forensics: malformed date or time")
	ErrNoImages     = errors.New("forensics: no image matches the search")
)

// Message returns the text shown to the user for err.
func Message(err error) string {
	switch errors.Cause(err) {
	case ErrNoCategory:
		return "Please make sure at least one image type is selected"
	case ErrMissingRange:
		return "Please make sure that all date and time inputs are provided"
	case ErrBadRange:
		return "Please make sure that dates read YYYY-MM-DD and times HH:MM"
	case ErrNoImages:
		return "Search criteria did not return any images, try to refine it"
	}
	return backend.AlertText(err)
}

// Query is a search over the recorded images.
type Query struct {
	Categories []Category `json:"categories"`
	FromDate   string     `json:"from_date"` // YYYY-MM-DD
	ToDate     string     `json:"to_date"`
	FromTime   string     `json:"from_time"` // HH:MM
	ToTime     string     `json:"to_time"`
}

// Validate checks q before it is sent to the backend.
func (q Query) Validate() error {
	if len(q.types()) == 0 {
		return ErrNoCategory
	}
	if q.FromDate == "" || q.ToDate == "" || q.FromTime == "" || q.ToTime == "" {
		return ErrMissingRange
	}
	for _, v := range []struct{ layout, value string }{
		{timefmt.DateLayout, q.FromDate},
		{timefmt.DateLayout, q.ToDate},
		{timefmt.TimeLayout, q.FromTime},
		{timefmt.TimeLayout, q.ToTime},
	} {
		if _, err := time.Parse(v.layout, v.value); err != nil {
			return errors.Wrapf(ErrBadRange, "%q", v.value)
		}
	}
	return nil
}

// types returns the selected known categories, in form order.
func (q Query) types() []string {
	var o []string
	for _, c := range Categories {
		for _, sel := range q.Categories {
			if sel == c {
				o = append(o, string(c))
				break
			}
		}
	}
	return o
}

// ImageQuery converts q to a backend query.
func (q Query) ImageQuery() backend.ImageQuery {
	return backend.ImageQuery{
		Types:    q.types(),
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		FromTime: q.FromTime,
		ToTime:   q.ToTime,
	}
}

// Item is one image of the gallery.
type Item struct {
	Src         string    `json:"src"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Label       string    `json:"label"`
	Time        time.Time `json:"time"`
}

// Label extracts the image type from a recorded image file name.
// The file name reads <prefix>_<TYPE>.<ext>.
func Label(fname string) string {
	i := strings.Index(fname, "_")
	if i < 0 {
		return ""
	}
	label := fname[i+1:]
	if j := strings.Index(label, "."); j >= 0 {
		label = label[:j]
	}
	if j := strings.Index(label, "_"); j >= 0 {
		label = label[:j]
	}
	return label
}

// Searcher finds recorded images.
type Searcher interface {
	Images(ctx context.Context, q backend.ImageQuery) (backend.ImageList, error)
}

// Search runs q and returns the gallery of matching images.
// now is the reference time used for the calendar titles.
func Search(ctx context.Context, s Searcher, q Query, now time.Time) ([]Item, error) {
	err := q.Validate()
	if err != nil {
		return nil, err
	}

	list, err := s.Images(ctx, q.ImageQuery())
	if err != nil {
		return nil, err
	}
	if len(list.Files) == 0 {
		return nil, ErrNoImages
	}
	if len(list.Files) != len(list.Timestamps) {
		return nil, errors.Errorf(
			"forensics: got %d files and %d timestamps",
			len(list.Files), len(list.Timestamps),
		)
	}

	items := make([]Item, len(list.Files))
	for i, fname := range list.Files {
		ts := list.Timestamps[i].Time
		label := Label(fname)
		items[i] = Item{
			Src:         backend.ImagePath(fname),
			Title:       timefmt.Calendar(ts, now),
			Description: fmt.Sprintf("Full Date: %s | Image Type: %s", timefmt.Long(ts), label),
			Label:       label,
			Time:        ts,
		}
	}
	return items, nil
}

// Defaults holds the initial values and bounds of the search form.
type Defaults struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	MinDate  string `json:"min_date"`
	MaxDate  string `json:"max_date"`
	FromTime string `json:"from_time"`
	ToTime   string `json:"to_time"`
}

// DefaultsFor returns the form defaults covering the last historicalDays
// days up to now. Empty times fall back to 07:00 and 21:00.
func DefaultsFor(now time.Time, historicalDays int, fromTime, toTime string) Defaults {
	if fromTime == "" {
		fromTime = "07:00"
	}
	if toTime == "" {
		toTime = "21:00"
	}
	min := now.AddDate(0, 0, -historicalDays).Format(timefmt.DateLayout)
	max := now.Format(timefmt.DateLayout)
	return Defaults{
		FromDate: min,
		ToDate:   max,
		MinDate:  min,
		MaxDate:  max,
		FromTime: fromTime,
		ToTime:   toTime,
	}
}
