// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forensics

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/backend"
)

type fakeSearcher struct {
	calls []backend.ImageQuery
	list  backend.ImageList
	err   error
}

func (f *fakeSearcher) Images(ctx context.Context, q backend.ImageQuery) (backend.ImageList, error) {
	f.calls = append(f.calls, q)
	return f.list, f.err
}

func validQuery() Query {
	return Query{
		Categories: []Category{Intruder},
		FromDate:   "2020-04-24",
		ToDate:     "2020-05-01",
		FromTime:   "07:00",
		ToTime:     "21:00",
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		q    func(q *Query)
		want error
	}{
		{"valid", func(q *Query) {}, nil},
		{"no-category", func(q *Query) { q.Categories = nil }, ErrNoCategory},
		{"unknown-category", func(q *Query) { q.Categories = []Category{"MOTION"} }, ErrNoCategory},
		{"no-from-date", func(q *Query) { q.FromDate = "" }, ErrMissingRange},
		{"no-to-date", func(q *Query) { q.ToDate = "" }, ErrMissingRange},
		{"no-from-time", func(q *Query) { q.FromTime = "" }, ErrMissingRange},
		{"no-to-time", func(q *Query) { q.ToTime = "" }, ErrMissingRange},
		{"bad-date", func(q *Query) { q.ToDate = "01/05/2020" }, ErrBadRange},
		{"bad-time", func(q *Query) { q.FromTime = "7am" }, ErrBadRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuery()
			tc.q(&q)
			err := q.Validate()
			if errors.Cause(err) != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSearchNoCategory(t *testing.T) {
	var s fakeSearcher
	q := validQuery()
	q.Categories = nil

	_, err := Search(context.Background(), &s, q, time.Now())
	if err != ErrNoCategory {
		t.Fatalf("got %v", err)
	}
	if len(s.calls) != 0 {
		t.Fatalf("backend was called %d times", len(s.calls))
	}
}

func TestSearchEmpty(t *testing.T) {
	s := fakeSearcher{list: backend.ImageList{Files: []string{}, Timestamps: []backend.Timestamp{}}}

	items, err := Search(context.Background(), &s, validQuery(), time.Now())
	if err != ErrNoImages {
		t.Fatalf("got %v", err)
	}
	if items != nil {
		t.Fatalf("got items %v", items)
	}
	if len(s.calls) != 1 {
		t.Fatalf("backend was called %d times", len(s.calls))
	}
}

func TestSearch(t *testing.T) {
	ts := time.Date(2020, 5, 1, 8, 15, 0, 0, time.UTC)
	now := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	s := fakeSearcher{list: backend.ImageList{
		Files:      []string{"A_INTRUDER.jpg"},
		Timestamps: []backend.Timestamp{{Time: ts}},
	}}

	q := validQuery()
	q.Categories = []Category{Intruder, HeartBeat}
	items, err := Search(context.Background(), &s, q, now)
	if err != nil {
		t.Fatal(err)
	}

	want := []Item{{
		Src:         "/images/A_INTRUDER.jpg",
		Title:       "Today at 8:15 AM",
		Description: "Full Date: Fri, May 1, 2020 8:15 AM | Image Type: INTRUDER",
		Label:       "INTRUDER",
		Time:        ts,
	}}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("error:\ngot= %+v\nwant=%+v", items, want)
	}

	wantQuery := backend.ImageQuery{
		Types:    []string{"HEART-BEAT", "INTRUDER"},
		FromDate: "2020-04-24",
		ToDate:   "2020-05-01",
		FromTime: "07:00",
		ToTime:   "21:00",
	}
	if !reflect.DeepEqual(s.calls, []backend.ImageQuery{wantQuery}) {
		t.Fatalf("error:\ngot= %+v\nwant=%+v", s.calls, wantQuery)
	}
}

func TestSearchBackendError(t *testing.T) {
	s := fakeSearcher{err: &backend.StatusError{Code: 502, Status: "Bad Gateway"}}
	_, err := Search(context.Background(), &s, validQuery(), time.Now())
	if got, want := Message(err), "ERROR. Code: 502, msg: Bad Gateway"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLabel(t *testing.T) {
	for _, tc := range []struct {
		fname, want string
	}{
		{"A_INTRUDER.jpg", "INTRUDER"},
		{"2020-05-01T08-00-00_HEART-BEAT.jpg", "HEART-BEAT"},
		{"a_b_c.jpg", "b"},
		{"noext_INTRUDER", "INTRUDER"},
		{"nolabel.jpg", ""},
	} {
		if got := Label(tc.fname); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.fname, got, tc.want)
		}
	}
}

func TestDefaultsFor(t *testing.T) {
	now := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	got := DefaultsFor(now, 7, "", "")
	want := Defaults{
		FromDate: "2020-04-24",
		ToDate:   "2020-05-01",
		MinDate:  "2020-04-24",
		MaxDate:  "2020-05-01",
		FromTime: "07:00",
		ToTime:   "21:00",
	}
	if got != want {
		t.Fatalf("error:\ngot= %+v\nwant=%+v", got, want)
	}

	got = DefaultsFor(now, 1, "06:30", "22:00")
	if got.FromDate != "2020-04-30" || got.FromTime != "06:30" || got.ToTime != "22:00" {
		t.Fatalf("got %+v", got)
	}
}

func TestMessage(t *testing.T) {
	for _, err := range []error{ErrNoCategory, ErrMissingRange, ErrBadRange, ErrNoImages} {
		if Message(err) == "" {
			t.Fatalf("%v: empty message", err)
		}
	}
	if got, want := Message(errors.Wrap(ErrNoImages, "search")), Message(ErrNoImages); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
