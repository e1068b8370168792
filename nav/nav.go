// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nav implements the dashboard panel navigator.
//
// A Navigator owns the index of the active panel and drives a View:
// switching panels updates the layout, loads and charts the analysis data
// of the motion and objects panels, and fills the forensics search form.
package nav

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/backend"
	"github.com/third-eye/eye-mon/chart"
	"github.com/third-eye/eye-mon/forensics"
	"github.com/third-eye/eye-mon/panels"
)

// View renders the state of a Navigator.
//
// A Navigator never calls its View concurrently, but calls may come from
// different goroutines. View methods must not call back into the Navigator.
type View interface {
	Layout(l panels.Layout)
	Spinner(on bool)
	Charts(p panels.Panel, charts []chart.Chart)
	Alert(msg string)
	ForensicsDefaults(d forensics.Defaults)
	Gallery(items []forensics.Item)
}

// Backend provides the analysis data and the image search.
type Backend interface {
	MotionAnalysis(ctx context.Context) ([]backend.HourlyCount, error)
	ObjectsAnalysis(ctx context.Context) (map[string][]backend.HourlyCount, error)
	forensics.Searcher
}

// Direction is the direction of a swipe gesture.
type Direction int

const (
	SwipeLeft  Direction = iota // moves to the next panel
	SwipeRight                  // moves to the previous panel
)

func (d Direction) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses "left" or "right".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left", "swipeleft":
		return SwipeLeft, nil
	case "right", "swiperight":
		return SwipeRight, nil
	}
	return 0, errors.Errorf("nav: invalid swipe direction %q", s)
}

// Options configures a Navigator.
type Options struct {
	HistoricalDays int      // days of history averaged by the backend, today included
	ObjectLabels   []string // object labels charted on the objects panel
	FromTime       string   // default forensics start time
	ToTime         string   // default forensics end time

	Now    func() time.Time
	Logger *log.Logger
}

// Navigator switches between the dashboard panels.
type Navigator struct {
	view View
	be   Backend
	opts Options
	msg  *log.Logger

	mu     sync.Mutex
	cur    panels.Panel
	gen    uint64             // incremented by every panel switch
	cancel context.CancelFunc // cancels the in-flight analysis fetch
	search context.CancelFunc // cancels the in-flight image search

	wg sync.WaitGroup
}

// New returns a navigator on the video panel.
// The initial layout is not rendered until the first Show.
func New(view View, be Backend, opts Options) *Navigator {
	if opts.HistoricalDays <= 0 {
		opts.HistoricalDays = 7
	}
	if len(opts.ObjectLabels) == 0 {
		opts.ObjectLabels = []string{panels.DefaultObjectLabel}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	msg := opts.Logger
	if msg == nil {
		msg = log.New(ioutil.Discard, "", 0)
	}
	return &Navigator{
		view: view,
		be:   be,
		opts: opts,
		msg:  msg,
		cur:  panels.Video,
	}
}

// Current returns the active panel.
func (n *Navigator) Current() panels.Panel {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cur
}

// Show activates the panel at index idx.
//
// Show returns a *panels.InvalidError, without touching the view, when idx
// is not a panel index. Analysis data is fetched in the background: a fetch
// still in flight when another panel switch happens is cancelled and its
// result discarded.
func (n *Navigator) Show(ctx context.Context, idx int) error {
	p, err := panels.Check(idx)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.show(ctx, p)
	return nil
}

// Tap activates p, as when its navigation button is tapped.
func (n *Navigator) Tap(ctx context.Context, p panels.Panel) error {
	return n.Show(ctx, int(p))
}

// Swipe moves to the neighbouring panel. Swiping past the first or the last
// panel does nothing.
func (n *Navigator) Swipe(ctx context.Context, dir Direction) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var next panels.Panel
	switch dir {
	case SwipeLeft:
		next = n.cur.Next()
	case SwipeRight:
		next = n.cur.Prev()
	default:
		return errors.Errorf("nav: invalid swipe direction %v", dir)
	}
	if next == n.cur {
		return nil
	}
	n.show(ctx, next)
	return nil
}

// show must be called with n.mu held.
func (n *Navigator) show(ctx context.Context, p panels.Panel) {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	if n.search != nil {
		n.search()
		n.search = nil
	}
	n.gen++
	n.cur = p

	n.view.Spinner(false)
	n.view.Layout(panels.LayoutFor(p))

	switch p {
	case panels.Motion, panels.Objects:
		fctx, cancel := context.WithCancel(ctx)
		n.cancel = cancel
		n.view.Spinner(true)
		n.wg.Add(1)
		go n.load(fctx, n.gen, p)
	case panels.Forensics:
		n.view.ForensicsDefaults(forensics.DefaultsFor(
			n.opts.Now(), n.opts.HistoricalDays,
			n.opts.FromTime, n.opts.ToTime,
		))
	}
}

func (n *Navigator) load(ctx context.Context, gen uint64, p panels.Panel) {
	defer n.wg.Done()

	charts, err := n.fetch(ctx, p)

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		n.msg.Printf("discarding stale %v analysis (err=%v)", p, err)
		return
	}
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.view.Spinner(false)

	if err != nil {
		n.msg.Printf("**ERROR** %v analysis: %v", p, err)
		n.view.Alert(backend.AlertText(err))
		return
	}
	if len(charts) == 0 {
		n.msg.Printf("no %v analysis for labels %q", p, n.opts.ObjectLabels)
		return
	}
	n.view.Charts(p, charts)
}

func (n *Navigator) fetch(ctx context.Context, p panels.Panel) ([]chart.Chart, error) {
	days := n.opts.HistoricalDays
	switch p {
	case panels.Motion:
		rows, err := n.be.MotionAnalysis(ctx)
		if err != nil {
			return nil, err
		}
		return []chart.Chart{chart.FromHourly(chart.Title("Motion", days), days, rows)}, nil

	case panels.Objects:
		objs, err := n.be.ObjectsAnalysis(ctx)
		if err != nil {
			return nil, err
		}
		var charts []chart.Chart
		for _, label := range n.opts.ObjectLabels {
			rows, ok := objs[label]
			if !ok {
				continue
			}
			title := chart.Title(fmt.Sprintf("[%s] Object", label), days)
			charts = append(charts, chart.FromHourly(title, days, rows))
		}
		return charts, nil
	}
	return nil, errors.Errorf("nav: panel %v has no analysis", p)
}

// Search runs a forensics search and opens the gallery of its results.
//
// The query is validated first: an invalid query is reported to the view
// and returned, and no request is sent. The search itself runs in the
// background and its outcome is reported to the view, unless the panel was
// switched in the meantime.
func (n *Navigator) Search(ctx context.Context, q forensics.Query) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	err := q.Validate()
	if err != nil {
		n.view.Alert(forensics.Message(err))
		return err
	}

	if n.search != nil {
		n.search()
	}
	sctx, cancel := context.WithCancel(ctx)
	n.search = cancel

	n.view.Spinner(true)
	n.wg.Add(1)
	go n.runSearch(sctx, n.gen, q)
	return nil
}

func (n *Navigator) runSearch(ctx context.Context, gen uint64, q forensics.Query) {
	defer n.wg.Done()

	items, err := forensics.Search(ctx, n.be, q, n.opts.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen || ctx.Err() != nil {
		n.msg.Printf("discarding stale image search (err=%v)", err)
		return
	}
	if n.search != nil {
		n.search()
		n.search = nil
	}
	n.view.Spinner(false)

	if err != nil {
		n.msg.Printf("image search: %v", err)
		n.view.Alert(forensics.Message(err))
		return
	}
	n.view.Gallery(items)
}

// Wait blocks until all background fetches have completed.
func (n *Navigator) Wait() {
	n.wg.Wait()
}

// Close cancels the background fetches and waits for them.
func (n *Navigator) Close() {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	if n.search != nil {
		n.search()
		n.search = nil
	}
	n.gen++
	n.mu.Unlock()

	n.Wait()
}

