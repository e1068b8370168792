// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/chart"
	"github.com/third-eye/eye-mon/forensics"
	"github.com/third-eye/eye-mon/nav"
	"github.com/third-eye/eye-mon/panels"
)

// messages sent to the dashboard page.

type panelState struct {
	ID      string `json:"id"`
	Button  string `json:"button"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active"`
}

type layoutMsg struct {
	Type    string       `json:"type"`
	Current int          `json:"current"`
	Panels  []panelState `json:"panels"`
}

type spinnerMsg struct {
	Type string `json:"type"`
	On   bool   `json:"on"`
}

type chartMsg struct {
	Type  string `json:"type"`
	Panel string `json:"panel"`
	SVG   string `json:"svg"`
}

type alertMsg struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type defaultsMsg struct {
	Type     string             `json:"type"`
	Defaults forensics.Defaults `json:"defaults"`
}

type galleryMsg struct {
	Type  string           `json:"type"`
	Items []forensics.Item `json:"items"`
}

type heartbeatMsg struct {
	Type string `json:"type"`
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}

// event is a user interaction sent by the dashboard page.
type event struct {
	Type  string          `json:"type"` // tap, swipe or search
	Panel int             `json:"panel"`
	Dir   string          `json:"dir"`
	Query forensics.Query `json:"query"`
}

// session is one dashboard page connected to the server.
// It implements nav.View by sending JSON messages to the page.
type session struct {
	id  string
	msg *log.Logger
	nav *nav.Navigator

	mu   sync.Mutex
	send func(v interface{}) error
}

func newSession(send func(v interface{}) error, be nav.Backend, cfg Config, msg *log.Logger) *session {
	s := &session{
		id:   uuid.New().String(),
		send: send,
	}
	s.msg = log.New(msg.Writer(), msg.Prefix()+"session "+s.id[:8]+": ", msg.Flags())
	s.nav = nav.New(s, be, nav.Options{
		HistoricalDays: cfg.HistoricalDays,
		ObjectLabels:   cfg.Objects().Labels,
		FromTime:       cfg.Forensics().FromTime,
		ToTime:         cfg.Forensics().ToTime,
		Logger:         s.msg,
	})
	return s
}

func (s *session) write(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.send(v)
	if err != nil {
		s.msg.Printf("error sending message: %v", err)
	}
}

func (s *session) handle(ctx context.Context, ev event) error {
	switch ev.Type {
	case "tap":
		return s.nav.Show(ctx, ev.Panel)
	case "swipe":
		dir, err := nav.ParseDirection(ev.Dir)
		if err != nil {
			return err
		}
		return s.nav.Swipe(ctx, dir)
	case "search":
		return s.nav.Search(ctx, ev.Query)
	default:
		return errors.Errorf("invalid event type %q", ev.Type)
	}
}

func (s *session) Layout(l panels.Layout) {
	msg := layoutMsg{
		Type:    "layout",
		Current: int(l.Current),
		Panels:  make([]panelState, panels.N),
	}
	for i, p := range panels.All {
		msg.Panels[i] = panelState{
			ID:      p.ID(),
			Button:  p.Button(),
			Visible: l.Visible[p],
			Active:  l.Active[p],
		}
	}
	s.write(msg)
}

func (s *session) Spinner(on bool) {
	s.write(spinnerMsg{Type: "spinner", On: on})
}

func (s *session) Charts(p panels.Panel, charts []chart.Chart) {
	svg, err := chart.Tiled(charts)
	if err != nil {
		s.msg.Printf("could not render %v charts: %+v", p, err)
		s.Alert("ERROR. could not render the chart")
		return
	}
	s.write(chartMsg{Type: "chart", Panel: p.ID(), SVG: svg})
}

func (s *session) Alert(msg string) {
	s.write(alertMsg{Type: "alert", Msg: msg})
}

func (s *session) ForensicsDefaults(d forensics.Defaults) {
	s.write(defaultsMsg{Type: "forensics-defaults", Defaults: d})
}

func (s *session) Gallery(items []forensics.Item) {
	s.write(galleryMsg{Type: "gallery", Items: items})
}

var _ nav.View = (*session)(nil)
