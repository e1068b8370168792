// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heartbeat polls the health of the camera pipeline.
package heartbeat

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/third-eye/eye-mon/backend"
	"github.com/third-eye/eye-mon/timefmt"
)

// Status glyphs.
const (
	Healthy   = "❤"
	Unhealthy = "☂"
)

// DefaultInterval is the delay between two polls.
const DefaultInterval = 30 * time.Second

// Policy decides when the next poll happens.
//
// The zero Policy polls every DefaultInterval. When Backoff is greater
// than 1, each consecutive failure multiplies the delay by Backoff, up to
// MaxInterval. A successful poll resets the delay to Interval.
type Policy struct {
	Interval    time.Duration
	Backoff     float64
	MaxInterval time.Duration
}

// Next returns the delay before the next poll after failures consecutive
// failed polls.
func (p Policy) Next(failures int) time.Duration {
	d := p.Interval
	if d <= 0 {
		d = DefaultInterval
	}
	if p.Backoff <= 1 || failures <= 0 {
		return d
	}

	max := p.MaxInterval
	if max <= 0 {
		max = 10 * d
	}
	v := float64(d)
	for i := 0; i < failures; i++ {
		v *= p.Backoff
		if v >= float64(max) {
			return max
		}
	}
	return time.Duration(v)
}

// Status is the outcome of a successful poll.
type Status struct {
	OK       bool
	LastBeat time.Time
}

// Glyph returns the symbol of the health status.
func (s Status) Glyph() string {
	if s.OK {
		return Healthy
	}
	return Unhealthy
}

// Text renders the status for display, relative to now.
// A status without a recorded beat reads N/A.
func (s Status) Text(now time.Time) string {
	beat := "N/A"
	if !s.LastBeat.IsZero() {
		beat = timefmt.Calendar(s.LastBeat, now)
	}
	return fmt.Sprintf("%s Last Heart Beat: %s", s.Glyph(), beat)
}

// Source fetches the last heartbeat.
type Source interface {
	Heartbeat(ctx context.Context) (backend.Heartbeat, error)
}

// Sink receives the outcome of each poll.
type Sink interface {
	Heartbeat(st Status)
	HeartbeatError(err error)
}

// Poller periodically fetches the heartbeat and hands it to its sinks.
type Poller struct {
	src    Source
	policy Policy
	sinks  []Sink
	msg    *log.Logger

	after func(d time.Duration) <-chan time.Time
}

// NewPoller returns a poller fetching from src.
// A nil logger logs to stderr.
func NewPoller(src Source, policy Policy, msg *log.Logger, sinks ...Sink) *Poller {
	if msg == nil {
		msg = log.New(os.Stderr, "heartbeat: ", 0)
	}
	return &Poller{
		src:    src,
		policy: policy,
		sinks:  sinks,
		msg:    msg,
		after:  time.After,
	}
}

// Poll fetches the heartbeat once and notifies the sinks.
func (p *Poller) Poll(ctx context.Context) (Status, error) {
	hb, err := p.src.Heartbeat(ctx)
	if err != nil && ctx.Err() != nil {
		// shutting down: the backend is not at fault.
		return Status{}, ctx.Err()
	}
	if err != nil {
		p.msg.Printf("**ERROR** %v", err)
		for _, s := range p.sinks {
			s.HeartbeatError(err)
		}
		return Status{}, err
	}

	st := Status{OK: hb.OK, LastBeat: hb.HB.CreateTS.Time}
	for _, s := range p.sinks {
		s.Heartbeat(st)
	}
	return st, nil
}

// Run polls until ctx is done. Each poll is followed by a delay chosen by
// the poller's policy, whatever its outcome.
func (p *Poller) Run(ctx context.Context) error {
	failures := 0
	for {
		_, err := p.Poll(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			failures++
		default:
			failures = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.after(p.policy.Next(failures)):
		}
	}
}
