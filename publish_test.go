// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/heartbeat"
)

type published struct {
	topic  string
	qos    byte
	retain bool
	msg    healthMsg
}

func newTestPublisher(t *testing.T, fail *bool) (*publisher, *[]published) {
	var out []published
	pub := &publisher{
		msg:    log.New(ioutil.Discard, "", 0),
		topic:  "home/eye/heartbeat",
		qos:    1,
		retain: true,
		publish: func(topic string, qos byte, retain bool, payload []byte) error {
			if *fail {
				return errors.New("broker down")
			}
			var msg healthMsg
			err := json.Unmarshal(payload, &msg)
			if err != nil {
				t.Fatalf("could not decode payload %s: %v", payload, err)
			}
			out = append(out, published{topic, qos, retain, msg})
			return nil
		},
	}
	return pub, &out
}

func TestPublisherStateChanges(t *testing.T) {
	fail := false
	pub, out := newTestPublisher(t, &fail)

	beat := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	pub.Heartbeat(heartbeat.Status{OK: true, LastBeat: beat})
	pub.Heartbeat(heartbeat.Status{OK: true, LastBeat: beat.Add(time.Minute)})
	pub.Heartbeat(heartbeat.Status{OK: false, LastBeat: beat.Add(2 * time.Minute)})
	pub.HeartbeatError(errors.New("connection refused"))
	pub.HeartbeatError(errors.New("connection refused"))
	pub.Heartbeat(heartbeat.Status{OK: true, LastBeat: beat.Add(5 * time.Minute)})

	var states []string
	for _, p := range *out {
		if p.topic != "home/eye/heartbeat" || p.qos != 1 || !p.retain {
			t.Fatalf("invalid publication: %+v", p)
		}
		states = append(states, p.msg.State)
	}
	want := []string{stateHealthy, stateUnhealthy, stateUnreachable, stateHealthy}
	if !reflect.DeepEqual(states, want) {
		t.Fatalf("error:\ngot= %q\nwant=%q\n", states, want)
	}

	first := (*out)[0].msg
	if first.Glyph != heartbeat.Healthy || first.LastBeat == nil || !first.LastBeat.Equal(beat) {
		t.Fatalf("invalid healthy message: %+v", first)
	}
	if msg := (*out)[2].msg; msg.Error != "connection refused" || msg.LastBeat != nil {
		t.Fatalf("invalid unreachable message: %+v", msg)
	}
}

func TestPublisherRetry(t *testing.T) {
	fail := true
	pub, out := newTestPublisher(t, &fail)

	pub.Heartbeat(heartbeat.Status{OK: true})
	if len(*out) != 0 {
		t.Fatalf("got %d publications", len(*out))
	}

	// a failed publication is retried on the next poll.
	fail = false
	pub.Heartbeat(heartbeat.Status{OK: true})
	if len(*out) != 1 {
		t.Fatalf("got %d publications", len(*out))
	}
}

func TestPublisherDisabled(t *testing.T) {
	pub, err := newPublisher(MQTTConfig{}, log.New(ioutil.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if pub != nil {
		t.Fatalf("expected no publisher")
	}
}
