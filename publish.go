// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/heartbeat"
)

// pipeline health states published to the broker.
const (
	stateHealthy     = "healthy"
	stateUnhealthy   = "unhealthy"
	stateUnreachable = "unreachable"
)

type healthMsg struct {
	State    string     `json:"state"`
	Glyph    string     `json:"glyph,omitempty"`
	LastBeat *time.Time `json:"last_beat,omitempty"`
	Error    string     `json:"error,omitempty"`
	Time     time.Time  `json:"time"`
}

// publisher forwards heartbeat state changes to an MQTT broker.
type publisher struct {
	msg    *log.Logger
	topic  string
	qos    byte
	retain bool

	publish func(topic string, qos byte, retain bool, payload []byte) error
	close   func()

	mu   sync.Mutex
	last string
}

// newPublisher connects to the configured broker.
// It returns a nil publisher when MQTT is disabled.
func newPublisher(cfg MQTTConfig, msg *log.Logger) (*publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	broker := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("eye-mon-" + uuid.New().String()[:8])
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		msg.Printf("mqtt: connected to %s", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		msg.Printf("mqtt: connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	msg.Printf("mqtt: connecting to %s...", broker)
	tok := client.Connect()
	if tok.WaitTimeout(5*time.Second) && tok.Error() != nil {
		// with ConnectRetry, the client keeps trying in the background.
		msg.Printf("mqtt: initial connection failed: %v", tok.Error())
	}

	pub := &publisher{
		msg:    msg,
		topic:  strings.TrimSuffix(cfg.TopicPrefix, "/") + "/heartbeat",
		qos:    cfg.QoS,
		retain: cfg.Retain,
		publish: func(topic string, qos byte, retain bool, payload []byte) error {
			tok := client.Publish(topic, qos, retain, payload)
			if !tok.WaitTimeout(5 * time.Second) {
				return errors.Errorf("mqtt: timeout publishing to %q", topic)
			}
			return tok.Error()
		},
		close: func() { client.Disconnect(250) },
	}
	return pub, nil
}

// Heartbeat implements heartbeat.Sink.
func (pub *publisher) Heartbeat(st heartbeat.Status) {
	state := stateUnhealthy
	if st.OK {
		state = stateHealthy
	}
	beat := st.LastBeat
	pub.send(healthMsg{State: state, Glyph: st.Glyph(), LastBeat: &beat, Time: time.Now().UTC()})
}

// HeartbeatError implements heartbeat.Sink.
func (pub *publisher) HeartbeatError(err error) {
	pub.send(healthMsg{State: stateUnreachable, Error: err.Error(), Time: time.Now().UTC()})
}

// send publishes msg when the pipeline state changed since the last publication.
func (pub *publisher) send(msg healthMsg) {
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if msg.State == pub.last {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		pub.msg.Printf("mqtt: could not encode heartbeat: %v", err)
		return
	}
	err = pub.publish(pub.topic, pub.qos, pub.retain, payload)
	if err != nil {
		pub.msg.Printf("mqtt: could not publish heartbeat: %v", err)
		return
	}
	pub.last = msg.State
}

func (pub *publisher) Close() {
	if pub.close != nil {
		pub.close()
	}
}
