// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/heartbeat"
	"github.com/third-eye/eye-mon/panels"
)

type Config struct {
	XMLName        xml.Name `xml:"eye-mon"`
	Backend        BackendConfig
	HistoricalDays int
	Heartbeat      heartbeat.Policy
	MQTT           MQTTConfig
	Panels         [panels.N]panels.Descr
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type MQTTConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Retain      bool
}

func newConfig() Config {
	cfg := Config{
		XMLName: xml.Name{Local: "eye-mon"},
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8000",
			Timeout: 10 * time.Second,
		},
		HistoricalDays: 7,
		Heartbeat:      heartbeat.Policy{Interval: heartbeat.DefaultInterval},
		MQTT: MQTTConfig{
			Port:        1883,
			TopicPrefix: "third-eye",
			Retain:      true,
		},
	}
	for _, p := range panels.All {
		cfg.Panels[p] = panels.Default(p)
	}
	return cfg
}

func loadConfig(fname string) (Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not open configuration file")
	}
	defer f.Close()

	var cfg Config
	err = xml.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not decode configuration file %q", fname)
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Backend.URL == "" {
		return errors.Errorf("config: backend URL is required")
	}
	if cfg.HistoricalDays < 1 {
		return errors.Errorf("config: historical-days must be positive (got=%d)", cfg.HistoricalDays)
	}
	if cfg.MQTT.Enabled {
		if cfg.MQTT.Host == "" {
			return errors.Errorf("config: MQTT host is required when MQTT is enabled")
		}
		if cfg.MQTT.TopicPrefix == "" {
			return errors.Errorf("config: MQTT topic prefix is required")
		}
	}
	return nil
}

// Video returns the live video panel configuration.
func (cfg *Config) Video() *panels.DescrVideo {
	return cfg.Panels[panels.Video].(*panels.DescrVideo)
}

// Objects returns the objects analysis panel configuration.
func (cfg *Config) Objects() *panels.DescrObjects {
	return cfg.Panels[panels.Objects].(*panels.DescrObjects)
}

// Forensics returns the forensics panel configuration.
func (cfg *Config) Forensics() *panels.DescrForensics {
	return cfg.Panels[panels.Forensics].(*panels.DescrForensics)
}

func (cfg *Config) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	*cfg = newConfig()
	cfg.XMLName = start.Name

	attr := func(attrs []xml.Attr, name string) string {
		for _, attr := range attrs {
			if attr.Name.Local == name {
				return attr.Value
			}
		}
		return ""
	}

	seen := make(map[panels.Panel]bool)

	// decode inner elements
	for {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		switch tt := t.(type) {
		case xml.StartElement:
			switch name := tt.Name.Local; name {
			case "backend":
				err = cfg.decodeBackend(dec, tt)
			case "historical-days":
				err = dec.DecodeElement(&cfg.HistoricalDays, &tt)
			case "heartbeat":
				err = cfg.decodeHeartbeat(dec, tt)
			case "mqtt":
				err = cfg.decodeMQTT(dec, tt)
			case "panel":
				var descr panels.Descr
				descr, err = panels.NewDescr(attr(tt.Attr, "type"))
				if err != nil {
					return err
				}
				err = dec.DecodeElement(descr, &tt)
				if err != nil {
					return err
				}
				p := descr.Panel()
				if seen[p] {
					return errors.Errorf("config: panel %q configured twice", p)
				}
				seen[p] = true
				cfg.Panels[p] = descr
			default:
				return errors.Errorf("config: invalid element %q", name)
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			if tt == start.End() {
				return nil
			}
		}
	}
}

func (cfg *Config) decodeBackend(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		URL     string `xml:"url,attr"`
		Timeout string `xml:"timeout,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}
	if raw.URL != "" {
		cfg.Backend.URL = raw.URL
	}
	if raw.Timeout != "" {
		cfg.Backend.Timeout, err = time.ParseDuration(raw.Timeout)
		if err != nil {
			return errors.Wrapf(err, "config: invalid backend timeout")
		}
	}
	return nil
}

func (cfg *Config) decodeHeartbeat(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Interval string  `xml:"interval,attr"`
		Backoff  float64 `xml:"backoff,attr"`
		Max      string  `xml:"max-interval,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}
	if raw.Interval != "" {
		cfg.Heartbeat.Interval, err = time.ParseDuration(raw.Interval)
		if err != nil {
			return errors.Wrapf(err, "config: invalid heartbeat interval")
		}
	}
	cfg.Heartbeat.Backoff = raw.Backoff
	if raw.Max != "" {
		cfg.Heartbeat.MaxInterval, err = time.ParseDuration(raw.Max)
		if err != nil {
			return errors.Wrapf(err, "config: invalid heartbeat max-interval")
		}
	}
	return nil
}

func (cfg *Config) decodeMQTT(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Enabled  string `xml:"enabled,attr"`
		Host     string `xml:"host,attr"`
		Port     int    `xml:"port,attr"`
		Username string `xml:"username,attr"`
		Password string `xml:"password,attr"`
		Prefix   string `xml:"topic-prefix,attr"`
		QoS      string `xml:"qos,attr"`
		Retain   string `xml:"retain,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}

	parseBool := func(s string, def bool) (bool, error) {
		if s == "" {
			return def, nil
		}
		return strconv.ParseBool(strings.TrimSpace(s))
	}

	cfg.MQTT.Enabled, err = parseBool(raw.Enabled, true)
	if err != nil {
		return errors.Wrapf(err, "config: invalid mqtt enabled flag")
	}
	cfg.MQTT.Retain, err = parseBool(raw.Retain, cfg.MQTT.Retain)
	if err != nil {
		return errors.Wrapf(err, "config: invalid mqtt retain flag")
	}
	cfg.MQTT.Host = raw.Host
	if raw.Port != 0 {
		cfg.MQTT.Port = raw.Port
	}
	cfg.MQTT.Username = raw.Username
	cfg.MQTT.Password = raw.Password
	if raw.Prefix != "" {
		cfg.MQTT.TopicPrefix = raw.Prefix
	}
	if raw.QoS != "" {
		v, err := strconv.ParseUint(raw.QoS, 0, 8)
		if err != nil || v > 2 {
			return errors.Errorf("config: invalid mqtt qos %q", raw.QoS)
		}
		cfg.MQTT.QoS = byte(v)
	}
	return nil
}
