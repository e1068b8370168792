// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend is a client for the Third Eye backend HTTP API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// AnalysisKind selects the analysis returned by /analysis.
type AnalysisKind string

const (
	Motion  AnalysisKind = "motion"
	Objects AnalysisKind = "objects"
)

// Heartbeat is the payload of /heart-beat.
type Heartbeat struct {
	OK bool `json:"is_ok"`
	HB struct {
		CreateTS Timestamp `json:"create_ts"`
	} `json:"hb"`
}

// HourlyCount holds the detection counts for one hour of the day.
type HourlyCount struct {
	Hour       int     `json:"Hour"`
	Historical float64 `json:"Historical"`
	Today      float64 `json:"Today"`
}

// ImageQuery selects images in /get-images.
type ImageQuery struct {
	Types    []string
	FromDate string // YYYY-MM-DD
	ToDate   string
	FromTime string // HH:MM
	ToTime   string
}

// Values encodes q as /get-images query parameters.
func (q ImageQuery) Values() url.Values {
	v := make(url.Values)
	v.Set("inc_im_types", strings.Join(q.Types, ","))
	v.Set("from_date", q.FromDate)
	v.Set("to_date", q.ToDate)
	v.Set("from_time", q.FromTime)
	v.Set("to_time", q.ToTime)
	return v
}

// ImageList is the payload of /get-images.
// Files and Timestamps are parallel slices.
type ImageList struct {
	Files      []string    `json:"files"`
	Timestamps []Timestamp `json:"timestamps"`
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: code %d, msg: %s", e.Code, e.Status)
}

// AlertText returns the text shown to the user when a backend request
// failed with err.
func AlertText(err error) string {
	if e, ok := errors.Cause(err).(*StatusError); ok {
		return fmt.Sprintf("ERROR. Code: %d, msg: %s", e.Code, e.Status)
	}
	return fmt.Sprintf("ERROR. %v", err)
}

// Client talks to the backend.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// New returns a client for the backend rooted at base.
// A nil hc uses a client with a 10s timeout.
func New(base string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(err, "backend: invalid base URL %q", base)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("backend: base URL %q needs a scheme and a host", base)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, hc: hc}, nil
}

// URL returns the backend base URL.
func (c *Client) URL() *url.URL {
	u := *c.base
	return &u
}

// Heartbeat fetches the last recorded heartbeat.
func (c *Client) Heartbeat(ctx context.Context) (Heartbeat, error) {
	var hb Heartbeat
	err := c.get(ctx, "/heart-beat", nil, &hb)
	return hb, err
}

// MotionAnalysis fetches today's motion detections against the historical
// average, per hour.
func (c *Client) MotionAnalysis(ctx context.Context) ([]HourlyCount, error) {
	var rows []HourlyCount
	err := c.get(ctx, "/analysis", analysisQuery(Motion), &rows)
	return rows, err
}

// ObjectsAnalysis fetches today's object detections against the historical
// average, per hour and keyed by object label.
func (c *Client) ObjectsAnalysis(ctx context.Context) (map[string][]HourlyCount, error) {
	var rows map[string][]HourlyCount
	err := c.get(ctx, "/analysis", analysisQuery(Objects), &rows)
	return rows, err
}

// Images searches the recorded images.
func (c *Client) Images(ctx context.Context, q ImageQuery) (ImageList, error) {
	var list ImageList
	err := c.get(ctx, "/get-images", q.Values(), &list)
	if err != nil {
		return list, err
	}
	if len(list.Files) != len(list.Timestamps) {
		return ImageList{}, errors.Errorf(
			"backend: /get-images returned %d files and %d timestamps",
			len(list.Files), len(list.Timestamps),
		)
	}
	return list, nil
}

// ImagePath returns the path under which the backend serves the named image.
func ImagePath(name string) string {
	return "/images/" + url.PathEscape(name)
}

func analysisQuery(at AnalysisKind) url.Values {
	return url.Values{"at": []string{string(at)}}
}

func (c *Client) get(ctx context.Context, p string, q url.Values, v interface{}) error {
	u := c.URL()
	u.Path = path.Join(u.Path, p)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "backend: could not create request for %s", p)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "backend: could not fetch %s", p)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil {
		return errors.Wrapf(err, "backend: could not decode %s", p)
	}
	return nil
}
