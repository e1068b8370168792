// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Timestamp is a point in time as serialized by the backend.
//
// The backend stores naive datetimes: those are interpreted in the local
// time zone. RFC 3339 values keep their offset.
type Timestamp struct {
	time.Time
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses a backend timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return Timestamp{t}, nil
	}
	for _, layout := range layouts[1:] {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, errors.Errorf("backend: invalid timestamp %q", s)
}

func (ts *Timestamp) UnmarshalJSON(p []byte) error {
	if bytes.Equal(p, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	err := json.Unmarshal(p, &s)
	if err != nil {
		return errors.Wrapf(err, "backend: timestamp is not a string")
	}
	v, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = v
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}
