// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panels

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Descr describes the configuration of one panel.
type Descr interface {
	isDescr()
	Descr() *DescrBase
	Panel() Panel
}

type DescrBase struct {
	Title string
	Type  string
}

func (d *DescrBase) isDescr()          {}
func (d *DescrBase) Descr() *DescrBase { return d }

func (d *DescrBase) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}

	d.Title = raw.Title
	d.Type = raw.Type
	return nil
}

type DescrVideo struct {
	Base      DescrBase
	StreamURL string
}

func (d *DescrVideo) isDescr()          {}
func (d *DescrVideo) Descr() *DescrBase { return &d.Base }
func (d *DescrVideo) Panel() Panel      { return Video }

func (d *DescrVideo) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Title  string `xml:"title,attr"`
		Type   string `xml:"type,attr"`
		Stream string `xml:"stream-url,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}

	d.Base.Title = raw.Title
	d.Base.Type = raw.Type
	d.StreamURL = raw.Stream
	return nil
}

type DescrMotion struct{ DescrBase }

func (d *DescrMotion) Panel() Panel { return Motion }

type DescrObjects struct {
	Base   DescrBase
	Labels []string
}

func (d *DescrObjects) isDescr()          {}
func (d *DescrObjects) Descr() *DescrBase { return &d.Base }
func (d *DescrObjects) Panel() Panel      { return Objects }

func (d *DescrObjects) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Title  string `xml:"title,attr"`
		Type   string `xml:"type,attr"`
		Labels string `xml:"labels,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}

	d.Base.Title = raw.Title
	d.Base.Type = raw.Type
	d.Labels = splitList(raw.Labels)
	if len(d.Labels) == 0 {
		d.Labels = []string{DefaultObjectLabel}
	}
	return nil
}

type DescrForensics struct {
	Base       DescrBase
	FromTime   string
	ToTime     string
	Categories []string
}

func (d *DescrForensics) isDescr()          {}
func (d *DescrForensics) Descr() *DescrBase { return &d.Base }
func (d *DescrForensics) Panel() Panel      { return Forensics }

func (d *DescrForensics) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Title      string `xml:"title,attr"`
		Type       string `xml:"type,attr"`
		FromTime   string `xml:"from-time,attr"`
		ToTime     string `xml:"to-time,attr"`
		Categories string `xml:"categories,attr"`
	}
	err := dec.DecodeElement(&raw, &start)
	if err != nil {
		return err
	}

	d.Base.Title = raw.Title
	d.Base.Type = raw.Type
	d.FromTime = raw.FromTime
	if d.FromTime == "" {
		d.FromTime = DefaultFromTime
	}
	d.ToTime = raw.ToTime
	if d.ToTime == "" {
		d.ToTime = DefaultToTime
	}
	d.Categories = splitList(raw.Categories)
	return nil
}

// Defaults applied when a panel is not configured.
const (
	DefaultObjectLabel = "person"
	DefaultFromTime    = "07:00"
	DefaultToTime      = "21:00"
)

// NewDescr returns an empty descriptor for the given panel type name.
func NewDescr(typ string) (Descr, error) {
	switch strings.ToLower(typ) {
	case "video":
		return new(DescrVideo), nil
	case "motion":
		return new(DescrMotion), nil
	case "objects":
		return new(DescrObjects), nil
	case "forensics":
		return new(DescrForensics), nil
	default:
		return nil, fmt.Errorf("panels: invalid type %q", typ)
	}
}

// Default returns the descriptor used for p when the configuration does not
// mention it.
func Default(p Panel) Descr {
	switch p {
	case Video:
		return &DescrVideo{Base: DescrBase{Title: "Live", Type: "video"}}
	case Motion:
		return &DescrMotion{DescrBase{Title: "Motion", Type: "motion"}}
	case Objects:
		return &DescrObjects{
			Base:   DescrBase{Title: "Objects", Type: "objects"},
			Labels: []string{DefaultObjectLabel},
		}
	case Forensics:
		return &DescrForensics{
			Base:     DescrBase{Title: "Forensics", Type: "forensics"},
			FromTime: DefaultFromTime,
			ToTime:   DefaultToTime,
		}
	}
	return nil
}

func splitList(s string) []string {
	var o []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		o = append(o, v)
	}
	return o
}
