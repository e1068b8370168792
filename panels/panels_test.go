// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panels

import (
	"bytes"
	"encoding/xml"
	"reflect"
	"testing"
)

func TestLayout(t *testing.T) {
	for _, p := range All {
		l := LayoutFor(p)
		vis, act := l.Count()
		if vis != 1 || act != 1 {
			t.Fatalf("panel %v: got %d visible, %d active", p, vis, act)
		}
		if !l.Visible[p] || !l.Active[p] {
			t.Fatalf("panel %v: not marked in %+v", p, l)
		}
		if l.Current != p {
			t.Fatalf("panel %v: current=%v", p, l.Current)
		}
	}
}

func TestCheck(t *testing.T) {
	for _, idx := range []int{0, 1, 2, 3} {
		p, err := Check(idx)
		if err != nil {
			t.Fatalf("idx=%d: %v", idx, err)
		}
		if int(p) != idx {
			t.Fatalf("idx=%d: got %v", idx, p)
		}
	}

	for _, idx := range []int{-1, 4, 42} {
		_, err := Check(idx)
		e, ok := err.(*InvalidError)
		if !ok {
			t.Fatalf("idx=%d: got err=%v (%T)", idx, err, err)
		}
		if e.Index != idx {
			t.Fatalf("idx=%d: got index %d", idx, e.Index)
		}
	}
}

func TestPrevNext(t *testing.T) {
	for _, tc := range []struct {
		p          Panel
		prev, next Panel
	}{
		{Video, Video, Motion},
		{Motion, Video, Objects},
		{Objects, Motion, Forensics},
		{Forensics, Objects, Forensics},
	} {
		if got := tc.p.Prev(); got != tc.prev {
			t.Fatalf("%v.Prev: got %v, want %v", tc.p, got, tc.prev)
		}
		if got := tc.p.Next(); got != tc.next {
			t.Fatalf("%v.Next: got %v, want %v", tc.p, got, tc.next)
		}
	}
}

func TestIDs(t *testing.T) {
	if got, want := Objects.ID(), "objects-analysis"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := Forensics.Button(), "btn-forensics"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDescrXML(t *testing.T) {
	const raw = `<?xml version="1.0"?>
<data>
	<panel title="Person" type="objects" labels="person, car"/>
	<panel title="Cars" type="objects"/>
	<panel title="Search" type="forensics" to-time="22:30" categories="INTRUDER"/>
</data>
`

	var cfg struct {
		XMLName xml.Name       `xml:"data"`
		Objects []DescrObjects `xml:"panel"`
	}
	err := xml.NewDecoder(bytes.NewReader([]byte(raw))).Decode(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := []DescrObjects{
		{Base: DescrBase{Title: "Person", Type: "objects"}, Labels: []string{"person", "car"}},
		{Base: DescrBase{Title: "Cars", Type: "objects"}, Labels: []string{"person"}},
		{Base: DescrBase{Title: "Search", Type: "forensics"}, Labels: []string{"person"}},
	}
	if !reflect.DeepEqual(want, cfg.Objects) {
		t.Fatalf("error:\ngot= %v\nwant=%v\n", cfg.Objects, want)
	}
}

func TestNewDescr(t *testing.T) {
	for _, tc := range []struct {
		typ  string
		want Panel
	}{
		{"video", Video},
		{"Motion", Motion},
		{"OBJECTS", Objects},
		{"forensics", Forensics},
	} {
		d, err := NewDescr(tc.typ)
		if err != nil {
			t.Fatalf("%s: %v", tc.typ, err)
		}
		if d.Panel() != tc.want {
			t.Fatalf("%s: got panel %v", tc.typ, d.Panel())
		}
	}

	if _, err := NewDescr("lidar"); err == nil {
		t.Fatalf("expected an error")
	}
}
