// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/heartbeat"
	"golang.org/x/net/websocket"
)

// newBackend starts a fake Third Eye backend.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/heart-beat", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_ok": true, "hb": {"create_ts": "2020-05-01T12:34:56"}}`))
	})
	mux.HandleFunc("/analysis", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("at") {
		case "motion":
			w.Write([]byte(`[{"Hour":7,"Historical":2,"Today":5},{"Hour":8,"Historical":3,"Today":1}]`))
		case "objects":
			w.Write([]byte(`{"person":[{"Hour":7,"Historical":1.5,"Today":2}]}`))
		default:
			http.Error(w, "bad analysis type", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/get-images", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":["20200501_INTRUDER.jpg"],"timestamps":["2020-05-01T12:00:00"]}`))
	})
	mux.HandleFunc("/images/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg:" + strings.TrimPrefix(r.URL.Path, "/images/")))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) (*server, *httptest.Server) {
	t.Helper()
	be := newBackend(t)

	cfg := newConfig()
	cfg.Backend.URL = be.URL

	srv, err := newServer(cfg, log.New(ioutil.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	web := httptest.NewServer(srv.Handler())
	t.Cleanup(web.Close)
	return srv, web
}

// msgType decodes the type of a raw view message.
func msgType(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var v struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(raw, &v)
	if err != nil {
		t.Fatalf("could not decode message %s: %v", raw, err)
	}
	return v.Type
}

func dial(t *testing.T, web *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(web.URL, "http") + "/data"
	ws, err := websocket.Dial(url, "", web.URL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// recv reads messages until one of type typ arrives.
func recv(t *testing.T, ws *websocket.Conn, typ string) json.RawMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var raw json.RawMessage
		err := websocket.JSON.Receive(ws, &raw)
		if err != nil {
			t.Fatalf("waiting for %q message: %v", typ, err)
		}
		if msgType(t, raw) == typ {
			return raw
		}
	}
}

func TestRootPage(t *testing.T) {
	_, web := newTestServer(t)

	resp, err := http.Get(web.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invalid status: %v", resp.Status)
	}

	page := string(body)
	for _, want := range []string{
		`id="video-stream"`,
		`id="motion-analysis"`,
		`id="objects-analysis"`,
		`id="forensics"`,
		`id="btn-forensics"`,
		`value="HEART-BEAT"`,
		`value="INTRUDER"`,
		`Show Slideshow`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page is missing %s", want)
		}
	}

	resp, err = http.Get(web.URL + "/favicon.ico")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("invalid status: %v", resp.Status)
	}
}

func TestImagesProxy(t *testing.T) {
	_, web := newTestServer(t)

	resp, err := http.Get(web.URL + "/images/20200501_INTRUDER.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(body), "jpeg:20200501_INTRUDER.jpg"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDataSession(t *testing.T) {
	_, web := newTestServer(t)
	ws := dial(t, web)

	var layout layoutMsg
	err := json.Unmarshal(recv(t, ws, "layout"), &layout)
	if err != nil {
		t.Fatal(err)
	}
	if layout.Current != 0 || !layout.Panels[0].Visible || layout.Panels[1].Visible {
		t.Fatalf("invalid initial layout: %+v", layout)
	}

	err = websocket.JSON.Send(ws, event{Type: "tap", Panel: 3})
	if err != nil {
		t.Fatal(err)
	}
	var defaults defaultsMsg
	err = json.Unmarshal(recv(t, ws, "forensics-defaults"), &defaults)
	if err != nil {
		t.Fatal(err)
	}
	if defaults.Defaults.FromTime != "07:00" || defaults.Defaults.ToTime != "21:00" {
		t.Fatalf("invalid defaults: %+v", defaults.Defaults)
	}

	err = websocket.JSON.Send(ws, event{Type: "swipe", Dir: "right"})
	if err != nil {
		t.Fatal(err)
	}
	err = json.Unmarshal(recv(t, ws, "layout"), &layout)
	if err != nil {
		t.Fatal(err)
	}
	if layout.Current != 2 || !layout.Panels[2].Active {
		t.Fatalf("invalid layout after swipe: %+v", layout)
	}

	var c chartMsg
	err = json.Unmarshal(recv(t, ws, "chart"), &c)
	if err != nil {
		t.Fatal(err)
	}
	if c.Panel != "objects-analysis" || !strings.Contains(c.SVG, "<svg") {
		t.Fatalf("invalid chart message: panel=%q", c.Panel)
	}
}

func TestHeartbeatBroadcast(t *testing.T) {
	srv, web := newTestServer(t)
	ws := dial(t, web)
	recv(t, ws, "layout")

	srv.Heartbeat(heartbeat.Status{OK: false, LastBeat: time.Now()})

	var hb heartbeatMsg
	err := json.Unmarshal(recv(t, ws, "heartbeat"), &hb)
	if err != nil {
		t.Fatal(err)
	}
	if hb.OK || !strings.HasPrefix(hb.Text, heartbeat.Unhealthy+" Last Heart Beat: Today at ") {
		t.Fatalf("invalid heartbeat message: %+v", hb)
	}

	// late comers get the last known status.
	ws2 := dial(t, web)
	err = json.Unmarshal(recv(t, ws2, "heartbeat"), &hb)
	if err != nil {
		t.Fatal(err)
	}
	if hb.OK {
		t.Fatalf("invalid heartbeat message: %+v", hb)
	}

	srv.HeartbeatError(errors.New("connection refused"))
	var alert alertMsg
	err = json.Unmarshal(recv(t, ws, "alert"), &alert)
	if err != nil {
		t.Fatal(err)
	}
	if alert.Msg != "ERROR. connection refused" {
		t.Fatalf("invalid alert: %q", alert.Msg)
	}
}

type recorder struct {
	mu   sync.Mutex
	msgs []interface{}
}

func (r *recorder) send(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, v)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []string
	for _, msg := range r.msgs {
		buf, err := json.Marshal(msg)
		if err != nil {
			panic(err)
		}
		var v struct {
			Type string `json:"type"`
		}
		json.Unmarshal(buf, &v)
		types = append(types, v.Type)
	}
	return types
}
