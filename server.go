// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/third-eye/eye-mon/backend"
	"github.com/third-eye/eye-mon/heartbeat"
	"github.com/third-eye/eye-mon/panels"
	"golang.org/x/net/websocket"
)

type server struct {
	cfg  Config
	be   *backend.Client
	page *template.Template
	host string
	msg  *log.Logger

	poller *heartbeat.Poller
	pub    *publisher

	mu       sync.RWMutex
	sessions map[string]*session
	hb       *heartbeatMsg // latest heartbeat status
}

func newServer(cfg Config, msg *log.Logger) (*server, error) {
	be, err := backend.New(cfg.Backend.URL, &http.Client{Timeout: cfg.Backend.Timeout})
	if err != nil {
		return nil, err
	}

	page, err := template.New("index").Parse(indexTmpl)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse index template")
	}

	host, err := os.Hostname()
	if err != nil {
		host = "N/A"
	}

	srv := &server{
		cfg:      cfg,
		be:       be,
		page:     page,
		host:     host,
		msg:      msg,
		sessions: make(map[string]*session),
	}

	pub, err := newPublisher(cfg.MQTT, msg)
	if err != nil {
		return nil, err
	}

	sinks := []heartbeat.Sink{srv}
	if pub != nil {
		srv.pub = pub
		sinks = append(sinks, pub)
	}
	srv.poller = heartbeat.NewPoller(be, cfg.Heartbeat, msg, sinks...)

	return srv, nil
}

func (srv *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.rootHandle)
	mux.Handle("/data", websocket.Handler(srv.dataHandler))
	mux.Handle("/images/", httputil.NewSingleHostReverseProxy(srv.be.URL()))
	return mux
}

func (srv *server) run(ctx context.Context, addr string) error {
	go srv.poller.Run(ctx)

	hsrv := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- hsrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	srv.msg.Printf("shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := hsrv.Shutdown(sctx)
	if srv.pub != nil {
		srv.pub.Close()
	}
	return err
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cfg := srv.cfg
	data := struct {
		Hostname       string
		VideoURL       string
		HistoricalDays int
		Panels         [panels.N]string
		Categories     []string
	}{
		Hostname:       srv.host,
		VideoURL:       cfg.Video().StreamURL,
		HistoricalDays: cfg.HistoricalDays,
		Categories:     cfg.Forensics().Categories,
	}
	for _, p := range panels.All {
		data.Panels[p] = cfg.Panels[p].Descr().Title
	}
	if len(data.Categories) == 0 {
		data.Categories = []string{"HEART-BEAT", "INTRUDER"}
	}

	err := srv.page.Execute(w, data)
	if err != nil {
		srv.msg.Printf("error executing index template: %v", err)
	}
}

func (srv *server) dataHandler(ws *websocket.Conn) {
	defer ws.Close()

	ctx, cancel := context.WithCancel(ws.Request().Context())
	defer cancel()

	send := func(v interface{}) error {
		return websocket.JSON.Send(ws, v)
	}
	s := newSession(send, srv.be, srv.cfg, srv.msg)
	s.msg.Printf("connection from: %v", ws.Request().RemoteAddr)

	srv.add(s)
	defer srv.remove(s)
	defer s.nav.Close()

	srv.mu.RLock()
	hb := srv.hb
	srv.mu.RUnlock()
	if hb != nil {
		s.write(*hb)
	}

	err := s.nav.Show(ctx, int(panels.Video))
	if err != nil {
		s.msg.Printf("could not show video panel: %v", err)
		return
	}

	for {
		var ev event
		err := websocket.JSON.Receive(ws, &ev)
		if err != nil {
			switch err.(type) {
			case *json.SyntaxError, *json.UnmarshalTypeError:
				s.msg.Printf("invalid event: %v", err)
				continue
			}
			if err != io.EOF {
				s.msg.Printf("error receiving event: %v", err)
			}
			return
		}

		err = s.handle(ctx, ev)
		if err != nil {
			s.msg.Printf("event %q: %v", ev.Type, err)
		}
	}
}

func (srv *server) add(s *session) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.sessions[s.id] = s
}

func (srv *server) remove(s *session) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.sessions, s.id)
}

func (srv *server) broadcast(v interface{}) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for _, s := range srv.sessions {
		s.write(v)
	}
}

// Heartbeat implements heartbeat.Sink.
func (srv *server) Heartbeat(st heartbeat.Status) {
	msg := heartbeatMsg{Type: "heartbeat", OK: st.OK, Text: st.Text(time.Now())}

	srv.mu.Lock()
	srv.hb = &msg
	srv.mu.Unlock()

	srv.broadcast(msg)
}

// HeartbeatError implements heartbeat.Sink.
func (srv *server) HeartbeatError(err error) {
	srv.broadcast(alertMsg{Type: "alert", Msg: backend.AlertText(err)})
}
