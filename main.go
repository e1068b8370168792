// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eye-mon serves the Third Eye surveillance dashboard.
//
// The dashboard shows four panels (live video, motion analysis, objects
// analysis and forensics search) and the health of the camera pipeline,
// polled from the Third Eye backend.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Version is set at link time by make-release.go.
var Version = "dev"

var (
	addr    = flag.String("addr", ":8080", "[ip]:port for the dashboard server")
	cfgName = flag.String("cfg", "eye-mon.xml", "path to the XML configuration file")
	beURL   = flag.String("backend", "", "backend URL (overrides the configuration file)")
)

func main() {
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("eye-mon: ")

	cfg := newConfig()
	if _, err := os.Stat(*cfgName); err == nil {
		cfg, err = loadConfig(*cfgName)
		if err != nil {
			log.Fatalf("could not load configuration: %+v", err)
		}
	} else {
		log.Printf("no configuration file %q, using defaults", *cfgName)
	}
	if *beURL != "" {
		cfg.Backend.URL = *beURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(cfg, log.New(os.Stderr, "eye-mon: ", 0))
	if err != nil {
		log.Fatalf("could not create server: %+v", err)
	}

	log.Printf("version %s, backend %s", Version, cfg.Backend.URL)
	log.Printf("starting up server on: %v", *addr)

	err = srv.run(ctx, *addr)
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
