// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eye-cli queries a Third Eye backend and drives eye-mon dashboards
// from the command line.
//
// Usage:
//
//	eye-cli [options] hb [-w]
//	eye-cli [options] analysis motion|objects [-o out.svg]
//	eye-cli [options] search [--types=INTRUDER] [--from-date=2020-05-01] ...
//	eye-cli [options] remote tap <panel>|swipe <left|right>
package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/third-eye/eye-mon/backend"
	"github.com/third-eye/eye-mon/chart"
	"github.com/third-eye/eye-mon/forensics"
	"github.com/third-eye/eye-mon/heartbeat"
	"github.com/third-eye/eye-mon/panels"
	"gopkg.in/yaml.v3"
)

// Version is set at link time by make-release.go.
var Version = "dev"

// profile holds the defaults of eye-cli.
type profile struct {
	Backend        string `yaml:"backend"`
	Dashboard      string `yaml:"dashboard"`
	HistoricalDays int    `yaml:"historical_days"`
}

func defaultProfile() profile {
	return profile{
		Backend:        "http://127.0.0.1:8000",
		Dashboard:      "http://127.0.0.1:8080",
		HistoricalDays: 7,
	}
}

// loadProfile reads the YAML profile fname on top of the default one.
// A missing file is not an error.
func loadProfile(fname string) (profile, error) {
	p := defaultProfile()
	raw, err := ioutil.ReadFile(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, errors.Wrapf(err, "could not read profile")
	}
	err = yaml.Unmarshal(raw, &p)
	if err != nil {
		return p, errors.Wrapf(err, "could not decode profile %q", fname)
	}
	if p.HistoricalDays < 1 {
		return p, errors.Errorf("profile: historical_days must be positive (got=%d)", p.HistoricalDays)
	}
	return p, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("eye-cli: ")

	var (
		fname     = pflag.StringP("profile", "p", defaultProfileName(), "path to the YAML profile")
		beURL     = pflag.StringP("backend", "b", "", "backend URL (overrides the profile)")
		dashboard = pflag.StringP("dashboard", "d", "", "eye-mon dashboard URL (overrides the profile)")
		timeout   = pflag.Duration("timeout", 10*time.Second, "timeout of backend requests")
	)
	pflag.CommandLine.SetInterspersed(false)
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	prof, err := loadProfile(*fname)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *beURL != "" {
		prof.Backend = *beURL
	}
	if *dashboard != "" {
		prof.Dashboard = *dashboard
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := pflag.Arg(0), pflag.Args()[1:]
	switch cmd {
	case "remote":
		err = cmdRemote(ctx, os.Stdout, prof, args)
	case "hb", "analysis", "search":
		var be *backend.Client
		be, err = backend.New(prof.Backend, &http.Client{Timeout: *timeout})
		if err != nil {
			break
		}
		switch cmd {
		case "hb":
			err = cmdHeartbeat(ctx, os.Stdout, be, args)
		case "analysis":
			err = cmdAnalysis(ctx, os.Stdout, be, prof, args)
		case "search":
			err = cmdSearch(ctx, os.Stdout, be, prof, args)
		}
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}

	if err != nil && errors.Cause(err) != context.Canceled {
		log.Fatalf("%s: %+v", cmd, err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s\n\n", banner())
	fmt.Fprintf(os.Stderr, `Usage: eye-cli [options] <command> [arguments]

Commands:
  hb                          print the camera pipeline health
  analysis motion|objects     print today's detections against the historical average
  search                      search the recorded images
  remote tap <n>|swipe <dir>  drive a running eye-mon dashboard

Options:
`)
	pflag.PrintDefaults()
}

func banner() string {
	return fmt.Sprintf("eye-cli (version %s) queries a Third Eye backend and drives eye-mon dashboards.", Version)
}

func defaultProfileName() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "eye-cli.yaml"
	}
	return dir + "/eye-mon/eye-cli.yaml"
}

type printer struct {
	w io.Writer
}

func (p printer) Heartbeat(st heartbeat.Status) {
	fmt.Fprintf(p.w, "%s\n", st.Text(time.Now()))
}

func (p printer) HeartbeatError(err error) {
	fmt.Fprintf(p.w, "%s %s\n", heartbeat.Unhealthy, backend.AlertText(err))
}

func cmdHeartbeat(ctx context.Context, w io.Writer, be heartbeat.Source, args []string) error {
	fset := pflag.NewFlagSet("hb", pflag.ContinueOnError)
	watch := fset.BoolP("watch", "w", false, "keep polling the heartbeat")
	every := fset.Duration("interval", heartbeat.DefaultInterval, "polling interval in watch mode")
	err := fset.Parse(args)
	if err != nil {
		return err
	}

	p := heartbeat.NewPoller(be, heartbeat.Policy{Interval: *every}, log.New(ioutil.Discard, "", 0), printer{w})
	if *watch {
		return p.Run(ctx)
	}
	_, err = p.Poll(ctx)
	return err
}

type analysisSource interface {
	MotionAnalysis(ctx context.Context) ([]backend.HourlyCount, error)
	ObjectsAnalysis(ctx context.Context) (map[string][]backend.HourlyCount, error)
}

func cmdAnalysis(ctx context.Context, w io.Writer, be analysisSource, prof profile, args []string) error {
	fset := pflag.NewFlagSet("analysis", pflag.ContinueOnError)
	oname := fset.StringP("output", "o", "", "write the analysis chart to this SVG file")
	labels := fset.StringSlice("labels", nil, "object labels to show (default: all)")
	err := fset.Parse(args)
	if err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return errors.Errorf("expected one analysis kind (motion or objects)")
	}

	var (
		days   = prof.HistoricalDays
		charts []chart.Chart
	)
	switch kind := backend.AnalysisKind(fset.Arg(0)); kind {
	case backend.Motion:
		rows, err := be.MotionAnalysis(ctx)
		if err != nil {
			return err
		}
		c := chart.FromHourly(chart.Title("Motion", days), days, rows)
		charts = append(charts, c)
		printHourly(w, c.Title, days, rows)

	case backend.Objects:
		objs, err := be.ObjectsAnalysis(ctx)
		if err != nil {
			return err
		}
		keys := *labels
		if len(keys) == 0 {
			for k := range objs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
		}
		for _, label := range keys {
			rows, ok := objs[label]
			if !ok {
				fmt.Fprintf(w, "no %q detections\n", label)
				continue
			}
			c := chart.FromHourly(chart.Title(fmt.Sprintf("[%s] Object", label), days), days, rows)
			charts = append(charts, c)
			printHourly(w, c.Title, days, rows)
		}

	default:
		return errors.Errorf("invalid analysis kind %q", kind)
	}

	if *oname == "" || len(charts) == 0 {
		return nil
	}
	svg, err := chart.Tiled(charts)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(*oname, []byte(svg), 0644)
}

func printHourly(w io.Writer, title string, days int, rows []backend.HourlyCount) {
	fmt.Fprintf(w, "%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Hour\t%s\tToday\t\n", chart.HistoricalLabel(days))
	for _, row := range rows {
		fmt.Fprintf(tw, "%d:00\t%.2f\t%g\t\n", row.Hour, row.Historical, row.Today)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func cmdSearch(ctx context.Context, w io.Writer, be forensics.Searcher, prof profile, args []string) error {
	now := time.Now()
	def := forensics.DefaultsFor(now, prof.HistoricalDays, "", "")

	fset := pflag.NewFlagSet("search", pflag.ContinueOnError)
	var (
		types    = fset.StringSlice("types", []string{string(forensics.HeartBeat), string(forensics.Intruder)}, "image types to search")
		fromDate = fset.String("from-date", def.FromDate, "first day of the search (YYYY-MM-DD)")
		toDate   = fset.String("to-date", def.ToDate, "last day of the search (YYYY-MM-DD)")
		fromTime = fset.String("from-time", def.FromTime, "start of the daily time window (HH:MM)")
		toTime   = fset.String("to-time", def.ToTime, "end of the daily time window (HH:MM)")
	)
	err := fset.Parse(args)
	if err != nil {
		return err
	}

	q := forensics.Query{
		FromDate: *fromDate,
		ToDate:   *toDate,
		FromTime: *fromTime,
		ToTime:   *toTime,
	}
	for _, typ := range *types {
		q.Categories = append(q.Categories, forensics.Category(strings.ToUpper(typ)))
	}

	items, err := forensics.Search(ctx, be, q, now)
	if err != nil {
		return errors.New(forensics.Message(err))
	}

	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "When\tType\tImage\n")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Title, it.Label, it.Src)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d image(s)\n", len(items))
	return nil
}

// remoteEvent is a dashboard user interaction.
type remoteEvent struct {
	Type  string `json:"type"`
	Panel int    `json:"panel"`
	Dir   string `json:"dir,omitempty"`
}

func parseRemote(args []string) (remoteEvent, error) {
	if len(args) != 2 {
		return remoteEvent{}, errors.Errorf("expected tap <panel> or swipe <left|right>")
	}
	switch args[0] {
	case "tap":
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return remoteEvent{}, errors.Wrapf(err, "invalid panel index %q", args[1])
		}
		_, err = panels.Check(n)
		if err != nil {
			return remoteEvent{}, err
		}
		return remoteEvent{Type: "tap", Panel: n}, nil
	case "swipe":
		switch dir := strings.ToLower(args[1]); dir {
		case "left", "right":
			return remoteEvent{Type: "swipe", Dir: dir}, nil
		default:
			return remoteEvent{}, errors.Errorf("invalid swipe direction %q", args[1])
		}
	default:
		return remoteEvent{}, errors.Errorf("invalid remote action %q", args[0])
	}
}

func dataURL(dashboard string) (string, error) {
	u, err := url.Parse(dashboard)
	if err != nil {
		return "", errors.Wrapf(err, "invalid dashboard URL %q", dashboard)
	}
	switch u.Scheme {
	case "http", "ws", "":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.Errorf("invalid dashboard URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/data"
	return u.String(), nil
}

func cmdRemote(ctx context.Context, w io.Writer, prof profile, args []string) error {
	fset := pflag.NewFlagSet("remote", pflag.ContinueOnError)
	idle := fset.Duration("idle", 3*time.Second, "stop printing dashboard messages after this idle delay")
	err := fset.Parse(args)
	if err != nil {
		return err
	}

	ev, err := parseRemote(fset.Args())
	if err != nil {
		return err
	}

	addr, err := dataURL(prof.Dashboard)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return errors.Wrapf(err, "could not dial %s", addr)
	}
	defer conn.Close()

	err = conn.WriteJSON(ev)
	if err != nil {
		return errors.Wrapf(err, "could not send %s event", ev.Type)
	}

	for {
		conn.SetReadDeadline(time.Now().Add(*idle))
		var msg map[string]interface{}
		err := conn.ReadJSON(&msg)
		if err != nil {
			if ne, ok := errors.Cause(err).(interface{ Timeout() bool }); ok && ne.Timeout() {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		fmt.Fprintln(w, summary(msg))
	}
}

// summary formats a dashboard message on one line.
func summary(msg map[string]interface{}) string {
	typ, _ := msg["type"].(string)
	switch typ {
	case "layout":
		return fmt.Sprintf("layout: panel %v", msg["current"])
	case "spinner":
		return fmt.Sprintf("spinner: %v", msg["on"])
	case "chart":
		svg, _ := msg["svg"].(string)
		return fmt.Sprintf("chart: %v (%d bytes)", msg["panel"], len(svg))
	case "alert":
		return fmt.Sprintf("alert: %v", msg["msg"])
	case "heartbeat":
		return fmt.Sprintf("heartbeat: %v", msg["text"])
	case "gallery":
		items, _ := msg["items"].([]interface{})
		return fmt.Sprintf("gallery: %d image(s)", len(items))
	case "forensics-defaults":
		d, _ := msg["defaults"].(map[string]interface{})
		return fmt.Sprintf("forensics: %v %v -> %v %v", d["from_date"], d["from_time"], d["to_date"], d["to_time"])
	default:
		return fmt.Sprintf("%s: %v", typ, msg)
	}
}
