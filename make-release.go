// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var targets = []struct {
	goarch string
	goarm  string
}{
	{"arm", "7"},
	{"arm64", ""},
}

func main() {
	log.SetPrefix("release: ")
	log.SetFlags(0)

	dst := flag.String("dst", "", "scp destination of the release directory (e.g. pi@third-eye.lan:releases/)")

	flag.Parse()

	tag := version()
	if flag.NArg() > 0 {
		tag = flag.Arg(0)
	}

	dir := filepath.Join(".", "releases", tag)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		log.Fatal(err)
	}

	for _, cmd := range []string{".", "./eye-cli"} {
		name := filepath.Base(cmd)
		if cmd == "." {
			name = "eye-mon"
		}
		for _, tgt := range targets {
			oname := filepath.Join(dir, fmt.Sprintf("%s-linux-%s%s.exe", name, tgt.goarch, tgt.goarm))
			log.Printf("create %s executable for linux/%s... version=%q", name, tgt.goarch, tag)
			build(cmd, oname, tag, tgt.goarch, tgt.goarm)
		}
	}
	log.Printf("releases in %q... [done]", dir)

	if *dst == "" {
		return
	}
	log.Printf("xfer %q to %s...", dir, *dst)
	run("scp", "-r", dir, *dst)
}

func build(pkg, oname, tag, goarch, goarm string) {
	cmd := exec.Command("go",
		"build", "-v",
		"-ldflags", fmt.Sprintf("-X main.Version=%s", tag),
		"-o", oname,
		pkg,
	)
	cmd.Env = append(os.Environ(),
		"GOOS=linux",
		"GOARCH="+goarch,
		"CGO_ENABLED=0",
	)
	if goarm != "" {
		cmd.Env = append(cmd.Env, "GOARM="+goarm)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		log.Fatal(err)
	}

	err = os.Chmod(oname, 0755)
	if err != nil {
		log.Fatal(err)
	}
}

func run(cmd string, args ...string) {
	c := exec.Command(cmd, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	err := c.Run()
	if err != nil {
		log.Fatal(err)
	}
}

func version() string {
	tag, err := exec.Command("git", "describe", "--tags", "--always", "HEAD").Output()
	if err == nil {
		return strings.Trim(string(tag), "\n")
	}

	rev, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		log.Fatalf("could not retrieve current git revision: %v", err)
	}

	return strings.Trim(string(rev), "\n")
}
