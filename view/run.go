// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"log/slog"
	"os"

	"zenithui.org/zenith/base/logx"
	"zenithui.org/zenith/ipc"
)

// Init must be the first call in main of every Zenith app. When the
// process was spawned as a view process (both [ipc.ServerEnv] and
// [ipc.ModeEnv] are set) it runs the view loop and exits, never
// returning to the caller's main.
func Init() {
	addr := os.Getenv(ipc.ServerEnv)
	mode := os.Getenv(ipc.ModeEnv)
	if addr == "" || mode == "" {
		return
	}
	logx.Init()
	if mode != "headless" && mode != "headed" {
		slog.Error("unknown view mode", "mode", mode)
		os.Exit(1)
	}
	if mode == "headed" {
		// no windowing backend is linked in this build; headed mode
		// serves the same software path
		slog.Debug("headed mode requested, serving with the software backend")
	}
	opts, err := LoadOptions()
	if err != nil {
		logx.Error(err)
	}
	ch, err := ipc.Dial(addr)
	if err != nil {
		logx.Error(err)
		os.Exit(1)
	}
	srv := NewServer(ch, opts)
	err = srv.Run()
	slog.Info("view process exiting", "err", err)
	os.Exit(0)
}

// Serve runs a view server over already-connected channels on the
// calling goroutine. It is used by same-process view mode and tests.
func Serve(ch *ipc.Channels, opts Options) error {
	return NewServer(ch, opts).Run()
}

// SameProcessStarter returns an [ipc.Starter] that runs the view server
// on a goroutine inside the app process instead of spawning a child
// process. Headless tests and the same-process debug mode use it.
func SameProcessStarter(opts Options) ipc.Starter {
	return func(addr string) (func(), error) {
		ch, err := ipc.Dial(addr)
		if err != nil {
			return nil, err
		}
		go Serve(ch, opts)
		return func() { ch.Close() }, nil
	}
}

// ProcessStarter returns an [ipc.Starter] that re-executes the current
// binary as a view process in the given mode ("headed" or "headless").
// [Init] in the child's main takes over.
func ProcessStarter(mode string) ipc.Starter {
	return func(addr string) (func(), error) {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		attr := &os.ProcAttr{
			Env: append(os.Environ(),
				ipc.ServerEnv+"="+addr,
				ipc.ModeEnv+"="+mode,
			),
			Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
		}
		proc, err := os.StartProcess(exe, []string{exe}, attr)
		if err != nil {
			return nil, err
		}
		go proc.Wait()
		return func() { proc.Kill() }, nil
	}
}
