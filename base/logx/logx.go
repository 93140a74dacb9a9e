// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx configures structured logging for Zenith processes.
// Both the app process and the view process call [Init] once at startup;
// everything else logs through the standard [log/slog] package.
package logx

import (
	"context"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	slogmulti "github.com/samber/slog-multi"
)

// UserLevel is the verbosity level the user has selected; messages below
// it are dropped. The default is [slog.LevelWarn]; command-line frontends
// typically map -v to Info and -vv to Debug.
var UserLevel = slog.LevelWarn

// levelVar backs UserLevel so that changes after Init take effect.
var levelVar slog.LevelVar

// SetUserLevel sets [UserLevel] and applies it to the active handlers.
func SetUserLevel(l slog.Level) {
	UserLevel = l
	levelVar.Set(l)
}

// Init sets the process-wide default logger to a console handler on
// stderr fanned out to any extra handlers (e.g. a file handler or an IPC
// forwarder). Colors are used when stderr supports them.
func Init(extra ...slog.Handler) {
	levelVar.Set(UserLevel)
	console := newConsoleHandler(&levelVar)
	if len(extra) == 0 {
		slog.SetDefault(slog.New(console))
		return
	}
	hs := append([]slog.Handler{console}, extra...)
	slog.SetDefault(slog.New(slogmulti.Fanout(hs...)))
}

func newConsoleHandler(level slog.Leveler) slog.Handler {
	profile := termenv.NewOutput(os.Stderr).ColorProfile()
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || profile == termenv.Ascii {
				return a
			}
			if l, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(colorLevel(profile, l))
			}
			return a
		},
	})
}

func colorLevel(profile termenv.Profile, l slog.Level) string {
	var color string
	switch {
	case l >= slog.LevelError:
		color = "9" // red
	case l >= slog.LevelWarn:
		color = "11" // yellow
	case l >= slog.LevelInfo:
		color = "12" // blue
	default:
		color = "8" // gray
	}
	return termenv.String(l.String()).Foreground(profile.Color(color)).String()
}

// Error logs a non-nil error at the error level and passes it through,
// so call sites can both log and return in one expression.
func Error(err error, args ...any) error {
	if err != nil {
		slog.Error(err.Error(), args...)
	}
	return err
}

// Recover logs a recovered panic value at the error level. Call in a
// deferred function together with recover:
//
//	defer func() { logx.Recover(recover()) }()
func Recover(r any, args ...any) {
	if r == nil {
		return
	}
	slog.Error("panic recovered", append([]any{"panic", r}, args...)...)
}

// Enabled reports whether the given level would be logged.
func Enabled(l slog.Level) bool {
	return slog.Default().Enabled(context.Background(), l)
}
