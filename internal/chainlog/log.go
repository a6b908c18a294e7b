// SPDX-License-Identifier: Apache-2.0

// Package chainlog provides the structured, component-scoped loggers used
// by the executor and runner, following the pack's zerolog-with-rotating-
// file-sink pattern (Noldarim's internal/logger): a package-level manager
// configured once at CLI startup, with named component loggers handed out
// to callers who never see the underlying sink.
package chainlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	writer io.Writer = os.Stderr
	level            = zerolog.InfoLevel
)

// Configure points every subsequently-created component logger at logFile
// (rotated via lumberjack) instead of stderr, and sets the minimum level.
// Called once by the CLI before a chain runs; library code never calls it.
func Configure(logFile string, lvl zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	if logFile == "" {
		writer = os.Stderr
		return
	}
	writer = &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// Get returns a logger tagged with component, e.g. "executor" or "runner".
func Get(component string) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return zerolog.New(writer).Level(level).With().Timestamp().Str("component", component).Logger()
}
