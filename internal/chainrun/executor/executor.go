// SPDX-License-Identifier: Apache-2.0

// Package executor implements the Executor seam: the abstract contract a
// process-spawning default and a scripted test double both satisfy, so the
// Runner's orchestration logic can be exercised without ever touching the
// filesystem or spawning a real interpreter.
package executor

import (
	"context"

	"github.com/kusari-oss/chainforge/internal/core/chain"
)

// Result is one step's captured process behavior.
type Result struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
	Err        error
}

// Kind classifies why Execute's Err was set, distinguishing spawn failure,
// timeout, and non-zero exit from each other for the Runner to translate
// into the result taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindSpawnFailure
	KindTimeout
	KindNonZeroExit
)

// Error wraps an executor-observed failure with its Kind.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// Executor runs one interpreter invocation against a rendered script body.
// Implementations must be safe to reuse across steps within a single run;
// the Runner calls Execute sequentially, never concurrently.
type Executor interface {
	Execute(ctx context.Context, spec chain.InterpreterSpec, scriptBody string, timeoutMs *int) Result
}
