// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kusari-oss/chainforge/internal/core/chain"
)

// Scripted is a record/replay Executor double for Runner tests: each call
// to Execute consumes the next queued Result regardless of which step
// invoked it, so a test can assert the Runner's orchestration (ordering,
// fail-stop, output binding) without spawning anything. Built on
// testify's mock.Mock, following the teacher's MockAction shape in
// testutil/mocks.go.
type Scripted struct {
	mock.Mock
	calls []chain.InterpreterSpec
}

// NewScripted returns an empty Scripted executor; use On/Return (from
// mock.Mock) or Enqueue to script responses.
func NewScripted() *Scripted {
	return &Scripted{}
}

// Enqueue is a convenience over mock.Mock's On/Return for the common case
// of "the Nth call to Execute returns this Result", matched by call count
// rather than by argument values.
func (s *Scripted) Enqueue(results ...Result) {
	for _, r := range results {
		s.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(r).Once()
	}
}

// Execute implements Executor by delegating to the embedded mock.Mock.
func (s *Scripted) Execute(ctx context.Context, spec chain.InterpreterSpec, scriptBody string, timeoutMs *int) Result {
	s.calls = append(s.calls, spec)
	args := s.Called(ctx, spec, scriptBody, timeoutMs)
	return args.Get(0).(Result)
}

// Calls returns the InterpreterSpec passed on every Execute call so far, in
// call order, letting a test assert which interpreter each step resolved.
func (s *Scripted) Calls() []chain.InterpreterSpec {
	return s.calls
}
