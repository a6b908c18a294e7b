// SPDX-License-Identifier: Apache-2.0

// Package result defines the JSON-shaped run record a chain produces:
// ChainRun, StepRun, and the flat error taxonomy carried in both. The shape
// mirrors section 6 of the kernel's external-interfaces contract exactly,
// in the teacher's models.go style of plain exported structs with json
// tags and no behavior beyond construction helpers.
package result

import (
	"encoding/json"
	"fmt"
)

// ErrorKind enumerates the taxonomy surfaced as strings in the output
// document.
type ErrorKind string

const (
	ErrParse               ErrorKind = "ParseError"
	ErrValidation           ErrorKind = "ValidationError"
	ErrRender               ErrorKind = "RenderError"
	ErrSpawnFailure         ErrorKind = "SpawnFailure"
	ErrTimeout              ErrorKind = "Timeout"
	ErrNonZeroExit          ErrorKind = "NonZeroExit"
	ErrOutputNotFound       ErrorKind = "OutputNotFound"
	ErrOutputTypeMismatch   ErrorKind = "OutputTypeMismatch"
	ErrUnresolvedReference  ErrorKind = "UnresolvedReference"
)

// Error is the flat {kind, message} shape embedded wherever the run record
// reports a failure.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// New wraps an error into the taxonomy's flat shape.
func New(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error()}
}

// Newf wraps a formatted message.
func Newf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StepRun records one executed step's observable behavior.
type StepRun struct {
	Name       string                 `json:"name"`
	Stdout     string                 `json:"stdout"`
	Stderr     string                 `json:"stderr"`
	ExitCode   *int                   `json:"exit_code"`
	DurationMs int64                  `json:"duration_ms"`
	Outputs    map[string]interface{} `json:"outputs"`
	Error      *Error                 `json:"error"`
}

// ChainRun is the top-level run record returned by Run/RunFile.
type ChainRun struct {
	Name       string                 `json:"name"`
	DurationMs int64                  `json:"duration_ms"`
	Steps      *OrderedSteps          `json:"steps"`
	Results    map[string]interface{} `json:"results"`
	Error      *Error                 `json:"error"`
}

// OrderedSteps preserves step insertion order through JSON encoding, since
// Go's map type (and encoding/json's object-key sort) would otherwise lose
// the execution order spec.md requires steps to retain.
type OrderedSteps struct {
	order []string
	byID  map[string]*StepRun
}

// NewOrderedSteps returns an empty, order-tracking step map.
func NewOrderedSteps() *OrderedSteps {
	return &OrderedSteps{byID: make(map[string]*StepRun)}
}

// Set appends id to the recorded order (if new) and stores run.
func (s *OrderedSteps) Set(id string, run *StepRun) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = run
}

// Len reports how many steps have been recorded.
func (s *OrderedSteps) Len() int {
	return len(s.order)
}

// MarshalJSON renders the steps as a JSON object whose key order matches
// insertion order, using json.RawMessage segments assembled by hand since
// encoding/json otherwise sorts map keys lexically.
func (s *OrderedSteps) MarshalJSON() ([]byte, error) {
	buf := []byte("{")
	for i, id := range s.order {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.byID[id])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}
