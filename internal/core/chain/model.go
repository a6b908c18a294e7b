// SPDX-License-Identifier: Apache-2.0

// Package chain holds the in-memory chain model: parameters, steps,
// references, and the interpreter/output specs attached to a step.
//
// The model is constructed once per parse and is immutable thereafter;
// nothing in this package mutates a Chain after Parse returns it.
package chain

import (
	"github.com/kusari-oss/chainforge/internal/core/coerce"
)

// Chain is the top-level declarative unit: parameters, steps, results.
type Chain struct {
	Name         string
	Description  string
	TimeoutMs    *int
	Parameters   map[string]Parameter
	Interpreters map[string]InterpreterSpec
	Steps        []StepEntry
	Results      map[string]Reference

	// dupKeys records the paths of repeated keys (e.g. "steps.greet"), as
	// "<mapping>.<key>". The steps mapping is walked node by node rather than
	// decoded into a map, so the decoder checks it for repeats itself; the
	// Validator re-surfaces them as ValidationErrors. Repeats inside mappings
	// that yaml.v3 decodes directly (parameters, interpreters, results, a
	// step's inputs/outputs) are rejected by that decode as a ParseError.
	dupKeys []string
}

// DuplicateKeyPaths returns the mapping paths where the source document
// declared the same key twice, as recorded during decoding.
func (c *Chain) DuplicateKeyPaths() []string {
	return c.dupKeys
}

// StepEntry pairs a step identifier with its Step, preserving the document's
// declaration order (steps.<id> is an ordered mapping, not a sequence, but
// declaration order IS execution order per spec).
type StepEntry struct {
	ID   string
	Step Step
}

// StepByID returns the step with the given id and its zero-based position
// in declaration order.
func (c *Chain) StepByID(id string) (*Step, int, bool) {
	for i := range c.Steps {
		if c.Steps[i].ID == id {
			return &c.Steps[i].Step, i, true
		}
	}
	return nil, -1, false
}

// Parameter is a chain-scoped typed literal, addressable as parameters.<id>.
type Parameter struct {
	Type  coerce.Type `yaml:"type"`
	Value interface{} `yaml:"value"`
}

// Step is a single scripted unit of work.
type Step struct {
	Name      string                `yaml:"name,omitempty"`
	Type      string                `yaml:"type"`
	Script    string                `yaml:"script"`
	TimeoutMs *int                  `yaml:"timeout_ms,omitempty"`
	Inputs    map[string]Reference  `yaml:"-"`
	RawInputs map[string]string     `yaml:"inputs,omitempty"`
	Outputs   map[string]OutputSpec `yaml:"outputs,omitempty"`
}

// OutputSpec is a regex-based extraction rule applied to a step's stdout.
type OutputSpec struct {
	Pattern string      `yaml:"pattern"`
	Type    coerce.Type `yaml:"type"`
}

// InterpreterSpec is an invocation recipe: executable, fixed args, and the
// file extension used for the temporary script file.
type InterpreterSpec struct {
	Key       string   `yaml:"-"`
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args,omitempty"`
	Extension string   `yaml:"extension"`
}

// EffectiveTimeoutMs resolves the timeout that applies to a given step:
// the step's own timeout if set, else the chain's default, else nil
// (unbounded).
func (c *Chain) EffectiveTimeoutMs(step *Step) *int {
	if step.TimeoutMs != nil {
		return step.TimeoutMs
	}
	return c.TimeoutMs
}
