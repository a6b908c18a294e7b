// SPDX-License-Identifier: Apache-2.0

// Package resolver implements the Reference Resolver: a pure lookup over a
// run-scoped symbol table of evaluated parameters and completed steps'
// outputs. It has no file-system or process-spawning concerns of its own;
// the Runner owns populating the table as a run progresses.
package resolver

import (
	"fmt"

	"github.com/kusari-oss/chainforge/internal/core/chain"
	"github.com/kusari-oss/chainforge/internal/core/coerce"
)

// UnresolvedReferenceError is the runtime counterpart of the Validator's
// static reference checks: it should be unreachable for a chain that passed
// validate.Validate, and its presence at run time indicates a resolver/
// validator drift rather than a malformed document.
type UnresolvedReferenceError struct {
	Ref chain.Reference
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q", e.Ref.Raw)
}

// stepOutputs holds the typed values a single step produced, keyed by
// output name.
type stepOutputs map[string]coerce.Value

// Table is the run-scoped symbol table: parameters fixed at run start, plus
// the outputs of every step that has completed so far. It is built
// incrementally in step declaration order as the Runner executes each step.
type Table struct {
	parameters map[string]coerce.Value
	steps      map[string]stepOutputs
}

// NewTable evaluates a chain's parameter literals into an empty symbol
// table with no completed steps.
func NewTable(c *chain.Chain) (*Table, error) {
	params := make(map[string]coerce.Value, len(c.Parameters))
	for name, p := range c.Parameters {
		v, err := coerce.FromAny(p.Value, p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		params[name] = v
	}
	return &Table{parameters: params, steps: make(map[string]stepOutputs)}, nil
}

// BindStepOutputs records the completed outputs of a step, making them
// resolvable by later steps' Reference lookups.
func (t *Table) BindStepOutputs(stepID string, outputs map[string]coerce.Value) {
	bound := make(stepOutputs, len(outputs))
	for name, v := range outputs {
		bound[name] = v
	}
	t.steps[stepID] = bound
}

// Resolve looks up the value addressed by ref. It is the sole place a
// Reference becomes a concrete coerce.Value during a run.
func (t *Table) Resolve(ref chain.Reference) (coerce.Value, error) {
	switch ref.Kind {
	case chain.RefParameter:
		v, ok := t.parameters[ref.ParamName]
		if !ok {
			return coerce.Value{}, &UnresolvedReferenceError{Ref: ref}
		}
		return v, nil

	case chain.RefStepOutput:
		outputs, ok := t.steps[ref.StepID]
		if !ok {
			return coerce.Value{}, &UnresolvedReferenceError{Ref: ref}
		}
		v, ok := outputs[ref.OutputName]
		if !ok {
			return coerce.Value{}, &UnresolvedReferenceError{Ref: ref}
		}
		return v, nil

	default:
		return coerce.Value{}, &UnresolvedReferenceError{Ref: ref}
	}
}
