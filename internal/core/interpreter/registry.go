// SPDX-License-Identifier: Apache-2.0

// Package interpreter implements the Interpreter Registry: it translates a
// step's "type" key into a concrete invocation recipe, following the same
// register/override shape as the teacher's action.Factory.
package interpreter

import (
	"fmt"
	"runtime"

	"github.com/kusari-oss/chainforge/internal/core/chain"
)

// Registry resolves interpreter keys to InterpreterSpecs. It is pure data:
// Defaults() seeds the built-in table, and chain-declared interpreters
// override by key.
type Registry struct {
	specs map[string]chain.InterpreterSpec
}

// Defaults returns a Registry pre-populated with the built-in interpreters
// from spec.md section 4.1.
func Defaults() *Registry {
	pythonCmd := "python3"
	if runtime.GOOS == "windows" {
		pythonCmd = "python"
	}

	r := &Registry{specs: make(map[string]chain.InterpreterSpec)}
	r.register(chain.InterpreterSpec{Key: "bash", Command: "bash", Args: nil, Extension: ".sh"})
	r.register(chain.InterpreterSpec{Key: "python", Command: pythonCmd, Args: nil, Extension: ".py"})
	r.register(chain.InterpreterSpec{Key: "pwsh", Command: "pwsh", Args: []string{"-NoProfile", "-File"}, Extension: ".ps1"})
	r.register(chain.InterpreterSpec{Key: "powershell", Command: "powershell", Args: []string{"-NoProfile", "-File"}, Extension: ".ps1"})
	r.register(chain.InterpreterSpec{Key: "batch", Command: "cmd", Args: []string{"/C"}, Extension: ".bat"})
	return r
}

func (r *Registry) register(spec chain.InterpreterSpec) {
	r.specs[spec.Key] = spec
}

// ApplyOverrides replaces or adds entries from a chain's declared
// "interpreters" mapping. A chain-declared entry fully replaces the default
// for that key; it does not merge field-by-field.
func (r *Registry) ApplyOverrides(overrides map[string]chain.InterpreterSpec) {
	for key, spec := range overrides {
		spec.Key = key
		r.register(spec)
	}
}

// Resolve returns the InterpreterSpec registered for key, or an error if
// the key is unknown to this registry (i.e. neither a default nor a
// chain-declared override).
func (r *Registry) Resolve(key string) (chain.InterpreterSpec, error) {
	spec, ok := r.specs[key]
	if !ok {
		return chain.InterpreterSpec{}, fmt.Errorf("unknown interpreter %q", key)
	}
	return spec, nil
}

// New builds a Registry for a chain: defaults overridden by the chain's own
// "interpreters" declarations.
func New(c *chain.Chain) *Registry {
	r := Defaults()
	r.ApplyOverrides(c.Interpreters)
	return r
}
