// SPDX-License-Identifier: Apache-2.0

// Package validate implements the Validator: a closed, ordered set of
// structural and semantic checks a Chain must pass before it is eligible to
// run. Validation is fatal and all-or-nothing — there is no partial-chain
// run, matching the teacher's schema.Validator shape of collecting every
// finding rather than stopping at the first.
package validate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/samber/lo"

	"github.com/kusari-oss/chainforge/internal/core/chain"
	"github.com/kusari-oss/chainforge/internal/core/coerce"
	"github.com/kusari-oss/chainforge/internal/core/interpreter"
)

// Kind classifies why a ValidationError fired.
type Kind string

const (
	KindBadIdentifier      Kind = "bad_identifier"
	KindUnknownInterpreter Kind = "unknown_interpreter"
	KindDuplicateKey       Kind = "duplicate_key"
	KindUnresolvedRef      Kind = "unresolved_reference"
	KindForwardReference   Kind = "forward_reference"
	KindBadRegex           Kind = "bad_regex"
	KindBadLiteral         Kind = "bad_literal"
	KindNonPositiveTimeout Kind = "non_positive_timeout"
	KindEmptyScript        Kind = "empty_script"
)

// Error reports a single validation failure at a specific path in the chain
// document.
type Error struct {
	Kind    Kind
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Kind)
}

// identifierPattern is spec.md's shared identifier grammar, applied to every
// key the document declares: the chain name, parameter/step/output/input/
// interpreter/result keys.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Validate runs every check against c and returns the complete, ordered list
// of failures. A nil/empty return means c is safe to run.
func Validate(c *chain.Chain) []*Error {
	var errs []*Error

	errs = append(errs, checkIdentifiers(c)...)
	errs = append(errs, checkDuplicateKeys(c)...)
	errs = append(errs, checkInterpreters(c)...)
	errs = append(errs, checkScripts(c)...)
	errs = append(errs, checkOutputPatterns(c)...)
	errs = append(errs, checkReferences(c)...)
	errs = append(errs, checkParameterLiterals(c)...)
	errs = append(errs, checkTimeouts(c)...)

	return errs
}

func badIdentifier(path, value string) *Error {
	return &Error{Kind: KindBadIdentifier, Path: path, Message: fmt.Sprintf("%q is not a valid identifier", value)}
}

func checkIdentifiers(c *chain.Chain) []*Error {
	var errs []*Error

	if c.Name != "" && !identifierPattern.MatchString(c.Name) {
		errs = append(errs, badIdentifier("name", c.Name))
	}

	for _, key := range lo.Keys(c.Parameters) {
		if !identifierPattern.MatchString(key) {
			errs = append(errs, badIdentifier(fmt.Sprintf("parameters.%s", key), key))
		}
	}

	for _, key := range lo.Keys(c.Interpreters) {
		if !identifierPattern.MatchString(key) {
			errs = append(errs, badIdentifier(fmt.Sprintf("interpreters.%s", key), key))
		}
	}

	for _, entry := range c.Steps {
		stepPath := fmt.Sprintf("steps.%s", entry.ID)
		if !identifierPattern.MatchString(entry.ID) {
			errs = append(errs, badIdentifier(stepPath, entry.ID))
		}
		for name := range entry.Step.Inputs {
			if !identifierPattern.MatchString(name) {
				errs = append(errs, badIdentifier(fmt.Sprintf("%s.inputs.%s", stepPath, name), name))
			}
		}
		for name := range entry.Step.Outputs {
			if !identifierPattern.MatchString(name) {
				errs = append(errs, badIdentifier(fmt.Sprintf("%s.outputs.%s", stepPath, name), name))
			}
		}
	}

	for key := range c.Results {
		if !identifierPattern.MatchString(key) {
			errs = append(errs, badIdentifier(fmt.Sprintf("results.%s", key), key))
		}
	}

	return sortErrors(errs)
}

// checkDuplicateKeys re-asserts, as ValidationErrors, the duplicate mapping
// keys the decoder already detected while the raw document's key order was
// still available to it.
func checkDuplicateKeys(c *chain.Chain) []*Error {
	var errs []*Error
	for _, path := range lo.Uniq(c.DuplicateKeyPaths()) {
		errs = append(errs, &Error{Kind: KindDuplicateKey, Path: path, Message: "key declared more than once"})
	}
	return sortErrors(errs)
}

func checkInterpreters(c *chain.Chain) []*Error {
	reg := interpreter.New(c)
	var errs []*Error
	for _, entry := range c.Steps {
		if _, err := reg.Resolve(entry.Step.Type); err != nil {
			errs = append(errs, &Error{
				Kind:    KindUnknownInterpreter,
				Path:    fmt.Sprintf("steps.%s.type", entry.ID),
				Message: err.Error(),
			})
		}
	}
	return errs
}

func checkScripts(c *chain.Chain) []*Error {
	var errs []*Error
	for _, entry := range c.Steps {
		if trimmedEmpty(entry.Step.Script) {
			errs = append(errs, &Error{
				Kind:    KindEmptyScript,
				Path:    fmt.Sprintf("steps.%s.script", entry.ID),
				Message: "script must not be empty",
			})
		}
	}
	return errs
}

func trimmedEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func checkOutputPatterns(c *chain.Chain) []*Error {
	var errs []*Error
	for _, entry := range c.Steps {
		for name, spec := range entry.Step.Outputs {
			path := fmt.Sprintf("steps.%s.outputs.%s.pattern", entry.ID, name)
			re, err := regexp.Compile(spec.Pattern)
			if err != nil {
				errs = append(errs, &Error{Kind: KindBadRegex, Path: path, Message: err.Error()})
				continue
			}
			if re.NumSubexp() != 1 {
				errs = append(errs, &Error{
					Kind:    KindBadRegex,
					Path:    path,
					Message: fmt.Sprintf("pattern must have exactly one capture group, has %d", re.NumSubexp()),
				})
			}
			if !coerce.ValidType(spec.Type) {
				errs = append(errs, &Error{
					Kind:    KindBadLiteral,
					Path:    fmt.Sprintf("steps.%s.outputs.%s.type", entry.ID, name),
					Message: fmt.Sprintf("unknown type %q", spec.Type),
				})
			}
		}
	}
	return errs
}

// checkReferences validates every Reference in the chain: step inputs and
// declared results. A parameters.X reference must name a declared parameter.
// A steps.S.outputs.O reference must name a step declared strictly earlier
// than the referencing step (forward and self references are rejected) with
// O among that step's declared outputs. Result references may point to any
// step's declared output regardless of position, since results are read
// only after every step has run.
func checkReferences(c *chain.Chain) []*Error {
	var errs []*Error

	position := make(map[string]int, len(c.Steps))
	for i, entry := range c.Steps {
		position[entry.ID] = i
	}

	checkRef := func(path string, ref chain.Reference, referrerPos int) *Error {
		switch ref.Kind {
		case chain.RefParameter:
			if _, ok := c.Parameters[ref.ParamName]; !ok {
				return &Error{Kind: KindUnresolvedRef, Path: path, Message: fmt.Sprintf("unknown parameter %q", ref.ParamName)}
			}
			return nil

		case chain.RefStepOutput:
			pos, ok := position[ref.StepID]
			if !ok {
				return &Error{Kind: KindUnresolvedRef, Path: path, Message: fmt.Sprintf("unknown step %q", ref.StepID)}
			}
			if referrerPos >= 0 && pos >= referrerPos {
				return &Error{Kind: KindForwardReference, Path: path, Message: fmt.Sprintf("step %q is not declared before its referrer", ref.StepID)}
			}
			step, _, _ := c.StepByID(ref.StepID)
			if _, ok := step.Outputs[ref.OutputName]; !ok {
				return &Error{Kind: KindUnresolvedRef, Path: path, Message: fmt.Sprintf("step %q has no output %q", ref.StepID, ref.OutputName)}
			}
			return nil

		default:
			return &Error{Kind: KindUnresolvedRef, Path: path, Message: "malformed reference"}
		}
	}

	for i, entry := range c.Steps {
		for name, ref := range entry.Step.Inputs {
			path := fmt.Sprintf("steps.%s.inputs.%s", entry.ID, name)
			if err := checkRef(path, ref, i); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for name, ref := range c.Results {
		path := fmt.Sprintf("results.%s", name)
		if err := checkRef(path, ref, -1); err != nil {
			errs = append(errs, err)
		}
	}

	return sortErrors(errs)
}

func checkParameterLiterals(c *chain.Chain) []*Error {
	var errs []*Error
	for name, p := range c.Parameters {
		path := fmt.Sprintf("parameters.%s", name)
		if !coerce.ValidType(p.Type) {
			errs = append(errs, &Error{Kind: KindBadLiteral, Path: path + ".type", Message: fmt.Sprintf("unknown type %q", p.Type)})
			continue
		}
		if _, err := coerce.FromAny(p.Value, p.Type); err != nil {
			errs = append(errs, &Error{Kind: KindBadLiteral, Path: path + ".value", Message: err.Error()})
		}
	}
	return sortErrors(errs)
}

func checkTimeouts(c *chain.Chain) []*Error {
	var errs []*Error
	if c.TimeoutMs != nil && *c.TimeoutMs <= 0 {
		errs = append(errs, &Error{Kind: KindNonPositiveTimeout, Path: "timeout_ms", Message: "chain-level timeout_ms must be positive"})
	}
	for _, entry := range c.Steps {
		if entry.Step.TimeoutMs != nil && *entry.Step.TimeoutMs <= 0 {
			errs = append(errs, &Error{
				Kind:    KindNonPositiveTimeout,
				Path:    fmt.Sprintf("steps.%s.timeout_ms", entry.ID),
				Message: "step timeout_ms must be positive",
			})
		}
	}
	return errs
}

// sortErrors orders map-keyed findings by path so Validate's output is
// deterministic despite Go's randomized map iteration.
func sortErrors(errs []*Error) []*Error {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return errs
}
