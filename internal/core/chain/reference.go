// SPDX-License-Identifier: Apache-2.0

package chain

import (
	"fmt"
	"strings"
)

// ReferenceKind distinguishes the two addressable locations a Reference may
// point to.
type ReferenceKind int

const (
	// RefParameter addresses parameters.<id>.
	RefParameter ReferenceKind = iota
	// RefStepOutput addresses steps.<step_id>.outputs.<output_id>.
	RefStepOutput
)

// Reference is a path expression, either "parameters.X" or
// "steps.S.outputs.O".
type Reference struct {
	Kind       ReferenceKind
	Raw        string
	ParamName  string
	StepID     string
	OutputName string
}

// ParseReference parses a reference path expression. It does not resolve
// whether the referenced parameter or step/output actually exists; that is
// the Validator's job.
func ParseReference(raw string) (Reference, error) {
	parts := strings.Split(raw, ".")

	if len(parts) == 2 && parts[0] == "parameters" {
		return Reference{Kind: RefParameter, Raw: raw, ParamName: parts[1]}, nil
	}

	if len(parts) == 4 && parts[0] == "steps" && parts[2] == "outputs" {
		return Reference{Kind: RefStepOutput, Raw: raw, StepID: parts[1], OutputName: parts[3]}, nil
	}

	return Reference{}, fmt.Errorf("invalid reference %q: want \"parameters.<id>\" or \"steps.<id>.outputs.<id>\"", raw)
}

func (r Reference) String() string {
	return r.Raw
}
