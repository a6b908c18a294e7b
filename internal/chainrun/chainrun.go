// SPDX-License-Identifier: Apache-2.0

// Package chainrun is the programmatic surface external collaborators call:
// Parse, Validate, Run, and the RunFile convenience that chains all three
// together, generalizing the teacher's darnit package (LoadPlanFile +
// ExecutePlan) from a two-step load/execute split into the kernel's
// parse/validate/run pipeline.
package chainrun

import (
	"context"
	"fmt"
	"os"

	"github.com/kusari-oss/chainforge/internal/chainrun/executor"
	"github.com/kusari-oss/chainforge/internal/chainrun/result"
	"github.com/kusari-oss/chainforge/internal/chainrun/runner"
	"github.com/kusari-oss/chainforge/internal/core/chain"
	"github.com/kusari-oss/chainforge/internal/core/validate"
)

// Parse decodes a chain document (YAML or JSON shaped).
func Parse(document []byte) (*chain.Chain, error) {
	return chain.Parse(document)
}

// Validate runs every static check against c. A nil/empty return means c is
// safe to run.
func Validate(c *chain.Chain) []*validate.Error {
	return validate.Validate(c)
}

// Run executes c against exec (pass nil for the default process-spawning
// Executor) and returns the full run record. c must already have passed
// Validate; Run does not re-validate.
func Run(ctx context.Context, c *chain.Chain, exec executor.Executor) *result.ChainRun {
	if exec == nil {
		exec = executor.NewProcessExecutor()
	}
	return runner.New(exec).Run(ctx, c)
}

// RunFile reads path, parses and validates it, and runs it to completion.
// It is the convenience entry point spec.md's external-interfaces section
// describes: read file, parse, validate, run.
func RunFile(ctx context.Context, path string) (*result.ChainRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing chain file: %w", err)
	}

	if errs := Validate(c); len(errs) > 0 {
		return nil, &ValidationFailure{Errors: errs}
	}

	return Run(ctx, c, nil), nil
}

// ValidationFailure collects every static validation error found for a
// chain that failed Validate; RunFile returns this instead of attempting a
// partial run.
type ValidationFailure struct {
	Errors []*validate.Error
}

func (e *ValidationFailure) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors, first: %s", len(e.Errors), e.Errors[0].Error())
}
