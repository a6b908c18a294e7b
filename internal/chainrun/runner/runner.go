// SPDX-License-Identifier: Apache-2.0

// Package runner implements the Runner: sequential orchestration of a
// validated chain's steps, generalizing the teacher's StepExecutor loop
// (resolve references into params, run the unit of work, record outputs,
// stop on first failure) from a fixed remediation-plan action model to
// arbitrary scripted interpreter steps.
package runner

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/kusari-oss/chainforge/internal/chainlog"
	"github.com/kusari-oss/chainforge/internal/chainrun/executor"
	"github.com/kusari-oss/chainforge/internal/chainrun/render"
	"github.com/kusari-oss/chainforge/internal/chainrun/result"
	"github.com/kusari-oss/chainforge/internal/core/chain"
	"github.com/kusari-oss/chainforge/internal/core/coerce"
	"github.com/kusari-oss/chainforge/internal/core/interpreter"
	"github.com/kusari-oss/chainforge/internal/core/resolver"
)

// Runner executes one validated chain against an Executor.
type Runner struct {
	exec executor.Executor
	log  zerolog.Logger
}

// New returns a Runner driving exec. Pass executor.NewProcessExecutor() in
// production, an executor.Scripted in tests.
func New(exec executor.Executor) *Runner {
	return &Runner{exec: exec, log: chainlog.Get("runner")}
}

// Run executes c to completion or first failure and returns the full run
// record. c is assumed to have already passed validate.Validate; Run does
// not re-validate.
func (r *Runner) Run(ctx context.Context, c *chain.Chain) *result.ChainRun {
	start := time.Now()

	run := &result.ChainRun{
		Name:  c.Name,
		Steps: result.NewOrderedSteps(),
	}

	table, err := resolver.NewTable(c)
	if err != nil {
		run.Error = result.New(result.ErrUnresolvedReference, err)
		run.DurationMs = time.Since(start).Milliseconds()
		return run
	}

	reg := interpreter.New(c)

	for _, entry := range c.Steps {
		stepRun, outputs, stepErr := r.runStep(ctx, c, reg, table, entry.ID, &entry.Step)
		run.Steps.Set(entry.ID, stepRun)

		if stepErr != nil {
			run.Error = stepErr
			run.DurationMs = time.Since(start).Milliseconds()
			return run
		}

		table.BindStepOutputs(entry.ID, outputs)
	}

	run.Results = make(map[string]interface{}, len(c.Results))
	for name, ref := range c.Results {
		v, err := table.Resolve(ref)
		if err != nil {
			run.Error = result.New(result.ErrUnresolvedReference, err)
			run.DurationMs = time.Since(start).Milliseconds()
			return run
		}
		run.Results[name] = typedJSONValue(v)
	}

	run.DurationMs = time.Since(start).Milliseconds()
	return run
}

// runStep resolves a step's inputs, renders and executes its script, and
// extracts its outputs. It returns the step's run record plus, on success,
// its typed outputs ready for binding into the symbol table.
func (r *Runner) runStep(ctx context.Context, c *chain.Chain, reg *interpreter.Registry, table *resolver.Table, stepID string, step *chain.Step) (*result.StepRun, map[string]coerce.Value, *result.Error) {
	stepRun := &result.StepRun{Name: step.Name}
	log := r.log.With().Str("step_id", stepID).Logger()

	inputs := make(map[string]string, len(step.Inputs))
	for name, ref := range step.Inputs {
		v, err := table.Resolve(ref)
		if err != nil {
			stepRun.Error = result.New(result.ErrUnresolvedReference, err)
			return stepRun, nil, stepRun.Error
		}
		inputs[name] = v.String()
	}

	rendered, err := render.Render(step.Script, inputs)
	if err != nil {
		stepRun.Error = result.New(result.ErrRender, err)
		return stepRun, nil, stepRun.Error
	}

	spec, err := reg.Resolve(step.Type)
	if err != nil {
		stepRun.Error = result.Newf(result.ErrValidation, "step %q: %v", stepID, err)
		return stepRun, nil, stepRun.Error
	}

	timeoutMs := c.EffectiveTimeoutMs(step)
	log.Debug().Str("interpreter", spec.Command).Msg("executing step")

	execResult := r.exec.Execute(ctx, spec, rendered, timeoutMs)
	stepRun.Stdout = execResult.Stdout
	stepRun.Stderr = execResult.Stderr
	stepRun.DurationMs = execResult.DurationMs
	exitCode := execResult.ExitCode
	stepRun.ExitCode = &exitCode

	if execResult.Err != nil {
		stepRun.Error = translateExecError(execResult.Err)
		return stepRun, nil, stepRun.Error
	}
	if execResult.ExitCode != 0 {
		stepRun.Error = result.Newf(result.ErrNonZeroExit, "exited with status %d", execResult.ExitCode)
		return stepRun, nil, stepRun.Error
	}

	outputs, outputsJSON, outErr := extractOutputs(step, execResult.Stdout)
	if outErr != nil {
		stepRun.Error = outErr
		return stepRun, nil, stepRun.Error
	}
	stepRun.Outputs = outputsJSON

	return stepRun, outputs, nil
}

// translateExecError maps an executor.Error's Kind onto the result
// taxonomy's flat {kind, message} shape.
func translateExecError(err error) *result.Error {
	execErr, ok := err.(*executor.Error)
	if !ok {
		return result.New(result.ErrSpawnFailure, err)
	}
	switch execErr.Kind {
	case executor.KindTimeout:
		return &result.Error{Kind: result.ErrTimeout, Message: execErr.Reason}
	case executor.KindNonZeroExit:
		return &result.Error{Kind: result.ErrNonZeroExit, Message: execErr.Reason}
	default:
		return &result.Error{Kind: result.ErrSpawnFailure, Message: execErr.Reason}
	}
}

// extractOutputs applies each OutputSpec's pattern to stdout line-by-line,
// first-match-wins, and coerces the captured group to its declared type.
// Output names are visited in sorted order, not map iteration order, so that
// when more than one output fails, the reported error is deterministic run
// to run.
func extractOutputs(step *chain.Step, stdout string) (map[string]coerce.Value, map[string]interface{}, *result.Error) {
	if len(step.Outputs) == 0 {
		return nil, nil, nil
	}

	lines := splitLines(stdout)
	typed := make(map[string]coerce.Value, len(step.Outputs))
	jsonVals := make(map[string]interface{}, len(step.Outputs))

	names := lo.Keys(step.Outputs)
	sort.Strings(names)

	for _, name := range names {
		spec := step.Outputs[name]
		re := regexp.MustCompile(spec.Pattern)

		var captured string
		found := false
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				captured = m[1]
				found = true
				break
			}
		}
		if !found {
			return nil, nil, result.Newf(result.ErrOutputNotFound, "output %q: no stdout line matched pattern %q", name, spec.Pattern)
		}

		v, err := coerce.Coerce(captured, spec.Type)
		if err != nil {
			return nil, nil, result.Newf(result.ErrOutputTypeMismatch, "output %q: %v", name, err)
		}

		typed[name] = v
		jsonVals[name] = typedJSONValue(v)
	}

	return typed, jsonVals, nil
}

// splitLines splits stdout on newlines without the trailing carriage
// return a Windows-originated interpreter may leave behind.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// typedJSONValue renders a coerce.Value as the Go value encoding/json
// should marshal natively (int64/float64/bool/string/RFC3339 string)
// rather than Value's internal representation.
func typedJSONValue(v coerce.Value) interface{} {
	switch v.Kind {
	case coerce.TypeDatetime:
		return v.String()
	default:
		return v.Raw
	}
}
