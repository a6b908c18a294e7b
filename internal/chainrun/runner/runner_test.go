// SPDX-License-Identifier: Apache-2.0

package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/chainforge/internal/chainrun/executor"
	"github.com/kusari-oss/chainforge/internal/chainrun/runner"
	"github.com/kusari-oss/chainforge/internal/core/chain"
)

const greetingChain = `
name: greeting-chain
parameters:
  username:
    type: string
    value: World
  greeting_count:
    type: int
    value: 42
  is_formal:
    type: bool
    value: true
steps:
  greet:
    type: python
    script: "print('Good day, {{ inputs.who }}!')"
    inputs:
      who: parameters.username
    outputs:
      greeting:
        pattern: "^(Good day, .*)$"
  confirm:
    type: bash
    script: "echo {{ inputs.formal }}"
    inputs:
      formal: parameters.is_formal
    outputs:
      confirmed:
        pattern: "^(true|false)$"
results:
  greeting: steps.greet.outputs.greeting
  confirmed: steps.confirm.outputs.confirmed
`

func parse(t *testing.T, doc string) *chain.Chain {
	t.Helper()
	c, err := chain.Parse([]byte(doc))
	require.NoError(t, err)
	return c
}

func TestRunnerTwoStepGreeting(t *testing.T) {
	c := parse(t, greetingChain)

	exec := executor.NewScripted()
	exec.Enqueue(
		executor.Result{Stdout: "Good day, World!\n", ExitCode: 0},
		executor.Result{Stdout: "true\n", ExitCode: 0},
	)

	run := runner.New(exec).Run(context.Background(), c)

	require.Nil(t, run.Error)
	assert.Equal(t, 2, run.Steps.Len())
	assert.Equal(t, "Good day, World!", run.Results["greeting"])
	assert.Equal(t, "true", run.Results["confirmed"])
}

const forwardRefChain = `
name: x
steps:
  a:
    type: bash
    script: "echo {{ inputs.v }}"
    inputs:
      v: steps.b.outputs.x
  b:
    type: bash
    script: "echo hi"
    outputs:
      x:
        pattern: "^(.*)$"
`

func TestRunnerFailStopOnUnresolvedReference(t *testing.T) {
	c := parse(t, forwardRefChain)
	exec := executor.NewScripted()

	run := runner.New(exec).Run(context.Background(), c)

	require.NotNil(t, run.Error)
	assert.Equal(t, 1, run.Steps.Len())
}

const timeoutChain = `
name: x
steps:
  only:
    type: bash
    script: "sleep 5"
    timeout_ms: 100
`

func TestRunnerRecordsTimeout(t *testing.T) {
	c := parse(t, timeoutChain)
	exec := executor.NewScripted()
	exec.Enqueue(executor.Result{
		Err: &executor.Error{Kind: executor.KindTimeout, Reason: "step exceeded its effective timeout"},
	})

	run := runner.New(exec).Run(context.Background(), c)

	require.NotNil(t, run.Error)
	assert.Equal(t, "Timeout", string(run.Error.Kind))
	assert.Less(t, run.DurationMs, int64(2000))
}

const outputNotFoundChain = `
name: x
steps:
  only:
    type: bash
    script: "echo hello"
    outputs:
      o:
        pattern: "^RESULT=(.*)$"
  after:
    type: bash
    script: "echo never"
`

func TestRunnerOutputNotFoundHaltsChain(t *testing.T) {
	c := parse(t, outputNotFoundChain)
	exec := executor.NewScripted()
	exec.Enqueue(executor.Result{Stdout: "hello\n", ExitCode: 0})

	run := runner.New(exec).Run(context.Background(), c)

	require.NotNil(t, run.Error)
	assert.Equal(t, "OutputNotFound", string(run.Error.Kind))
	assert.Equal(t, 1, run.Steps.Len())
}

const typeCoercionChain = `
name: x
steps:
  only:
    type: bash
    script: "echo COUNT=7"
    outputs:
      n:
        pattern: "COUNT=(\\d+)"
        type: int
results:
  n: steps.only.outputs.n
`

func TestRunnerCoercesOutputType(t *testing.T) {
	c := parse(t, typeCoercionChain)
	exec := executor.NewScripted()
	exec.Enqueue(executor.Result{Stdout: "COUNT=7\n", ExitCode: 0})

	run := runner.New(exec).Run(context.Background(), c)

	require.Nil(t, run.Error)
	assert.Equal(t, int64(7), run.Results["n"])
}
