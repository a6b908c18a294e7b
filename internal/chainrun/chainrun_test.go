// SPDX-License-Identifier: Apache-2.0

package chainrun_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/chainforge/internal/chainrun"
	"github.com/kusari-oss/chainforge/internal/chainrun/executor"
)

const forwardRefDoc = `
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

func TestValidateRejectsForwardReference(t *testing.T) {
	c, err := chainrun.Parse([]byte(forwardRefDoc))
	require.NoError(t, err)

	errs := chainrun.Validate(c)
	require.NotEmpty(t, errs)
}

const echoDoc = `
name: x
steps:
  only:
    type: bash
    script: "echo hi"
`

func TestRunWithScriptedExecutor(t *testing.T) {
	c, err := chainrun.Parse([]byte(echoDoc))
	require.NoError(t, err)
	require.Empty(t, chainrun.Validate(c))

	exec := executor.NewScripted()
	exec.Enqueue(executor.Result{Stdout: "hi\n", ExitCode: 0})

	run := chainrun.Run(context.Background(), c, exec)
	assert.Nil(t, run.Error)
	assert.Equal(t, 1, run.Steps.Len())
}
