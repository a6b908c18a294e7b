// SPDX-License-Identifier: Apache-2.0

package interpreter_test

import (
	"testing"

	"github.com/kusari-oss/chainforge/internal/core/chain"
	"github.com/kusari-oss/chainforge/internal/core/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsResolvesBuiltins(t *testing.T) {
	r := interpreter.Defaults()

	spec, err := r.Resolve("bash")
	require.NoError(t, err)
	assert.Equal(t, "bash", spec.Command)
	assert.Equal(t, ".sh", spec.Extension)

	spec, err = r.Resolve("pwsh")
	require.NoError(t, err)
	assert.Equal(t, []string{"-NoProfile", "-File"}, spec.Args)
}

func TestResolveUnknownKeyFails(t *testing.T) {
	r := interpreter.Defaults()
	_, err := r.Resolve("ruby")
	assert.Error(t, err)
}

func TestApplyOverridesReplacesDefault(t *testing.T) {
	r := interpreter.Defaults()
	r.ApplyOverrides(map[string]chain.InterpreterSpec{
		"python": {Command: "python3.11"},
	})

	spec, err := r.Resolve("python")
	require.NoError(t, err)
	assert.Equal(t, "python3.11", spec.Command)
	assert.Nil(t, spec.Args)
}

func TestApplyOverridesAddsNewKey(t *testing.T) {
	r := interpreter.Defaults()
	r.ApplyOverrides(map[string]chain.InterpreterSpec{
		"ruby": {Command: "ruby", Extension: ".rb"},
	})

	spec, err := r.Resolve("ruby")
	require.NoError(t, err)
	assert.Equal(t, "ruby", spec.Command)
}
