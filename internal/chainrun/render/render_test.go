// SPDX-License-Identifier: Apache-2.0

package render_test

import (
	"testing"

	"github.com/kusari-oss/chainforge/internal/chainrun/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesTightAndSpacedPlaceholders(t *testing.T) {
	out, err := render.Render(`print("{{inputs.name}}: {{ inputs.count }}")`, map[string]string{
		"name":  "Ada",
		"count": "3",
	})
	require.NoError(t, err)
	assert.Equal(t, `print("Ada: 3")`, out)
}

func TestRenderRejectsUnknownPlaceholder(t *testing.T) {
	_, err := render.Render(`echo {{ inputs.missing }}`, map[string]string{"name": "Ada"})
	require.Error(t, err)
	var rerr *render.Error
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, "missing", rerr.Placeholder)
}

func TestRenderPassesThroughScriptWithoutPlaceholders(t *testing.T) {
	out, err := render.Render("echo static", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo static", out)
}
