// SPDX-License-Identifier: Apache-2.0

package coerce_test

import (
	"testing"

	"github.com/kusari-oss/chainforge/internal/core/coerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name        string
		literal     string
		typ         coerce.Type
		shouldError bool
		wantString  string
	}{
		{name: "string identity", literal: "hello", typ: coerce.TypeString, wantString: "hello"},
		{name: "default type is string", literal: "hello", typ: "", wantString: "hello"},
		{name: "positive int", literal: "42", typ: coerce.TypeInt, wantString: "42"},
		{name: "negative int", literal: "-7", typ: coerce.TypeInt, wantString: "-7"},
		{name: "int with underscore rejected", literal: "1_000", typ: coerce.TypeInt, shouldError: true},
		{name: "float with leading dot", literal: ".5", typ: coerce.TypeFloat, wantString: "0.5"},
		{name: "float with trailing dot", literal: "5.", typ: coerce.TypeFloat, wantString: "5"},
		{name: "float with exponent", literal: "1e5", typ: coerce.TypeFloat, wantString: "100000"},
		{name: "negative float", literal: "-3.14", typ: coerce.TypeFloat, wantString: "-3.14"},
		{name: "bool true case-insensitive", literal: "TRUE", typ: coerce.TypeBool, wantString: "true"},
		{name: "bool false", literal: "false", typ: coerce.TypeBool, wantString: "false"},
		{name: "bool garbage rejected", literal: "yes", typ: coerce.TypeBool, shouldError: true},
		{name: "datetime RFC3339", literal: "2024-01-02T15:04:05Z", typ: coerce.TypeDatetime, wantString: "2024-01-02T15:04:05Z"},
		{name: "datetime bad format rejected", literal: "2024-01-02", typ: coerce.TypeDatetime, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := coerce.Coerce(tt.literal, tt.typ)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantString, v.String())
		})
	}
}

func TestValidType(t *testing.T) {
	assert.True(t, coerce.ValidType(coerce.TypeString))
	assert.True(t, coerce.ValidType(coerce.TypeInt))
	assert.True(t, coerce.ValidType(coerce.TypeFloat))
	assert.True(t, coerce.ValidType(coerce.TypeBool))
	assert.True(t, coerce.ValidType(coerce.TypeDatetime))
	assert.False(t, coerce.ValidType("enum"))
}

func TestFromAny(t *testing.T) {
	v, err := coerce.FromAny(42, coerce.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())

	v, err = coerce.FromAny(true, coerce.TypeBool)
	require.NoError(t, err)
	assert.Equal(t, "true", v.String())
}
