// SPDX-License-Identifier: Apache-2.0

package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string   `json:"name" yaml:"name"`
	Value int      `json:"value" yaml:"value"`
	Items []string `json:"items" yaml:"items"`
}

func TestWriteFileYAML(t *testing.T) {
	tempDir := t.TempDir()
	record := testRecord{Name: "write-test", Value: 200, Items: []string{"p", "q"}}

	yamlFile := filepath.Join(tempDir, "output.yaml")
	require.NoError(t, WriteFile(yamlFile, record))

	content, err := os.ReadFile(yamlFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: write-test")
	assert.Contains(t, string(content), "value: 200")
}

func TestWriteFileJSON(t *testing.T) {
	tempDir := t.TempDir()
	record := testRecord{Name: "write-test", Value: 200, Items: []string{"p", "q"}}

	jsonFile := filepath.Join(tempDir, "output.json")
	require.NoError(t, WriteFile(jsonFile, record))

	content, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "write-test"`)
	assert.Contains(t, string(content), `"value": 200`)
}

func TestWriteFileDefaultsToJSONForUnknownExtension(t *testing.T) {
	tempDir := t.TempDir()
	record := testRecord{Name: "write-test", Value: 200}

	noExtFile := filepath.Join(tempDir, "output")
	require.NoError(t, WriteFile(noExtFile, record))

	content, err := os.ReadFile(noExtFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "write-test"`)
}
