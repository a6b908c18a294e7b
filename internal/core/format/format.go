// SPDX-License-Identifier: Apache-2.0

// Package format writes a run record to disk in whichever shape its target
// file extension names, trimmed from the teacher's more general YAML/JSON
// read-write helper down to the one direction chainrun's CLI actually needs:
// a validated chain's run record, written once, never re-parsed by this
// module.
package format

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteFile marshals v as JSON or YAML according to filePath's extension
// (defaulting to JSON, the run record's canonical shape per spec) and
// writes it.
func WriteFile(filePath string, v interface{}) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	var data []byte
	var err error

	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}

	return os.WriteFile(filePath, data, 0o644)
}
