// SPDX-License-Identifier: Apache-2.0

package chain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// allowedTopLevelKeys mirrors spec.md section 3: any other top-level key is
// a structural parse error.
var allowedTopLevelKeys = map[string]bool{
	"name":         true,
	"description":  true,
	"timeout_ms":   true,
	"parameters":   true,
	"interpreters": true,
	"steps":        true,
	"results":      true,
}

// rawChain decodes every field except steps, which needs order-preserving
// treatment. Results are decoded here as raw strings and parsed into
// References afterwards.
type rawChain struct {
	Name         string                     `yaml:"name"`
	Description  string                     `yaml:"description"`
	TimeoutMs    *int                       `yaml:"timeout_ms"`
	Parameters   map[string]Parameter       `yaml:"parameters"`
	Interpreters map[string]InterpreterSpec `yaml:"interpreters"`
	Results      map[string]string          `yaml:"results"`
}

// UnmarshalYAML decodes a chain document. It preserves the declaration
// order of the steps mapping by walking the mapping node's Content pairs
// directly rather than decoding into a Go map, since gopkg.in/yaml.v3's map
// decoding (like the language's native map type) does not preserve key
// order.
func (c *Chain) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &ParseError{Line: node.Line, Reason: "chain document must be a mapping"}
	}

	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !allowedTopLevelKeys[key] {
			return &ParseError{Path: key, Line: node.Content[i].Line, Reason: fmt.Sprintf("unknown top-level key %q", key)}
		}
	}

	var raw rawChain
	if err := node.Decode(&raw); err != nil {
		return &ParseError{Line: node.Line, Reason: err.Error()}
	}

	var dupKeys []string
	var stepsNode *yaml.Node
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		valNode := node.Content[i+1]
		switch key {
		case "steps":
			stepsNode = valNode
		case "parameters", "interpreters":
			dupKeys = append(dupKeys, mappingDuplicates(valNode, key)...)
		case "results":
			dupKeys = append(dupKeys, mappingDuplicates(valNode, "results")...)
		}
	}

	if stepsNode == nil || stepsNode.Kind != yaml.MappingNode || len(stepsNode.Content) == 0 {
		return &ParseError{Path: "steps", Line: node.Line, Reason: "chain must declare at least one step"}
	}
	dupKeys = append(dupKeys, mappingDuplicates(stepsNode, "steps")...)

	steps := make([]StepEntry, 0, len(stepsNode.Content)/2)
	for i := 0; i < len(stepsNode.Content); i += 2 {
		idNode := stepsNode.Content[i]
		valNode := stepsNode.Content[i+1]
		stepPath := fmt.Sprintf("steps.%s", idNode.Value)

		var step Step
		if err := valNode.Decode(&step); err != nil {
			return &ParseError{Path: stepPath, Line: valNode.Line, Reason: err.Error()}
		}
		if err := resolveStepInputs(&step); err != nil {
			return &ParseError{Path: stepPath, Line: valNode.Line, Reason: err.Error()}
		}
		dupKeys = append(dupKeys, stepSubDuplicates(valNode, stepPath)...)

		steps = append(steps, StepEntry{ID: idNode.Value, Step: step})
	}

	results := make(map[string]Reference, len(raw.Results))
	for id, rawRef := range raw.Results {
		ref, err := ParseReference(rawRef)
		if err != nil {
			return &ParseError{Path: fmt.Sprintf("results.%s", id), Line: node.Line, Reason: err.Error()}
		}
		results[id] = ref
	}

	c.Name = raw.Name
	c.Description = raw.Description
	c.TimeoutMs = raw.TimeoutMs
	c.Parameters = raw.Parameters
	c.Interpreters = raw.Interpreters
	c.Steps = steps
	c.Results = results
	c.dupKeys = dupKeys

	return nil
}

// mappingDuplicates walks a mapping node's key/value pairs and returns path,
// reported as "<prefix>.<key>", for every key that appears more than once.
// yaml.Node.Content preserves every pair as written, including repeats.
func mappingDuplicates(node *yaml.Node, prefix string) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	seen := make(map[string]bool, len(node.Content)/2)
	var dups []string
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if seen[key] {
			dups = append(dups, fmt.Sprintf("%s.%s", prefix, key))
			continue
		}
		seen[key] = true
	}
	return dups
}

// stepSubDuplicates checks a step's own "inputs" and "outputs" mappings for
// repeated keys.
func stepSubDuplicates(stepNode *yaml.Node, stepPath string) []string {
	if stepNode.Kind != yaml.MappingNode {
		return nil
	}
	var dups []string
	for i := 0; i < len(stepNode.Content); i += 2 {
		key := stepNode.Content[i].Value
		if key == "inputs" || key == "outputs" {
			dups = append(dups, mappingDuplicates(stepNode.Content[i+1], fmt.Sprintf("%s.%s", stepPath, key))...)
		}
	}
	return dups
}

// resolveStepInputs parses each step's raw "parameters.X" / "steps.S.outputs.O"
// input strings into typed References.
func resolveStepInputs(step *Step) error {
	if len(step.RawInputs) == 0 {
		return nil
	}
	step.Inputs = make(map[string]Reference, len(step.RawInputs))
	for name, raw := range step.RawInputs {
		ref, err := ParseReference(raw)
		if err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
		step.Inputs[name] = ref
	}
	return nil
}

// Parse decodes a chain document. gopkg.in/yaml.v3 accepts both YAML and
// the JSON it is a syntactic superset of, so a single code path serves both
// of spec.md's accepted input shapes.
func Parse(document []byte) (*Chain, error) {
	var c Chain
	if err := yaml.Unmarshal(document, &c); err != nil {
		if pe, ok := err.(*ParseError); ok {
			return nil, pe
		}
		return nil, &ParseError{Reason: err.Error()}
	}
	return &c, nil
}
