package testfile

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"skilltest/internal/assertionx"
)

type rawScenariosFile struct {
	Desc       *string               `yaml:"desc,omitempty"`
	Assertions map[string]yaml.Node  `yaml:"assertions,omitempty"`
	Scenarios  map[string]rawScenario `yaml:"scenarios"`
}

type rawScenario struct {
	Desc             *string     `yaml:"desc,omitempty"`
	Prompt           string      `yaml:"prompt"`
	Iterations       *int        `yaml:"iterations,omitempty"`
	Assertions       []yaml.Node `yaml:"assertions,omitempty"`
	GoldenAssertions []yaml.Node `yaml:"golden_assertions,omitempty"`
}

// parseScenariosShape parses and resolves a scenarios-shape test file.
func parseScenariosShape(raw []byte, path string) ([]TestCase, error) {
	var file rawScenariosFile
	if err := strictUnmarshal(raw, &file); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	named := make(map[string]yaml.Node, len(file.Assertions))
	for name, node := range file.Assertions {
		named[name] = node
	}

	cases := make([]TestCase, 0, len(file.Scenarios))
	for name, scenario := range file.Scenarios {
		if strings.TrimSpace(scenario.Prompt) == "" {
			return nil, &EmptyPromptError{Scenario: name}
		}

		required, err := resolveScenarioAssertions(scenario.Assertions, named, name)
		if err != nil {
			return nil, err
		}
		golden, err := resolveScenarioAssertions(scenario.GoldenAssertions, named, name)
		if err != nil {
			return nil, err
		}

		cases = append(cases, TestCase{
			ID:         name,
			Desc:       scenario.Desc,
			Prompt:     scenario.Prompt,
			Iterations: scenario.Iterations,
			Required:   required,
			Golden:     golden,
		})
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })
	return cases, nil
}

// resolveScenarioAssertions turns one scenario's ref list (bare name
// strings or inline assertion mappings) into a flat assertion list,
// rejecting unknown names and duplicate ids within the list.
func resolveScenarioAssertions(refs []yaml.Node, named map[string]yaml.Node, scenario string) ([]assertionx.Assertion, error) {
	seen := make(map[string]bool, len(refs))
	resolved := make([]assertionx.Assertion, 0, len(refs))

	for i := range refs {
		node := refs[i]
		var a assertionx.Assertion

		if node.Kind == yaml.ScalarNode {
			name := node.Value
			defNode, ok := named[name]
			if !ok {
				return nil, &UndefinedAssertionRef{Name: name, Scenario: scenario}
			}
			decoded, err := decodeAssertionNode(&defNode, name)
			if err != nil {
				return nil, fmt.Errorf("assertion %q: %w", name, err)
			}
			a = decoded
		} else {
			decoded, err := decodeAssertionNode(&node, "")
			if err != nil {
				return nil, fmt.Errorf("inline assertion in scenario %q: %w", scenario, err)
			}
			a = decoded
		}

		if seen[a.ID()] {
			return nil, &DuplicateAssertionIdInScenario{ID: a.ID(), Scenario: scenario}
		}
		seen[a.ID()] = true
		resolved = append(resolved, a)
	}

	return resolved, nil
}
