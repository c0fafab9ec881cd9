package testfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"skilltest/internal/assertionx"
)

type rawListTestCase struct {
	ID               string      `yaml:"id"`
	Desc             *string     `yaml:"desc,omitempty"`
	Prompt           string      `yaml:"prompt"`
	Iterations       *int        `yaml:"iterations,omitempty"`
	Assertions       []yaml.Node `yaml:"assertions,omitempty"`
	GoldenAssertions []yaml.Node `yaml:"golden_assertions,omitempty"`
	ExpectedSkills   []string    `yaml:"expected_skills,omitempty"`
	ForbidSkills     []string    `yaml:"forbid_skills,omitempty"`
}

// fileRefValue is the payload of a {file: ...} assertion-list element: a
// single relative path or a list of them.
type fileRefValue struct {
	paths []string
}

func (f *fileRefValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.paths = []string{node.Value}
		return nil
	}
	var paths []string
	if err := node.Decode(&paths); err != nil {
		return err
	}
	f.paths = paths
	return nil
}

type rawFileRef struct {
	File fileRefValue `yaml:"file"`
}

// isFileRef reports whether node is a {file: ...} mapping rather than an
// inline assertion.
func isFileRef(node *yaml.Node) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "file" {
			return true
		}
	}
	return false
}

// parseListShape parses and resolves a list-shape test file.
func parseListShape(fs afero.Fs, raw []byte, path, skillTestsRoot string) ([]TestCase, error) {
	var rawCases []rawListTestCase
	if err := strictUnmarshal(raw, &rawCases); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	cases := make([]TestCase, 0, len(rawCases))
	for _, rc := range rawCases {
		if strings.TrimSpace(rc.Prompt) == "" {
			return nil, &EmptyPromptError{Scenario: rc.ID}
		}

		resolver := &listResolver{
			fs:             fs,
			skillTestsRoot: skillTestsRoot,
			testID:         rc.ID,
			seenIDs:        make(map[string]string),
		}

		required, err := resolver.resolveNodes(rc.Assertions, path, map[string]bool{path: true})
		if err != nil {
			return nil, err
		}
		golden, err := resolver.resolveNodes(rc.GoldenAssertions, path, map[string]bool{path: true})
		if err != nil {
			return nil, err
		}

		required = append(required, legacySkillAssertions(rc.ExpectedSkills, rc.ForbidSkills)...)

		cases = append(cases, TestCase{
			ID:         rc.ID,
			Desc:       rc.Desc,
			Prompt:     rc.Prompt,
			Iterations: rc.Iterations,
			Required:   required,
			Golden:     golden,
		})
	}

	return cases, nil
}

// listResolver flattens one test case's assertion sequence, following
// {file: ...} references and enforcing the containment, cycle, and
// duplicate-id rules.
type listResolver struct {
	fs             afero.Fs
	skillTestsRoot string // canonicalised
	testID         string
	seenIDs        map[string]string // id -> source path, across the whole test case
}

func (r *listResolver) resolveNodes(nodes []yaml.Node, sourcePath string, visited map[string]bool) ([]assertionx.Assertion, error) {
	var out []assertionx.Assertion
	for i := range nodes {
		node := nodes[i]
		if isFileRef(&node) {
			var ref rawFileRef
			if err := node.Decode(&ref); err != nil {
				return nil, fmt.Errorf("decode file ref in %s: %w", sourcePath, err)
			}
			for _, rel := range ref.File.paths {
				resolved, err := r.resolveFileRef(sourcePath, rel, visited)
				if err != nil {
					return nil, err
				}
				out = append(out, resolved...)
			}
			continue
		}

		a, err := decodeAssertionNode(&node, "")
		if err != nil {
			return nil, fmt.Errorf("inline assertion in %s: %w", sourcePath, err)
		}
		if first, dup := r.seenIDs[a.ID()]; dup {
			return nil, &DuplicateAssertionId{ID: a.ID(), TestID: r.testID, FirstSource: first, SecondSource: sourcePath}
		}
		r.seenIDs[a.ID()] = sourcePath
		out = append(out, a)
	}
	return out, nil
}

func (r *listResolver) resolveFileRef(fromPath, rel string, visited map[string]bool) ([]assertionx.Assertion, error) {
	target := filepath.Join(filepath.Dir(fromPath), rel)
	canon, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve file ref %q: %w", rel, err)
	}

	if canon != r.skillTestsRoot && !strings.HasPrefix(canon, r.skillTestsRoot+string(filepath.Separator)) {
		return nil, &FileRefOutsideSkillTests{Path: rel}
	}
	if visited[canon] {
		return nil, &CircularReference{Path: rel}
	}
	visited[canon] = true

	raw, err := afero.ReadFile(r.fs, canon)
	if err != nil {
		return nil, fmt.Errorf("read file ref %q: %w", rel, err)
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse file ref %q: %w", rel, err)
	}

	return r.resolveNodes(nodes, canon, visited)
}
