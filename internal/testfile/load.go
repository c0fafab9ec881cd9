package testfile

import (
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load parses one test file found under skillPath, detecting its shape and
// returning the flattened, resolved test cases.
func Load(fs afero.Fs, skillPath, path string) ([]TestCase, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(root.Content) == 0 {
		return nil, &ParseError{Path: path, Err: errEmptyDocument}
	}
	doc := root.Content[0]

	switch doc.Kind {
	case yaml.MappingNode:
		if !hasKey(doc, "scenarios") {
			return nil, &UnknownFormatError{Path: path}
		}
		return parseScenariosShape(raw, path)
	case yaml.SequenceNode:
		skillTestsRoot, err := filepath.Abs(filepath.Join(skillPath, "skill-tests"))
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		return parseListShape(fs, raw, path, skillTestsRoot)
	default:
		return nil, &UnknownFormatError{Path: path}
	}
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

type emptyDocumentError struct{}

func (emptyDocumentError) Error() string { return "empty YAML document" }

var errEmptyDocument = emptyDocumentError{}
