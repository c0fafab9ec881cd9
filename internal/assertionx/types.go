// Package assertionx implements the six polymorphic assertion kinds and
// their evaluator.
package assertionx

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Kind tags an assertion's payload variant.
type Kind string

const (
	KindRegex      Kind = "regex"
	KindContains   Kind = "contains"
	KindLineCount  Kind = "line_count"
	KindExec       Kind = "exec"
	KindLLMEval    Kind = "llm_eval"
	KindToolCalled Kind = "tool_called"
)

// Presence is the expect polarity shared by regex, contains and tool_called.
type Presence string

const (
	Present Presence = "present"
	Absent  Presence = "absent"
)

// LLMExpect is the expect polarity for llm_eval.
type LLMExpect string

const (
	Pass LLMExpect = "pass"
	Fail LLMExpect = "fail"
)

// ExecExpectKind tags an exec assertion's expectation.
type ExecExpectKind string

const (
	ExitCodeZero    ExecExpectKind = "exit_code_zero"
	OutputContains  ExecExpectKind = "output_contains"
)

// ExecExpect is the expect payload for an exec assertion. It unmarshals
// from either the bare scalar "exit_code_zero" or a mapping
// {output_contains: "needle"}.
type ExecExpect struct {
	Kind     ExecExpectKind
	Contains string
}

func (e *ExecExpect) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var scalar string
		if err := node.Decode(&scalar); err != nil {
			return err
		}
		if scalar != string(ExitCodeZero) {
			return &InvalidExpectError{Value: scalar}
		}
		e.Kind = ExitCodeZero
		return nil
	}

	var mapping struct {
		OutputContains string `yaml:"output_contains"`
	}
	if err := node.Decode(&mapping); err != nil {
		return err
	}
	e.Kind = OutputContains
	e.Contains = mapping.OutputContains
	return nil
}

func (e ExecExpect) MarshalYAML() (interface{}, error) {
	if e.Kind == ExitCodeZero {
		return string(ExitCodeZero), nil
	}
	return map[string]string{"output_contains": e.Contains}, nil
}

// Assertion is the narrow interface every assertion kind satisfies: four
// structural accessors. Evaluation is done by the package-level Evaluate,
// which dispatches on the concrete kind.
type Assertion interface {
	ID() string
	Desc() *string
	TypeName() Kind
	Pattern() *string
}

// Base carries the fields common to all six kinds.
type Base struct {
	IDValue   string  `yaml:"id"`
	DescValue *string `yaml:"desc,omitempty"`
}

func (b Base) ID() string     { return b.IDValue }
func (b Base) Desc() *string  { return b.DescValue }

// Regex asserts a regex pattern's presence/absence in the output.
type Regex struct {
	Base    `yaml:",inline"`
	PatternValue string   `yaml:"pattern"`
	Expect       Presence `yaml:"expect"`
}

func (a Regex) TypeName() Kind    { return KindRegex }
func (a Regex) Pattern() *string  { return &a.PatternValue }

// Contains asserts a literal substring's presence/absence.
type Contains struct {
	Base    `yaml:",inline"`
	PatternValue string   `yaml:"pattern"`
	Expect       Presence `yaml:"expect"`
}

func (a Contains) TypeName() Kind   { return KindContains }
func (a Contains) Pattern() *string { return &a.PatternValue }

// LineCount asserts bounds on the output's line count.
type LineCount struct {
	Base `yaml:",inline"`
	Min  *int `yaml:"min,omitempty"`
	Max  *int `yaml:"max,omitempty"`
}

func (a LineCount) TypeName() Kind   { return KindLineCount }
func (a LineCount) Pattern() *string { return nil }

// Check reports whether n lines satisfies the bounds.
func (a LineCount) Check(n int) bool {
	if a.Min != nil && n < *a.Min {
		return false
	}
	if a.Max != nil && n > *a.Max {
		return false
	}
	return true
}

// Exec extracts a fenced code block from the output, runs it, and checks
// the result.
type Exec struct {
	Base       `yaml:",inline"`
	Command    string     `yaml:"command"`
	Language   *string    `yaml:"language,omitempty"`
	TimeoutMS  int        `yaml:"timeout_ms"`
	Expect     ExecExpect `yaml:"expect"`
}

func (a Exec) TypeName() Kind   { return KindExec }
func (a Exec) Pattern() *string { return nil }

// LLMEval shells out to a secondary agent invocation to semantically judge
// the output.
type LLMEval struct {
	Base       `yaml:",inline"`
	PatternValue string          `yaml:"pattern"`
	Expect       LLMExpect       `yaml:"expect"`
	TimeoutMS    int             `yaml:"timeout_ms"`
	JSONSchema   JSONSchemaValue `yaml:"json_schema,omitempty"`
}

// JSONSchemaValue is an optional JSON-schema payload. It is authored inline
// in a test file as a YAML mapping (e.g. `json_schema: {type: object, ...}`)
// but consumed downstream as raw JSON bytes (gojsonschema's loaders, string
// interpolation into the judge prompt); UnmarshalYAML bridges the two by
// re-marshaling the decoded node straight to JSON.
type JSONSchemaValue json.RawMessage

// UnmarshalYAML re-marshals the mapping node to JSON, the same trick
// decodeAssertionNode uses to peek an assertion's type tag.
func (s *JSONSchemaValue) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*s = JSONSchemaValue(raw)
	return nil
}

func (a LLMEval) TypeName() Kind   { return KindLLMEval }
func (a LLMEval) Pattern() *string { return &a.PatternValue }

// DefaultLLMEvalSchema is used when an llm_eval assertion supplies none.
const DefaultLLMEvalSchema = `{
  "type": "object",
  "properties": {
    "result": {"type": "boolean"},
    "reason": {"type": "string"}
  },
  "required": ["result"]
}`

// ToolCalled asserts a regex matches any invoked tool name.
type ToolCalled struct {
	Base    `yaml:",inline"`
	PatternValue string   `yaml:"pattern"`
	Expect       Presence `yaml:"expect"`
}

func (a ToolCalled) TypeName() Kind   { return KindToolCalled }
func (a ToolCalled) Pattern() *string { return &a.PatternValue }
