package testfile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"skilltest/internal/assertionx"
)

// strictUnmarshal decodes raw YAML into v, rejecting unknown fields: every
// test-file format here rejects unknown keys.
func strictUnmarshal(raw []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(v)
}

type assertionTypeTag struct {
	Type assertionx.Kind `yaml:"type"`
}

// decodeAssertionNode decodes one assertion node by peeking its "type"
// field, then strictly decoding into the matching concrete kind. If
// idOverride is non-empty (the scenarios shape's file-level named
// definitions, which carry no "id" field of their own) it replaces
// whatever id the node decoded with.
func decodeAssertionNode(node *yaml.Node, idOverride string) (assertionx.Assertion, error) {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("re-marshal assertion node: %w", err)
	}

	var tag assertionTypeTag
	if err := yaml.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("read assertion type: %w", err)
	}

	// "type" only selects the kind; no kind's struct has a field for it, so
	// drop it before the strict decode below.
	if node.Kind == yaml.MappingNode {
		fields := *node
		fields.Content = nil
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value != "type" {
				fields.Content = append(fields.Content, node.Content[i], node.Content[i+1])
			}
		}
		if raw, err = yaml.Marshal(&fields); err != nil {
			return nil, fmt.Errorf("re-marshal assertion node: %w", err)
		}
	}

	switch tag.Type {
	case assertionx.KindRegex:
		var v assertionx.Regex
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	case assertionx.KindContains:
		var v assertionx.Contains
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	case assertionx.KindLineCount:
		var v assertionx.LineCount
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	case assertionx.KindExec:
		var v assertionx.Exec
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v.TimeoutMS == 0 {
			v.TimeoutMS = 30_000
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	case assertionx.KindLLMEval:
		var v assertionx.LLMEval
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v.TimeoutMS == 0 {
			v.TimeoutMS = 30_000
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	case assertionx.KindToolCalled:
		var v assertionx.ToolCalled
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		if idOverride != "" {
			v.IDValue = idOverride
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown assertion type %q", tag.Type)
	}
}
