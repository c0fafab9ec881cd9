// Package testfile parses the two accepted YAML test-file shapes (legacy
// list shape; scenarios shape) into one flat internal representation.
package testfile

import "skilltest/internal/assertionx"

// TestCase is one resolved (prompt, assertion-set) unit, regardless of
// which on-disk shape it came from.
type TestCase struct {
	ID         string
	Desc       *string
	Prompt     string
	Iterations *int
	Required   []assertionx.Assertion
	Golden     []assertionx.Assertion
}
