package testfile

import (
	"fmt"

	"skilltest/internal/assertionx"
)

// legacySkillAssertions expands the legacy list-shape `expected_skills` and
// `forbid_skills` convenience fields into ordinary tool_called assertions,
// synthesizing stable ids so they participate in pass-rate scoring like any
// other required assertion.
func legacySkillAssertions(expected, forbidden []string) []assertionx.Assertion {
	out := make([]assertionx.Assertion, 0, len(expected)+len(forbidden))
	for _, name := range expected {
		out = append(out, assertionx.ToolCalled{
			Base:         assertionx.Base{IDValue: fmt.Sprintf("expected_skill:%s", name)},
			PatternValue: name,
			Expect:       assertionx.Present,
		})
	}
	for _, name := range forbidden {
		out = append(out, assertionx.ToolCalled{
			Base:         assertionx.Base{IDValue: fmt.Sprintf("forbidden_skill:%s", name)},
			PatternValue: name,
			Expect:       assertionx.Absent,
		})
	}
	return out
}
