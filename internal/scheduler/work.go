package scheduler

import (
	"strings"

	"skilltest/internal/config"
	"skilltest/internal/testfile"
)

// Unit is one flattened (skill, test case) work item.
type Unit struct {
	SkillName string
	SkillPath string
	Config    config.Config
	Test      testfile.TestCase
}

// Flatten appends every skill's resolved test cases into one global work
// list, applying the --filter substring match at this stage: --filter
// selects any test case whose ID contains it.
func Flatten(skillName, skillPath string, cfg config.Config, cases []testfile.TestCase, filter string) []Unit {
	units := make([]Unit, 0, len(cases))
	for _, tc := range cases {
		if filter != "" && !strings.Contains(tc.ID, filter) {
			continue
		}
		units = append(units, Unit{SkillName: skillName, SkillPath: skillPath, Config: cfg, Test: tc})
	}
	return units
}
