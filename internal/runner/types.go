// Package runner executes one (test case, iteration) unit: invoke the
// agent, evaluate its required and golden assertions, and produce a
// detailed record regardless of outcome.
package runner

// AssertionRecord is the detailed, outcome-agnostic record of one
// assertion's evaluation, matching the execution-report schema.
type AssertionRecord struct {
	ID            string
	Desc          *string
	AssertionType string
	Pattern       *string
	Passed        bool
	Error         *string
}

// IterationRecord is one (test case, iteration)'s full result.
type IterationRecord struct {
	Iteration        int
	Passed           bool
	LatencyMS        int64
	Output           string
	OutputHash       string
	CalledTools      []string
	Assertions       []AssertionRecord
	GoldenAssertions []AssertionRecord
}
