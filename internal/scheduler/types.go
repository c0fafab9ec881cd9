// Package scheduler flattens every skill's test cases into one global work
// list, runs iterations under a bounded concurrency limit, and aggregates
// deterministic final results while streaming ordered progress events.
package scheduler

import "skilltest/internal/runner"

// Verdict is a test or skill's final pass/fail/warn classification.
type Verdict string

const (
	Pass Verdict = "Pass"
	Fail Verdict = "Fail"
	Warn Verdict = "Warn"
)

// TestSummary is the aggregate record for one test case across all its
// iterations.
type TestSummary struct {
	ID             string
	Iterations     int
	Passed         int
	Failed         int
	PassRate       float64
	Verdict        Verdict
	Failures       []string
	GoldenFailures []string
	CalledTools    []string
}

// TestResult is one test case's full result: every iteration plus the
// summary derived from them.
type TestResult struct {
	ID         string
	Desc       *string
	Prompt     string
	Iterations []runner.IterationRecord
	Summary    TestSummary
}

// SkillResult is one skill's full result: every test plus the skill-level
// verdict.
type SkillResult struct {
	SkillName string
	SkillPath string
	Tests     []TestResult
	Verdict   Verdict
	Error     *string
}

// Summary is the top-level execution-report summary.
type Summary struct {
	TotalSkills  int
	PassedSkills int
	FailedSkills int
	TotalTests   int
	PassedTests  int
	FailedTests  int
}

// Report is the complete, deterministically-ordered result of one run.
type Report struct {
	Skills  []SkillResult
	Summary Summary
}
