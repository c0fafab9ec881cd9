// Package report renders the terminal transcript, the execution-report JSON
// document, and the crash-safe per-skill error log, all from the same
// scheduler event stream and aggregated report.
package report

import (
	"skilltest/internal/runner"
	"skilltest/internal/scheduler"
)

// The JSON field names below are fixed by the execution-report schema;
// several diverge from the internal Go field names (e.g. a test's "name" is
// scheduler.TestResult.ID), so this package exists to do that translation
// once rather than scattering json tags across scheduler/runner.

type executionReport struct {
	Timestamp string        `json:"timestamp"`
	Skills    []skillReport `json:"skills"`
	Summary   summaryReport `json:"summary"`
}

type skillReport struct {
	SkillName string       `json:"skill_name"`
	SkillPath string       `json:"skill_path"`
	Tests     []testReport `json:"tests"`
	Verdict   string       `json:"verdict"`
	Error     *string      `json:"error"`
}

type testReport struct {
	Name       string            `json:"name"`
	Desc       *string           `json:"desc"`
	Prompt     string            `json:"prompt"`
	Iterations []iterationReport `json:"iterations"`
	Summary    summaryTestReport `json:"summary"`
}

type iterationReport struct {
	Iteration       int               `json:"iteration"`
	Passed          bool              `json:"passed"`
	LatencyMS       int64             `json:"latency_ms"`
	Output          string            `json:"output"`
	OutputHash      string            `json:"output_hash"`
	CalledTools     []string          `json:"called_tools"`
	Assertions      []assertionReport `json:"assertions"`
	GoldenAssertion []assertionReport `json:"golden_assertions"`
}

type assertionReport struct {
	Name          string  `json:"name"`
	Desc          *string `json:"desc"`
	AssertionType string  `json:"assertion_type"`
	Pattern       *string `json:"pattern"`
	Passed        bool    `json:"passed"`
	Error         *string `json:"error"`
}

type summaryTestReport struct {
	ID             string   `json:"id"`
	Iterations     int      `json:"iterations"`
	Passed         int      `json:"passed"`
	Failed         int      `json:"failed"`
	PassRate       float64  `json:"pass_rate"`
	Verdict        string   `json:"verdict"`
	Failures       []string `json:"failures"`
	GoldenFailures []string `json:"golden_failures"`
	CalledTools    []string `json:"called_tools"`
}

type summaryReport struct {
	TotalSkills  int `json:"total_skills"`
	PassedSkills int `json:"passed_skills"`
	FailedSkills int `json:"failed_skills"`
	TotalTests   int `json:"total_tests"`
	PassedTests  int `json:"passed_tests"`
	FailedTests  int `json:"failed_tests"`
}

func toExecutionReport(timestamp string, r scheduler.Report) executionReport {
	skills := make([]skillReport, len(r.Skills))
	for i, sk := range r.Skills {
		skills[i] = toSkillReport(sk)
	}
	return executionReport{
		Timestamp: timestamp,
		Skills:    skills,
		Summary: summaryReport{
			TotalSkills:  r.Summary.TotalSkills,
			PassedSkills: r.Summary.PassedSkills,
			FailedSkills: r.Summary.FailedSkills,
			TotalTests:   r.Summary.TotalTests,
			PassedTests:  r.Summary.PassedTests,
			FailedTests:  r.Summary.FailedTests,
		},
	}
}

func toSkillReport(sk scheduler.SkillResult) skillReport {
	tests := make([]testReport, len(sk.Tests))
	for i, tr := range sk.Tests {
		tests[i] = toTestReport(tr)
	}
	return skillReport{
		SkillName: sk.SkillName,
		SkillPath: sk.SkillPath,
		Tests:     tests,
		Verdict:   string(sk.Verdict),
		Error:     sk.Error,
	}
}

func toTestReport(tr scheduler.TestResult) testReport {
	iterations := make([]iterationReport, len(tr.Iterations))
	for i, it := range tr.Iterations {
		iterations[i] = iterationReport{
			Iteration:       it.Iteration,
			Passed:          it.Passed,
			LatencyMS:       it.LatencyMS,
			Output:          it.Output,
			OutputHash:      it.OutputHash,
			CalledTools:     it.CalledTools,
			Assertions:      toAssertionReports(it.Assertions),
			GoldenAssertion: toAssertionReports(it.GoldenAssertions),
		}
	}
	return testReport{
		Name:       tr.ID,
		Desc:       tr.Desc,
		Prompt:     tr.Prompt,
		Iterations: iterations,
		Summary: summaryTestReport{
			ID:             tr.Summary.ID,
			Iterations:     tr.Summary.Iterations,
			Passed:         tr.Summary.Passed,
			Failed:         tr.Summary.Failed,
			PassRate:       tr.Summary.PassRate,
			Verdict:        string(tr.Summary.Verdict),
			Failures:       tr.Summary.Failures,
			GoldenFailures: tr.Summary.GoldenFailures,
			CalledTools:    tr.Summary.CalledTools,
		},
	}
}

func toAssertionReports(records []runner.AssertionRecord) []assertionReport {
	out := make([]assertionReport, len(records))
	for i, a := range records {
		out[i] = assertionReport{
			Name:          a.ID,
			Desc:          a.Desc,
			AssertionType: a.AssertionType,
			Pattern:       a.Pattern,
			Passed:        a.Passed,
			Error:         a.Error,
		}
	}
	return out
}
