package report

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltest/internal/runner"
	"skilltest/internal/scheduler"
)

func sampleReport() scheduler.Report {
	desc := "checks greeting"
	errMsg := "regex did not match"
	return scheduler.Report{
		Skills: []scheduler.SkillResult{
			{
				SkillName: "greeter",
				SkillPath: "/skills/greeter",
				Verdict:   scheduler.Fail,
				Tests: []scheduler.TestResult{
					{
						ID:     "says-hello",
						Desc:   &desc,
						Prompt: "Say hello",
						Iterations: []runner.IterationRecord{
							{
								Iteration:   1,
								Passed:      false,
								LatencyMS:   120,
								Output:      "goodbye",
								OutputHash:  "abc123",
								CalledTools: []string{"search"},
								Assertions: []runner.AssertionRecord{
									{ID: "has-hello", AssertionType: "regex", Passed: false, Error: &errMsg},
								},
							},
						},
						Summary: scheduler.TestSummary{
							ID: "says-hello", Iterations: 1, Passed: 0, Failed: 1,
							PassRate: 0, Verdict: scheduler.Fail,
							Failures: []string{"has-hello"},
						},
					},
				},
			},
		},
		Summary: scheduler.Summary{TotalSkills: 1, FailedSkills: 1, TotalTests: 1, FailedTests: 1},
	}
}

func TestWriteJSON_MatchesSchemaFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport(), time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2026-01-02T03:04:05.006Z", doc["timestamp"])
	skills := doc["skills"].([]interface{})
	require.Len(t, skills, 1)
	skill := skills[0].(map[string]interface{})
	assert.Equal(t, "greeter", skill["skill_name"])
	tests := skill["tests"].([]interface{})
	test := tests[0].(map[string]interface{})
	assert.Equal(t, "says-hello", test["name"])

	iterations := test["iterations"].([]interface{})
	iteration := iterations[0].(map[string]interface{})
	assertions := iteration["assertions"].([]interface{})
	assertion := assertions[0].(map[string]interface{})
	assert.Equal(t, "has-hello", assertion["name"])
	assert.Contains(t, assertion, "assertion_type")
	assert.Contains(t, iteration, "output_hash")
	assert.Contains(t, iteration, "golden_assertions")
}

func TestConsumer_WriteErrorLogOnFailedSkill(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out, errOut bytes.Buffer
	c := &Consumer{Fs: fs, Out: &out, ErrOut: &errOut}

	sk := sampleReport().Skills[0]
	c.writeErrorLog(sk)

	entries, err := afero.ReadDir(fs, "/skills/greeter/.skill-test-logs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, errOut.String(), "error log written")
	assert.Regexp(t, regexp.MustCompile(`^\d{8}-\d{6}-\d{3}-\d{4}\.json$`), entries[0].Name())
}

func TestErrorLogTimestamp_IsDashSeparatedNotDotted(t *testing.T) {
	ts := errorLogTimestamp(time.Date(2026, 7, 31, 15, 30, 12, 45_000_000, time.UTC))
	assert.Equal(t, "20260731-153012-045", ts)
}

func TestConsumer_NoErrorLogSuppressesAnnouncement(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out, errOut bytes.Buffer
	c := &Consumer{Fs: fs, Out: &out, ErrOut: &errOut, NoErrorLog: true}

	c.writeErrorLog(sampleReport().Skills[0])

	assert.Empty(t, errOut.String())
}

func TestConsumer_PrintTestLine_NoColorIsPlainText(t *testing.T) {
	var out bytes.Buffer
	c := &Consumer{Out: &out, Color: false}
	c.printTestLine("greeter", sampleReport().Skills[0].Tests[0])
	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), "has-hello")
}

func TestColorEnabled_ForceOffIsAlwaysFalse(t *testing.T) {
	assert.False(t, ColorEnabled(true))
}
