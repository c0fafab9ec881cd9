package scheduler

import "skilltest/internal/runner"

// EventKind tags one progress event. Ordering is guaranteed as follows: a
// single AllTestsStarted precedes everything; exactly one
// SkillStarted precedes the first TestStarted of a skill and exactly one
// of SkillCompleted or SkillError follows its last TestCompleted; within
// one (skill, test) pair, TestStarted -> (IterationStarted ->
// AssertionResult* -> IterationCompleted)* -> TestCompleted is strict,
// except that a run-wide cancellation can cut a test case's iteration loop
// short, in which case TestCompleted still fires but with fewer
// iterations than configured and the skill's terminal event is SkillError
// rather than SkillCompleted.
type EventKind string

const (
	AllTestsStarted    EventKind = "all_tests_started"
	SkillStarted       EventKind = "skill_started"
	TestStarted        EventKind = "test_started"
	IterationStarted   EventKind = "iteration_started"
	AssertionResult    EventKind = "assertion_result"
	IterationCompleted EventKind = "iteration_completed"
	TestCompleted      EventKind = "test_completed"
	SkillCompleted     EventKind = "skill_completed"
	SkillError         EventKind = "skill_error"
)

// Event is one element of the progress stream consumed by the reporter.
// Not every field is populated for every Kind; the reporter switches on
// Kind to know which fields to read.
type Event struct {
	Kind        EventKind
	SkillName   string
	SkillPath   string
	TestID      string
	Iteration   int
	Assertion   *runner.AssertionRecord
	IterRecord  *runner.IterationRecord
	TestResult  *TestResult
	SkillResult *SkillResult
	Err         error
}
