package scheduler

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"skilltest/internal/agent"
	"skilltest/internal/assertionx"
	"skilltest/internal/config"
	"skilltest/internal/runner"
)

// DefaultMaxTurns bounds every agent invocation; the skill configuration
// carries no per-skill override.
const DefaultMaxTurns = 10

// JudgeFactory builds the llm_eval agent caller for one unit. Kept as a
// function rather than baked into the invoker so the scheduler never
// depends on how judge calls are actually made.
type JudgeFactory func(Unit) assertionx.AgentCaller

// Run executes every unit under a global concurrency bound, streams
// progress events over bus, and returns the deterministically-aggregated
// report once every unit has completed.
func Run(ctx context.Context, units []Unit, invoker runner.AgentInvoker, judgeFor JudgeFactory, concurrency int, bus *EventBus) Report {
	bus.Send(Event{Kind: AllTestsStarted})

	skillOrder, states := groupBySkill(units)

	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i := range units {
		u := units[i]
		st := states[u.SkillName]

		if err := sem.Acquire(ctx, 1); err != nil {
			// The run was cancelled while units for this skill were still
			// queued: nothing more will be dispatched for it. Whatever test
			// results already landed in st.results are reported as-is.
			markSkillAborted(st, u, err, bus)
			continue
		}

		st.startOnce.Do(func() {
			bus.Send(Event{Kind: SkillStarted, SkillName: u.SkillName, SkillPath: u.SkillPath})
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			tr := runTestCase(ctx, invoker, judgeFor(u), u, bus)

			if err := ctx.Err(); err != nil {
				// Cancelled while this test case was in flight: its
				// iteration loop may have been cut short, so the skill is
				// aborted rather than completed.
				st.mu.Lock()
				st.results = append(st.results, tr)
				st.mu.Unlock()
				markSkillAborted(st, u, err, bus)
				return
			}

			st.mu.Lock()
			st.results = append(st.results, tr)
			st.remaining--
			done := st.remaining == 0 && !st.errored
			snapshot := append([]TestResult(nil), st.results...)
			st.mu.Unlock()

			if done {
				sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
				verdict := skillVerdict(snapshot)
				bus.Send(Event{
					Kind:      SkillCompleted,
					SkillName: u.SkillName,
					SkillPath: u.SkillPath,
					SkillResult: &SkillResult{
						SkillName: u.SkillName,
						SkillPath: u.SkillPath,
						Tests:     snapshot,
						Verdict:   verdict,
					},
				})
			}
		}()
	}

	wg.Wait()
	bus.Close()

	return aggregate(skillOrder, states)
}

// markSkillAborted reports one skill's whole-skill failure when a run-wide
// cancellation stops its remaining test cases from ever being dispatched,
// or cuts one of its in-flight test cases short:
// the tests that did complete are preserved and reported, exactly as the
// (non-dispatched) rest of the skill's units would otherwise be silently
// dropped from both the transcript and the execution report.
func markSkillAborted(st *skillState, u Unit, cause error, bus *EventBus) {
	st.mu.Lock()
	st.remaining--
	st.errored = true
	snapshot := append([]TestResult(nil), st.results...)
	st.mu.Unlock()

	st.errOnce.Do(func() {
		sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
		msg := cause.Error()
		bus.Send(Event{
			Kind:      SkillError,
			SkillName: u.SkillName,
			SkillPath: u.SkillPath,
			Err:       cause,
			SkillResult: &SkillResult{
				SkillName: u.SkillName,
				SkillPath: u.SkillPath,
				Tests:     snapshot,
				Verdict:   Fail,
				Error:     &msg,
			},
		})
	})
}

type skillState struct {
	startOnce sync.Once
	errOnce   sync.Once
	mu        sync.Mutex
	remaining int
	errored   bool
	results   []TestResult
	path      string
}

func groupBySkill(units []Unit) ([]string, map[string]*skillState) {
	order := make([]string, 0)
	states := make(map[string]*skillState)
	for _, u := range units {
		st, ok := states[u.SkillName]
		if !ok {
			st = &skillState{path: u.SkillPath}
			states[u.SkillName] = st
			order = append(order, u.SkillName)
		}
		st.remaining++
	}
	return order, states
}

func aggregate(skillOrder []string, states map[string]*skillState) Report {
	skills := make([]SkillResult, 0, len(skillOrder))
	for _, name := range skillOrder {
		st := states[name]
		st.mu.Lock()
		results := append([]TestResult(nil), st.results...)
		errored := st.errored
		st.mu.Unlock()
		sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

		verdict := skillVerdict(results)
		var errPtr *string
		if errored {
			// A cancellation aborted this skill before every test case ran;
			// it is a whole-skill failure regardless of what the test
			// cases that did complete scored, matching the same verdict
			// already sent on the SkillError event.
			verdict = Fail
			msg := "execution aborted before all test cases ran"
			errPtr = &msg
		}

		skills = append(skills, SkillResult{
			SkillName: name,
			SkillPath: st.path,
			Tests:     results,
			Verdict:   verdict,
			Error:     errPtr,
		})
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].SkillName < skills[j].SkillName })

	return Report{Skills: skills, Summary: computeSummary(skills)}
}

func skillVerdict(tests []TestResult) Verdict {
	for _, t := range tests {
		if t.Summary.Verdict != Pass {
			return Fail
		}
	}
	return Pass
}

func computeSummary(skills []SkillResult) Summary {
	var s Summary
	s.TotalSkills = len(skills)
	for _, sk := range skills {
		if sk.Verdict == Pass {
			s.PassedSkills++
		} else {
			s.FailedSkills++
		}
		for _, t := range sk.Tests {
			s.TotalTests++
			if t.Summary.Verdict == Pass {
				s.PassedTests++
			} else {
				s.FailedTests++
			}
		}
	}
	return s
}

// runTestCase runs every iteration of one unit sequentially (per-iteration
// ordering matters for reporting), emitting the strict event sequence for
// this (skill, test) pair.
func runTestCase(ctx context.Context, invoker runner.AgentInvoker, caller assertionx.AgentCaller, u Unit, bus *EventBus) TestResult {
	bus.Send(Event{Kind: TestStarted, SkillName: u.SkillName, TestID: u.Test.ID})

	iterations := u.Config.Iterations
	if u.Test.Iterations != nil {
		iterations = *u.Test.Iterations
	}

	records := make([]runner.IterationRecord, 0, iterations)
	for i := 1; i <= iterations; i++ {
		if ctx.Err() != nil {
			// Run-wide cancellation: stop partway through this test case
			// rather than starting another iteration. Whatever iterations
			// already ran stay in records, so the caller still gets a
			// complete-so-far, not empty, result for this test.
			break
		}

		bus.Send(Event{Kind: IterationStarted, SkillName: u.SkillName, TestID: u.Test.ID, Iteration: i})

		inv := agent.Invocation{
			SkillName: u.SkillName,
			SkillPath: u.SkillPath,
			Prompt:    u.Test.Prompt,
			Model:     u.Config.Model,
			MaxTurns:  DefaultMaxTurns,
			HookPath:  hookEnvValue(u.Config),
			TimeoutMS: u.Config.TimeoutMS,
		}

		rec := runner.Run(ctx, invoker, inv, u.Test.Required, u.Test.Golden, caller, i)

		for _, a := range rec.Assertions {
			a := a
			bus.Send(Event{Kind: AssertionResult, SkillName: u.SkillName, TestID: u.Test.ID, Iteration: i, Assertion: &a})
		}
		for _, a := range rec.GoldenAssertions {
			a := a
			bus.Send(Event{Kind: AssertionResult, SkillName: u.SkillName, TestID: u.Test.ID, Iteration: i, Assertion: &a})
		}

		records = append(records, rec)
		bus.Send(Event{Kind: IterationCompleted, SkillName: u.SkillName, TestID: u.Test.ID, Iteration: i, IterRecord: &rec})
	}

	summary := computeTestSummary(u.Test.ID, records, u.Config.Threshold, u.Config.Strict)
	tr := TestResult{ID: u.Test.ID, Desc: u.Test.Desc, Prompt: u.Test.Prompt, Iterations: records, Summary: summary}

	bus.Send(Event{Kind: TestCompleted, SkillName: u.SkillName, TestID: u.Test.ID, TestResult: &tr})
	return tr
}

// computeTestSummary aggregates one test case's iterations into its
// verdict: pass_rate = 100 x passed / iterations; verdict is pass iff
// pass_rate is at or above the configured threshold.
func computeTestSummary(id string, records []runner.IterationRecord, threshold float64, strict bool) TestSummary {
	passed := 0
	failureSet := map[string]bool{}
	goldenFailureSet := map[string]bool{}
	toolSet := map[string]bool{}

	for _, r := range records {
		if r.Passed {
			passed++
		}
		for _, a := range r.Assertions {
			if !a.Passed {
				failureSet[a.ID] = true
			}
		}
		for _, a := range r.GoldenAssertions {
			if !a.Passed {
				goldenFailureSet[a.ID] = true
			}
		}
		for _, t := range r.CalledTools {
			toolSet[t] = true
		}
	}

	var passRate float64
	verdict := Warn
	if len(records) > 0 {
		passRate = 100 * float64(passed) / float64(len(records))
		if passRate >= threshold {
			verdict = Pass
		} else {
			verdict = Fail
		}
	} else if strict {
		verdict = Fail
	}

	return TestSummary{
		ID:             id,
		Iterations:     len(records),
		Passed:         passed,
		Failed:         len(records) - passed,
		PassRate:       passRate,
		Verdict:        verdict,
		Failures:       sortedKeys(failureSet),
		GoldenFailures: sortedKeys(goldenFailureSet),
		CalledTools:    sortedKeys(toolSet),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// hookEnvValue resolves the configuration's hook selection to the value
// passed through to the agent's environment. "simple" and "forced" have no
// bundled hook script in this repository, so the literal mode name is
// forwarded for the agent-side hook to interpret; "custom"
// forwards the configured path verbatim.
func hookEnvValue(cfg config.Config) string {
	switch cfg.Hook {
	case config.HookCustom:
		return cfg.HookPath
	case config.HookSimple:
		return "simple"
	case config.HookForced:
		return "forced"
	default:
		return ""
	}
}
