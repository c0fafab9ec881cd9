package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"skilltest/internal/agent"
	"skilltest/internal/assertionx"
	"skilltest/internal/truncate"
)

// AgentInvoker is the narrow interface this package needs from
// *agent.Invoker; tests supply a fake.
type AgentInvoker interface {
	Run(ctx context.Context, in agent.Invocation) (agent.Response, error)
}

// Run invokes the agent once and evaluates required and golden assertions
// against its response, always returning a complete record: an invoker
// error (timeout, spawn failure) is demoted to a failed iteration carrying
// a single synthetic "execution" assertion, never propagated.
func Run(ctx context.Context, invoker AgentInvoker, inv agent.Invocation, required, golden []assertionx.Assertion, caller assertionx.AgentCaller, iteration int) IterationRecord {
	start := time.Now()
	resp, err := invoker.Run(ctx, inv)
	latencyMS := time.Since(start).Milliseconds()

	if err != nil {
		msg := truncate.AtCharBudget(err.Error(), truncate.OutputCharBudget)
		return IterationRecord{
			Iteration: iteration,
			Passed:    false,
			LatencyMS: latencyMS,
			Assertions: []AssertionRecord{{
				ID:            "execution",
				AssertionType: "execution",
				Passed:        false,
				Error:         &msg,
			}},
		}
	}

	sum := sha256.Sum256([]byte(resp.ResultText))
	hash := hex.EncodeToString(sum[:])

	requiredRecords, allPassed := evaluateAll(ctx, required, resp.ResultText, resp.ToolCalls, caller)
	goldenRecords, _ := evaluateAll(ctx, golden, resp.ResultText, resp.ToolCalls, caller)

	return IterationRecord{
		Iteration:        iteration,
		Passed:           allPassed,
		LatencyMS:        latencyMS,
		Output:           truncate.AtCharBudget(resp.ResultText, truncate.OutputCharBudget),
		OutputHash:       hash,
		CalledTools:      resp.ToolCalls,
		Assertions:       requiredRecords,
		GoldenAssertions: goldenRecords,
	}
}

func evaluateAll(ctx context.Context, assertions []assertionx.Assertion, output string, tools []string, caller assertionx.AgentCaller) ([]AssertionRecord, bool) {
	records := make([]AssertionRecord, 0, len(assertions))
	allPassed := true

	for _, a := range assertions {
		passed, err := assertionx.Evaluate(ctx, a, output, tools, caller)
		rec := AssertionRecord{
			ID:            a.ID(),
			Desc:          a.Desc(),
			AssertionType: string(a.TypeName()),
			Pattern:       a.Pattern(),
			Passed:        passed,
		}
		if err != nil {
			msg := err.Error()
			rec.Error = &msg
			rec.Passed = false
		}
		if !rec.Passed {
			allPassed = false
		}
		records = append(records, rec)
	}

	return records, allPassed
}
