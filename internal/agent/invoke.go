package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"skilltest/internal/truncate"
)

// BinaryName is the external agent CLI invoked as a child process.
const BinaryName = "claude"

// Invoker spawns the external agent and parses its reply.
type Invoker struct {
	// Binary overrides BinaryName; used by tests.
	Binary string
}

// NewInvoker returns an Invoker that spawns BinaryName.
func NewInvoker() *Invoker {
	return &Invoker{Binary: BinaryName}
}

// Run prepares a sandbox, spawns the agent inside it, and parses its JSON
// event stream. The sandbox is always removed before Run returns, including
// on timeout.
func (inv *Invoker) Run(ctx context.Context, in Invocation) (Response, error) {
	sb, err := newSandbox(in.SkillName, in.SkillPath)
	if err != nil {
		return Response{}, err
	}
	defer sb.close()

	timeout := time.Duration(in.TimeoutMS) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-p", in.Prompt,
		"--output-format", "json",
		"--max-turns", strconv.Itoa(in.MaxTurns),
		"--dangerously-skip-permissions",
	}
	if in.Model != "" {
		args = append(args, "--model", in.Model)
	}

	binary := inv.Binary
	if binary == "" {
		binary = BinaryName
	}

	cmd := exec.CommandContext(runCtx, binary, args...)
	cmd.Dir = sb.dir
	if in.HookPath != "" {
		cmd.Env = append(os.Environ(), "CLAUDE_HOOK_PATH="+in.HookPath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return Response{}, &TimeoutError{Skill: in.SkillName, TimeoutMS: in.TimeoutMS}
	}

	if runErr != nil {
		return Response{}, &ExitError{
			Skill:  in.SkillName,
			Stderr: truncate.AtCharBudget(stderr.String(), truncate.OutputCharBudget),
			Err:    runErr,
		}
	}

	resp, err := parseEvents(stdout.Bytes())
	if err != nil {
		return Response{}, &ParseError{Skill: in.SkillName, Err: err}
	}
	return resp, nil
}

// parseEvents decodes the agent's single JSON array of tagged events,
// extracting the last result event's text and the ordered tool-use names
// from every assistant event.
func parseEvents(raw []byte) (Response, error) {
	var events []event
	if err := json.Unmarshal(raw, &events); err != nil {
		return Response{}, fmt.Errorf("decode event array: %w", err)
	}

	var resp Response
	sawResult := false

	for _, ev := range events {
		switch ev.Type {
		case "assistant":
			var msg assistantMessage
			if err := json.Unmarshal(ev.Message, &msg); err != nil {
				continue
			}
			for _, block := range msg.Content {
				if block.Type == "tool_use" && block.Name != "" {
					resp.ToolCalls = append(resp.ToolCalls, block.Name)
				}
			}
		case "result":
			resp.ResultText = ev.Result
			resp.IsError = ev.IsError
			sawResult = true
		case "system":
			// tools list is carried here; ignored for evaluation.
		default:
			// unknown tags are silently ignored.
		}
	}

	if !sawResult {
		return Response{}, fmt.Errorf("no result event in agent output")
	}
	return resp, nil
}
