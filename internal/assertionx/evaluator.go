package assertionx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// AgentCaller invokes a secondary, single-turn agent call for llm_eval
// assertions. internal/agent implements this.
type AgentCaller interface {
	CallJudge(ctx context.Context, prompt string, timeoutMS int) (reply string, err error)
}

// Evaluate dispatches on assertion's kind and reports whether it passed.
// caller may be nil unless an llm_eval assertion is present.
func Evaluate(ctx context.Context, a Assertion, output string, calledTools []string, caller AgentCaller) (bool, error) {
	switch v := a.(type) {
	case Regex:
		return evalRegex(v, output)
	case Contains:
		return evalContains(v, output), nil
	case LineCount:
		return evalLineCount(v, output), nil
	case Exec:
		return evalExec(ctx, v, output)
	case LLMEval:
		return evalLLMEval(ctx, v, output, caller)
	case ToolCalled:
		return evalToolCalled(v, calledTools)
	default:
		return false, &EvalError{AssertionID: a.ID(), Op: "evaluate", Err: fmt.Errorf("unknown assertion kind %T", a)}
	}
}

func evalRegex(a Regex, output string) (bool, error) {
	re, err := regexp.Compile(a.PatternValue)
	if err != nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "compile regex", Err: err}
	}
	found := re.MatchString(output)
	return found == (a.Expect == Present), nil
}

func evalContains(a Contains, output string) bool {
	found := strings.Contains(output, a.PatternValue)
	return found == (a.Expect == Present)
}

func evalLineCount(a LineCount, output string) bool {
	n := strings.Count(output, "\n") + 1
	if output == "" {
		n = 0
	}
	return a.Check(n)
}

func evalToolCalled(a ToolCalled, calledTools []string) (bool, error) {
	re, err := regexp.Compile(a.PatternValue)
	if err != nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "compile regex", Err: err}
	}
	found := false
	for _, t := range calledTools {
		if re.MatchString(t) {
			found = true
			break
		}
	}
	return found == (a.Expect == Present), nil
}

func evalExec(ctx context.Context, a Exec, output string) (bool, error) {
	block, ok := extractCodeBlock(output, a.Language)
	if !ok {
		return false, &EvalError{AssertionID: a.ID(), Op: "extract code block", Err: fmt.Errorf("no matching code block found")}
	}

	ext := "txt"
	if block.Language != "" {
		ext = languageToExtension(block.Language)
	}

	sum := sha256.Sum256([]byte(block.Content))
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("exec-%s-%s.%s", hex.EncodeToString(sum[:8]), uuid.NewString(), ext))
	if err := os.WriteFile(tempPath, []byte(block.Content), 0o600); err != nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "write temp file", Err: err}
	}
	defer os.Remove(tempPath)

	timeout := time.Duration(a.TimeoutMS) * time.Millisecond
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, a.Command, tempPath)
	stdout, err := cmd.Output()
	if execCtx.Err() == context.DeadlineExceeded {
		return false, &EvalError{AssertionID: a.ID(), Op: "exec", Err: fmt.Errorf("timed out after %dms", a.TimeoutMS)}
	}

	switch a.Expect.Kind {
	case ExitCodeZero:
		return err == nil, nil
	case OutputContains:
		// err may be non-nil (non-zero exit) and stdout still meaningful.
		return strings.Contains(string(stdout), a.Expect.Contains), nil
	default:
		return false, &EvalError{AssertionID: a.ID(), Op: "exec", Err: fmt.Errorf("unrecognized expect kind %q", a.Expect.Kind)}
	}
}

const llmEvalInstructionTemplate = "\n\nRespond with JSON matching this schema: %s\nSet \"result\" to true if the evaluation passes, false otherwise. Include a brief \"reason\" explaining your judgment."

func evalLLMEval(ctx context.Context, a LLMEval, output string, caller AgentCaller) (bool, error) {
	if caller == nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "llm_eval", Err: fmt.Errorf("no agent caller configured")}
	}

	prompt := strings.ReplaceAll(a.PatternValue, "{{output}}", output)

	schema := a.JSONSchema
	if len(schema) == 0 {
		schema = JSONSchemaValue(DefaultLLMEvalSchema)
	}
	evalPrompt := prompt + fmt.Sprintf(llmEvalInstructionTemplate, string(schema))

	reply, err := caller.CallJudge(ctx, evalPrompt, a.TimeoutMS)
	if err != nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "invoke judge", Err: err}
	}

	jsonStr := extractJSON(reply)

	var doc interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return false, &EvalError{AssertionID: a.ID(), Op: "parse reply", Err: fmt.Errorf("%w: %s", err, jsonStr)}
	}

	if len(a.JSONSchema) > 0 {
		schemaLoader := gojsonschema.NewBytesLoader(a.JSONSchema)
		docLoader := gojsonschema.NewStringLoader(jsonStr)
		result, err := gojsonschema.Validate(schemaLoader, docLoader)
		if err != nil {
			return false, &EvalError{AssertionID: a.ID(), Op: "validate schema", Err: err}
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return false, &EvalError{AssertionID: a.ID(), Op: "validate schema", Err: fmt.Errorf("%s", strings.Join(msgs, "; "))}
		}
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return false, &EvalError{AssertionID: a.ID(), Op: "parse reply", Err: fmt.Errorf("reply is not a JSON object")}
	}
	resultVal, ok := obj["result"].(bool)
	if !ok {
		return false, &EvalError{AssertionID: a.ID(), Op: "parse reply", Err: fmt.Errorf("missing or non-boolean 'result' field")}
	}

	return resultVal == (a.Expect == Pass), nil
}

// extractJSON pulls JSON out of an agent reply that may wrap it in a
// ```json fence, a plain ``` fence, or not wrap it at all.
func extractJSON(reply string) string {
	if idx := strings.Index(reply, "```json"); idx >= 0 {
		rest := reply[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(reply, "```"); idx >= 0 {
		rest := reply[idx+3:]
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return strings.TrimSpace(reply)
}
