package agent

import (
	"context"
)

// JudgeModel is the small model used for llm_eval's secondary agent call:
// a cheap model, single turn, no tool access needed.
const JudgeModel = "claude-3-5-haiku-20241022"

// Judge adapts Invoker to assertionx.AgentCaller: a one-turn call to
// JudgeModel in its own fresh sandbox, used to evaluate an llm_eval
// assertion. Tool use is not switched off; the one-turn limit is the only
// bound on it.
type Judge struct {
	Invoker   *Invoker
	SkillName string
	SkillPath string
}

// CallJudge spawns a single-turn agent invocation with the judge prompt and
// returns its raw result text.
func (j *Judge) CallJudge(ctx context.Context, prompt string, timeoutMS int) (string, error) {
	resp, err := j.Invoker.Run(ctx, Invocation{
		SkillName: j.SkillName,
		SkillPath: j.SkillPath,
		Prompt:    prompt,
		Model:     JudgeModel,
		MaxTurns:  1,
		TimeoutMS: timeoutMS,
	})
	if err != nil {
		return "", err
	}
	return resp.ResultText, nil
}
