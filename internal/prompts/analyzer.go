package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/llm"
	"github.com/Veraticus/conchis/internal/model"
)

// Completer issues governed remote calls. *llm.Service satisfies it.
type Completer interface {
	Complete(ctx context.Context, call llm.Call, parse llm.ReplyParser) (model.ClassificationResult, error)
}

// Analyzer asks the remote model whether a clipping is a reusable prompt.
type Analyzer struct {
	completer Completer
}

// NewAnalyzer creates an analyzer issuing calls through completer.
func NewAnalyzer(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

const analyzeSystemPrompt = `You review clipboard contents and spot reusable prompts for AI assistants.
Reply with a single JSON object and nothing else.`

type analyzeReply struct {
	Prompt   string   `json:"prompt"`
	Reason   string   `json:"reason"`
	Tags     []string `json:"tags"`
	Reusable bool     `json:"reusable"`
}

func buildAnalyzePrompt(content string) string {
	return fmt.Sprintf(`Decide whether this clipboard content is a reusable prompt: an instruction to an AI assistant that could be applied again to different input.

Content:
"""
%s
"""

Respond with JSON only:
{"reusable": true|false, "prompt": "<the prompt, generalized if needed>", "tags": ["<1-4 short lowercase tags>"], "reason": "<one sentence>"}`,
		llm.TruncateContent(content, llm.MaxPromptContentChars))
}

// Analyze makes one governed call. The entry is nil when the content is not
// a reusable prompt. Errors follow llm.Service.Complete: gating errors mean
// no call was made, remote failures come with a recorded failed result.
func (a *Analyzer) Analyze(ctx context.Context, content string) (*model.PromptEntry, model.ClassificationResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ClassificationResult{}, fmt.Errorf("%w: content is empty", common.ErrInvalidArgument)
	}

	var reply analyzeReply
	parse := func(text string) (llm.ParsedReply, error) {
		reply = analyzeReply{}
		if err := llm.DecodeJSONReply(text, &reply); err != nil {
			return llm.ParsedReply{}, err
		}
		if reply.Reusable && strings.TrimSpace(reply.Prompt) == "" {
			return llm.ParsedReply{}, fmt.Errorf("%w: reusable reply has no prompt", common.ErrMalformedReply)
		}
		return llm.ParsedReply{Summary: strings.TrimSpace(reply.Reason)}, nil
	}

	call := llm.Call{
		Operation: model.OperationAnalyzePrompt,
		System:    analyzeSystemPrompt,
		Prompt:    buildAnalyzePrompt(content),
	}
	result, err := a.completer.Complete(ctx, call, parse)
	if err != nil {
		return nil, result, err
	}
	if !reply.Reusable {
		return nil, result, nil
	}

	entry := model.NewPromptEntry(strings.TrimSpace(reply.Prompt), reply.Tags)
	return &entry, result, nil
}
