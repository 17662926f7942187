// Package grouping proposes groups of related clippings with one remote call.
package grouping

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/llm"
	"github.com/Veraticus/conchis/internal/model"
)

// DefaultMaxClippingChars bounds each clipping's text in the grouping prompt.
const DefaultMaxClippingChars = 500

// Completer issues governed remote calls. *llm.Service satisfies it.
type Completer interface {
	Complete(ctx context.Context, call llm.Call, parse llm.ReplyParser) (model.ClassificationResult, error)
}

// Advisor suggests groups for a batch of clippings.
type Advisor struct {
	completer Completer
	maxChars  int
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithMaxClippingChars sets the per-clipping truncation limit. Values below
// one keep the default.
func WithMaxClippingChars(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.maxChars = n
		}
	}
}

// NewAdvisor creates an advisor issuing calls through completer.
func NewAdvisor(completer Completer, opts ...Option) *Advisor {
	a := &Advisor{
		completer: completer,
		maxChars:  DefaultMaxClippingChars,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Outcome is the single value delivered by SuggestGroupsAsync.
type Outcome struct {
	Err    error
	Groups []model.GroupSuggestion
	Result model.ClassificationResult
}

const groupSystemPrompt = `You organize clipboard history into groups of related items.
Reply with a single JSON object and nothing else.`

type groupReply struct {
	Groups []struct {
		Label   string `json:"label"`
		Members []int  `json:"members"`
	} `json:"groups"`
}

// SuggestGroups makes one governed call carrying every clipping and returns
// groups that partition the input indices. A reply that does not form such a
// partition fails the whole operation with common.ErrMalformedReply; no
// partial grouping is returned.
func (a *Advisor) SuggestGroups(ctx context.Context, clippings []string) ([]model.GroupSuggestion, model.ClassificationResult, error) {
	if len(clippings) == 0 {
		return nil, model.ClassificationResult{}, fmt.Errorf("%w: no clippings to group", common.ErrInvalidArgument)
	}

	var groups []model.GroupSuggestion
	parse := func(text string) (llm.ParsedReply, error) {
		groups = nil
		parsed, err := parseGroups(text, len(clippings))
		if err != nil {
			return llm.ParsedReply{}, err
		}
		groups = parsed
		return llm.ParsedReply{Summary: fmt.Sprintf("%d groups", len(parsed))}, nil
	}

	call := llm.Call{
		Operation: model.OperationGroup,
		System:    groupSystemPrompt,
		Prompt:    a.buildPrompt(clippings),
		MaxTokens: groupMaxTokens(len(clippings)),
	}
	result, err := a.completer.Complete(ctx, call, parse)
	if err != nil {
		return nil, result, err
	}
	return groups, result, nil
}

// SuggestGroupsAsync runs SuggestGroups on its own goroutine. The returned
// channel receives exactly one Outcome and is then closed.
func (a *Advisor) SuggestGroupsAsync(ctx context.Context, clippings []string) <-chan Outcome {
	input := append([]string(nil), clippings...)
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		groups, result, err := a.SuggestGroups(ctx, input)
		out <- Outcome{Groups: groups, Result: result, Err: err}
	}()

	return out
}

func (a *Advisor) buildPrompt(clippings []string) string {
	var b strings.Builder
	b.WriteString("Group these clipboard items by topic or purpose. Every item must belong to exactly one group; use a group of one for unrelated items.\n\nItems:\n")
	for i, c := range clippings {
		fmt.Fprintf(&b, "[%d] %s\n", i, oneLine(llm.TruncateContent(c, a.maxChars)))
	}
	fmt.Fprintf(&b, `
Respond with JSON only, using the item numbers 0 to %d:
{"groups": [{"label": "<short label>", "members": [<item numbers>]}]}`, len(clippings)-1)
	return b.String()
}

// groupMaxTokens leaves room for every index plus labels.
func groupMaxTokens(n int) int {
	return 200 + 8*n
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseGroups(text string, n int) ([]model.GroupSuggestion, error) {
	var reply groupReply
	if err := llm.DecodeJSONReply(text, &reply); err != nil {
		return nil, err
	}
	if len(reply.Groups) == 0 {
		return nil, fmt.Errorf("%w: reply has no groups", common.ErrMalformedReply)
	}

	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}

	groups := make([]model.GroupSuggestion, 0, len(reply.Groups))
	for g, group := range reply.Groups {
		label := strings.TrimSpace(group.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: group %d has no label", common.ErrMalformedReply, g)
		}
		if len(group.Members) == 0 {
			return nil, fmt.Errorf("%w: group %q has no members", common.ErrMalformedReply, label)
		}

		for _, m := range group.Members {
			if m < 0 || m >= n {
				return nil, fmt.Errorf("%w: group %q references item %d, valid range is 0-%d", common.ErrMalformedReply, label, m, n-1)
			}
			if owner[m] >= 0 {
				return nil, fmt.Errorf("%w: item %d appears more than once", common.ErrMalformedReply, m)
			}
			owner[m] = g
		}

		members := append([]int(nil), group.Members...)
		sort.Ints(members)
		groups = append(groups, model.GroupSuggestion{Label: label, Members: members})
	}

	for i, g := range owner {
		if g < 0 {
			return nil, fmt.Errorf("%w: item %d is not in any group", common.ErrMalformedReply, i)
		}
	}
	return groups, nil
}
