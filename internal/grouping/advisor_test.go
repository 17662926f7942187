package grouping

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/credentials"
	"github.com/Veraticus/conchis/internal/llm"
	"github.com/Veraticus/conchis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyClient answers every request with a fixed text.
type replyClient struct {
	text     string
	requests []llm.Request
}

func (c *replyClient) Send(_ context.Context, req llm.Request) (llm.Reply, error) {
	c.requests = append(c.requests, req)
	return llm.Reply{Text: c.text, Model: "gpt-4o-mini", InputTokens: 500, OutputTokens: 50}, nil
}

func newTestService(t *testing.T, client llm.Client) *llm.Service {
	t.Helper()

	svc, err := llm.NewService(context.Background(), llm.Config{MinInterval: time.Nanosecond},
		credentials.NewMemoryStore("sk-test-0123456789abcdef"), common.DiscardLogger(),
		llm.WithClientFactory(func(llm.Config) (llm.Client, error) { return client, nil }))
	require.NoError(t, err)
	return svc
}

var clippings = []string{
	"https://go.dev/doc/effective_go",
	"func main() { fmt.Println(\"hi\") }",
	"https://pkg.go.dev/net/http",
	"Remember to buy milk.",
}

func TestAdvisor_SuggestGroups(t *testing.T) {
	ctx := context.Background()

	t.Run("valid partition", func(t *testing.T) {
		client := &replyClient{text: `{"groups": [
			{"label": "Go docs", "members": [2, 0]},
			{"label": "Code", "members": [1]},
			{"label": " Errands ", "members": [3]}
		]}`}
		svc := newTestService(t, client)

		groups, result, err := NewAdvisor(svc).SuggestGroups(ctx, clippings)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, model.OperationGroup, result.Operation)
		assert.Equal(t, []model.GroupSuggestion{
			{Label: "Go docs", Members: []int{0, 2}},
			{Label: "Code", Members: []int{1}},
			{Label: "Errands", Members: []int{3}},
		}, groups)

		require.Len(t, client.requests, 1, "one call for the whole batch")
		prompt := client.requests[0].Prompt
		for i, c := range clippings {
			assert.Contains(t, prompt, "["+string(rune('0'+i))+"] ")
			assert.Contains(t, prompt, c)
		}
		assert.Contains(t, prompt, "0 to 3")

		stats := svc.Stats()
		assert.Equal(t, 1, stats.RequestsToday)
		assert.Equal(t, 0, stats.ErrorsToday)
		assert.Greater(t, stats.CostThisMonth, 0.0)
	})

	malformed := []struct {
		name  string
		reply string
	}{
		{name: "out of range index", reply: `{"groups": [{"label": "a", "members": [0, 1, 2, 3, 4]}]}`},
		{name: "negative index", reply: `{"groups": [{"label": "a", "members": [-1, 0, 1, 2, 3]}]}`},
		{name: "duplicate across groups", reply: `{"groups": [{"label": "a", "members": [0, 1]}, {"label": "b", "members": [1, 2, 3]}]}`},
		{name: "duplicate within group", reply: `{"groups": [{"label": "a", "members": [0, 0, 1, 2, 3]}]}`},
		{name: "missing index", reply: `{"groups": [{"label": "a", "members": [0, 1, 2]}]}`},
		{name: "empty group", reply: `{"groups": [{"label": "a", "members": [0, 1, 2, 3]}, {"label": "b", "members": []}]}`},
		{name: "blank label", reply: `{"groups": [{"label": " ", "members": [0, 1, 2, 3]}]}`},
		{name: "no groups", reply: `{"groups": []}`},
		{name: "not json", reply: `Group 1: links`},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &replyClient{text: tt.reply})

			groups, result, err := NewAdvisor(svc).SuggestGroups(ctx, clippings)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMalformedReply)
			assert.Nil(t, groups, "no partial grouping")
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.ErrorMessage)

			stats := svc.Stats()
			assert.Equal(t, 1, stats.RequestsToday)
			assert.Equal(t, 1, stats.ErrorsToday)
		})
	}

	t.Run("empty input makes no call", func(t *testing.T) {
		client := &replyClient{}
		svc := newTestService(t, client)

		_, _, err := NewAdvisor(svc).SuggestGroups(ctx, nil)
		assert.ErrorIs(t, err, common.ErrInvalidArgument)
		assert.Empty(t, client.requests)
		assert.Equal(t, 0, svc.Stats().RequestsToday)
	})

	t.Run("not configured", func(t *testing.T) {
		svc, err := llm.NewService(ctx, llm.Config{}, credentials.NewMemoryStore(""), common.DiscardLogger())
		require.NoError(t, err)

		groups, _, err := NewAdvisor(svc).SuggestGroups(ctx, clippings)
		assert.ErrorIs(t, err, common.ErrNotConfigured)
		assert.Nil(t, groups)
	})

	t.Run("long clippings are truncated", func(t *testing.T) {
		client := &replyClient{text: `{"groups": [{"label": "all", "members": [0]}]}`}
		svc := newTestService(t, client)

		long := strings.Repeat("a", 100)
		_, _, err := NewAdvisor(svc, WithMaxClippingChars(10)).SuggestGroups(ctx, []string{long + "\n" + long})
		require.NoError(t, err)
		assert.NotContains(t, client.requests[0].Prompt, strings.Repeat("a", 11))
		assert.Contains(t, client.requests[0].Prompt, "[0] aaaaaaaaaa [truncated]")
	})
}

func TestAdvisor_SuggestGroupsAsync(t *testing.T) {
	client := &replyClient{text: `{"groups": [{"label": "links", "members": [0, 2]}, {"label": "other", "members": [1, 3]}]}`}
	svc := newTestService(t, client)

	input := append([]string(nil), clippings...)
	ch := NewAdvisor(svc).SuggestGroupsAsync(context.Background(), input)
	input[0] = "mutated after the call"

	select {
	case outcome, ok := <-ch:
		require.True(t, ok)
		require.NoError(t, outcome.Err)
		assert.Len(t, outcome.Groups, 2)
		assert.True(t, outcome.Result.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome delivered")
	}

	_, open := <-ch
	assert.False(t, open, "channel closes after the single outcome")
	assert.Contains(t, client.requests[0].Prompt, clippings[0])
}

func TestParseGroups(t *testing.T) {
	groups, err := parseGroups("```json\n{\"groups\":[{\"label\":\"x\",\"members\":[1,0]}]}\n```", 2)
	require.NoError(t, err)
	assert.Equal(t, []model.GroupSuggestion{{Label: "x", Members: []int{0, 1}}}, groups)
}
