package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_Prompts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	entries, err := store.LoadPrompts(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, e := range []model.PromptEntry{
		{Text: "first", Tags: []string{"Code", "review"}},
		{Text: "second"},
		{Text: "third", Tags: []string{"sql"}},
		{Text: "fourth"},
	} {
		require.NoError(t, store.AppendPrompt(ctx, e))
	}

	entries, err = store.LoadPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, model.PromptEntry{Text: "first", Tags: []string{"Code", "review"}}, entries[0])
	assert.Equal(t, model.PromptEntry{Text: "second"}, entries[1])

	t.Run("delete renumbers", func(t *testing.T) {
		require.NoError(t, store.DeletePromptAt(ctx, 1))
		require.NoError(t, store.AppendPrompt(ctx, model.PromptEntry{Text: "fifth"}))
		require.NoError(t, store.DeletePromptAt(ctx, 0))

		entries, err := store.LoadPrompts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "fourth", "fifth"}, texts(entries))

		var positions []int
		rows, err := store.db.Query(`SELECT position FROM prompts ORDER BY position`)
		require.NoError(t, err)
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var p int
			require.NoError(t, rows.Scan(&p))
			positions = append(positions, p)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{0, 1, 2}, positions)
	})

	t.Run("delete out of range", func(t *testing.T) {
		for _, index := range []int{-1, 3, 100} {
			err := store.DeletePromptAt(ctx, index)
			assert.ErrorIs(t, err, ErrPromptNotFound, "index %d", index)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
		}
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, store.ReplacePrompts(ctx, []model.PromptEntry{
			{Text: "only", Tags: []string{"x"}},
			{Text: "two"},
		}))
		entries, err := store.LoadPrompts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"only", "two"}, texts(entries))

		require.NoError(t, store.ReplacePrompts(ctx, nil))
		entries, err = store.LoadPrompts(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("invalid prompts rejected", func(t *testing.T) {
		err := store.AppendPrompt(ctx, model.PromptEntry{Text: " "})
		assert.True(t, errors.Is(err, ErrInvalidPrompt))

		err = store.ReplacePrompts(ctx, []model.PromptEntry{{Text: "ok"}, {Text: ""}})
		assert.ErrorIs(t, err, ErrInvalidPrompt)
	})
}

func texts(entries []model.PromptEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}
