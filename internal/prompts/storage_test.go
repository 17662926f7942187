package prompts

import (
	"bytes"
	"context"
	"testing"

	"github.com/Veraticus/conchis/internal/model"
	"github.com/Veraticus/conchis/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t,
		model.NewPromptEntry("Explain this error.", []string{"debug"}),
		model.NewPromptEntry("Write a commit message.", []string{"git", "writing"}),
	)

	lib, err := OpenLibrary(ctx, db.Storage)
	require.NoError(t, err)
	require.Equal(t, 2, lib.Len())

	require.NoError(t, lib.Add(ctx, "Summarize the thread.", []string{"writing"}))
	require.NoError(t, lib.RemoveAt(ctx, 0))

	stored := db.MustLoadPrompts()
	assert.Equal(t, lib.All(), stored)
	require.Len(t, stored, 2)
	assert.Equal(t, "Write a commit message.", stored[0].Text)
	assert.Equal(t, []string{"writing"}, stored[1].Tags)

	reopened, err := OpenLibrary(ctx, db.Storage)
	require.NoError(t, err)
	assert.Len(t, reopened.Matching([]string{"writing"}), 2)
}

func TestLibrary_SQLiteImportReplace(t *testing.T) {
	ctx := context.Background()
	source := testutil.SetupTestDB(t, model.NewPromptEntry("Review this diff.", []string{"code"}))
	target := testutil.SetupTestDB(t, model.NewPromptEntry("Old prompt.", nil))

	from, err := OpenLibrary(ctx, source.Storage)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, from.ExportYAML(&buf))

	to, err := OpenLibrary(ctx, target.Storage)
	require.NoError(t, err)
	n, err := to.ImportYAML(ctx, &buf, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored := target.MustLoadPrompts()
	require.Len(t, stored, 1)
	assert.Equal(t, "Review this diff.", stored[0].Text)
}
