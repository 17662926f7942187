package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/conchis/internal/model"
)

// LoadPrompts returns the prompt library in order.
func (s *SQLiteStorage) LoadPrompts(ctx context.Context) ([]model.PromptEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadPromptsTx(ctx, s.db)
}

func (s *SQLiteStorage) loadPromptsTx(ctx context.Context, q queryable) ([]model.PromptEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT text, tags
		FROM prompts
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.PromptEntry
	for rows.Next() {
		var text, tagsJSON string
		if err := rows.Scan(&text, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}

		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for prompt %q: %w", text, err)
		}
		entries = append(entries, model.NewPromptEntry(text, tags))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prompts: %w", err)
	}
	return entries, nil
}

// AppendPrompt stores entry after the last prompt.
func (s *SQLiteStorage) AppendPrompt(ctx context.Context, entry model.PromptEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePrompt(entry); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM prompts`).Scan(&next); err != nil {
			return fmt.Errorf("failed to find next prompt position: %w", err)
		}
		return insertPrompt(ctx, tx, next, entry)
	})
}

// DeletePromptAt removes the prompt at the zero-based index and closes the
// gap in positions.
func (s *SQLiteStorage) DeletePromptAt(ctx context.Context, index int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("%w %d", ErrPromptNotFound, index)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		var position int
		err := tx.QueryRowContext(ctx, `
			SELECT id, position
			FROM prompts
			ORDER BY position, id
			LIMIT 1 OFFSET ?
		`, index).Scan(&id, &position)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w %d", ErrPromptNotFound, index)
		}
		if err != nil {
			return fmt.Errorf("failed to find prompt: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete prompt: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE prompts SET position = position - 1 WHERE position > ?`, position); err != nil {
			return fmt.Errorf("failed to renumber prompts: %w", err)
		}
		return nil
	})
}

// ReplacePrompts replaces the whole library.
func (s *SQLiteStorage) ReplacePrompts(ctx context.Context, entries []model.PromptEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, entry := range entries {
		if err := validatePrompt(entry); err != nil {
			return fmt.Errorf("prompt at index %d: %w", i, err)
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM prompts`); err != nil {
			return fmt.Errorf("failed to clear prompts: %w", err)
		}
		for i, entry := range entries {
			if err := insertPrompt(ctx, tx, i, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPrompt(ctx context.Context, tx *sql.Tx, position int, entry model.PromptEntry) error {
	tags := model.NormalizeTags(entry.Tags)
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO prompts (position, text, tags)
		VALUES (?, ?, ?)
	`, position, entry.Text, string(tagsJSON)); err != nil {
		return fmt.Errorf("failed to save prompt: %w", err)
	}
	return nil
}
