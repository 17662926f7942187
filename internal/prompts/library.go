// Package prompts manages a library of reusable prompts indexed by tag.
package prompts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
)

// ErrIndexOutOfRange is returned by RemoveAt for an invalid index.
var ErrIndexOutOfRange = fmt.Errorf("%w: prompt index out of range", common.ErrInvalidArgument)

// Store persists the library in order. Positions are zero-based and match
// library indices.
type Store interface {
	LoadPrompts(ctx context.Context) ([]model.PromptEntry, error)
	AppendPrompt(ctx context.Context, entry model.PromptEntry) error
	DeletePromptAt(ctx context.Context, index int) error
	ReplacePrompts(ctx context.Context, entries []model.PromptEntry) error
}

// Library is an ordered list of prompt entries. Reads may run concurrently;
// mutations are serialized. With a Store, every mutation is written through
// before the in-memory list changes.
type Library struct {
	store   Store
	entries []model.PromptEntry
	mu      sync.RWMutex
}

// NewLibrary creates an empty in-memory library.
func NewLibrary() *Library {
	return &Library{}
}

// OpenLibrary loads a library from store.
func OpenLibrary(ctx context.Context, store Store) (*Library, error) {
	entries, err := store.LoadPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	lib := &Library{store: store}
	for _, e := range entries {
		lib.entries = append(lib.entries, model.NewPromptEntry(e.Text, e.Tags))
	}
	return lib, nil
}

// Add appends a prompt. Identical prompts are not deduplicated.
func (l *Library) Add(ctx context.Context, text string, tags []string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: prompt text is empty", common.ErrInvalidArgument)
	}
	entry := model.NewPromptEntry(text, tags)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.AppendPrompt(ctx, entry); err != nil {
			return fmt.Errorf("failed to save prompt: %w", err)
		}
	}
	l.entries = append(l.entries, entry)
	return nil
}

// RemoveAt deletes the prompt at index.
func (l *Library) RemoveAt(ctx context.Context, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.entries) {
		return fmt.Errorf("%w: %d (library has %d prompts)", ErrIndexOutOfRange, index, len(l.entries))
	}

	if l.store != nil {
		if err := l.store.DeletePromptAt(ctx, index); err != nil {
			return fmt.Errorf("failed to delete prompt: %w", err)
		}
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// Replace swaps the whole library for entries.
func (l *Library) Replace(ctx context.Context, entries []model.PromptEntry) error {
	normalized := make([]model.PromptEntry, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("%w: prompt %d has empty text", common.ErrInvalidArgument, i)
		}
		normalized = append(normalized, model.NewPromptEntry(e.Text, e.Tags))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.ReplacePrompts(ctx, normalized); err != nil {
			return fmt.Errorf("failed to replace prompts: %w", err)
		}
	}
	l.entries = normalized
	return nil
}

// All returns every prompt in library order.
func (l *Library) All() []model.PromptEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.PromptEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Matching returns, in library order, the prompts sharing at least one tag
// with tags.
func (l *Library) Matching(tags []string) []model.PromptEntry {
	query := model.NormalizeTags(tags)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.PromptEntry
	for _, e := range l.entries {
		if e.HasAnyTag(query) {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// Len returns the number of prompts.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Tags returns every tag in use with its prompt count.
func (l *Library) Tags() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range l.entries {
		for _, tag := range e.Tags {
			counts[tag]++
		}
	}
	return counts
}

func copyEntry(e model.PromptEntry) model.PromptEntry {
	out := model.PromptEntry{Text: e.Text}
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	return out
}
