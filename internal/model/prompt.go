package model

import (
	"sort"
	"strings"
)

// PromptEntry is a reusable prompt with its tags.
type PromptEntry struct {
	Text string   `yaml:"text" json:"text"`
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// NewPromptEntry builds an entry with normalized tags.
func NewPromptEntry(text string, tags []string) PromptEntry {
	return PromptEntry{
		Text: text,
		Tags: NormalizeTags(tags),
	}
}

// HasAnyTag reports whether the entry shares at least one tag with tags.
// Tags compare exactly.
func (p PromptEntry) HasAnyTag(tags []string) bool {
	if len(p.Tags) == 0 || len(tags) == 0 {
		return false
	}
	own := make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		own[tag] = struct{}{}
	}
	for _, tag := range tags {
		if _, ok := own[tag]; ok {
			return true
		}
	}
	return false
}

// NormalizeTags drops blank tags and duplicates and sorts the rest. Tag
// values are kept as given; tags have set semantics so order carries no
// meaning.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// GroupSuggestion is a proposed group of clippings, addressed by their
// index in the input sequence.
type GroupSuggestion struct {
	Label   string
	Members []int
}
