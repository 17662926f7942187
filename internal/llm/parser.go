package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
)

// MaxPromptContentChars bounds the clipping text embedded in a classify prompt.
const MaxPromptContentChars = 4000

const classifySystemPrompt = `You classify clipboard contents for a clipboard history manager.
Reply with a single JSON object and nothing else.`

// BuildClassifyPrompt returns the user prompt for a classification call. The
// local heuristic's guess is included as a hint only.
func BuildClassifyPrompt(content string, hint model.Category) string {
	categories := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		categories = append(categories, c.String())
	}

	return fmt.Sprintf(`Classify this clipboard content into exactly one category.

Categories: %s
- Code: source code, shell commands, configuration snippets
- Link: URLs, email addresses, filesystem paths
- Data: JSON, CSV/TSV tables, numbers
- Text: prose, notes, messages
- Unknown: anything that fits none of the above

Local heuristic guess: %s

Content:
"""
%s
"""

Respond with JSON only:
{"category": "<one of the categories>", "summary": "<one sentence, at most 20 words>"}`,
		strings.Join(categories, ", "),
		hint.String(),
		TruncateContent(content, MaxPromptContentChars))
}

const connectionTestPrompt = `Reply with the single word OK.`

// TruncateContent shortens content to at most limit runes, marking the cut.
func TruncateContent(content string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + "\n[truncated]"
}

type classifyReply struct {
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

// ParseClassificationReply parses a classification reply. Anything other
// than a JSON object naming a known category is malformed.
func ParseClassificationReply(text string) (ParsedReply, error) {
	var reply classifyReply
	if err := DecodeJSONReply(text, &reply); err != nil {
		return ParsedReply{}, err
	}

	if strings.TrimSpace(reply.Category) == "" {
		return ParsedReply{}, fmt.Errorf("%w: reply has no category", common.ErrMalformedReply)
	}
	category, err := model.ParseCategory(reply.Category)
	if err != nil {
		return ParsedReply{}, fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}

	return ParsedReply{
		Category: &category,
		Summary:  strings.TrimSpace(reply.Summary),
	}, nil
}

// parseConnectionReply accepts any non-empty reply.
func parseConnectionReply(text string) (ParsedReply, error) {
	if strings.TrimSpace(text) == "" {
		return ParsedReply{}, fmt.Errorf("%w: empty reply", common.ErrMalformedReply)
	}
	return ParsedReply{}, nil
}

// DecodeJSONReply extracts the JSON object from a model reply and decodes it
// into v. Models often wrap JSON in markdown fences or add a sentence around
// it; both are tolerated. Every failure wraps common.ErrMalformedReply.
func DecodeJSONReply(text string, v any) error {
	cleaned := cleanMarkdownWrapper(text)
	if cleaned == "" {
		return fmt.Errorf("%w: empty reply", common.ErrMalformedReply)
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: reply is not valid JSON: %v (reply: %s)", common.ErrMalformedReply, err, truncate(text, 120))
	}
	return nil
}

// cleanMarkdownWrapper strips code fences and any text outside the outermost
// JSON object.
func cleanMarkdownWrapper(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = ""
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
