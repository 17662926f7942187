// Package classification provides the local, network-free content classifier.
package classification

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/Veraticus/conchis/internal/model"
)

// predicate is one heuristic in the ordered classification chain.
type predicate struct {
	match    func(sample) bool
	name     string
	category model.Category
}

// predicates are checked in order; the first match wins.
var predicates = []predicate{
	{name: "code", category: model.CategoryCode, match: looksLikeCode},
	{name: "link", category: model.CategoryLink, match: looksLikeLink},
	{name: "data", category: model.CategoryData, match: looksLikeData},
	{name: "text", category: model.CategoryText, match: looksLikeText},
}

// sample is the pre-split view of content shared by all predicates.
type sample struct {
	trimmed string
	lines   []string // non-blank lines, right-trimmed, indentation kept
	tokens  []string
	isJSON  bool
}

func newSample(content string) sample {
	trimmed := strings.TrimSpace(content)

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	return sample{
		trimmed: trimmed,
		lines:   lines,
		tokens:  strings.Fields(trimmed),
		isJSON:  isJSON(trimmed, lines),
	}
}

// ClassifyLocally assigns content to a category using only local heuristics.
// It never fails: content that matches nothing is CategoryUnknown.
func ClassifyLocally(content string) model.Category {
	s := newSample(content)
	if s.trimmed == "" {
		return model.CategoryUnknown
	}

	for _, p := range predicates {
		if p.match(s) {
			return p.category
		}
	}

	return model.CategoryUnknown
}

// Explain returns the name of the predicate that decided the category, or
// "none" for CategoryUnknown.
func Explain(content string) string {
	s := newSample(content)
	if s.trimmed == "" {
		return "none"
	}
	for _, p := range predicates {
		if p.match(s) {
			return p.name
		}
	}
	return "none"
}

func looksLikeCode(s sample) bool {
	// Braces alone are not a code marker; JSON belongs to Data.
	if s.isJSON {
		return false
	}

	if strings.HasPrefix(s.trimmed, "#!") {
		return true
	}

	structural := 0
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		for _, re := range codeLinePatterns {
			if re.MatchString(trimmed) {
				return true
			}
		}
		if statementPattern.MatchString(trimmed) {
			return true
		}
		if len(s.lines) > 1 && bareImportPattern.MatchString(trimmed) {
			return true
		}
		switch trimmed[len(trimmed)-1] {
		case ';', '{', '}':
			structural++
		}
	}
	if structural >= 2 {
		return true
	}

	return isIndentedBlock(s.lines)
}

// isIndentedBlock reports whether lines form an indentation-heavy block with
// no prose-style line endings.
func isIndentedBlock(lines []string) bool {
	if len(lines) < 3 {
		return false
	}

	indented := 0
	for i, line := range lines {
		if endsLikeProse(line) {
			return false
		}
		if i > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			indented++
		}
	}

	return indented*2 >= len(lines)-1
}

func endsLikeProse(line string) bool {
	switch line[len(line)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func looksLikeLink(s sample) bool {
	if len(s.tokens) == 0 {
		return false
	}

	links := 0
	for _, token := range s.tokens {
		if isLinkToken(token) {
			links++
		}
	}

	return links > 0 && links*2 >= len(s.tokens)
}

func isLinkToken(token string) bool {
	token = strings.Trim(token, linkTokenTrim)
	if token == "" {
		return false
	}
	return urlPattern.MatchString(token) ||
		wwwPattern.MatchString(token) ||
		mailtoPattern.MatchString(token) ||
		emailPattern.MatchString(token) ||
		absolutePathPattern.MatchString(token) ||
		windowsPathPattern.MatchString(token) ||
		relativePathPattern.MatchString(token)
}

func looksLikeData(s sample) bool {
	return s.isJSON || isNumeric(s.trimmed) || isDelimited(s.lines)
}

func isJSON(trimmed string, lines []string) bool {
	if trimmed == "" {
		return false
	}
	if json.Valid([]byte(trimmed)) {
		return true
	}

	// JSON Lines: every line is a JSON object or array on its own.
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") && !strings.HasPrefix(line, "[") {
			return false
		}
		if !json.Valid([]byte(line)) {
			return false
		}
	}
	return true
}

func isNumeric(trimmed string) bool {
	for _, re := range numericPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// isDelimited reports whether lines form a comma or tab separated table with
// a consistent column count of at least two.
func isDelimited(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines {
		if endsLikeProse(line) {
			return false
		}
	}

	for _, comma := range []rune{'\t', ','} {
		if columns := consistentColumns(lines, comma); columns >= 2 {
			return true
		}
	}
	return false
}

func consistentColumns(lines []string, comma rune) int {
	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = 0

	columns := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0
		}
		if columns == 0 {
			columns = len(record)
		}
	}
	return columns
}

func looksLikeText(s sample) bool {
	words := 0
	for _, token := range s.tokens {
		if strings.IndexFunc(token, unicode.IsLetter) >= 0 {
			words++
		}
	}
	return words >= 2
}
