package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/conchis/internal/common"
)

// DefaultSeparator splits clippings read from a single stream.
const DefaultSeparator = "---"

// ReadClippings reads r and splits it into clippings on lines that consist
// only of separator. An empty separator puts one clipping on each non-blank
// line. Blank clippings are dropped.
func ReadClippings(r io.Reader, separator string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read clippings: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	separator = strings.TrimSpace(separator)

	var clippings []string
	var current []string
	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			clippings = append(clippings, text)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if separator == "" {
			current = append(current, line)
			flush()
			continue
		}
		if strings.TrimSpace(line) == separator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return clippings, nil
}

// ReadContent returns the joined arguments, or all of stdin when there are
// none. The content must not be blank.
func ReadContent(args []string, stdin io.Reader) (string, error) {
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		if stdin == nil {
			return "", common.NewUserError("no content given; pass it as an argument or on stdin", common.ErrInvalidArgument)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	if strings.TrimSpace(content) == "" {
		return "", common.NewUserError("content is empty", common.ErrInvalidArgument)
	}
	return content, nil
}
