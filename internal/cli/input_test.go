package cli

import (
	"strings"
	"testing"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadClippings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		separator string
		want      []string
	}{
		{
			name:      "separator lines",
			input:     "first clip\n---\nsecond\nclip\n---\nthird\n",
			separator: "---",
			want:      []string{"first clip", "second\nclip", "third"},
		},
		{
			name:      "separator with surrounding spaces",
			input:     "a\n  ---  \nb",
			separator: "---",
			want:      []string{"a", "b"},
		},
		{
			name:      "blank clippings dropped",
			input:     "---\n\n---\nonly\n---\n",
			separator: "---",
			want:      []string{"only"},
		},
		{
			name:      "line per clipping",
			input:     "one\n\ntwo\r\nthree",
			separator: "",
			want:      []string{"one", "two", "three"},
		},
		{
			name:      "separator inside a line is content",
			input:     "a --- b\n---\nc",
			separator: "---",
			want:      []string{"a --- b", "c"},
		},
		{
			name:      "empty input",
			input:     "",
			separator: "---",
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadClippings(strings.NewReader(tt.input), tt.separator)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadContent(t *testing.T) {
	t.Run("arguments win over stdin", func(t *testing.T) {
		got, err := ReadContent([]string{"hello", "world"}, strings.NewReader("ignored"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", got)
	})

	t.Run("stdin when no arguments", func(t *testing.T) {
		got, err := ReadContent(nil, strings.NewReader("func main() {}\n"))
		require.NoError(t, err)
		assert.Equal(t, "func main() {}\n", got)
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := ReadContent([]string{"  "}, nil)
		assert.ErrorIs(t, err, common.ErrInvalidArgument)

		_, err = ReadContent(nil, strings.NewReader("\n\t"))
		assert.ErrorIs(t, err, common.ErrInvalidArgument)
	})

	t.Run("no stdin", func(t *testing.T) {
		_, err := ReadContent(nil, nil)
		assert.ErrorIs(t, err, common.ErrInvalidArgument)
	})
}
