package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlausibleKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"openrouter key", "sk-or-v1-0123456789abcdef0123", true},
		{"anthropic key", "sk-ant-REDACTED", true},
		{"surrounding whitespace trimmed", "  sk-0123456789abcdef \n", true},
		{"exactly minimum length", "0123456789abcdef", true},
		{"too short", "sk-short", false},
		{"empty", "", false},
		{"whitespace only", "                    ", false},
		{"inner space", "sk-0123456789 abcdef", false},
		{"inner tab", "sk-0123456789\tabcdef", false},
		{"non ascii", "sk-0123456789abcdéf", false},
		{"control character", "sk-0123456789abc\x00def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlausibleKey(tt.key))
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "sk-o*********cdef", Mask("sk-or-v1-abcdcdef"))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "", Mask(""))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")

	key, ok, err := s.GetKey()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, key)

	require.NoError(t, s.SetKey("  sk-0123456789abcdef  "))
	key, ok, err = s.GetKey()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-0123456789abcdef", key)

	assert.ErrorIs(t, s.SetKey("   "), common.ErrInvalidArgument)

	require.NoError(t, s.Clear())
	_, ok, err = s.GetKey()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "credentials.yaml")
	s := NewFileStore(path)
	assert.Equal(t, path, s.Path())

	t.Run("missing file is not configured", func(t *testing.T) {
		_, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.SetKey("sk-or-v1-0123456789abcdef\n"))

		key, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "sk-or-v1-0123456789abcdef", key)

		info, err := os.Stat(path)
		require.NoError(t, err)
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		}

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("another store sees the key", func(t *testing.T) {
		key, ok, err := NewFileStore(path).GetKey()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "sk-or-v1-0123456789abcdef", key)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.SetKey(""), common.ErrInvalidArgument)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, s.Clear())
		require.NoError(t, s.Clear())
		_, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("api_key: [unterminated"), 0o600))
		_, _, err := s.GetKey()
		assert.Error(t, err)
	})
}

func TestEnvOverride(t *testing.T) {
	base := NewMemoryStore("sk-base-0123456789abcdef")
	s := NewEnvOverride(base, "CONCHIS_TEST_API_KEY", "CONCHIS_TEST_FALLBACK_KEY")

	t.Run("falls back to base", func(t *testing.T) {
		t.Setenv("CONCHIS_TEST_API_KEY", "")
		t.Setenv("CONCHIS_TEST_FALLBACK_KEY", "")

		key, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "sk-base-0123456789abcdef", key)

		name, _ := s.FromEnv()
		assert.Empty(t, name)
	})

	t.Run("first variable wins", func(t *testing.T) {
		t.Setenv("CONCHIS_TEST_API_KEY", "sk-env-primary-0123456789")
		t.Setenv("CONCHIS_TEST_FALLBACK_KEY", "sk-env-fallback-0123456789")

		key, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "sk-env-primary-0123456789", key)
	})

	t.Run("later variable used when earlier unset", func(t *testing.T) {
		t.Setenv("CONCHIS_TEST_API_KEY", " ")
		t.Setenv("CONCHIS_TEST_FALLBACK_KEY", "sk-env-fallback-0123456789")

		name, key := s.FromEnv()
		assert.Equal(t, "CONCHIS_TEST_FALLBACK_KEY", name)
		assert.Equal(t, "sk-env-fallback-0123456789", key)
	})

	t.Run("writes go to base", func(t *testing.T) {
		t.Setenv("CONCHIS_TEST_API_KEY", "sk-env-primary-0123456789")

		require.NoError(t, s.SetKey("sk-new-base-0123456789"))
		key, _, _ := base.GetKey()
		assert.Equal(t, "sk-new-base-0123456789", key)

		require.NoError(t, s.Clear())
		_, ok, _ := base.GetKey()
		assert.False(t, ok)

		key, ok, err := s.GetKey()
		require.NoError(t, err)
		assert.True(t, ok, "environment still supplies a key")
		assert.Equal(t, "sk-env-primary-0123456789", key)
	})
}
