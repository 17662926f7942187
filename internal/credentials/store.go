// Package credentials stores the API key used for remote calls.
package credentials

import (
	"strings"
)

// MinKeyLength is the shortest key considered plausible.
const MinKeyLength = 16

// Store is a credential backend. GetKey reports false when no key is stored.
type Store interface {
	GetKey() (string, bool, error)
	SetKey(key string) error
	Clear() error
}

// Normalize trims surrounding whitespace from a key.
func Normalize(key string) string {
	return strings.TrimSpace(key)
}

// IsPlausibleKey reports whether key looks like an API key. It checks shape
// only: at least MinKeyLength printable ASCII characters without whitespace
// once surrounding whitespace is trimmed.
func IsPlausibleKey(key string) bool {
	key = Normalize(key)
	if len(key) < MinKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if c := key[i]; c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}

// Mask returns a key with all but its first and last four characters hidden,
// for display.
func Mask(key string) string {
	key = Normalize(key)
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
