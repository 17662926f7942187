package credentials

import "os"

// EnvOverride reads the key from the first non-empty environment variable
// and falls back to a base store. Writes always go to the base store.
type EnvOverride struct {
	base  Store
	names []string
}

// NewEnvOverride wraps base with environment variable overrides, checked in
// order.
func NewEnvOverride(base Store, names ...string) *EnvOverride {
	return &EnvOverride{base: base, names: names}
}

// GetKey returns the environment key if set, else the base store's key.
func (e *EnvOverride) GetKey() (string, bool, error) {
	if name, key := e.FromEnv(); name != "" {
		return key, true, nil
	}
	return e.base.GetKey()
}

// FromEnv returns the name and value of the variable supplying the key, or
// empty strings when none is set.
func (e *EnvOverride) FromEnv() (string, string) {
	for _, name := range e.names {
		if key := Normalize(os.Getenv(name)); key != "" {
			return name, key
		}
	}
	return "", ""
}

// SetKey stores key in the base store.
func (e *EnvOverride) SetKey(key string) error {
	return e.base.SetKey(key)
}

// Clear clears the base store. Environment variables are left alone.
func (e *EnvOverride) Clear() error {
	return e.base.Clear()
}
