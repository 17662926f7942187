package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAPIKey = "sk-or-v1-0123456789abcdef"

// harness runs conchis commands against a temporary database, credentials
// file and, optionally, a fake OpenAI-compatible server.
type harness struct {
	t          *testing.T
	dir        string
	configPath string
	replies    atomic.Value
	calls      atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("CONCHIS_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	h := &harness{t: t, dir: t.TempDir()}
	h.replies.Store("")

	server := httptest.NewServer(http.HandlerFunc(h.serveChat))
	t.Cleanup(server.Close)

	h.configPath = filepath.Join(h.dir, "config.yaml")
	cfg := fmt.Sprintf(`logging:
  level: error
llm:
  provider: openrouter
  base_url: %s
  min_interval: 1h
database:
  path: %s
credentials:
  path: %s
`, server.URL, filepath.Join(h.dir, "conchis.db"), filepath.Join(h.dir, "credentials.yaml"))
	require.NoError(t, os.WriteFile(h.configPath, []byte(cfg), 0o600))

	return h
}

// reply sets the assistant text the fake server answers with.
func (h *harness) reply(text string) {
	h.replies.Store(text)
}

func (h *harness) serveChat(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)
	if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		http.Error(w, `{"error":{"message":"unauthorized"}}`, http.StatusUnauthorized)
		return
	}

	resp := map[string]any{
		"id":    "gen-1",
		"model": "openai/gpt-4o-mini",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": h.replies.Load().(string)}, "finish_reason": "stop"},
		},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 20, "cost": 0.0005},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// run executes one command line and returns its stdout.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--config", h.configPath}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	var in io.Reader = strings.NewReader(stdin)
	root.SetIn(in)

	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, "conchis %s\n%s", strings.Join(args, " "), out)
	return out
}

func (h *harness) storeKey() {
	h.t.Helper()
	h.mustRun("", "key", "set", testAPIKey)
}
