package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rugcheck/internal/config"
)

func TestServer_Status(t *testing.T) {
	cfg := config.Default()
	srv := &Server{started: time.Now().Add(-time.Minute), cfg: cfg}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := srv.routes(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Status)
	assert.Equal(t, cfg.LLMModel, resp.LLMModel)
	assert.NotEmpty(t, resp.Uptime)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/check-contract", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"port", "rpc-url", "explorer-url", "llm-base-url", "static-dir", "log-level", "shutdown-timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestRootCommand_ConfigErrorIsFatal(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("POLYGONSCAN_API_KEY", "explorer-key")
	t.Setenv("DEEPSEEK_API_KEY", "llm-key")

	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.NotContains(t, err.Error(), "API key is required")
}
