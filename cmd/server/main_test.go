package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/baditaflorin/l"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_heading_command/internal/config"
)

func testServer(t *testing.T) *server {
	t.Helper()
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{Output: io.Discard})
	require.NoError(t, err)
	return newServer(config.Default(), lg)
}

func do(s *server, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBodyString(body)
	s.requestHandler(&ctx)
	return &ctx
}

func TestHealth(t *testing.T) {
	ctx := do(testServer(t), fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"status":"ok"`)
}

func TestNotFound(t *testing.T) {
	ctx := do(testServer(t), fasthttp.MethodGet, "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestNormalizeEndpoint(t *testing.T) {
	ctx := do(testServer(t), fasthttp.MethodPost, "/normalize", `{"text":"Büro-Tür"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "BueroTuer", resp.Token)
}

func TestNormalizeRejectsGet(t *testing.T) {
	ctx := do(testServer(t), fasthttp.MethodGet, "/normalize", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestIdentifierEndpoint(t *testing.T) {
	ctx := do(testServer(t), fasthttp.MethodPost, "/identifier", `{"title":"Mein Titel","snippet":"erste Zeile"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp IdentifierResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "MeinTitel_ErsteZeile", resp.ID)
}

func TestExecuteEndpoint(t *testing.T) {
	body := `{"markdown":"erste Zeile\n\nzweite Zeile\n","title":"Mein Titel","from":0,"to":0,"value":"heading2"}`
	ctx := do(testServer(t), fasthttp.MethodPost, "/execute", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp ExecuteResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "<h2 id=\"MeinTitel_ErsteZeile\">erste Zeile</h2>\n<p>zweite Zeile</p>\n", resp.HTML)
	assert.Equal(t, "heading2", resp.State.Value)
	assert.True(t, resp.State.IsEnabled)
	require.Len(t, resp.Report.Changes, 1)
	assert.Empty(t, resp.Alerts)
}

func TestExecuteMissingTitleAlerts(t *testing.T) {
	body := `{"markdown":"text\n","from":0,"to":0,"value":"heading1","language":"en"}`
	ctx := do(testServer(t), fasthttp.MethodPost, "/execute", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp ExecuteResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Alerts, 1)
	assert.Contains(t, resp.Alerts[0], "Please give your article a title first")
	assert.Equal(t, "_Text", resp.Report.Changes[0].ID)
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: `{`},
		{name: "missing value", body: `{"markdown":"text\n"}`},
		{name: "unknown value", body: `{"markdown":"text\n","value":"heading9"}`},
		{name: "out of range", body: `{"markdown":"text\n","from":3,"to":3,"value":"heading1"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := do(testServer(t), fasthttp.MethodPost, "/execute", tc.body)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
			assert.Contains(t, string(ctx.Response.Body()), `"error"`)
		})
	}
}

func TestCreateLoggerClosesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	lg, closer, err := createLogger(config.LoggingConfig{Format: "text", File: path})
	require.NoError(t, err)

	lg.Info("started")
	require.NoError(t, lg.Close())
	require.NoError(t, closer.Close())
	assert.ErrorIs(t, closer.Close(), os.ErrClosed, "the log file handle is released")
	assert.FileExists(t, path)
}

func TestCreateLoggerStdout(t *testing.T) {
	lg, closer, err := createLogger(config.LoggingConfig{Format: "json"})
	require.NoError(t, err)
	require.NoError(t, lg.Close())
	assert.NoError(t, closer.Close())
}
