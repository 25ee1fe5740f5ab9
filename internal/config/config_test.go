package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/baditaflorin/go_heading_command/internal/core/domain"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", Default().Server.Addr())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heading.yaml")
	err := os.WriteFile(path, []byte(`
editor:
  title_html_id: "#page-title"
  language: en
  model_elements: [paragraph, heading2, heading3]
normalizer:
  compose: true
server:
  port: 9090
  read_timeout: 5s
logging:
  format: text
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "#page-title", cfg.Editor.TitleHTMLID)
	assert.Equal(t, "en", cfg.Editor.Language)
	assert.Equal(t, []string{domain.Paragraph, domain.Heading2, domain.Heading3}, cfg.Editor.ModelElements)
	assert.True(t, cfg.Normalizer.Compose)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HEADING_EDITOR_LANGUAGE", "en")
	t.Setenv("HEADING_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Editor.Language)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/heading.yaml")
	assert.Error(t, err)
}

func TestValidateEditor(t *testing.T) {
	cfg := Default()
	cfg.Editor.TitleHTMLID = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Editor.ModelElements = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Editor.ModelElements = []string{"heading7"}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Editor.Language = "!!"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		cfg := Default()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := Default()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateReportsAllViolations(t *testing.T) {
	cfg := Default()
	cfg.Editor.TitleHTMLID = ""
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor.title_html_id")
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "logging.format")
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := Default()
		cfg.Server.Port = port
		assert.NoError(t, cfg.Validate())
	})
}

func TestPropertyInvalidPortRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(rapid.IntRange(-1000, 0), rapid.IntRange(65536, 100000)).Draw(t, "port")
		cfg := Default()
		cfg.Server.Port = port
		assert.Error(t, cfg.Validate())
	})
}

func TestPropertyHeadingSubsetsValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elems := rapid.SliceOfNDistinct(rapid.SampledFrom(domain.DefaultModelElements), 1, len(domain.DefaultModelElements), rapid.ID[string]).Draw(t, "elements")
		cfg := Default()
		cfg.Editor.ModelElements = elems
		assert.NoError(t, cfg.Validate())
	})
}
