package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_PATH", filepath.Join(dir, "missing.env"))
	for _, key := range []string{
		"PORT", "RECORDS_PATH", "RECORD_SOURCE", "DATABASE_URL", "PROCEDURE_TYPE",
		"SAMPLE_SIZE", "DOCUMENT_CATEGORY", "OPENAI_API_KEY", "OPENAI_MODEL",
		"OPENAI_BASE_URL", "TEXT_BUDGET", "FETCH_TIMEOUT", "MODEL_TIMEOUT",
		"MAX_DOCUMENT_BYTES", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, SourceFile, cfg.RecordSource)
	assert.Equal(t, 100, cfg.SampleSize)
	assert.Equal(t, 3000, cfg.TextBudget)
	assert.Equal(t, "Legislative proposal", cfg.DocumentCategory)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := isolateEnv(t)

	path := filepath.Join(dir, "config.yaml")
	content := "port: \"8080\"\nsample_size: 10\nfetch_timeout: 5s\nopenai_model: from-yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("OPENAI_MODEL", "from-env")
	t.Setenv("TEXT_BUDGET", "500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.SampleSize)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "from-env", cfg.OpenAIModel)
	assert.Equal(t, 500, cfg.TextBudget)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := isolateEnv(t)
	os.Unsetenv("OPENAI_API_KEY")

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-test\n"), 0o644))
	t.Setenv("ENV_PATH", envFile)
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadInvalidEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SAMPLE_SIZE", "lots")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.RecordSource = "s3" }},
		{"postgres without url", func(c *Config) { c.RecordSource = SourcePostgres }},
		{"zero sample", func(c *Config) { c.SampleSize = 0 }},
		{"zero budget", func(c *Config) { c.TextBudget = 0 }},
		{"zero timeout", func(c *Config) { c.ModelTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.OpenAIAPIKey = "  "
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}
