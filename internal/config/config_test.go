package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OMOPCHAT_REGION", "OMOPCHAT_FUNCTION", "OMOPCHAT_PROFILE",
		"OMOPCHAT_ACCESS_KEY_ID", "OMOPCHAT_SECRET_ACCESS_KEY",
		"OMOPCHAT_GREETING", "OMOPCHAT_LOG_FILE", "OMOPCHAT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "IST2SQL", cfg.FunctionName)
	assert.Equal(t, DefaultGreeting, cfg.Greeting)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.AccessKeyID)
	assert.Empty(t, cfg.SecretAccessKey)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OMOPCHAT_REGION", "eu-central-1")
	t.Setenv("OMOPCHAT_FUNCTION", "IST2SQL-staging")
	t.Setenv("OMOPCHAT_LOG_LEVEL", "debug")
	t.Setenv("OMOPCHAT_ACCESS_KEY_ID", "AKIAEXAMPLE")

	cfg := Load()
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "IST2SQL-staging", cfg.FunctionName)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "AKIAEXAMPLE", cfg.AccessKeyID)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("region: ap-southeast-2\nfunction_name: IST2SQL-dev\nlog_level: warn\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	base := Config{Region: "us-east-1", FunctionName: "IST2SQL", Greeting: DefaultGreeting}
	cfg, err := LoadFile(base, path)
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", cfg.Region)
	assert.Equal(t, "IST2SQL-dev", cfg.FunctionName)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	// Untouched fields keep their values.
	assert.Equal(t, DefaultGreeting, cfg.Greeting)
}

func TestLoadFileMissing(t *testing.T) {
	base := Config{Region: "us-east-1"}
	_, err := LoadFile(base, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: [unclosed"), 0644))

	_, err := LoadFile(Config{}, path)
	assert.Error(t, err)
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("request failed", "reason", "timeout")

	assert.Contains(t, stderr.String(), "request failed")
	assert.Contains(t, file.String(), `"reason":"timeout"`)
}
