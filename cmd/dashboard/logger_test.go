package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_ErrorsGoToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log, closeLog := setupLogger(envLocal, path)
	log.Info("started")
	log.With("op", "test").Error("boom")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// В файл попадает только ошибка
	assert.Contains(t, string(data), `"msg":"boom"`)
	assert.Contains(t, string(data), `"op":"test"`)
	assert.NotContains(t, string(data), "started")
}

func TestSetupLogger_NoFile(t *testing.T) {
	log, closeLog := setupLogger(envProd, filepath.Join(t.TempDir(), "missing", "errors.log"))
	defer closeLog()

	assert.NotNil(t, log)
	assert.False(t, log.Enabled(t.Context(), slog.LevelDebug))
}
