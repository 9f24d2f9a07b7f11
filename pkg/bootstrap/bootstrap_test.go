package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, toLevel(in), in)
	}
}

func TestPgxMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://user:pw@db:5432/catalog?sslmode=disable", pgxMigrateURL("postgres://user:pw@db:5432/catalog?sslmode=disable"))
	assert.Equal(t, "pgx5://db/catalog", pgxMigrateURL("postgresql://db/catalog"))
	assert.Equal(t, "pgx5://db/catalog", pgxMigrateURL("pgx5://db/catalog"))
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.InfoContext(context.Background(), "dropped")
	logger.WarnContext(context.Background(), "kept", "upc", "111")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "111", record["upc"])
}
