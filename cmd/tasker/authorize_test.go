package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/tasker/auth"
)

func TestWriteDecision(t *testing.T) {
	decision := auth.NewAuthorizer(nil, nil).Authorize(t.Context(), "")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, "json", decision))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "user", got["principalId"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, "yaml", decision))

		var got auth.Decision
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, decision, got)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeDecision(&bytes.Buffer{}, "xml", decision))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
