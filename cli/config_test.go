package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "purfectmux.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
cols = 100
rows = 30
scrollback = 500
border = "rounded"
title = "demo"
status_bar = true

[hyperlinks]
capacity = 64

[log]
level = "debug"
format = "json"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Cols)
	assert.Equal(t, 30, cfg.Rows)
	assert.Equal(t, 64, cfg.Hyperlinks.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	opts := cfg.Options()
	assert.Equal(t, BorderRounded, opts.BorderStyle)
	assert.Equal(t, 500, opts.ScrollbackSize)
	assert.Equal(t, "demo", opts.Title)
	assert.True(t, opts.ShowStatusBar)
	assert.False(t, opts.AutoSize)
}

func TestLoadOptionsAutoSize(t *testing.T) {
	opts, err := LoadOptions(writeConfig(t, `border = "single"`))
	require.NoError(t, err)
	assert.True(t, opts.AutoSize)
	assert.Equal(t, BorderSingle, opts.BorderStyle)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `colour = "red"`},
		{"bad border", `border = "dotted"`},
		{"negative size", `cols = -1`},
		{"capacity too small", "[hyperlinks]\ncapacity = 2"},
		{"bad log format", "[log]\nformat = \"xml\""},
		{"syntax", `cols = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseBorderStyle(t *testing.T) {
	for name, want := range map[string]BorderStyle{
		"":        BorderNone,
		"none":    BorderNone,
		"Single":  BorderSingle,
		"double":  BorderDouble,
		"heavy":   BorderHeavy,
		"ROUNDED": BorderRounded,
	} {
		got, err := ParseBorderStyle(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}
