package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a path", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := loadConfig(writeFile(t, "sigrun.yaml", "log_level: debug\nequality: strict\nmetrics: true\n"))
		require.NoError(t, err)
		assert.Equal(t, Config{
			LogLevel:  "debug",
			Equality:  "strict",
			Metrics:   true,
			Namespace: "signalctx",
		}, cfg)

		level, err := cfg.level()
		require.NoError(t, err)
		assert.Equal(t, logiface.LevelDebug, level)

		mode, err := cfg.equality()
		require.NoError(t, err)
		assert.Equal(t, internal.EqualStrict, mode)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := loadConfig(writeFile(t, "empty.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := loadConfig(writeFile(t, "typo.yaml", "log_levle: debug\n"))
		assert.ErrorContains(t, err, "log_levle")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := loadConfig(writeFile(t, "level.yaml", "log_level: loud\n"))
		assert.ErrorContains(t, err, `unknown log level "loud"`)

		_, err = loadConfig(writeFile(t, "eq.yaml", "equality: custom\n"))
		assert.ErrorContains(t, err, "custom equality")

		_, err = loadConfig(writeFile(t, "eq.yaml", "equality: fuzzy\n"))
		assert.ErrorContains(t, err, "unknown equality mode")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfigLevel(t *testing.T) {
	for in, want := range map[string]logiface.Level{
		"error":    logiface.LevelError,
		"WARN":     logiface.LevelWarning,
		"":         logiface.LevelWarning,
		"info":     logiface.LevelInformational,
		"trace":    logiface.LevelTrace,
		"off":      logiface.LevelDisabled,
		"disabled": logiface.LevelDisabled,
	} {
		t.Run(in, func(t *testing.T) {
			level, err := Config{LogLevel: in}.level()
			require.NoError(t, err)
			assert.Equal(t, want, level)
		})
	}
}
