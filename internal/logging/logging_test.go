package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	t.Run("requires a home directory", func(t *testing.T) {
		assert.Error(t, Initialize("", Settings{}))
	})

	t.Run("debug mode off creates no logs directory", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, Initialize(home, Settings{DebugMode: false}))
		t.Cleanup(Close)

		_, err := os.Stat(filepath.Join(home, "logs"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("debug mode on writes category files", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, Initialize(home, Settings{DebugMode: true, Level: "debug"}))
		t.Cleanup(Close)

		Get(CategorySearch).Info("resolving page")
		Close()

		data, err := os.ReadFile(filepath.Join(home, "logs", "search.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "resolving page")
	})
}

func TestCategoryToggle(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, Initialize(home, Settings{
		DebugMode:  true,
		Categories: map[string]bool{"api": false},
	}))
	t.Cleanup(Close)

	Get(CategoryAPI).Info("should be dropped")
	Get(CategoryMatch).Info("should be kept")
	Close()

	_, err := os.Stat(filepath.Join(home, "logs", "api.log"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(home, "logs", "match.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "should be kept")
}

func TestGetBeforeInitialize(t *testing.T) {
	Close()
	lg := Get(CategoryUI)
	require.NotNil(t, lg)
	// No-op logger: logging must not panic or create files.
	lg.Info("nowhere")
}
