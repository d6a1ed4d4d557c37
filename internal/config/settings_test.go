package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LLM_PROVIDER", "CANVAS_WIDTH", "CANVAS_HEIGHT", "MAX_CANVAS_WIDTH", "MAX_CANVAS_HEIGHT", "GENERATION_TIMEOUT", "RUN_MIGRATIONS", "LLM_TEMPERATURE", "IMAGE_DIR"} {
		t.Setenv(k, "")
	}

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", s.Port)
	assert.Equal(t, "openai", s.LLMProvider)
	assert.Equal(t, 500.0, s.CanvasWidth)
	assert.Equal(t, 500.0, s.CanvasHeight)
	assert.Equal(t, 4096.0, s.MaxCanvasWidth)
	assert.Equal(t, 4096.0, s.MaxCanvasHeight)
	assert.Equal(t, 60*time.Second, s.GenTimeout)
	assert.True(t, s.RunMigrations)
	assert.InDelta(t, 0.3, s.Temperature, 1e-9)
	assert.Equal(t, "temp/images", s.ImageDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("CANVAS_WIDTH", "800")
	t.Setenv("CANVAS_HEIGHT", "600")
	t.Setenv("MAX_CANVAS_WIDTH", "1920")
	t.Setenv("MAX_CANVAS_HEIGHT", "1080")
	t.Setenv("GENERATION_TIMEOUT", "15s")
	t.Setenv("RUN_MIGRATIONS", "false")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", s.LLMProvider)
	assert.Equal(t, 800.0, s.CanvasWidth)
	assert.Equal(t, 600.0, s.CanvasHeight)
	assert.Equal(t, 1920.0, s.MaxCanvasWidth)
	assert.Equal(t, 1080.0, s.MaxCanvasHeight)
	assert.Equal(t, 15*time.Second, s.GenTimeout)
	assert.False(t, s.RunMigrations)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CANVAS_WIDTH", "wide")
	_, err := Load()
	assert.ErrorContains(t, err, "CANVAS_WIDTH")

	t.Setenv("CANVAS_WIDTH", "-1")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CANVAS_WIDTH", "800")
	t.Setenv("MAX_CANVAS_WIDTH", "640")
	_, err = Load()
	assert.ErrorContains(t, err, "exceeds the maximum")
}
