package storyrender

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ZacxDev/story-renderer/internal/config"
)

func TestGetSupportedProfiles(t *testing.T) {
	profiles := GetSupportedProfiles()
	assert.Contains(t, profiles, "default")
	assert.Contains(t, profiles, "tiktok")
	assert.IsNonDecreasing(t, profiles)
}

func TestRender_MissingStory(t *testing.T) {
	_, err := Render(context.Background(), Options{
		StoryRef:  filepath.Join(t.TempDir(), "absent.json"),
		AssetsDir: t.TempDir(),
		Logger:    zaptest.NewLogger(t),
	})

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.EqualValues(t, "load", rerr.Phase)
}

func TestRender_UnknownProfile(t *testing.T) {
	_, err := Render(context.Background(), Options{
		StoryRef: "story.json",
		Profile:  "myspace",
		Logger:   zaptest.NewLogger(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myspace")
}

func TestRender_BadConfig(t *testing.T) {
	_, err := Render(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Logger:     zaptest.NewLogger(t),
	})
	assert.Error(t, err)
}

func TestRender_GivenConfigIsNotReloaded(t *testing.T) {
	cfg := config.Default()
	cfg.AssetsDir = t.TempDir()

	_, err := Render(context.Background(), Options{
		StoryRef:   filepath.Join(t.TempDir(), "absent.json"),
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Config:     cfg,
		Logger:     zaptest.NewLogger(t),
	})

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.EqualValues(t, "load", rerr.Phase)
}
