// Package storyrender burns story stickers, subtitles and text captions into
// the story video.
package storyrender

import (
	"context"

	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/internal/plan"
	"github.com/ZacxDev/story-renderer/internal/processor"
)

// Options defines options for rendering a story
type Options struct {
	StoryRef   string // render API URL or path of a story JSON file
	ConfigPath string // optional YAML configuration
	AssetsDir  string
	Profile    string
	LegacyKeys bool
	DryRun     bool
	Verbose    bool

	// Config is used when set, otherwise it is loaded from ConfigPath.
	Config *Config
	// Logger is used when set, otherwise one is built from the configuration.
	Logger *zap.Logger
}

type (
	Config = config.Config
	Result = processor.Result
	Error  = processor.Error
	Plan   = plan.RenderPlan
)

// Render renders the story referenced by opts.
func Render(ctx context.Context, opts Options) (*Result, error) {
	var err error
	cfg := opts.Config
	if cfg == nil {
		if cfg, err = config.LoadConfiguration(opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	log := opts.Logger
	if log == nil {
		if log, err = cfg.Logging.Prepare(opts.Verbose); err != nil {
			return nil, err
		}
		defer log.Sync()
	}

	r, err := processor.NewRenderer(&config.RenderOptions{
		StoryRef:   opts.StoryRef,
		ConfigPath: opts.ConfigPath,
		AssetsDir:  opts.AssetsDir,
		Profile:    opts.Profile,
		LegacyKeys: opts.LegacyKeys,
		DryRun:     opts.DryRun,
		Verbose:    opts.Verbose,
	}, cfg, log)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

// GetSupportedProfiles returns a list of supported output profiles
func GetSupportedProfiles() []string {
	return processor.GetSupportedProfiles()
}
