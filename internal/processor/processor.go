package processor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/assets"
	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/internal/ffmpeg"
	"github.com/ZacxDev/story-renderer/internal/imagefx"
	"github.com/ZacxDev/story-renderer/internal/plan"
	"github.com/ZacxDev/story-renderer/internal/platform"
	"github.com/ZacxDev/story-renderer/internal/source"
	"github.com/ZacxDev/story-renderer/internal/story"
	"github.com/ZacxDev/story-renderer/pkg/types"
)

// StoryLoader reads the story to render.
type StoryLoader interface {
	Load(ctx context.Context, ref string) (*story.Story, error)
}

// Fetcher downloads remote media, choosing the file extension itself.
type Fetcher interface {
	Fetch(ctx context.Context, url, dstNoExt string) (string, error)
}

// ImageTransformer prepares a sticker image for overlaying.
type ImageTransformer interface {
	Transform(src, dst string, scale, rotation float64) (plan.Size, error)
}

// Composer probes videos and runs render stages.
type Composer interface {
	GetVideoMetadata(ctx context.Context, path string) (*ffmpeg.VideoMetadata, error)
	RunStage(ctx context.Context, stage plan.Stage, prof platform.Profile) error
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Plan        *plan.RenderPlan
	FinalOutput string
	Skipped     []plan.Skipped
	Elapsed     time.Duration
}

// Renderer turns a story into a rendered video
type Renderer struct {
	opts    *config.RenderOptions
	cfg     *config.Config
	log     *zap.Logger
	profile platform.Profile

	loader  StoryLoader
	fetcher Fetcher
	images  ImageTransformer
	ffmpeg  Composer
	sizeOf  func(path string) (plan.Size, error)
}

// Option replaces one of the renderer engines.
type Option func(*Renderer)

func WithLoader(l StoryLoader) Option { return func(r *Renderer) { r.loader = l } }
func WithFetcher(f Fetcher) Option { return func(r *Renderer) { r.fetcher = f } }
func WithTransformer(t ImageTransformer) Option { return func(r *Renderer) { r.images = t } }
func WithComposer(c Composer) Option { return func(r *Renderer) { r.ffmpeg = c } }

// NewRenderer creates a renderer. Options given on the command line take
// precedence over the configuration.
func NewRenderer(opts *config.RenderOptions, cfg *config.Config, log *zap.Logger, options ...Option) (*Renderer, error) {
	name := cfg.Profile
	if opts.Profile != "" {
		name = opts.Profile
	}
	prof, err := platform.Get(name)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		opts:    opts,
		cfg:     cfg,
		log:     log,
		profile: prof,
		loader:  source.NewLoader(cfg.HTTPTimeout),
		fetcher: assets.NewDownloader(cfg.HTTPTimeout, log),
		images:  imagefx.NewTransformer(cfg.TrimTolerance, log),
		ffmpeg:  ffmpeg.NewProcessor(log),
		sizeOf:  imagefx.Dimensions,
	}
	for _, o := range options {
		o(r)
	}
	return r, nil
}

func (r *Renderer) keyMode() types.LookupKeyMode {
	if r.opts.LegacyKeys {
		return types.LookupKeyLegacy
	}
	return r.cfg.LookupKeys
}

func (r *Renderer) assetsDir() string {
	if r.opts.AssetsDir != "" {
		return r.opts.AssetsDir
	}
	return r.cfg.AssetsDir
}

// GetSupportedProfiles returns a list of supported output profiles
func GetSupportedProfiles() []string {
	return platform.GetSupportedProfiles()
}
