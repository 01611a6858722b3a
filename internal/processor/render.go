package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/assets"
	"github.com/ZacxDev/story-renderer/internal/ffmpeg"
	"github.com/ZacxDev/story-renderer/internal/plan"
	"github.com/ZacxDev/story-renderer/internal/platform"
	"github.com/ZacxDev/story-renderer/internal/story"
)

// Run renders the story. On dry runs assets are still prepared, since
// sticker positions depend on them, but no stage is executed.
func (r *Renderer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	res := &Result{RunID: id.String()}
	log := r.log.With(zap.String("run", res.RunID))

	st, err := r.loader.Load(ctx, r.opts.StoryRef)
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	if err := story.Validate(st); err != nil {
		return nil, fail(PhaseValidate, err)
	}
	log.Info("Story loaded",
		zap.String("view_key", st.ViewKey),
		zap.String("title", st.Title),
		zap.Int("chapters", len(st.Chapters)),
		zap.Int("subtitles", len(st.Subtitles)))

	ws, err := assets.NewWorkspace(r.assetsDir(), st.ViewKey)
	if err != nil {
		return nil, fail(PhaseValidate, err)
	}
	if err := ws.Prepare(); err != nil {
		return nil, fail(PhaseDownload, err)
	}

	video, err := r.baseVideo(ctx, ws, st, log)
	if err != nil {
		return nil, fail(PhaseDownload, err)
	}

	// probed once, everything below gets the value
	meta, err := r.ffmpeg.GetVideoMetadata(ctx, video)
	if err != nil {
		return nil, fail(PhaseProbe, err)
	}
	dims := meta.Size()
	if platform.Exceeds(r.profile, meta.Width, meta.Height, meta.Duration) {
		log.Warn("Video exceeds profile limits",
			zap.String("profile", r.profile.GetName()),
			zap.Int("width", meta.Width),
			zap.Int("height", meta.Height),
			zap.Float64("duration", meta.Duration))
	}

	if err := r.prepareStickers(ctx, ws, st, log); err != nil {
		return nil, err
	}

	inv, err := assets.ScanInventory(ws.ResizedDir())
	if err != nil {
		return nil, fail(PhaseResolve, err)
	}
	classified := plan.Classify(st.Chapters)
	resolver := &plan.Resolver{
		Assets:  inv,
		Size:    r.sizeOf,
		KeyMode: r.keyMode(),
		Workers: r.cfg.ResolveWorkers,
	}
	placed, skipped, err := resolver.Resolve(ctx, dims, classified.Positional)
	if err != nil {
		return nil, fail(PhaseResolve, err)
	}
	for _, s := range skipped {
		log.Debug("No prepared asset for sticker, skipping",
			zap.Int("chapter", s.Chapter),
			zap.Int("index", s.Index),
			zap.String("key", s.Key))
	}

	rp := plan.Assemble(plan.AssembleInput{
		BaseVideo:  video,
		Positioned: placed,
		Textual:    classified.Textual,
		Subtitles:  st.Subtitles,
		Paths:      r.outputPaths(ws),
	})
	res.Plan, res.Skipped = rp, skipped
	log.Debug("Render plan assembled",
		zap.Int("stages", len(rp.Stages)),
		zap.Int("stickers", len(placed)),
		zap.Int("texts", len(rp.Texts)),
		zap.Int("skipped", len(skipped)))

	if r.opts.DryRun {
		res.Elapsed = time.Since(start)
		return res, nil
	}

	if err := r.compose(ctx, rp, log); err != nil {
		return nil, err
	}
	res.FinalOutput = rp.Final
	res.Elapsed = time.Since(start)
	log.Info("Story rendered", zap.String("output", res.FinalOutput), zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// baseVideo reuses a video downloaded earlier or fetches it.
func (r *Renderer) baseVideo(ctx context.Context, ws *assets.Workspace, st *story.Story, log *zap.Logger) (string, error) {
	if path, ok := ws.ExistingVideo(st.Title); ok {
		log.Debug("Reusing downloaded video", zap.String("path", path))
		return path, nil
	}
	path, err := r.fetcher.Fetch(ctx, st.VideoURL, ws.VideoBase(st.Title))
	if err != nil {
		return "", err
	}
	log.Info("Video downloaded", zap.String("path", path))
	return path, nil
}

// outputPaths gives stage outputs the container extension of the profile.
func (r *Renderer) outputPaths(ws *assets.Workspace) plan.OutputPaths {
	ext := ffmpeg.GetCodecSettings(r.profile.GetOutputFormat()).FileExtension
	paths := ws.OutputPaths()
	paths.Stickers = ffmpeg.EnsureExtension(paths.Stickers, ext)
	paths.Subtitles = ffmpeg.EnsureExtension(paths.Subtitles, ext)
	paths.Text = ffmpeg.EnsureExtension(paths.Text, ext)
	return paths
}
