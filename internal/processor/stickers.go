package processor

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/assets"
	"github.com/ZacxDev/story-renderer/internal/story"
)

// prepareStickers downloads and resizes positional stickers one at a time in
// story order. Stickers sharing a lookup key are prepared once.
func (r *Renderer) prepareStickers(ctx context.Context, ws *assets.Workspace, st *story.Story, log *zap.Logger) error {
	mode := r.keyMode()
	prepared := make(map[string]bool)

	for i, ch := range st.Chapters {
		for j, s := range ch.Stickers {
			if s.Kind() != story.KindPositional {
				continue
			}
			key := s.LookupKey(mode)
			if prepared[key] {
				continue
			}
			prepared[key] = true

			if err := ctx.Err(); err != nil {
				return fail(PhaseDownload, err)
			}
			src, err := r.fetcher.Fetch(ctx, s.ImageURL, ws.StickerBase(key))
			if err != nil {
				return fail(PhaseDownload, errors.Wrapf(err, "chapter %d sticker %d", i, j))
			}
			size, err := r.images.Transform(src, ws.ResizedPath(key), s.Scale, s.Rotation)
			if err != nil {
				return fail(PhaseResize, errors.Wrapf(err, "chapter %d sticker %d", i, j))
			}
			log.Debug("Sticker prepared",
				zap.Int("chapter", i),
				zap.Int("index", j),
				zap.String("key", key),
				zap.Int("width", size.Width),
				zap.Int("height", size.Height))
		}
	}
	return nil
}
