package processor

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/plan"
)

// compose runs the stages strictly one after another. Sidecar files are
// written right before the stage that reads them and removed at the end.
func (r *Renderer) compose(ctx context.Context, rp *plan.RenderPlan, log *zap.Logger) (err error) {
	var sidecars []string
	defer func() {
		for _, path := range sidecars {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				err = multierr.Append(err, fail(PhaseCompose, errors.Wrap(rmErr, "unable to remove sidecar")))
			}
		}
	}()

	for i, stage := range rp.Stages {
		if stage.Sidecar != nil {
			if werr := os.WriteFile(stage.Sidecar.Path, []byte(stage.Sidecar.Content), 0644); werr != nil {
				return &Error{Phase: PhaseCompose, Stage: stage.Name, Err: errors.WithStack(werr)}
			}
			sidecars = append(sidecars, stage.Sidecar.Path)
		}

		log.Info("Running stage",
			zap.String("stage", string(stage.Name)),
			zap.Int("step", i+1),
			zap.Int("of", len(rp.Stages)),
			zap.String("output", stage.Output))
		if rerr := r.ffmpeg.RunStage(ctx, stage, r.profile); rerr != nil {
			return &Error{Phase: PhaseCompose, Stage: stage.Name, Err: rerr}
		}
	}
	return nil
}
