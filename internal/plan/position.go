package plan

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ZacxDev/story-renderer/pkg/types"
)

// Size is a pixel size.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AssetLookup finds the resized asset file for a lookup key.
type AssetLookup interface {
	Find(key string) (string, bool)
}

// Positioned is a positional sticker joined with its resized asset and its
// top-left overlay coordinates.
type Positioned struct {
	Placement `yaml:",inline"`
	Asset     string `yaml:"asset"`
	AssetSize Size   `yaml:"asset_size"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
}

// Skipped is a sticker left out of the plan because no asset matched it.
type Skipped struct {
	Placement `yaml:",inline"`
	Key       string `yaml:"key"`
}

// Position converts a normalized center anchor into top-left pixel
// coordinates for an asset of the given size.
func Position(anchorX, anchorY float64, video, asset Size) (int, int) {
	x := math.Floor(anchorX*float64(video.Width) - float64(asset.Width)/2)
	y := math.Floor(anchorY*float64(video.Height) - float64(asset.Height)/2)
	return int(x), int(y)
}

// Resolver matches positional stickers to resized assets and places them.
type Resolver struct {
	Assets  AssetLookup
	Size    func(path string) (Size, error)
	KeyMode types.LookupKeyMode
	// Workers bounds concurrent asset size queries, <= 0 means unbounded.
	Workers int
}

// Resolve returns the matched stickers in input order and the ones skipped
// because their key matched no asset.
func (r *Resolver) Resolve(ctx context.Context, video Size, placements []Placement) ([]Positioned, []Skipped, error) {
	var (
		matched []Positioned
		skipped []Skipped
	)
	for _, p := range placements {
		key := p.Sticker.LookupKey(r.KeyMode)
		asset, ok := r.Assets.Find(key)
		if !ok {
			skipped = append(skipped, Skipped{Placement: p, Key: key})
			continue
		}
		matched = append(matched, Positioned{Placement: p, Asset: asset})
	}

	g, ctx := errgroup.WithContext(ctx)
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}
	for i := range matched {
		ps := &matched[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			size, err := r.Size(ps.Asset)
			if err != nil {
				return fmt.Errorf("unable to read size of %s: %w", ps.Asset, err)
			}
			ps.AssetSize = size
			ps.X, ps.Y = Position(ps.Sticker.X, ps.Sticker.Y, video, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return matched, skipped, nil
}
