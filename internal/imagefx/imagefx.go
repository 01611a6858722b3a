// Package imagefx prepares sticker images for overlaying: scale, rotate,
// trim and re-encode as PNG.
package imagefx

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ZacxDev/story-renderer/internal/plan"
)

// Transformer resizes and rotates sticker images.
type Transformer struct {
	// TrimTolerance is the per-channel difference from the top-left pixel
	// still considered border.
	TrimTolerance int
	log           *zap.Logger
}

func NewTransformer(trimTolerance int, log *zap.Logger) *Transformer {
	return &Transformer{TrimTolerance: trimTolerance, log: log.Named("imagefx")}
}

// Transform scales src to round(width*scale) keeping aspect ratio, rotates it
// clockwise by rotation degrees over a transparent background, trims the
// border and writes the result to dst as PNG.
func (t *Transformer) Transform(src, dst string, scale, rotation float64) (plan.Size, error) {
	if scale <= 0 {
		return plan.Size{}, fmt.Errorf("invalid scale %g for %s", scale, src)
	}
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return plan.Size{}, errors.Wrapf(err, "unable to decode sticker %s", src)
	}

	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	if w < 1 {
		w = 1
	}
	out := imaging.Resize(img, w, 0, imaging.Lanczos)

	if math.Mod(rotation, 360) != 0 {
		// imaging rotates counter-clockwise
		out = imaging.Rotate(out, -rotation, color.Transparent)
	}
	out = trim(out, t.TrimTolerance)

	if err := imaging.Save(out, dst, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return plan.Size{}, errors.Wrapf(err, "unable to save resized sticker %s", dst)
	}

	size := plan.Size{Width: out.Bounds().Dx(), Height: out.Bounds().Dy()}
	t.log.Debug("Sticker transformed",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
		zap.Float64("scale", scale),
		zap.Float64("rotation", rotation))
	return size, nil
}

// trim crops away the border made of pixels similar to the top-left one.
// An image that is all border is returned unchanged.
func trim(img *image.NRGBA, tolerance int) *image.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	ref := img.NRGBAAt(b.Min.X, b.Min.Y)
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if similar(img.NRGBAAt(x, y), ref, tolerance) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return img
	}
	return imaging.Crop(img, image.Rect(minX, minY, maxX+1, maxY+1))
}

func similar(a, b color.NRGBA, tolerance int) bool {
	if a.A == 0 && b.A == 0 {
		return true
	}
	diff := func(x, y uint8) int {
		d := int(x) - int(y)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(a.R, b.R) <= tolerance && diff(a.G, b.G) <= tolerance &&
		diff(a.B, b.B) <= tolerance && diff(a.A, b.A) <= tolerance
}

// Dimensions reads the pixel size of an image without decoding it fully.
func Dimensions(path string) (plan.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return plan.Size{}, errors.WithStack(err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return plan.Size{}, errors.Wrapf(err, "unable to read image header of %s", path)
	}
	return plan.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
