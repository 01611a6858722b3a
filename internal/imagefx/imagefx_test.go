package imagefx

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ZacxDev/story-renderer/internal/plan"
)

// writeSticker stores a w x h transparent image with an opaque red block of
// bw x bh in the middle.
func writeSticker(t *testing.T, w, h, bw, bh int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	block := image.Rect((w-bw)/2, (h-bh)/2, (w-bw)/2+bw, (h-bh)/2+bh)
	draw.Draw(img, block, &image.Uniform{C: color.NRGBA{R: 255, A: 255}}, image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "sticker.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestTransform_Trim(t *testing.T) {
	src := writeSticker(t, 100, 50, 20, 10)
	dst := filepath.Join(t.TempDir(), "out.png")

	tr := NewTransformer(10, zaptest.NewLogger(t))
	size, err := tr.Transform(src, dst, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.Size{Width: 20, Height: 10}, size)

	onDisk, err := Dimensions(dst)
	require.NoError(t, err)
	assert.Equal(t, size, onDisk)
}

func TestTransform_RotateClockwise(t *testing.T) {
	src := writeSticker(t, 100, 50, 20, 10)
	dst := filepath.Join(t.TempDir(), "out.png")

	tr := NewTransformer(10, zaptest.NewLogger(t))
	size, err := tr.Transform(src, dst, 1, 90)
	require.NoError(t, err)
	assert.Equal(t, plan.Size{Width: 10, Height: 20}, size)
}

func TestTransform_Scale(t *testing.T) {
	img := imaging.New(100, 50, color.NRGBA{G: 200, A: 255})
	src := filepath.Join(t.TempDir(), "solid.png")
	require.NoError(t, imaging.Save(img, src))
	dst := filepath.Join(t.TempDir(), "out.png")

	tr := NewTransformer(10, zaptest.NewLogger(t))
	size, err := tr.Transform(src, dst, 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.Size{Width: 50, Height: 25}, size)

	_, err = tr.Transform(src, dst, 0, 0)
	assert.Error(t, err)
}

func TestTransform_NotAnImage(t *testing.T) {
	tr := NewTransformer(10, zaptest.NewLogger(t))
	_, err := tr.Transform(filepath.Join(t.TempDir(), "missing.png"), filepath.Join(t.TempDir(), "out.png"), 1, 0)
	assert.Error(t, err)
}

func TestDimensions(t *testing.T) {
	src := writeSticker(t, 30, 40, 2, 2)
	size, err := Dimensions(src)
	require.NoError(t, err)
	assert.Equal(t, plan.Size{Width: 30, Height: 40}, size)

	_, err = Dimensions(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}
