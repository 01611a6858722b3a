// Package assets manages the on-disk workspace of a story render: the base
// video, downloaded and resized stickers and the stage outputs.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/internal/plan"
)

// Workspace is the directory tree of one story, <assets>/<viewKey>.
type Workspace struct {
	root string
}

func NewWorkspace(assetsDir, viewKey string) (*Workspace, error) {
	if viewKey == "" || viewKey == "." || viewKey == ".." || strings.ContainsAny(viewKey, `/\`) {
		return nil, fmt.Errorf("view key %q can not be used as a directory name", viewKey)
	}
	return &Workspace{root: filepath.Join(assetsDir, viewKey)}, nil
}

// Prepare creates the workspace directories.
func (w *Workspace) Prepare() error {
	for _, dir := range []string{w.root, w.StickersDir(), w.ResizedDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (w *Workspace) Root() string        { return w.root }
func (w *Workspace) StickersDir() string { return filepath.Join(w.root, config.StickersDirName) }
func (w *Workspace) ResizedDir() string  { return filepath.Join(w.root, config.ResizedDirName) }

// VideoBase is the base video path without extension. The name is derived
// from the story title.
func (w *Workspace) VideoBase(title string) string {
	name := slug.Make(title)
	if name == "" {
		name = config.DefaultVideoTitle
	}
	return filepath.Join(w.root, name)
}

// ExistingVideo returns a base video downloaded by an earlier run.
func (w *Workspace) ExistingVideo(title string) (string, bool) {
	matches, err := filepath.Glob(w.VideoBase(title) + ".*")
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if strings.HasSuffix(m, partialSuffix) {
			continue
		}
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() && fi.Size() > 0 {
			return m, true
		}
	}
	return "", false
}

// StickerBase is the download path, without extension, of a sticker.
func (w *Workspace) StickerBase(key string) string {
	return filepath.Join(w.StickersDir(), key)
}

// ResizedPath is where the prepared sticker is written. Prepared stickers are
// always PNG to keep transparency.
func (w *Workspace) ResizedPath(key string) string {
	return filepath.Join(w.ResizedDir(), key+".png")
}

// OutputPaths names the sidecar and the output of every stage.
func (w *Workspace) OutputPaths() plan.OutputPaths {
	return plan.OutputPaths{
		Stickers:  filepath.Join(w.root, config.StickersOutput),
		Subtitles: filepath.Join(w.root, config.SubtitlesOutput),
		Text:      filepath.Join(w.root, config.FinalOutput),
		Sidecar:   filepath.Join(w.root, config.SubtitleFileName),
	}
}
