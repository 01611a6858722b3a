// Package story holds the declarative story description a render is compiled from.
package story

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ZacxDev/story-renderer/pkg/types"
)

// Story is immutable once loaded.
type Story struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	ViewKey   string     `json:"viewKey" yaml:"view_key"`
	Title     string     `json:"title" yaml:"title"`
	VideoURL  string     `json:"videoUrl" yaml:"video_url"`
	Chapters  []Chapter  `json:"chapters" yaml:"chapters"`
	Subtitles []Subtitle `json:"subtitles" yaml:"subtitles"`
}

// Chapter is a contiguous segment of the story. Duration is in milliseconds.
type Chapter struct {
	Duration int64     `json:"duration" yaml:"duration"`
	Stickers []Sticker `json:"stickers" yaml:"stickers"`
}

// Sticker is a timed annotation attached to a chapter. X and Y are the
// normalized position of the sticker center.
type Sticker struct {
	ID       string            `json:"id,omitempty" yaml:"id,omitempty"`
	Type     types.StickerType `json:"type" yaml:"type"`
	ImageURL string            `json:"imageUrl,omitempty" yaml:"image_url,omitempty"`
	X        float64           `json:"x" yaml:"x"`
	Y        float64           `json:"y" yaml:"y"`
	Scale    float64           `json:"scale" yaml:"scale"`
	Rotation float64           `json:"rotation" yaml:"rotation"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
}

// Subtitle times are absolute, in milliseconds.
type Subtitle struct {
	StartTime int64  `json:"startTime" yaml:"start_time"`
	EndTime   int64  `json:"endTime" yaml:"end_time"`
	Text      string `json:"text" yaml:"text"`
}

// Kind is the sticker classification used by the render plan.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPositional
	KindTextual
)

func (k Kind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindTextual:
		return "textual"
	default:
		return "unsupported"
	}
}

// Kind classifies by image presence; link annotations are never rendered.
func (s Sticker) Kind() Kind {
	switch s.Type {
	case types.StickerTypeDumb, types.StickerTypeText:
	default:
		return KindUnsupported
	}
	if s.ImageURL != "" {
		return KindPositional
	}
	return KindTextual
}

const legacyKeyLen = 6

// ids used as file names verbatim
var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// legacy keys end up in file names
var pathSeparators = strings.NewReplacer("/", "_", `\`, "_")

// LookupKey returns the identity used to match the sticker with its resized
// asset file. Stable keys are the sticker id or a hash of the image URL and
// its transform. Legacy keys are the last 6 characters of the image URL, with
// path separators turned into underscores, and may collide between stickers.
func (s Sticker) LookupKey(mode types.LookupKeyMode) string {
	if s.ImageURL == "" {
		return ""
	}
	if mode == types.LookupKeyLegacy {
		key := s.ImageURL
		if len(key) > legacyKeyLen {
			key = key[len(key)-legacyKeyLen:]
		}
		return pathSeparators.Replace(key)
	}
	if s.ID != "" && safeID.MatchString(s.ID) {
		return s.ID
	}
	// the same image prepared at another scale or angle is another asset
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%g|%g", s.ID, s.ImageURL, s.Scale, s.Rotation)))
	return hex.EncodeToString(sum[:])[:12]
}

// Decode reads a story in the render API JSON shape.
func Decode(r io.Reader) (*Story, error) {
	var st Story
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return nil, errors.Wrap(err, "failed to decode story")
	}
	return &st, nil
}

// Validate reports every structural problem found in the story at once.
func Validate(st *Story) error {
	var err error
	if st.ViewKey == "" {
		err = multierr.Append(err, fmt.Errorf("story has no view key"))
	}
	if st.VideoURL == "" {
		err = multierr.Append(err, fmt.Errorf("story has no video url"))
	}
	for i, ch := range st.Chapters {
		if ch.Duration < 0 {
			err = multierr.Append(err, fmt.Errorf("chapter %d: negative duration %d", i, ch.Duration))
		}
		for j, s := range ch.Stickers {
			if s.Kind() != KindPositional {
				continue
			}
			if s.X < 0 || s.X > 1 || s.Y < 0 || s.Y > 1 {
				err = multierr.Append(err, fmt.Errorf("chapter %d sticker %d: anchor (%g,%g) outside [0,1]", i, j, s.X, s.Y))
			}
			if s.Scale <= 0 {
				err = multierr.Append(err, fmt.Errorf("chapter %d sticker %d: scale must be positive, got %g", i, j, s.Scale))
			}
		}
	}
	for i, sub := range st.Subtitles {
		if sub.StartTime < 0 || sub.EndTime < sub.StartTime {
			err = multierr.Append(err, fmt.Errorf("subtitle %d: invalid window [%d,%d]", i, sub.StartTime, sub.EndTime))
		}
	}
	return err
}
