// Package plan compiles a story into an ordered set of ffmpeg stages that burn
// stickers, subtitles and text into the base video.
package plan

import (
	"strconv"

	"github.com/ZacxDev/story-renderer/internal/story"
)

// Window is a [Start, End) interval in milliseconds.
type Window struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// Predicate renders the window as an ffmpeg enable expression in seconds.
func (w Window) Predicate() string {
	return "between(t," + seconds(w.Start) + "," + seconds(w.End) + ")"
}

func seconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}

// ChapterWindows assigns every chapter its time window.
//
// Interior chapters end at start + duration of the *next* chapter and the
// last chapter ends at start + its own duration. This mirrors how stories
// were rendered historically and is kept until product decides otherwise.
func ChapterWindows(chapters []story.Chapter) []Window {
	windows := make([]Window, len(chapters))
	var total int64
	for i, ch := range chapters {
		switch {
		case i == 0:
			windows[i] = Window{Start: 0, End: ch.Duration}
		case i == len(chapters)-1:
			windows[i] = Window{Start: total, End: total + ch.Duration}
		default:
			windows[i] = Window{Start: total, End: total + chapters[i+1].Duration}
		}
		total += ch.Duration
	}
	return windows
}
