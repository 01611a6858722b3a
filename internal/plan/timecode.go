package plan

import (
	"fmt"
	"strings"

	"github.com/ZacxDev/story-renderer/internal/story"
)

// FormatTimecode renders milliseconds as HH:MM:SS.d. The tenths digit is
// truncated, not rounded.
func FormatTimecode(ms int64) string {
	tenths := (ms % 1000) / 100
	secs := (ms / 1000) % 60
	mins := (ms / (1000 * 60)) % 60
	hours := (ms / (1000 * 60 * 60)) % 24
	return fmt.Sprintf("%02d:%02d:%02d.%d", hours, mins, secs, tenths)
}

// SubtitleTrack serializes subtitles as numbered cues.
func SubtitleTrack(subtitles []story.Subtitle) string {
	cues := make([]string, len(subtitles))
	for i, s := range subtitles {
		cues[i] = fmt.Sprintf("%d\n%s --> %s\n%s", i+1, FormatTimecode(s.StartTime), FormatTimecode(s.EndTime), s.Text)
	}
	return strings.Join(cues, "\n\n")
}
