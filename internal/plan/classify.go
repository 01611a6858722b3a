package plan

import (
	"github.com/ZacxDev/story-renderer/internal/story"
)

// Placement is a sticker bound to the window of the chapter it belongs to.
type Placement struct {
	Chapter int           `yaml:"chapter"`
	Index   int           `yaml:"index"`
	Window  Window        `yaml:"window"`
	Sticker story.Sticker `yaml:"sticker"`
}

// Classified splits renderable stickers by how they are drawn.
type Classified struct {
	Positional []Placement
	Textual    []Placement
}

// Classify walks chapters in order and keeps positional and textual stickers.
// Unsupported kinds are dropped.
func Classify(chapters []story.Chapter) Classified {
	var c Classified
	windows := ChapterWindows(chapters)
	for i, ch := range chapters {
		for j, s := range ch.Stickers {
			p := Placement{Chapter: i, Index: j, Window: windows[i], Sticker: s}
			switch s.Kind() {
			case story.KindPositional:
				c.Positional = append(c.Positional, p)
			case story.KindTextual:
				c.Textual = append(c.Textual, p)
			}
		}
	}
	return c
}
