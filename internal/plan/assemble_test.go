package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/internal/story"
	"github.com/ZacxDev/story-renderer/pkg/types"
)

var paths = OutputPaths{
	Stickers:  "/w/storyWithStickers.mp4",
	Subtitles: "/w/storyWithSubtitles.mp4",
	Text:      "/w/final.mp4",
	Sidecar:   "/w/subtitle.srt",
}

func TestAssemble_StickersOnly(t *testing.T) {
	rp := Assemble(AssembleInput{
		BaseVideo: "/w/video.mp4",
		Paths:     paths,
	})
	require.Len(t, rp.Stages, 1)
	st := rp.Stages[0]
	assert.Equal(t, types.StageStickers, st.Name)
	assert.Equal(t, "/w/video.mp4", st.Input)
	assert.Empty(t, st.FilterComplex)
	assert.Empty(t, st.Map)
	assert.Equal(t, paths.Stickers, rp.Final)
}

func TestAssemble_AllStages(t *testing.T) {
	rp := Assemble(AssembleInput{
		BaseVideo: "/w/video.mp4",
		Positioned: []Positioned{
			{Placement: Placement{Window: Window{0, 1000}}, Asset: "/w/resized/a.png", X: 1, Y: 2},
			{Placement: Placement{Window: Window{0, 1000}}, Asset: "/w/resized/b.png", X: 3, Y: 4},
		},
		Textual: []Placement{
			{Window: Window{1000, 2000}, Sticker: story.Sticker{Text: "caption"}},
		},
		Subtitles: []story.Subtitle{{StartTime: 0, EndTime: 1000, Text: "hey"}},
		Paths:     paths,
	})
	require.Len(t, rp.Stages, 3)

	stickers, subs, text := rp.Stages[0], rp.Stages[1], rp.Stages[2]
	assert.Equal(t, []string{"/w/resized/a.png", "/w/resized/b.png"}, stickers.Attachments)
	assert.Equal(t, "[tmp]", stickers.Map)
	assert.Len(t, rp.Overlay, len(stickers.Attachments))

	assert.Equal(t, types.StageSubtitles, subs.Name)
	assert.Equal(t, stickers.Output, subs.Input)
	require.NotNil(t, subs.Sidecar)
	assert.Equal(t, paths.Sidecar, subs.Sidecar.Path)
	assert.Equal(t, "1\n00:00:00.0 --> 00:00:01.0\nhey", subs.Sidecar.Content)
	assert.Equal(t, []string{SubtitleFilter(paths.Sidecar)}, subs.VideoFilters)

	assert.Equal(t, types.StageText, text.Name)
	assert.Equal(t, subs.Output, text.Input)
	require.Len(t, text.VideoFilters, 1)
	assert.Contains(t, text.VideoFilters[0], "text='caption'")
	assert.Equal(t, paths.Text, rp.Final)
}

func TestAssemble_TextWithoutSubtitles(t *testing.T) {
	rp := Assemble(AssembleInput{
		BaseVideo: "/w/video.mp4",
		Textual:   []Placement{{Window: Window{0, 1000}, Sticker: story.Sticker{Text: "x"}}},
		Paths:     paths,
	})
	require.Len(t, rp.Stages, 2)
	assert.Equal(t, types.StageText, rp.Stages[1].Name)
	assert.Equal(t, paths.Stickers, rp.Stages[1].Input)
}

func TestAssemble_Idempotent(t *testing.T) {
	in := AssembleInput{
		BaseVideo:  "/w/video.mp4",
		Positioned: []Positioned{{Placement: Placement{Window: Window{0, 1000}}, Asset: "/w/a.png"}},
		Subtitles:  []story.Subtitle{{StartTime: 0, EndTime: 1000, Text: "hey"}},
		Paths:      paths,
	}
	assert.Equal(t, Assemble(in), Assemble(in))
}

func TestSubtitleFilter(t *testing.T) {
	assert.Equal(t,
		"subtitles=/w/subtitle.srt:force_style='OutlineColour=&H40000000,BorderStyle=4,BackColour=&H40000000,Outline=0,Shadow=2,Fontname=Arial,Fontsize=10,Alignment=2,'",
		SubtitleFilter("/w/subtitle.srt"))
}

func TestSubtitleFilter_SpecialPath(t *testing.T) {
	path := "/srv/my stories/a:b,c's [1]/subtitle.srt"
	filters := parseChain(t, SubtitleFilter(path))
	require.Len(t, filters, 1)

	f := filters[0]
	assert.Equal(t, "subtitles", f.name)
	assert.Equal(t, []string{"", "force_style"}, f.keys)
	assert.Equal(t, path, f.opts[""])
	assert.Equal(t, config.SubtitleForceStyle, f.opts["force_style"])
}
