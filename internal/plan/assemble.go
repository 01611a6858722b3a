package plan

import (
	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/internal/story"
	"github.com/ZacxDev/story-renderer/pkg/types"
)

// Sidecar is a file a stage needs written before it runs.
type Sidecar struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Stage is one ffmpeg invocation.
type Stage struct {
	Name  types.StageName `yaml:"name"`
	Input string          `yaml:"input"`
	// Attachments are extra inputs; attachment i is ffmpeg input i+1.
	Attachments   []string `yaml:"attachments,omitempty"`
	FilterComplex string   `yaml:"filter_complex,omitempty"`
	Map           string   `yaml:"map,omitempty"`
	VideoFilters  []string `yaml:"video_filters,omitempty"`
	Sidecar       *Sidecar `yaml:"sidecar,omitempty"`
	Output        string   `yaml:"output"`
}

// RenderPlan is the ordered stage list handed to the compose engine.
type RenderPlan struct {
	Stages  []Stage      `yaml:"stages"`
	Final   string       `yaml:"final"`
	Overlay []Overlay    `yaml:"overlay,omitempty"`
	Texts   []DrawText   `yaml:"texts,omitempty"`
	Placed  []Positioned `yaml:"placed,omitempty"`
}

// OutputPaths names every file a plan writes.
type OutputPaths struct {
	Stickers  string
	Subtitles string
	Text      string
	Sidecar   string
}

// AssembleInput is everything the assembler needs, already resolved.
type AssembleInput struct {
	BaseVideo  string
	Positioned []Positioned
	Textual    []Placement
	Subtitles  []story.Subtitle
	Paths      OutputPaths
}

// SubtitleFilter burns the sidecar subtitle file with the house style. Paths
// with filtergraph syntax in them are escaped.
func SubtitleFilter(path string) string {
	return "subtitles=" + graphValue(path) + ":force_style='" + config.SubtitleForceStyle + "'"
}

// Assemble sequences stickers -> subtitles -> text. The stickers stage is
// always present, the others only when they have content. Each stage reads
// the previous stage's output.
func Assemble(in AssembleInput) *RenderPlan {
	chain := BuildOverlayChain(in.Positioned)
	draws := BuildDrawTexts(in.Textual)

	stickers := Stage{
		Name:          types.StageStickers,
		Input:         in.BaseVideo,
		FilterComplex: FilterComplex(chain),
		Output:        in.Paths.Stickers,
	}
	for _, p := range in.Positioned {
		stickers.Attachments = append(stickers.Attachments, p.Asset)
	}
	if len(chain) > 0 {
		stickers.Map = "[" + config.OverlayLabel + "]"
	}

	rp := &RenderPlan{
		Stages:  []Stage{stickers},
		Overlay: chain,
		Texts:   draws,
		Placed:  in.Positioned,
	}
	last := stickers.Output

	if len(in.Subtitles) > 0 {
		rp.Stages = append(rp.Stages, Stage{
			Name:         types.StageSubtitles,
			Input:        last,
			VideoFilters: []string{SubtitleFilter(in.Paths.Sidecar)},
			Sidecar:      &Sidecar{Path: in.Paths.Sidecar, Content: SubtitleTrack(in.Subtitles)},
			Output:       in.Paths.Subtitles,
		})
		last = in.Paths.Subtitles
	}

	if len(draws) > 0 {
		rp.Stages = append(rp.Stages, Stage{
			Name:         types.StageText,
			Input:        last,
			VideoFilters: VideoFilters(draws),
			Output:       in.Paths.Text,
		})
		last = in.Paths.Text
	}

	rp.Final = last
	return rp
}
