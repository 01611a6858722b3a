package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZacxDev/story-renderer/internal/config"
)

// Overlay is one stage of the sticker overlay chain.
type Overlay struct {
	Inputs  string `yaml:"inputs"`
	Outputs string `yaml:"outputs"`
	Enable  string `yaml:"enable"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
}

func (o Overlay) String() string {
	return fmt.Sprintf("%soverlay=enable='%s':x=%d:y=%d[%s]", o.Inputs, o.Enable, o.X, o.Y, o.Outputs)
}

// DrawText burns a textual sticker into the video.
type DrawText struct {
	Text   string `yaml:"text"`
	Enable string `yaml:"enable"`
}

func (d DrawText) String() string {
	return "drawtext=" + strings.Join([]string{
		"text=" + quoteGraphValue(escapeOptionValue(escapeTextExpansion(d.Text))),
		"enable='" + d.Enable + "'",
		"fontsize=" + strconv.Itoa(config.TextFontSize),
		"fontcolor=" + config.TextFontColor,
		"boxcolor=" + config.TextBoxColor,
		"box=1",
		"boxborderw=" + strconv.Itoa(config.TextBoxBorderWidth),
		"x=" + config.TextX,
		"y=" + config.TextY,
	}, ":")
}

// A filter argument is unescaped three times before drawtext sees the text:
// by the filtergraph parser, by the option parser and by text expansion.
// Escaping is applied in reverse order.

var (
	textExpansionEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`)
	optionValueEscaper   = strings.NewReplacer(`\`, `\\`, "'", `\'`, ":", `\:`)
)

// escapeTextExpansion keeps drawtext from expanding % sequences.
func escapeTextExpansion(s string) string {
	return textExpansionEscaper.Replace(s)
}

// escapeOptionValue protects a value from the option parser, which splits
// key=value pairs on ':'.
func escapeOptionValue(s string) string {
	return optionValueEscaper.Replace(s)
}

// quoteGraphValue quotes a value for the filtergraph parser, which splits
// filters on ',' and ';'. Backslashes are literal inside quotes, so only
// quotes themselves need to be spliced in.
func quoteGraphValue(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// graphValue escapes s as a filter option value. Plain values are kept as is.
func graphValue(s string) string {
	if strings.ContainsAny(s, "\\':,;[] \t") {
		return quoteGraphValue(escapeOptionValue(s))
	}
	return s
}

// BuildOverlayChain links positioned stickers into a linear chain where stage
// k consumes the previous result and input k+1. Input k+1 must be the k-th
// attached sticker asset.
func BuildOverlayChain(positioned []Positioned) []Overlay {
	chain := make([]Overlay, 0, len(positioned))
	for k, p := range positioned {
		inputs := "[0:v][1:v]"
		if k > 0 {
			inputs = fmt.Sprintf("[%s][%d:v]", config.OverlayLabel, k+1)
		}
		chain = append(chain, Overlay{
			Inputs:  inputs,
			Outputs: config.OverlayLabel,
			Enable:  p.Window.Predicate(),
			X:       p.X,
			Y:       p.Y,
		})
	}
	return chain
}

// BuildDrawTexts returns one drawtext filter per textual sticker.
func BuildDrawTexts(textual []Placement) []DrawText {
	draws := make([]DrawText, 0, len(textual))
	for _, p := range textual {
		draws = append(draws, DrawText{Text: p.Sticker.Text, Enable: p.Window.Predicate()})
	}
	return draws
}

// FilterComplex renders the overlay chain as a -filter_complex graph.
func FilterComplex(chain []Overlay) string {
	parts := make([]string, len(chain))
	for i, o := range chain {
		parts[i] = o.String()
	}
	return strings.Join(parts, ";")
}

// VideoFilters renders drawtext filters for a -vf chain.
func VideoFilters(draws []DrawText) []string {
	out := make([]string, len(draws))
	for i, d := range draws {
		out[i] = d.String()
	}
	return out
}
