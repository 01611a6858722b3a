package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/ZacxDev/story-renderer/internal/plan"
	"github.com/ZacxDev/story-renderer/internal/platform"
)

type CodecSettings struct {
	ContainerFormat string
	FileExtension   string
	EncoderPresets  map[string]ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"webm": {
		ContainerFormat: "webm",
		FileExtension:   ".webm",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			"default": {
				"deadline": "good",
				"cpu-used": 2,
				"row-mt":   1,
			},
		},
	},
	"mp4": {
		ContainerFormat: "mp4",
		FileExtension:   ".mp4",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			"default": {
				"preset":   "medium",
				"movflags": "+faststart",
			},
		},
	},
}

func GetCodecSettings(outputFormat string) CodecSettings {
	if settings, ok := codecPresets[outputFormat]; ok {
		return settings
	}
	// Default to MP4 if format not specified or invalid
	return codecPresets["mp4"]
}

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// Size returns the frame size of the video
func (m *VideoMetadata) Size() plan.Size {
	return plan.Size{Width: m.Width, Height: m.Height}
}

// Processor wraps FFmpeg functionality
type Processor struct {
	binary string
	log    *zap.Logger
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(log *zap.Logger) *Processor {
	return &Processor{
		binary: "ffmpeg",
		log:    log.Named("ffmpeg"),
	}
}

type probeData struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetVideoMetadata retrieves metadata about a video file
func (p *Processor) GetVideoMetadata(ctx context.Context, inputPath string) (*VideoMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", inputPath)
	}
	meta, err := parseProbe(probe)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", inputPath)
	}
	p.log.Debug("Probed video", zap.String("path", inputPath), zap.Int("width", meta.Width), zap.Int("height", meta.Height),
		zap.Float64("duration", meta.Duration), zap.String("codec", meta.Codec))
	return meta, nil
}

func parseProbe(probe string) (*VideoMetadata, error) {
	var data probeData
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data.Streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	for _, s := range data.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("video stream has no dimensions")
		}
		meta := &VideoMetadata{Width: s.Width, Height: s.Height, Codec: s.CodecName}
		// stream duration first, container duration otherwise
		for _, d := range []string{s.Duration, data.Format.Duration} {
			if v, err := strconv.ParseFloat(strings.TrimSpace(d), 64); err == nil && v > 0 {
				meta.Duration = v
				break
			}
		}
		return meta, nil
	}
	return nil, fmt.Errorf("no video stream found")
}

// OutputKwargs returns encoder settings for a stage output
func OutputKwargs(prof platform.Profile) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":     prof.GetVideoCodec(),
		"c:a":     prof.GetAudioCodec(),
		"pix_fmt": "yuv420p",
		"threads": GetOptimalThreadCount(),
	}
	if b := prof.GetVideoBitrate(); b != "" {
		kwargs["b:v"] = b
	}
	if b := prof.GetAudioBitrate(); b != "" {
		kwargs["b:a"] = b
	}
	for k, v := range GetCodecSettings(prof.GetOutputFormat()).EncoderPresets["default"] {
		kwargs[k] = v
	}
	return kwargs
}

// StageArgs builds the ffmpeg command line for a stage. Sticker assets are
// attached right after the base input so that attachment i is input i+1.
func StageArgs(stage plan.Stage, prof platform.Profile) []string {
	kwargs := OutputKwargs(prof)
	if stage.FilterComplex != "" {
		kwargs["filter_complex"] = stage.FilterComplex
	}
	if len(stage.VideoFilters) > 0 {
		kwargs["vf"] = strings.Join(stage.VideoFilters, ",")
	}

	args := ffmpeg.Input(stage.Input).
		Output(stage.Output, kwargs).
		OverWriteOutput().
		GetArgs()

	// args start with "-i <input>"
	out := make([]string, 0, len(args)+2*len(stage.Attachments)+4)
	out = append(out, args[:2]...)
	for _, a := range stage.Attachments {
		out = append(out, "-i", a)
	}
	rest := args[2:]
	if stage.Map != "" {
		// keep the base audio next to the composed video
		at := lastIndex(rest, stage.Output)
		out = append(out, rest[:at]...)
		out = append(out, "-map", stage.Map, "-map", "0:a?")
		rest = rest[at:]
	}
	return append(out, rest...)
}

func lastIndex(args []string, v string) int {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i] == v {
			return i
		}
	}
	return len(args)
}

// RunStage executes a single stage and waits for it to finish
func (p *Processor) RunStage(ctx context.Context, stage plan.Stage, prof platform.Profile) error {
	args := StageArgs(stage, prof)
	p.log.Debug("Running stage", zap.String("stage", string(stage.Name)), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, p.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg %s stage failed: %s", stage.Name, tail(stderr.String(), 5))
	}
	return nil
}

// tail keeps the last n lines of ffmpeg output, where the error usually is
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// Helper function to ensure correct file extension
func EnsureExtension(filename, extension string) string {
	// Remove any existing video extension
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}
