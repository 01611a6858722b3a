package platform

// encoding is a Profile backed by plain values.
type encoding struct {
	name         string
	maxWidth     int
	maxHeight    int
	maxSeconds   int
	videoCodec   string
	audioCodec   string
	videoBitrate string
	audioBitrate string
	format       string
}

func (e *encoding) GetName() string                       { return e.name }
func (e *encoding) GetMaxDimensions() (width, height int) { return e.maxWidth, e.maxHeight }
func (e *encoding) GetMaxDuration() int                   { return e.maxSeconds }
func (e *encoding) GetVideoCodec() string                 { return e.videoCodec }
func (e *encoding) GetAudioCodec() string                 { return e.audioCodec }
func (e *encoding) GetVideoBitrate() string               { return e.videoBitrate }
func (e *encoding) GetAudioBitrate() string               { return e.audioBitrate }
func (e *encoding) GetOutputFormat() string               { return e.format }

func init() {
	for _, e := range []*encoding{
		// H.264/AAC in mp4 everywhere for compatibility
		{name: "default", videoCodec: "libx264", audioCodec: "aac", format: "mp4"},
		{
			name: "webm", videoCodec: "libvpx-vp9", audioCodec: "libopus",
			videoBitrate: "2M", audioBitrate: "128k", format: "webm",
		},
		{
			name: "instagram_reel", maxWidth: 1080, maxHeight: 1920, maxSeconds: 90,
			videoCodec: "libx264", audioCodec: "aac", videoBitrate: "2M", audioBitrate: "128k", format: "mp4",
		},
		{
			name: "tiktok", maxWidth: 1080, maxHeight: 1920, maxSeconds: 180,
			videoCodec: "libx264", audioCodec: "aac", videoBitrate: "2M", audioBitrate: "128k", format: "mp4",
		},
		{
			name: "x-twitter", maxWidth: 1920, maxHeight: 1200, maxSeconds: 140,
			videoCodec: "libx264", audioCodec: "aac", videoBitrate: "2M", audioBitrate: "128k", format: "mp4",
		},
		{
			name: "reddit", maxWidth: 1920, maxHeight: 1080, maxSeconds: 900,
			videoCodec: "libx264", audioCodec: "aac", videoBitrate: "4M", audioBitrate: "192k", format: "mp4",
		},
	} {
		Register(e)
	}
}
