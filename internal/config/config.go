package config

// RenderOptions defines options for rendering a story
type RenderOptions struct {
	StoryRef   string // URL or path of the story JSON
	ConfigPath string
	AssetsDir  string
	Profile    string
	LegacyKeys bool
	DryRun     bool
	Verbose    bool
}

const (
	AppName = "story-renderer"

	// Workspace layout, relative to <assets>/<viewKey>
	StickersDirName   = "stickers"
	ResizedDirName    = "resized"
	SubtitleFileName  = "subtitle.srt"
	StickersOutput    = "storyWithStickers.mp4"
	SubtitlesOutput   = "storyWithSubtitles.mp4"
	FinalOutput       = "final.mp4"
	DefaultAssetsDir  = "assets"
	DefaultProfile    = "default"
	DefaultVideoTitle = "video"

	// Label of the intermediate stream in the overlay chain
	OverlayLabel = "tmp"

	// Text sticker settings
	TextFontSize       = 40
	TextFontColor      = "white"
	TextBoxColor       = "black@0.5"
	TextBoxBorderWidth = 10
	TextX              = "(w-text_w)/2"
	TextY              = "(h-th-50)"

	// Subtitle burn-in style (ASS force_style)
	SubtitleForceStyle = "OutlineColour=&H40000000,BorderStyle=4,BackColour=&H40000000,Outline=0,Shadow=2,Fontname=Arial,Fontsize=10,Alignment=2,"
)
