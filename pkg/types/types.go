package types

// StickerType is the annotation kind as reported by the render API.
type StickerType string

const (
	StickerTypeDumb StickerType = "DUMB"
	StickerTypeText StickerType = "TEXT"
	StickerTypeLink StickerType = "LINK"
)

// LookupKeyMode selects how a sticker is matched to its resized asset.
type LookupKeyMode string

const (
	// LookupKeyStable uses the sticker id, or a digest of the image URL.
	LookupKeyStable LookupKeyMode = "stable"
	// LookupKeyLegacy uses the last 6 characters of the image URL. Not guaranteed unique.
	LookupKeyLegacy LookupKeyMode = "legacy"
)

// StageName identifies one ffmpeg invocation of a render plan.
type StageName string

const (
	StageStickers  StageName = "stickers"
	StageSubtitles StageName = "subtitles"
	StageText      StageName = "text"
)
