package pipeline

import (
	"image"
	"image/color"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/preview"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// =============================================================================
// Load Stage Types
// =============================================================================

// LoadInput contains the source to load.
type LoadInput struct {
	Source    string // File path, http(s) URL or data URL
	Normalize bool   // Upscale and re-encode like the upload flow
}

// LoadResult contains the decoded source.
type LoadResult struct {
	Image      image.Image
	Data       []byte    // Normalized JPEG bytes, nil when not normalized
	Original   Dimension // Size as decoded
	Normalized Dimension // Size handed to the editor
}

// =============================================================================
// Edit Stage Types
// =============================================================================

// EditInput contains the image and the gestures to replay on it.
type EditInput struct {
	Image    image.Image    // Already decoded source; Source is used when nil
	Source   string         // Loaded through the session when Image is nil
	Gestures []editor.Event // Replayed in order after the image opens
	Options  editor.Options
}

// EditResult contains the outcome of an editing session.
type EditResult struct {
	Artifact        editor.Artifact
	Transform       editor.Transform
	ImageSize       editor.Size
	Percent         float64
	ScaleLabel      string
	Caption         string
	DownloadCaption string
	FileSize        string
	Exports         int // Exports delivered while replaying
	Gestures        int // Gestures dispatched
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains parameters for the preview grid.
type LayoutInput struct {
	CardWidth    int // Width of one card (default: 360)
	CardHeight   int // Height of one card (default: 520)
	Columns      int // Number of columns, 1-3 (default: 3)
	Gap          int // Gap between cards (default: 24)
	Padding      int // Padding around the sheet (default: 24)
	BannerHeight int // Height of the header banner (default: 0)
	Count        int // Number of cards
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		CardWidth:  preview.CardWidth,
		CardHeight: preview.CardHeight,
		Columns:    3,
		Gap:        24,
		Padding:    24,
		Count:      len(preview.Platforms()),
	}
}

// LayoutResult contains the sheet size and card positions.
type LayoutResult struct {
	// Sheet is the size of the whole preview sheet.
	Sheet Dimension

	// Cells contains one rectangle per card, row by row.
	Cells []Rectangle

	// BannerArea is the rectangle for the banner (if enabled).
	BannerArea Rectangle

	// Rows is the number of grid rows.
	Rows int
}

// =============================================================================
// Banner Stage Types
// =============================================================================

// BannerInput contains parameters for the sheet header.
type BannerInput struct {
	Width    int
	Title    string
	Subtitle string // e.g. the download caption
	Caption  string // e.g. the source caption
	Theme    BannerTheme
}

// BannerTheme defines banner styling.
type BannerTheme struct {
	BackgroundColor color.Color
	TextColor       color.Color
	AccentColor     color.Color
}

// DefaultBannerTheme returns a default banner theme.
func DefaultBannerTheme() BannerTheme {
	return BannerTheme{
		BackgroundColor: color.RGBA{R: 45, G: 45, B: 45, A: 255},
		TextColor:       color.White,
		AccentColor:     color.RGBA{R: 100, G: 180, B: 255, A: 255},
	}
}

// BannerResult contains the generated banner.
type BannerResult struct {
	Image image.Image
}

// =============================================================================
// Composite Stage Types
// =============================================================================

// CompositeInput contains parameters for the preview sheet.
type CompositeInput struct {
	Avatar    image.Image
	Platforms []preview.Platform
	Theme     preview.Theme
	Layout    LayoutResult
	Banner    *BannerResult // Optional banner
}

// CompositeResult contains the rendered cards and the sheet.
type CompositeResult struct {
	Cards []Card
	Sheet image.Image
}

// Card is one rendered platform preview.
type Card struct {
	Platform string // Slug
	FileName string
	Image    image.Image
}
