package ports

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes image data into an image.Image.
	// FormatAuto sniffs the format from the data.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for the editor surface and preview cards.
type Canvas interface {
	// Clear fills the whole canvas with a color.
	Clear(c color.Color)

	// DrawImageTransformed draws an image translated by (tx, ty) and then
	// uniformly scaled, i.e. translate, scale, draw at origin.
	DrawImageTransformed(img image.Image, tx, ty, scale float64)

	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawAvatar draws an image scaled to a size x size square at (x, y),
	// clipped to the given shape.
	DrawAvatar(img image.Image, x, y, size int, shape AvatarShape)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawRoundedRect draws a filled rounded rectangle.
	DrawRoundedRect(x, y, w, h, radius int, c color.Color)

	// DrawCircle draws a filled circle.
	DrawCircle(cx, cy, radius int, c color.Color)

	// DrawText draws text at the specified position.
	DrawText(text string, x, y int, style TextStyle)

	// MeasureText returns the width and height of the text.
	MeasureText(text string, style TextStyle) (width, height float64)

	// ToImage returns the canvas as an image.Image.
	// The returned image shares pixels with the canvas.
	ToImage() image.Image

	// Snapshot returns a copy of the current pixels that stays valid
	// while the canvas keeps being drawn on.
	Snapshot() image.Image
}

// AvatarShape is the clip shape of an avatar slot.
type AvatarShape int

const (
	ShapeCircle AvatarShape = iota
	ShapeRounded
	ShapeSquare
)

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	Bold     bool
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	FormatAuto
)

// ParseImageFormat parses a format name such as "jpeg", "jpg" or "png".
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg", "image/jpeg":
		return FormatJPEG, nil
	case "png", "image/png":
		return FormatPNG, nil
	default:
		return FormatJPEG, fmt.Errorf("unsupported image format: %q", s)
	}
}

// String returns the short name of the format.
func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "auto"
	}
}

// Extension returns the file extension used for the format, without dot.
func (f ImageFormat) Extension() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

// Label returns the upper-case label shown next to download buttons.
func (f ImageFormat) Label() string {
	return strings.ToUpper(f.Extension())
}

// MediaType returns the MIME type of the format.
func (f ImageFormat) MediaType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}
