// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	// Additional source formats accepted by DecodeImage with FormatAuto.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"

	"github.com/user/avatarcrop/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc, faces: make(map[faceKey]font.Face)}
}

// DecodeImage decodes image data into an image.Image.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		return jpeg.Decode(reader)
	case ports.FormatPNG:
		return png.Decode(reader)
	default:
		img, _, err := image.Decode(reader)
		return img, err
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Parsed Go fonts, shared by all canvases. Faces are not safe for
// concurrent use, so each canvas keeps its own.
var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc    *gg.Context
	faces map[faceKey]font.Face
}

// Clear fills the canvas with a color.
func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// DrawImageTransformed draws img translated by (tx, ty) and scaled by scale.
func (c *Canvas) DrawImageTransformed(img image.Image, tx, ty, scale float64) {
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.Translate(tx, ty)
	c.dc.Scale(scale, scale)
	c.dc.DrawImage(img, 0, 0)
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawAvatar draws img covering a size x size square clipped to shape.
func (c *Canvas) DrawAvatar(img image.Image, x, y, size int, shape ports.AvatarShape) {
	b := img.Bounds()
	if b.Empty() || size <= 0 {
		return
	}
	// Pop does not restore the clip mask, so drop it explicitly.
	c.dc.Push()
	defer func() {
		c.dc.Pop()
		c.dc.ResetClip()
	}()

	fx, fy, fs := float64(x), float64(y), float64(size)
	switch shape {
	case ports.ShapeCircle:
		c.dc.DrawCircle(fx+fs/2, fy+fs/2, fs/2)
		c.dc.Clip()
	case ports.ShapeRounded:
		c.dc.DrawRoundedRectangle(fx, fy, fs, fs, fs*0.2)
		c.dc.Clip()
	default:
		c.dc.DrawRectangle(fx, fy, fs, fs)
		c.dc.Clip()
	}

	scale := math.Max(fs/float64(b.Dx()), fs/float64(b.Dy()))
	c.dc.Translate(fx+(fs-float64(b.Dx())*scale)/2, fy+(fs-float64(b.Dy())*scale)/2)
	c.dc.Scale(scale, scale)
	c.dc.DrawImage(img, 0, 0)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawRoundedRect draws a filled rounded rectangle.
func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

// DrawCircle draws a filled circle.
func (c *Canvas) DrawCircle(cx, cy, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(float64(cx), float64(cy), float64(radius))
	c.dc.Fill()
}

func (c *Canvas) face(style ports.TextStyle) font.Face {
	key := faceKey{size: style.FontSize, bold: style.Bold}
	if f, ok := c.faces[key]; ok {
		return f
	}
	if err := loadFonts(); err != nil {
		return nil
	}
	src := regularFont
	if style.Bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    style.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	c.faces[key] = f
	return f
}

func (c *Canvas) setFont(style ports.TextStyle) {
	if style.FontSize <= 0 {
		return
	}
	if f := c.face(style); f != nil {
		c.dc.SetFontFace(f)
	}
}

// DrawText draws text vertically centered on y.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.setFont(style)
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// MeasureText returns the width and height of the text.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.setFont(style)
	return c.dc.MeasureString(text)
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Snapshot returns a copy of the canvas pixels.
func (c *Canvas) Snapshot() image.Image {
	src := c.dc.Image()
	if rgba, ok := src.(*image.RGBA); ok {
		dst := image.NewRGBA(rgba.Rect)
		copy(dst.Pix, rgba.Pix)
		return dst
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
