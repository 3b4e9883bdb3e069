package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/avatarcrop/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	mu          sync.Mutex
	encodeCalls int
	canvases    []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{width: width, height: height}
	m.mu.Lock()
	m.canvases = append(m.canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	m.encodeCalls++
	m.mu.Unlock()
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// EncodeCalls returns how many times EncodeImage was called.
func (m *Renderer) EncodeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encodeCalls
}

// Canvases returns the canvases created by the default CreateCanvas.
func (m *Renderer) Canvases() []*Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Canvas(nil), m.canvases...)
}

var _ ports.Renderer = (*Renderer)(nil)

// DrawCall records a DrawImageTransformed call.
type DrawCall struct {
	TX, TY, Scale float64
}

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA

	Clears  int
	Draws   []DrawCall
	Avatars int
	Texts   []string
	Images  []image.Point
}

// Size returns the canvas dimensions.
func (m *Canvas) Size() (width, height int) {
	return m.width, m.height
}

func (m *Canvas) Clear(c color.Color) { m.Clears++ }

func (m *Canvas) DrawImageTransformed(img image.Image, tx, ty, scale float64) {
	m.Draws = append(m.Draws, DrawCall{TX: tx, TY: ty, Scale: scale})
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.Images = append(m.Images, image.Pt(x, y))
}

func (m *Canvas) DrawAvatar(img image.Image, x, y, size int, shape ports.AvatarShape) {
	m.Avatars++
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {}

func (m *Canvas) DrawRoundedRect(x, y, w, h, radius int, c color.Color) {}

func (m *Canvas) DrawCircle(cx, cy, radius int, c color.Color) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, text)
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text)) * style.FontSize * 0.5, style.FontSize
}

func (m *Canvas) ToImage() image.Image {
	if m.img != nil {
		return m.img
	}
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

func (m *Canvas) Snapshot() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

// LastDraw returns the most recent transformed draw.
func (m *Canvas) LastDraw() (DrawCall, bool) {
	if len(m.Draws) == 0 {
		return DrawCall{}, false
	}
	return m.Draws[len(m.Draws)-1], true
}

var _ ports.Canvas = (*Canvas)(nil)
