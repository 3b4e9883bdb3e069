package preview

import (
	"image"
	"image/color"

	"github.com/user/avatarcrop/pkg/ports"
)

// Card geometry in pixels.
const (
	CardWidth  = 360
	CardHeight = 520

	cardPadding  = 16
	panelRadius  = 10
	postTop      = 48
	postHeight   = 140
	profileTop   = postTop + postHeight + cardPadding
	bandHeight   = 56
	lineHeight   = 20
	contentInset = cardPadding * 2
)

// CardRenderer draws platform preview cards.
type CardRenderer struct {
	renderer ports.Renderer
}

// NewCardRenderer creates a card renderer drawing through renderer.
func NewCardRenderer(renderer ports.Renderer) *CardRenderer {
	return &CardRenderer{renderer: renderer}
}

// Render draws avatar into the card of platform p.
func (r *CardRenderer) Render(p Platform, theme Theme, avatar image.Image) image.Image {
	pal := p.Palette(theme)
	canvas := r.renderer.CreateCanvas(CardWidth, CardHeight, pal.Page)

	canvas.DrawText(p.Name, cardPadding, 26, ports.TextStyle{FontSize: 20, Bold: true, Color: pal.Text})

	r.drawPost(canvas, p, pal, avatar)
	r.drawProfile(canvas, p, pal, avatar)

	return canvas.ToImage()
}

// drawPost draws the feed or chat panel with the small avatar.
func (r *CardRenderer) drawPost(canvas ports.Canvas, p Platform, pal Palette, avatar image.Image) {
	canvas.DrawRoundedRect(cardPadding, postTop, CardWidth-cardPadding*2, postHeight, panelRadius, pal.Surface)

	slot := p.Post
	x, y := contentInset, postTop+cardPadding
	drawSlot(canvas, avatar, x, y, slot, pal)

	tx := x + slot.Size + 12
	width := CardWidth - contentInset - tx
	nameStyle := ports.TextStyle{FontSize: 15, Bold: true, Color: pal.Text}
	handleStyle := ports.TextStyle{FontSize: 12, Color: pal.Muted}
	canvas.DrawText(fit(canvas, p.Copy.Name, nameStyle, width), tx, y+slot.Size/2-8, nameStyle)
	canvas.DrawText(fit(canvas, p.Copy.Handle, handleStyle, width), tx, y+slot.Size/2+10, handleStyle)

	msgStyle := ports.TextStyle{FontSize: 14, Color: pal.Text}
	canvas.DrawText(fit(canvas, p.Copy.Message, msgStyle, CardWidth-contentInset*2), x, y+slot.Size+28, msgStyle)
}

// drawProfile draws the profile panel: optional header band, the large
// avatar centered across the band edge, the headline and detail lines.
func (r *CardRenderer) drawProfile(canvas ports.Canvas, p Platform, pal Palette, avatar image.Image) {
	panelWidth := CardWidth - cardPadding*2
	panelHeight := CardHeight - profileTop - cardPadding
	canvas.DrawRoundedRect(cardPadding, profileTop, panelWidth, panelHeight, panelRadius, pal.Surface)

	slot := p.Profile
	y := profileTop + 24
	if pal.Band != nil {
		canvas.DrawRoundedRect(cardPadding, profileTop, panelWidth, bandHeight, panelRadius, pal.Band)
		canvas.DrawRect(cardPadding, profileTop+panelRadius, panelWidth, bandHeight-panelRadius, pal.Band)
		y = profileTop + bandHeight - slot.Size/2
		if y < profileTop+8 {
			y = profileTop + 8
		}
	}
	x := (CardWidth - slot.Size) / 2
	drawSlot(canvas, avatar, x, y, slot, pal)

	center := CardWidth / 2
	width := CardWidth - contentInset*2
	headStyle := ports.TextStyle{FontSize: 18, Bold: true, Color: pal.Text, Align: ports.AlignCenter}
	ty := y + slot.Size + 24
	canvas.DrawText(fit(canvas, p.Copy.Headline, headStyle, width), center, ty, headStyle)

	detailStyle := ports.TextStyle{FontSize: 13, Color: pal.Muted, Align: ports.AlignCenter}
	for i, line := range p.Copy.Details {
		canvas.DrawText(fit(canvas, line, detailStyle, width), center, ty+lineHeight*(i+1)+4, detailStyle)
	}
}

func drawSlot(canvas ports.Canvas, avatar image.Image, x, y int, slot Slot, pal Palette) {
	if slot.Ring {
		ring(canvas, x-4, y-4, slot.Size+8, slot.Shape, pal.Accent)
		ring(canvas, x-2, y-2, slot.Size+4, slot.Shape, pal.Surface)
	}
	if avatar != nil {
		canvas.DrawAvatar(avatar, x, y, slot.Size, slot.Shape)
	}
	if slot.Status {
		r := slot.Size / 8
		if r < 5 {
			r = 5
		}
		cx, cy := x+slot.Size-r, y+slot.Size-r
		canvas.DrawCircle(cx, cy, r+2, pal.Surface)
		canvas.DrawCircle(cx, cy, r, pal.Accent)
	}
}

// ring fills the slot shape at the given square.
func ring(canvas ports.Canvas, x, y, size int, shape ports.AvatarShape, c color.Color) {
	switch shape {
	case ports.ShapeCircle:
		canvas.DrawCircle(x+size/2, y+size/2, size/2, c)
	case ports.ShapeRounded:
		canvas.DrawRoundedRect(x, y, size, size, size/5, c)
	default:
		canvas.DrawRect(x, y, size, size, c)
	}
}

// fit truncates text with an ellipsis so that it is at most width wide.
func fit(canvas ports.Canvas, text string, style ports.TextStyle, width int) string {
	if w, _ := canvas.MeasureText(text, style); w <= float64(width) {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + "…"
		if w, _ := canvas.MeasureText(s, style); w <= float64(width) {
			return s
		}
	}
	return "…"
}
