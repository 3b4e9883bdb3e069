// Package banner implements the preview sheet header stage.
package banner

import (
	"context"
	"fmt"

	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
)

// Height is the banner height in pixels.
const Height = 96

const (
	margin    = 24
	accentBar = 4
)

// Stage generates the banner drawn above the preview grid.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new banner stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("banner"),
	}
}

// Execute draws the banner: title and subtitle on the left, caption on the
// right and an accent bar along the bottom edge.
func (s *Stage) Execute(ctx context.Context, input pipeline.BannerInput) (pipeline.BannerResult, error) {
	result := pipeline.BannerResult{}
	if input.Width <= 0 {
		return result, fmt.Errorf("invalid banner width: %d", input.Width)
	}

	s.logger.Debug("Generating banner")

	theme := input.Theme
	canvas := s.renderer.CreateCanvas(input.Width, Height, theme.BackgroundColor)

	title := input.Title
	if title == "" {
		title = "Profile picture preview"
	}
	canvas.DrawText(title, margin, 34, ports.TextStyle{FontSize: 26, Bold: true, Color: theme.TextColor})

	if input.Subtitle != "" {
		canvas.DrawText(input.Subtitle, margin, 66, ports.TextStyle{FontSize: 16, Color: theme.AccentColor})
	}
	if input.Caption != "" {
		canvas.DrawText(input.Caption, input.Width-margin, 34, ports.TextStyle{
			FontSize: 14,
			Color:    theme.TextColor,
			Align:    ports.AlignRight,
		})
	}

	canvas.DrawRect(0, Height-accentBar, input.Width, accentBar, theme.AccentColor)

	result.Image = canvas.ToImage()
	s.logger.Debug("Banner generated: %dx%d", input.Width, Height)

	return result, nil
}
