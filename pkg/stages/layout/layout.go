// Package layout implements the preview grid layout stage.
package layout

import (
	"context"

	"github.com/user/avatarcrop/pkg/pipeline"
)

// MaxColumns is the widest grid the preview sheet uses.
const MaxColumns = 3

// Viewport breakpoints at which the grid gains a column.
const (
	BreakpointMedium = 768
	BreakpointLarge  = 1280
)

// Stage calculates the layout of the preview sheet.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ColumnsForWidth returns the column count a viewport of the given width
// shows: one below the medium breakpoint, two below the large one, else three.
func ColumnsForWidth(width int) int {
	switch {
	case width >= BreakpointLarge:
		return 3
	case width >= BreakpointMedium:
		return 2
	default:
		return 1
	}
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// Cards fill rows left to right. The column count is clamped to [1, MaxColumns]
// and never exceeds the card count, so a short grid is not padded with
// empty columns. Cell positions are absolute, below the banner.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	columns := input.Columns
	if columns < 1 {
		columns = 1
	}
	if columns > MaxColumns {
		columns = MaxColumns
	}
	if input.Count > 0 && columns > input.Count {
		columns = input.Count
	}

	rows := 0
	if input.Count > 0 {
		rows = (input.Count + columns - 1) / columns
	}

	contentWidth := columns*input.CardWidth + (columns-1)*input.Gap
	contentHeight := 0
	if rows > 0 {
		contentHeight = rows*input.CardHeight + (rows-1)*input.Gap
	}

	sheet := pipeline.Dimension{
		Width:  contentWidth + input.Padding*2,
		Height: input.BannerHeight + contentHeight + input.Padding*2,
	}

	cells := make([]pipeline.Rectangle, input.Count)
	for i := range cells {
		row, col := i/columns, i%columns
		cells[i] = pipeline.Rectangle{
			X:      input.Padding + col*(input.CardWidth+input.Gap),
			Y:      input.BannerHeight + input.Padding + row*(input.CardHeight+input.Gap),
			Width:  input.CardWidth,
			Height: input.CardHeight,
		}
	}

	// Banner area (at the very top, full sheet width)
	bannerArea := pipeline.Rectangle{}
	if input.BannerHeight > 0 {
		bannerArea = pipeline.Rectangle{
			X:      0,
			Y:      0,
			Width:  sheet.Width,
			Height: input.BannerHeight,
		}
	}

	return pipeline.LayoutResult{
		Sheet:      sheet,
		Cells:      cells,
		BannerArea: bannerArea,
		Rows:       rows,
	}
}
