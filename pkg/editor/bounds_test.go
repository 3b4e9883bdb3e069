package editor

import (
	"math"
	"testing"
)

func TestConstrain(t *testing.T) {
	image := Size{Width: 800, Height: 600}
	canvas := Size{Width: 1200, Height: 1200}

	tests := []struct {
		name   string
		offset Point
		scale  float64
		want   Point
	}{
		{"within bounds", Point{X: -150, Y: 0}, 2, Point{X: -150, Y: 0}},
		{"clamps positive x", Point{X: 50, Y: 0}, 2, Point{X: 0, Y: 0}},
		{"clamps past right edge", Point{X: -500, Y: 0}, 2, Point{X: -400, Y: 0}},
		{"edge-to-edge y", Point{X: -200, Y: 30}, 2, Point{X: -200, Y: 0}},
		{"zoomed in", Point{X: -1000, Y: -700}, 3, Point{X: -1000, Y: -600}},
		{"image smaller than canvas", Point{X: -10, Y: 900}, 1, Point{X: 0, Y: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Constrain(tt.offset, tt.scale, image, canvas)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestConstrain_NeverReturnsNaN(t *testing.T) {
	image := Size{Width: 800, Height: 600}
	canvas := Size{Width: 1200, Height: 1200}

	cases := []struct {
		offset Point
		scale  float64
	}{
		{Point{X: math.NaN(), Y: 0}, 2},
		{Point{X: 0, Y: math.Inf(1)}, 2},
		{Point{X: 0, Y: 0}, math.NaN()},
		{Point{X: 0, Y: 0}, math.Inf(1)},
	}
	for _, c := range cases {
		got := Constrain(c.offset, c.scale, image, canvas)
		if !got.finite() {
			t.Errorf("Constrain(%+v, %v): expected finite result, got %+v", c.offset, c.scale, got)
		}
	}

	// A non-finite offset is centered on its axis.
	got := Constrain(Point{X: math.NaN(), Y: 0}, 2, image, canvas)
	if got.X != -200 {
		t.Errorf("expected centered x -200, got %v", got.X)
	}
}

func TestFitCoverScale(t *testing.T) {
	canvas := Size{Width: 1200, Height: 1200}

	tests := []struct {
		image Size
		want  float64
	}{
		{Size{Width: 800, Height: 600}, 2},
		{Size{Width: 600, Height: 800}, 2},
		{Size{Width: 2400, Height: 4800}, 0.5},
		{Size{Width: 1200, Height: 1200}, 1},
		{Size{Width: 0, Height: 600}, 1},
		{Size{Width: -5, Height: 600}, 1},
	}
	for _, tt := range tests {
		if got := FitCoverScale(tt.image, canvas); got != tt.want {
			t.Errorf("FitCoverScale(%+v): expected %v, got %v", tt.image, tt.want, got)
		}
	}
}

func TestFitTransform_Scenario(t *testing.T) {
	got := FitTransform(Size{Width: 800, Height: 600}, Size{Width: 1200, Height: 1200})

	want := Transform{Scale: 2, Offset: Point{X: -200, Y: 0}}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !Covers(got, Size{Width: 800, Height: 600}, Size{Width: 1200, Height: 1200}, 0) {
		t.Error("expected fit transform to cover the canvas")
	}
}

func TestCovers(t *testing.T) {
	image := Size{Width: 800, Height: 600}
	canvas := Size{Width: 1200, Height: 1200}

	if Covers(Transform{Scale: 2, Offset: Point{X: 10, Y: 0}}, image, canvas, 1e-9) {
		t.Error("expected a gap on the left to be reported")
	}
	if Covers(Transform{Scale: 1.9, Offset: Point{X: -200, Y: 0}}, image, canvas, 1e-9) {
		t.Error("expected a scale below fit to be reported")
	}
}
