package editor

import "math"

// Constrain clamps offset so that the image, scaled by scale, covers the
// canvas on both axes. On an axis where the scaled image is smaller than the
// canvas the offset is clamped into [0, canvas-scaled] instead, so the image
// stays fully visible. Non-finite bounds center the axis.
//
// It is the single bounds implementation shared by drag, zoom, fit and reset.
func Constrain(offset Point, scale float64, image, canvas Size) Point {
	return Point{
		X: clampAxis(offset.X, canvas.Width, image.Width*scale),
		Y: clampAxis(offset.Y, canvas.Height, image.Height*scale),
	}
}

func clampAxis(v, canvasDim, scaledDim float64) float64 {
	span := canvasDim - scaledDim
	if !isFinite(span) {
		return 0
	}
	lo := math.Min(0, span)
	hi := math.Max(0, span)
	if !isFinite(v) {
		return span / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// FitCoverScale returns the smallest scale at which image covers canvas.
// Degenerate sizes yield 1.
func FitCoverScale(image, canvas Size) float64 {
	if image.Width <= 0 || image.Height <= 0 {
		return 1
	}
	s := math.Max(canvas.Width/image.Width, canvas.Height/image.Height)
	if !isFinite(s) || s <= 0 {
		return 1
	}
	return s
}

// CenteredOffset returns the offset that centers image on canvas at scale.
func CenteredOffset(image, canvas Size, scale float64) Point {
	return Point{
		X: (canvas.Width - image.Width*scale) / 2,
		Y: (canvas.Height - image.Height*scale) / 2,
	}
}

// FitTransform returns the initial transform: fit-cover scale, centered and
// constrained. Reset uses the same computation.
func FitTransform(image, canvas Size) Transform {
	scale := FitCoverScale(image, canvas)
	return Transform{
		Scale:  scale,
		Offset: Constrain(CenteredOffset(image, canvas, scale), scale, image, canvas),
	}
}

// Covers reports whether t leaves no uncovered canvas region.
// tolerance absorbs floating-point error at the edges.
func Covers(t Transform, image, canvas Size, tolerance float64) bool {
	w := image.Width * t.Scale
	h := image.Height * t.Scale
	return t.Offset.X <= tolerance && t.Offset.Y <= tolerance &&
		t.Offset.X+w >= canvas.Width-tolerance &&
		t.Offset.Y+h >= canvas.Height-tolerance
}
