package editor

import "math"

// MaxPercent is the slider value that maps to the maximum scale.
const MaxPercent = 500

// ZoomController computes scale changes anchored at the canvas center.
// It never changes scale without recomputing a constrained offset.
type ZoomController struct {
	image   Size
	canvas  Size
	min     float64
	max     float64
	inStep  float64
	outStep float64
}

// NewZoomController creates a controller for image on canvas.
// The maximum scale is multiplier times the fit-cover scale.
func NewZoomController(image, canvas Size, multiplier, inStep, outStep float64) *ZoomController {
	z := &ZoomController{
		image:   image,
		canvas:  canvas,
		inStep:  inStep,
		outStep: outStep,
	}
	fit := FitCoverScale(image, canvas)
	z.SetRange(fit, fit*multiplier)
	return z
}

// SetRange sets the scale range. A maximum below the minimum is raised to it.
func (z *ZoomController) SetRange(min, max float64) {
	if max < min || !isFinite(max) {
		max = min
	}
	z.min = min
	z.max = max
}

// MinScale returns the fit-cover scale.
func (z *ZoomController) MinScale() float64 { return z.min }

// MaxScale returns the largest allowed scale.
func (z *ZoomController) MaxScale() float64 { return z.max }

// WheelDelta maps a wheel deltaY to a zoom multiplier:
// scrolling down zooms out, scrolling up zooms in.
func (z *ZoomController) WheelDelta(deltaY float64) float64 {
	switch {
	case deltaY > 0:
		return z.outStep
	case deltaY < 0:
		return z.inStep
	default:
		return 1
	}
}

// Zoom multiplies the current scale by delta, clamped to the scale range.
func (z *ZoomController) Zoom(t Transform, delta float64) Transform {
	if !isFinite(delta) || delta <= 0 {
		return t
	}
	return z.scaleTo(t, z.clampScale(t.Scale*delta))
}

// ZoomToPercent sets the scale from a linear slider percentage in [0, 500].
func (z *ZoomController) ZoomToPercent(t Transform, percent float64) Transform {
	if !isFinite(percent) {
		return t
	}
	percent = math.Max(0, math.Min(MaxPercent, percent))
	return z.scaleTo(t, z.min+percent/MaxPercent*(z.max-z.min))
}

// Percent maps scale back to the slider percentage.
func (z *ZoomController) Percent(scale float64) float64 {
	if z.max <= z.min {
		return 0
	}
	return (scale - z.min) / (z.max - z.min) * MaxPercent
}

func (z *ZoomController) clampScale(s float64) float64 {
	return math.Max(z.min, math.Min(z.max, s))
}

// scaleTo keeps the canvas center fixed while the scale changes.
func (z *ZoomController) scaleTo(t Transform, scale float64) Transform {
	factor := scale / t.Scale
	c := z.canvas.Center()
	offset := Point{
		X: c.X - (c.X-t.Offset.X)*factor,
		Y: c.Y - (c.Y-t.Offset.Y)*factor,
	}
	return Transform{
		Scale:  scale,
		Offset: Constrain(offset, scale, z.image, z.canvas),
	}
}
