// Package editor implements the interactive pan/zoom crop engine: bounds
// constraint, drag and zoom controllers, the render/export pipeline and the
// session state machine that wires input events to them.
package editor

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/user/avatarcrop/pkg/ports"
)

// Sentinel errors returned by the editor.
var (
	ErrNotReady = errors.New("editor: no image loaded")
	ErrDecode   = errors.New("editor: cannot decode source image")
	ErrEncode   = errors.New("editor: cannot encode canvas")
)

// Point is a position in canvas pixel space.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Size is a width and height in pixels.
type Size struct {
	Width  float64
	Height float64
}

// SizeOf returns the Size of integer dimensions.
func SizeOf(width, height int) Size {
	return Size{Width: float64(width), Height: float64(height)}
}

// Center returns the center point of a canvas of this size.
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Transform maps source-image pixels to canvas pixels:
// canvas = offset + scale * source.
type Transform struct {
	Scale  float64
	Offset Point
}

// Valid reports whether the transform can be drawn.
func (t Transform) Valid() bool {
	return isFinite(t.Scale) && t.Scale > 0 && t.Offset.finite()
}

// String formats the transform for logs.
func (t Transform) String() string {
	return fmt.Sprintf("scale=%.4f offset=(%.1f, %.1f)", t.Scale, t.Offset.X, t.Offset.Y)
}

// State is the editor session state.
type State int

const (
	// StateLoading means no image is available; input is ignored.
	StateLoading State = iota
	// StateReady means the image is loaded and input mutates the transform.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Artifact is an encoded export of the canvas.
type Artifact struct {
	Name   string
	Format ports.ImageFormat
	Data   []byte
	Width  int
	Height int
}

// Options configures an editor session.
type Options struct {
	CanvasWidth        int     // Target canvas width (default: 1200)
	CanvasHeight       int     // Target canvas height (default: 1200)
	MaxScaleMultiplier float64 // Max scale as a multiple of the fit-cover scale (default: 5)
	ZoomInStep         float64 // Wheel zoom-in multiplier (default: 1.1)
	ZoomOutStep        float64 // Wheel zoom-out multiplier (default: 0.9)
	Format             ports.ImageFormat
	Quality            int // JPEG quality 1-100 (default: 92)
	Background         color.Color
	FileName           string // Download file name (default: profile-picture.jpg)
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:        1200,
		CanvasHeight:       1200,
		MaxScaleMultiplier: 5,
		ZoomInStep:         1.1,
		ZoomOutStep:        0.9,
		Format:             ports.FormatJPEG,
		Quality:            92,
		Background:         color.White,
		FileName:           "profile-picture.jpg",
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = d.CanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = d.CanvasHeight
	}
	if o.MaxScaleMultiplier <= 0 {
		o.MaxScaleMultiplier = d.MaxScaleMultiplier
	}
	if o.ZoomInStep <= 0 {
		o.ZoomInStep = d.ZoomInStep
	}
	if o.ZoomOutStep <= 0 {
		o.ZoomOutStep = d.ZoomOutStep
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.FileName == "" {
		o.FileName = "profile-picture." + o.Format.Extension()
	}
	return o
}

// Canvas returns the canvas size.
func (o Options) Canvas() Size {
	return SizeOf(o.CanvasWidth, o.CanvasHeight)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
