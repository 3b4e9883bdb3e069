// Package summarizer provides report generation for crop results.
package summarizer

import "time"

// Summary contains all data collected during a crop run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source image
	Source SourceInfo

	// Final transform and how it was reached
	Crop CropInfo

	// Editor settings
	Settings Settings

	// Written files
	Output OutputInfo
}

// SourceInfo describes the source image.
type SourceInfo struct {
	Path             string
	Width            int
	Height           int
	Normalized       bool
	NormalizedWidth  int
	NormalizedHeight int
}

// CropInfo describes the final transform.
type CropInfo struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	Percent  float64
	Gestures int
	Exports  int
}

// Settings contains the editor configuration.
type Settings struct {
	CanvasWidth        int
	CanvasHeight       int
	Format             string
	Quality            int
	MaxScaleMultiplier float64
	Theme              string
	Columns            int
}

// OutputInfo describes the written files.
type OutputInfo struct {
	Path        string
	FileSize    int64
	PreviewPath string
	Previews    []PreviewFile
}

// PreviewFile is one platform preview and its download name.
type PreviewFile struct {
	Platform string
	FileName string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the source path and decoded size.
func (b *Builder) WithSource(path string, width, height int) *Builder {
	b.summary.Source.Path = path
	b.summary.Source.Width = width
	b.summary.Source.Height = height
	return b
}

// WithNormalized records the size the source was normalized to.
func (b *Builder) WithNormalized(width, height int) *Builder {
	b.summary.Source.Normalized = true
	b.summary.Source.NormalizedWidth = width
	b.summary.Source.NormalizedHeight = height
	return b
}

// WithCrop sets the final transform information.
func (b *Builder) WithCrop(crop CropInfo) *Builder {
	b.summary.Crop = crop
	return b
}

// WithSettings sets editor settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
