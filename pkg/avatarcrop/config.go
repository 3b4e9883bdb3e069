// Package avatarcrop provides a high-level API for cropping profile pictures
// and rendering platform previews.
package avatarcrop

import (
	"image/color"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/orchestrator"
	"github.com/user/avatarcrop/pkg/ports"
	"github.com/user/avatarcrop/pkg/preview"
)

// MinCanvasSize is the smallest canvas Build accepts.
const MinCanvasSize = 64

// Preset names a starting configuration.
type Preset string

const (
	PresetStandard Preset = "standard"
	PresetCompact  Preset = "compact"
)

// QualityPreset represents an export quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains JPEG quality for the export and for upload normalization.
type QualitySettings struct {
	ExportQuality    int
	NormalizeQuality int
}

// GetQualitySettings returns quality settings for the given preset.
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{
			ExportQuality:    75,
			NormalizeQuality: 80,
		}
	case QualityMedium:
		return QualitySettings{
			ExportQuality:    85,
			NormalizeQuality: 85,
		}
	default: // high
		return QualitySettings{
			ExportQuality:    92,
			NormalizeQuality: 90,
		}
	}
}

// Config represents the configuration for one cropping run.
type Config struct {
	// Editor
	CanvasSize         int     // Square export size (default: 1200)
	MaxScaleMultiplier float64 // Max zoom relative to fit-cover (default: 5)
	ZoomInStep         float64
	ZoomOutStep        float64
	Format             ports.ImageFormat
	Quality            int
	BackgroundColor    color.Color

	// Upload normalization
	Normalize bool

	// Previews
	PreviewPath string   // Sheet PNG; empty skips the sheet
	CardsDir    string   // Per-platform PNGs; empty skips the cards
	Platforms   []string // Empty selects all
	Theme       preview.Theme
	Columns     int
	Gap         int
	Padding     int
	Banner      bool
	Title       string
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with standard preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: standardDefaults(),
	}
}

// NewCompactConfigBuilder creates a new ConfigBuilder with compact preset
// defaults: a small export and a two-column sheet.
func NewCompactConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: compactDefaults(),
	}
}

// NewPresetBuilder creates a ConfigBuilder for a named preset.
// Unknown names fall back to the standard preset.
func NewPresetBuilder(preset Preset) *ConfigBuilder {
	if preset == PresetCompact {
		return NewCompactConfigBuilder()
	}
	return NewConfigBuilder()
}

// NewConfigBuilderFrom creates a ConfigBuilder starting from an existing Config.
func NewConfigBuilderFrom(cfg Config) *ConfigBuilder {
	cfg.Platforms = append([]string(nil), cfg.Platforms...)
	return &ConfigBuilder{config: cfg}
}

func standardDefaults() Config {
	return Config{
		// Editor
		CanvasSize:         1200,
		MaxScaleMultiplier: 5,
		ZoomInStep:         1.1,
		ZoomOutStep:        0.9,
		Format:             ports.FormatJPEG,
		Quality:            92,
		BackgroundColor:    color.White,

		Normalize: true,

		// Previews
		Theme:   preview.ThemeLight,
		Columns: 3,
		Gap:     24,
		Padding: 24,
		Banner:  true,
	}
}

func compactDefaults() Config {
	cfg := standardDefaults()
	cfg.CanvasSize = 512
	cfg.Quality = GetQualitySettings(QualityMedium).ExportQuality
	cfg.Columns = 2
	cfg.Gap = 16
	cfg.Padding = 16
	return cfg
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config
	d := standardDefaults()

	if cfg.CanvasSize < MinCanvasSize {
		cfg.CanvasSize = MinCanvasSize
	}
	if cfg.MaxScaleMultiplier < 1 {
		cfg.MaxScaleMultiplier = 1
	}
	if cfg.ZoomInStep <= 1 {
		cfg.ZoomInStep = d.ZoomInStep
	}
	if cfg.ZoomOutStep <= 0 || cfg.ZoomOutStep >= 1 {
		cfg.ZoomOutStep = d.ZoomOutStep
	}
	cfg.Quality = clamp(cfg.Quality, 1, 100)
	cfg.Columns = clamp(cfg.Columns, 1, 3)
	if cfg.Gap < 0 {
		cfg.Gap = 0
	}
	if cfg.Padding < 0 {
		cfg.Padding = 0
	}
	if cfg.BackgroundColor == nil {
		cfg.BackgroundColor = d.BackgroundColor
	}

	return cfg
}

// WithCanvasSize sets the square export size.
// Values below MinCanvasSize will be forced to MinCanvasSize.
func (b *ConfigBuilder) WithCanvasSize(size int) *ConfigBuilder {
	b.config.CanvasSize = size
	return b
}

// WithMaxScaleMultiplier sets how far past fit-cover zooming may go.
func (b *ConfigBuilder) WithMaxScaleMultiplier(m float64) *ConfigBuilder {
	b.config.MaxScaleMultiplier = m
	return b
}

// WithZoomSteps sets the wheel zoom multipliers.
func (b *ConfigBuilder) WithZoomSteps(in, out float64) *ConfigBuilder {
	b.config.ZoomInStep = in
	b.config.ZoomOutStep = out
	return b
}

// WithFormat sets the export format.
func (b *ConfigBuilder) WithFormat(format ports.ImageFormat) *ConfigBuilder {
	b.config.Format = format
	return b
}

// WithQuality sets the JPEG export quality (1-100).
func (b *ConfigBuilder) WithQuality(quality int) *ConfigBuilder {
	b.config.Quality = quality
	return b
}

// WithQualityPreset applies a quality preset (low, medium, high).
func (b *ConfigBuilder) WithQualityPreset(preset QualityPreset) *ConfigBuilder {
	b.config.Quality = GetQualitySettings(preset).ExportQuality
	return b
}

// WithBackgroundColor sets the color behind transparent sources.
func (b *ConfigBuilder) WithBackgroundColor(c color.Color) *ConfigBuilder {
	b.config.BackgroundColor = c
	return b
}

// WithNormalize enables or disables upload normalization.
func (b *ConfigBuilder) WithNormalize(enabled bool) *ConfigBuilder {
	b.config.Normalize = enabled
	return b
}

// WithPreviewPath sets where the preview sheet is written.
func (b *ConfigBuilder) WithPreviewPath(path string) *ConfigBuilder {
	b.config.PreviewPath = path
	return b
}

// WithCardsDir sets where individual preview cards are written.
func (b *ConfigBuilder) WithCardsDir(dir string) *ConfigBuilder {
	b.config.CardsDir = dir
	return b
}

// WithPlatforms restricts the previews to the named platforms.
func (b *ConfigBuilder) WithPlatforms(names ...string) *ConfigBuilder {
	b.config.Platforms = append([]string(nil), names...)
	return b
}

// WithTheme sets the preview theme.
func (b *ConfigBuilder) WithTheme(theme preview.Theme) *ConfigBuilder {
	b.config.Theme = theme
	return b
}

// WithColumns sets the number of sheet columns.
// Values are forced into 1-3.
func (b *ConfigBuilder) WithColumns(columns int) *ConfigBuilder {
	b.config.Columns = columns
	return b
}

// WithGap sets the gap between cards.
func (b *ConfigBuilder) WithGap(gap int) *ConfigBuilder {
	b.config.Gap = gap
	return b
}

// WithPadding sets the padding around the sheet.
func (b *ConfigBuilder) WithPadding(padding int) *ConfigBuilder {
	b.config.Padding = padding
	return b
}

// WithBanner enables or disables the sheet banner.
func (b *ConfigBuilder) WithBanner(enabled bool) *ConfigBuilder {
	b.config.Banner = enabled
	return b
}

// WithTitle sets the banner title.
func (b *ConfigBuilder) WithTitle(title string) *ConfigBuilder {
	b.config.Title = title
	return b
}

// EditorOptions returns the editor settings of c.
func (c Config) EditorOptions() editor.Options {
	opts := editor.DefaultOptions()
	opts.CanvasWidth = c.CanvasSize
	opts.CanvasHeight = c.CanvasSize
	opts.MaxScaleMultiplier = c.MaxScaleMultiplier
	opts.ZoomInStep = c.ZoomInStep
	opts.ZoomOutStep = c.ZoomOutStep
	opts.Format = c.Format
	opts.Quality = c.Quality
	if c.BackgroundColor != nil {
		opts.Background = c.BackgroundColor
	}
	return opts
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(source, outputPath string) orchestrator.Config {
	return orchestrator.Config{
		Source:    source,
		Normalize: c.Normalize,

		OutputPath:  outputPath,
		PreviewPath: c.PreviewPath,
		CardsDir:    c.CardsDir,

		Editor: c.EditorOptions(),

		Platforms:     c.Platforms,
		Theme:         c.Theme,
		Columns:       c.Columns,
		Gap:           c.Gap,
		Padding:       c.Padding,
		BannerEnabled: c.Banner,
		Title:         c.Title,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
