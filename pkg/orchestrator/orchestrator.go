// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
	"github.com/user/avatarcrop/pkg/preview"
	"github.com/user/avatarcrop/pkg/stages/banner"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	Source    string
	Normalize bool
	Gestures  []editor.Event

	// Output
	OutputPath  string // Cropped avatar
	PreviewPath string // Preview sheet PNG; empty skips the sheet
	CardsDir    string // Per-platform card PNGs; empty skips the cards

	// Editor
	Editor editor.Options

	// Preview
	Platforms     []string // Empty selects all
	Theme         preview.Theme
	Columns       int
	Gap           int
	Padding       int
	BannerEnabled bool
	Title         string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputPath:    "profile-picture.jpg",
		Editor:        editor.DefaultOptions(),
		Theme:         preview.ThemeLight,
		Columns:       3,
		Gap:           24,
		Padding:       24,
		BannerEnabled: true,
	}
}

// previewsEnabled reports whether any preview output was requested.
func (c Config) previewsEnabled() bool {
	return c.PreviewPath != "" || c.CardsDir != ""
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	loadStage      pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
	editStage      pipeline.Stage[pipeline.EditInput, pipeline.EditResult]
	layoutStage    pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	bannerStage    pipeline.Stage[pipeline.BannerInput, pipeline.BannerResult]
	compositeStage pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult]
	renderer       ports.Renderer
	fs             ports.FileSystem
	logger         ports.Logger
}

// New creates a new Orchestrator.
func New(
	loadStage pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult],
	editStage pipeline.Stage[pipeline.EditInput, pipeline.EditResult],
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	bannerStage pipeline.Stage[pipeline.BannerInput, pipeline.BannerResult],
	compositeStage pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult],
	renderer ports.Renderer,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		loadStage:      loadStage,
		editStage:      editStage,
		layoutStage:    layoutStage,
		bannerStage:    bannerStage,
		compositeStage: compositeStage,
		renderer:       renderer,
		fs:             fs,
		logger:         logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info(l10n.T("Starting pipeline"))

	// Resolve platforms up front so a typo fails before any work is done
	var platforms []preview.Platform
	if config.previewsEnabled() {
		var err error
		platforms, err = preview.Select(config.Platforms)
		if err != nil {
			return RunResult{}, fmt.Errorf("select platforms: %w", err)
		}
	}

	// 1. Load source
	o.logger.Info(l10n.F("Loading %s", config.Source))
	loaded, err := o.loadStage.Execute(ctx, pipeline.LoadInput{Source: config.Source, Normalize: config.Normalize})
	if err != nil {
		o.logger.Error(l10n.F("Failed to load image: %s", err))
		return RunResult{}, fmt.Errorf("load stage: %w", err)
	}
	o.logger.Info(l10n.F("Loaded %dx%d image", loaded.Original.Width, loaded.Original.Height))

	// 2. Edit
	o.logger.Info(l10n.F("Replaying %d gestures", len(config.Gestures)))
	edited, err := o.editStage.Execute(ctx, pipeline.EditInput{
		Image:    loaded.Image,
		Gestures: config.Gestures,
		Options:  config.Editor,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to edit image: %s", err))
		return RunResult{}, fmt.Errorf("edit stage: %w", err)
	}
	o.logger.Info(l10n.F("Cropped at %s", edited.ScaleLabel))

	// 3. Write avatar
	if err := o.writeFile(config.OutputPath, edited.Artifact.Data); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}
	o.logger.Info(l10n.F("Avatar written: %s (%s)", config.OutputPath, editor.FormatFileSize(int64(len(edited.Artifact.Data)))))

	result := RunResult{
		Source:          config.Source,
		Original:        loaded.Original,
		Normalized:      loaded.Normalized,
		WasNormalized:   loaded.Data != nil,
		Transform:       edited.Transform,
		Percent:         edited.Percent,
		ScaleLabel:      edited.ScaleLabel,
		Caption:         edited.Caption,
		DownloadCaption: edited.DownloadCaption,
		Gestures:        edited.Gestures,
		Exports:         edited.Exports,
		OutputPath:      config.OutputPath,
		OutputBytes:     int64(len(edited.Artifact.Data)),
		CanvasWidth:     edited.Artifact.Width,
		CanvasHeight:    edited.Artifact.Height,
	}

	if !config.previewsEnabled() {
		o.logger.Info(l10n.T("Pipeline completed successfully"))
		return result, nil
	}

	// 4. Previews
	if err := o.runPreviews(ctx, config, platforms, edited, &result); err != nil {
		return RunResult{}, err
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

func (o *Orchestrator) runPreviews(ctx context.Context, config Config, platforms []preview.Platform, edited pipeline.EditResult, result *RunResult) error {
	// Previews show the avatar as downloaded, compression included
	avatar, err := o.renderer.DecodeImage(edited.Artifact.Data, ports.FormatAuto)
	if err != nil {
		return fmt.Errorf("decode avatar: %w", err)
	}

	o.logger.Info(l10n.T("Calculating layout"))
	layout, err := o.layoutStage.Execute(ctx, o.buildLayoutInput(config, len(platforms)))
	if err != nil {
		o.logger.Error(l10n.F("Failed to calculate layout: %s", err))
		return fmt.Errorf("layout stage: %w", err)
	}
	o.logger.Info(l10n.F("Layout calculated: %dx%d sheet, %d rows", layout.Sheet.Width, layout.Sheet.Height, layout.Rows))

	var bannerResult *pipeline.BannerResult
	if config.BannerEnabled {
		o.logger.Info(l10n.T("Generating banner"))
		b, err := o.bannerStage.Execute(ctx, o.buildBannerInput(config, layout, edited))
		if err != nil {
			o.logger.Error(l10n.F("Failed to generate banner: %s", err))
			return fmt.Errorf("banner stage: %w", err)
		}
		bannerResult = &b
	}

	o.logger.Info(l10n.F("Rendering %d previews", len(platforms)))
	composite, err := o.compositeStage.Execute(ctx, pipeline.CompositeInput{
		Avatar:    avatar,
		Platforms: platforms,
		Theme:     config.Theme,
		Layout:    layout,
		Banner:    bannerResult,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to render previews: %s", err))
		return fmt.Errorf("composite stage: %w", err)
	}

	for _, card := range composite.Cards {
		result.Previews = append(result.Previews, PreviewResult{Platform: card.Platform, FileName: card.FileName})
	}
	result.SheetWidth = layout.Sheet.Width
	result.SheetHeight = layout.Sheet.Height

	if config.PreviewPath != "" {
		if err := o.writePNG(config.PreviewPath, composite.Sheet); err != nil {
			o.logger.Error(l10n.F("Failed to write output: %s", err))
			return fmt.Errorf("write preview: %w", err)
		}
		result.PreviewPath = config.PreviewPath
		o.logger.Info(l10n.F("Preview sheet written: %s", config.PreviewPath))
	}

	if config.CardsDir != "" {
		if err := o.fs.MkdirAll(config.CardsDir); err != nil {
			return fmt.Errorf("create cards directory: %w", err)
		}
		for i, card := range composite.Cards {
			path := filepath.Join(config.CardsDir, card.Platform+"-preview.png")
			if err := o.writePNG(path, card.Image); err != nil {
				return fmt.Errorf("write card %s: %w", card.Platform, err)
			}
			result.Previews[i].CardPath = path
		}
		o.logger.Info(l10n.F("Preview cards written to %s", config.CardsDir))
	}

	return nil
}

func (o *Orchestrator) writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := o.fs.MkdirAll(dir); err != nil {
			return err
		}
	}
	return o.fs.WriteFile(path, data)
}

func (o *Orchestrator) writePNG(path string, img image.Image) error {
	data, err := o.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return o.writeFile(path, data)
}

func (o *Orchestrator) buildLayoutInput(config Config, count int) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		CardWidth:    preview.CardWidth,
		CardHeight:   preview.CardHeight,
		Columns:      config.Columns,
		Gap:          config.Gap,
		Padding:      config.Padding,
		BannerHeight: conditionalInt(config.BannerEnabled, banner.Height, 0),
		Count:        count,
	}
}

func (o *Orchestrator) buildBannerInput(config Config, layout pipeline.LayoutResult, edited pipeline.EditResult) pipeline.BannerInput {
	theme := pipeline.DefaultBannerTheme()
	if config.Theme == preview.ThemeLight {
		theme.BackgroundColor = preview.SheetBackground(preview.ThemeDark)
	}
	return pipeline.BannerInput{
		Width:    layout.Sheet.Width,
		Title:    config.Title,
		Subtitle: edited.DownloadCaption,
		Caption:  edited.Caption,
		Theme:    theme,
	}
}

func conditionalInt(condition bool, trueVal, falseVal int) int {
	if condition {
		return trueVal
	}
	return falseVal
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	// Source information
	Source        string
	Original      pipeline.Dimension
	Normalized    pipeline.Dimension
	WasNormalized bool

	// Crop information
	Transform       editor.Transform
	Percent         float64
	ScaleLabel      string
	Caption         string
	DownloadCaption string
	Gestures        int
	Exports         int

	// Avatar output
	OutputPath   string
	OutputBytes  int64
	CanvasWidth  int
	CanvasHeight int

	// Preview output
	PreviewPath string
	SheetWidth  int
	SheetHeight int
	Previews    []PreviewResult
}

// PreviewResult describes one rendered platform preview.
type PreviewResult struct {
	Platform string
	FileName string
	CardPath string // Empty when cards were not written
}
