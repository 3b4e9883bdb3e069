package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/avatarcrop/pkg/adapters/eventloop"
	"github.com/user/avatarcrop/pkg/adapters/filesink"
	"github.com/user/avatarcrop/pkg/adapters/fswatcher"
	"github.com/user/avatarcrop/pkg/adapters/ggrenderer"
	"github.com/user/avatarcrop/pkg/adapters/logger"
	"github.com/user/avatarcrop/pkg/adapters/normalizer"
	"github.com/user/avatarcrop/pkg/adapters/nullsink"
	"github.com/user/avatarcrop/pkg/adapters/osfilesystem"
	"github.com/user/avatarcrop/pkg/adapters/sourceloader"
	"github.com/user/avatarcrop/pkg/adapters/wsserver"
	"github.com/user/avatarcrop/pkg/avatarcrop"
	"github.com/user/avatarcrop/pkg/config"
	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/orchestrator"
	"github.com/user/avatarcrop/pkg/ports"
	"github.com/user/avatarcrop/pkg/preview"
	"github.com/user/avatarcrop/pkg/stages/banner"
	"github.com/user/avatarcrop/pkg/stages/composite"
	"github.com/user/avatarcrop/pkg/stages/edit"
	"github.com/user/avatarcrop/pkg/stages/layout"
	"github.com/user/avatarcrop/pkg/stages/load"
	"github.com/user/avatarcrop/pkg/summarizer"
)

const defaultPreviewPath = "profile-preview.png"

// flagLookup is the subset of *cli.Context the settings code reads.
type flagLookup interface {
	IsSet(name string) bool
	String(name string) string
	StringSlice(name string) []string
	Int(name string) int
	Int64(name string) int64
	Float64(name string) float64
	Bool(name string) bool
}

func newLogger(c flagLookup) (ports.Logger, error) {
	if c.Bool("quiet") {
		return logger.NewNoop(), nil
	}
	level, err := ports.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	return logger.NewConsole(level), nil
}

// loadConfig layers defaults, the config file, .env files, AVATARCROP_*
// variables and finally the file and server flags.
func loadConfig(c flagLookup) (config.Config, error) {
	if err := config.LoadDotEnv(c.StringSlice("env-file")...); err != nil {
		return config.Config{}, err
	}

	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return config.Config{}, fmt.Errorf("environment: %w", err)
	}

	applyConfigFlags(c, &cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyConfigFlags(c flagLookup, cfg *config.Config) {
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("preview-output") {
		cfg.PreviewPath = c.String("preview-output")
	}
	if c.IsSet("cards-dir") {
		cfg.CardsDir = c.String("cards-dir")
	}
	if c.IsSet("gestures") {
		cfg.Gestures = c.String("gestures")
	}
	if c.Bool("no-normalize") {
		cfg.Normalize.Enabled = false
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("addr") {
		cfg.Serve.Addr = c.String("addr")
	}
	if c.IsSet("max-upload") {
		cfg.Serve.MaxUploadBytes = c.Int64("max-upload")
	}
	if c.IsSet("allow-remote") {
		cfg.Serve.AllowRemote = c.Bool("allow-remote")
	}
	if c.IsSet("debounce-ms") {
		cfg.Watch.DebounceMs = c.Int("debounce-ms")
	}
}

// buildSettings starts from the file settings, or from a preset when one is
// named, and applies the export and preview flags.
func buildSettings(c flagLookup, cfg config.Config) (avatarcrop.Config, error) {
	var builder *avatarcrop.ConfigBuilder
	if c.IsSet("preset") {
		preset := avatarcrop.Preset(strings.ToLower(c.String("preset")))
		if preset != avatarcrop.PresetStandard && preset != avatarcrop.PresetCompact {
			return avatarcrop.Config{}, fmt.Errorf("unknown preset: %q", c.String("preset"))
		}
		builder = avatarcrop.NewPresetBuilder(preset).WithNormalize(cfg.Normalize.Enabled)
	} else {
		builder = avatarcrop.NewConfigBuilderFrom(cfg.Settings())
	}

	builder.WithPreviewPath(cfg.PreviewPath).WithCardsDir(cfg.CardsDir)

	if c.IsSet("quality-preset") {
		builder.WithQualityPreset(avatarcrop.QualityPreset(strings.ToLower(c.String("quality-preset"))))
	}
	if c.IsSet("size") {
		builder.WithCanvasSize(c.Int("size"))
	}
	if c.IsSet("format") {
		format, err := ports.ParseImageFormat(c.String("format"))
		if err != nil {
			return avatarcrop.Config{}, err
		}
		builder.WithFormat(format)
	}
	if c.IsSet("quality") {
		builder.WithQuality(c.Int("quality"))
	}
	if c.IsSet("background-color") {
		bg, err := preview.Hex(c.String("background-color"))
		if err != nil {
			return avatarcrop.Config{}, err
		}
		builder.WithBackgroundColor(bg)
	}
	if c.IsSet("max-zoom") {
		builder.WithMaxScaleMultiplier(c.Float64("max-zoom"))
	}
	if c.IsSet("platform") {
		builder.WithPlatforms(c.StringSlice("platform")...)
	}
	if c.IsSet("theme") {
		theme, err := preview.ParseTheme(c.String("theme"))
		if err != nil {
			return avatarcrop.Config{}, err
		}
		builder.WithTheme(theme)
	}
	if c.IsSet("columns") {
		builder.WithColumns(c.Int("columns"))
	}
	if c.IsSet("title") {
		builder.WithTitle(c.String("title"))
	}
	if c.Bool("no-banner") {
		builder.WithBanner(false)
	}

	return builder.Build(), nil
}

// cropRunner holds the adapters and the orchestrator for crop runs.
type cropRunner struct {
	orch *orchestrator.Orchestrator
	fs   ports.FileSystem
}

func newCropRunner(cfg config.Config, log ports.Logger) (*cropRunner, error) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	loader := sourceloader.New(fs)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	newLoop := func() ports.EventLoop {
		return eventloop.New(cfg.FrameInterval())
	}

	orch := orchestrator.New(
		load.NewStage(loader, normalizer.New(cfg.NormalizerOptions(), log), sink, log),
		edit.NewStage(renderer, loader, newLoop, sink, log),
		layout.NewStage(),
		banner.NewStage(renderer, log),
		composite.NewStage(renderer, sink, log, workers),
		renderer,
		fs,
		log,
	)
	return &cropRunner{orch: orch, fs: fs}, nil
}

// crop runs the pipeline once and writes the report when reportPath is set.
func (p *cropRunner) crop(ctx context.Context, oc orchestrator.Config, settings avatarcrop.Config, reportPath string, log ports.Logger) (orchestrator.RunResult, error) {
	result, err := p.orch.Run(ctx, oc)
	if err != nil {
		return result, err
	}
	if reportPath != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, p.fs).Write(reportPath, buildSummary(result, settings)); err != nil {
			return result, fmt.Errorf("write report: %w", err)
		}
		log.Info(l10n.F("Report written: %s", reportPath))
	}
	return result, nil
}

func buildSummary(result orchestrator.RunResult, settings avatarcrop.Config) *summarizer.Summary {
	b := summarizer.NewBuilder().
		WithSource(result.Source, result.Original.Width, result.Original.Height)
	if result.WasNormalized {
		b.WithNormalized(result.Normalized.Width, result.Normalized.Height)
	}

	b.WithCrop(summarizer.CropInfo{
		Scale:    result.Transform.Scale,
		OffsetX:  result.Transform.Offset.X,
		OffsetY:  result.Transform.Offset.Y,
		Percent:  result.Percent,
		Gestures: result.Gestures,
		Exports:  result.Exports,
	})

	s := summarizer.Settings{
		CanvasWidth:        result.CanvasWidth,
		CanvasHeight:       result.CanvasHeight,
		Format:             settings.Format.String(),
		Quality:            settings.Quality,
		MaxScaleMultiplier: settings.MaxScaleMultiplier,
	}
	if len(result.Previews) > 0 {
		s.Theme = settings.Theme.String()
		s.Columns = settings.Columns
	}
	b.WithSettings(s)

	out := summarizer.OutputInfo{
		Path:        result.OutputPath,
		FileSize:    result.OutputBytes,
		PreviewPath: result.PreviewPath,
	}
	for _, p := range result.Previews {
		out.Previews = append(out.Previews, summarizer.PreviewFile{Platform: p.Platform, FileName: p.FileName})
	}
	return b.WithOutput(out).Build()
}

// cropJob is everything a crop or watch run needs.
type cropJob struct {
	cfg      config.Config
	settings avatarcrop.Config
	gestures []editor.Event
	log      ports.Logger
	runner   *cropRunner
}

func prepareCrop(c *cli.Context, previews bool) (*cropJob, error) {
	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if source := c.Args().First(); source != "" {
		cfg.Source = source
	}
	if cfg.Source == "" {
		return nil, cli.Exit(l10n.T("A source image is required"), 2)
	}

	settings, err := buildSettings(c, cfg)
	if err != nil {
		return nil, err
	}
	if previews && settings.PreviewPath == "" && settings.CardsDir == "" {
		settings.PreviewPath = defaultPreviewPath
	}

	gestures, err := config.LoadGestures(cfg.Gestures)
	if err != nil {
		return nil, fmt.Errorf("load gestures: %w", err)
	}

	p, err := newCropRunner(cfg, log)
	if err != nil {
		return nil, err
	}
	return &cropJob{cfg: cfg, settings: settings, gestures: gestures, log: log, runner: p}, nil
}

func (j *cropJob) run(ctx context.Context, reportPath string) error {
	oc := j.settings.ToOrchestratorConfig(j.cfg.Source, j.cfg.OutputPath)
	oc.Gestures = j.gestures
	_, err := j.runner.crop(ctx, oc, j.settings, reportPath, j.log)
	return err
}

func runCrop(c *cli.Context, previews bool) error {
	job, err := prepareCrop(c, previews)
	if err != nil {
		return err
	}
	return job.run(c.Context, c.String("report"))
}

func runWatch(c *cli.Context) error {
	job, err := prepareCrop(c, false)
	if err != nil {
		return err
	}
	if strings.Contains(job.cfg.Source, "://") || strings.HasPrefix(job.cfg.Source, "data:") {
		return cli.Exit(l10n.T("Only local files can be watched"), 2)
	}

	report := c.String("report")
	if err := job.run(c.Context, report); err != nil {
		job.log.Error(l10n.F("Crop failed: %s", err))
	}

	watcher := fswatcher.New(job.cfg.WatchDebounce(), job.log)
	job.log.Info(l10n.F("Watching %s for changes", job.cfg.Source))
	err = watcher.Watch(c.Context, job.cfg.Source, func(path string) {
		job.log.Info(l10n.F("Source changed: %s", path))
		if err := job.run(c.Context, report); err != nil {
			job.log.Error(l10n.F("Crop failed: %s", err))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServe(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	renderer := ggrenderer.New()
	loader := sourceloader.New(osfilesystem.New()).WithMaxBytes(cfg.Serve.MaxUploadBytes)
	var norm ports.Normalizer
	if cfg.Normalize.Enabled {
		norm = normalizer.New(cfg.NormalizerOptions(), log)
	}

	opts := wsserver.DefaultOptions()
	opts.Editor = cfg.EditorOptions()
	opts.FrameInterval = cfg.FrameInterval()
	opts.MaxUploadBytes = cfg.Serve.MaxUploadBytes
	opts.AllowRemote = cfg.Serve.AllowRemote

	srv := wsserver.New(renderer, loader, norm, log, opts)
	log.Info(l10n.F("Open http://%s in a browser", cfg.Serve.Addr))
	return srv.ListenAndServe(c.Context, cfg.Serve.Addr)
}
