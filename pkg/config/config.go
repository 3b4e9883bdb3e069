// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/user/avatarcrop/pkg/adapters/normalizer"
	"github.com/user/avatarcrop/pkg/avatarcrop"
	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/orchestrator"
	"github.com/user/avatarcrop/pkg/ports"
	"github.com/user/avatarcrop/pkg/preview"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AVATARCROP_"

// Config represents the full configuration for avatarcrop.
type Config struct {
	// Input/Output
	Source      string `yaml:"source"`
	OutputPath  string `yaml:"output"`
	PreviewPath string `yaml:"preview_output"`
	CardsDir    string `yaml:"cards_dir"`
	Gestures    string `yaml:"gestures"` // Path to a gesture script

	// Editor
	CanvasSize         int     `yaml:"canvas_size"`
	MaxScaleMultiplier float64 `yaml:"max_scale_multiplier"`
	ZoomInStep         float64 `yaml:"zoom_in_step"`
	ZoomOutStep        float64 `yaml:"zoom_out_step"`
	Format             string  `yaml:"format"`
	Quality            int     `yaml:"quality"`
	FrameIntervalMs    int     `yaml:"frame_interval_ms"`
	BackgroundColor    string  `yaml:"background_color"`

	// Upload normalization
	Normalize NormalizeConfig `yaml:"normalize"`

	// Previews
	Preview PreviewConfig `yaml:"preview"`
	Workers int           `yaml:"workers"`

	// Live editing server
	Serve ServeConfig `yaml:"serve"`

	// Source watching
	Watch WatchConfig `yaml:"watch"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// NormalizeConfig represents upload normalization settings.
type NormalizeConfig struct {
	Enabled      bool `yaml:"enabled"`
	MinDimension int  `yaml:"min_dimension"`
	MaxBytes     int  `yaml:"max_bytes"`
	Quality      int  `yaml:"quality"`
}

// PreviewConfig represents preview sheet settings.
type PreviewConfig struct {
	Columns   int      `yaml:"columns"`
	Theme     string   `yaml:"theme"`
	Platforms []string `yaml:"platforms"`
	Banner    bool     `yaml:"banner"`
	Title     string   `yaml:"title"`
	Gap       int      `yaml:"gap"`
	Padding   int      `yaml:"padding"`
}

// ServeConfig represents websocket server settings.
type ServeConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	AllowRemote    bool   `yaml:"allow_remote"`
}

// WatchConfig represents source watching settings.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputPath: "profile-picture.jpg",

		// Editor
		CanvasSize:         1200,
		MaxScaleMultiplier: 5,
		ZoomInStep:         1.1,
		ZoomOutStep:        0.9,
		Format:             "jpeg",
		Quality:            92,
		FrameIntervalMs:    16,
		BackgroundColor:    "#ffffff",

		// Upload normalization
		Normalize: NormalizeConfig{
			Enabled:      true,
			MinDimension: normalizer.DefaultMinDimension,
			MaxBytes:     normalizer.DefaultMaxBytes,
			Quality:      normalizer.DefaultQuality,
		},

		// Previews
		Preview: PreviewConfig{
			Columns: 3,
			Theme:   "light",
			Banner:  true,
			Gap:     24,
			Padding: 24,
		},
		Workers: 4,

		Serve: ServeConfig{
			Addr:           "127.0.0.1:8080",
			MaxUploadBytes: 20 << 20,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. With no files given, ./.env is loaded if it exists.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from AVATARCROP_* variables found by lookup.
// Pass os.LookupEnv for the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("SOURCE", &c.Source)
	str("OUTPUT", &c.OutputPath)
	str("PREVIEW_OUTPUT", &c.PreviewPath)
	str("FORMAT", &c.Format)
	str("BACKGROUND_COLOR", &c.BackgroundColor)
	str("PREVIEW_THEME", &c.Preview.Theme)
	str("SERVE_ADDR", &c.Serve.Addr)
	str("DEBUG_DIR", &c.DebugDir)
	integer("CANVAS_SIZE", &c.CanvasSize)
	integer("QUALITY", &c.Quality)
	integer("FRAME_INTERVAL_MS", &c.FrameIntervalMs)
	integer("PREVIEW_COLUMNS", &c.Preview.Columns)
	integer("WORKERS", &c.Workers)
	float("MAX_SCALE_MULTIPLIER", &c.MaxScaleMultiplier)
	boolean("NORMALIZE", &c.Normalize.Enabled)
	boolean("DEBUG", &c.Debug)

	if v, ok := lookup(EnvPrefix + "PREVIEW_PLATFORMS"); ok {
		c.Preview.Platforms = splitList(v)
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks values that cannot be repaired by defaults.
func (c Config) Validate() error {
	if c.CanvasSize <= 0 {
		return fmt.Errorf("canvas_size must be positive, got %d", c.CanvasSize)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if c.ZoomInStep <= 1 {
		return fmt.Errorf("zoom_in_step must be greater than 1, got %g", c.ZoomInStep)
	}
	if c.ZoomOutStep <= 0 || c.ZoomOutStep >= 1 {
		return fmt.Errorf("zoom_out_step must be between 0 and 1, got %g", c.ZoomOutStep)
	}
	if c.Preview.Columns < 1 || c.Preview.Columns > 3 {
		return fmt.Errorf("preview.columns must be 1, 2 or 3, got %d", c.Preview.Columns)
	}
	if _, err := ports.ParseImageFormat(c.Format); err != nil {
		return err
	}
	if _, err := preview.ParseTheme(c.Preview.Theme); err != nil {
		return err
	}
	if _, err := preview.Hex(c.BackgroundColor); err != nil {
		return err
	}
	if _, err := preview.Select(c.Preview.Platforms); err != nil {
		return err
	}
	return nil
}

// ParseColor parses a hex color string to color.Color.
// Invalid input yields black.
func ParseColor(hex string) color.Color {
	c, err := preview.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

// FrameInterval returns the event loop frame interval.
func (c Config) FrameInterval() time.Duration {
	if c.FrameIntervalMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// WatchDebounce returns the source watcher debounce.
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// Settings converts the file settings to the library configuration.
func (c Config) Settings() avatarcrop.Config {
	format, err := ports.ParseImageFormat(c.Format)
	if err != nil {
		format = ports.FormatJPEG
	}
	theme, err := preview.ParseTheme(c.Preview.Theme)
	if err != nil {
		theme = preview.ThemeLight
	}
	return avatarcrop.Config{
		CanvasSize:         c.CanvasSize,
		MaxScaleMultiplier: c.MaxScaleMultiplier,
		ZoomInStep:         c.ZoomInStep,
		ZoomOutStep:        c.ZoomOutStep,
		Format:             format,
		Quality:            c.Quality,
		BackgroundColor:    ParseColor(c.BackgroundColor),

		Normalize: c.Normalize.Enabled,

		PreviewPath: c.PreviewPath,
		CardsDir:    c.CardsDir,
		Platforms:   c.Preview.Platforms,
		Theme:       theme,
		Columns:     c.Preview.Columns,
		Gap:         c.Preview.Gap,
		Padding:     c.Preview.Padding,
		Banner:      c.Preview.Banner,
		Title:       c.Preview.Title,
	}
}

// EditorOptions converts the editor settings.
func (c Config) EditorOptions() editor.Options {
	return c.Settings().EditorOptions()
}

// NormalizerOptions converts the normalization settings.
func (c Config) NormalizerOptions() normalizer.Options {
	return normalizer.Options{
		MinDimension: c.Normalize.MinDimension,
		MaxBytes:     c.Normalize.MaxBytes,
		Quality:      c.Normalize.Quality,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// Gestures are loaded separately with LoadGestures.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return c.Settings().ToOrchestratorConfig(c.Source, c.OutputPath)
}
