// Package main provides the CLI entry point for avatarcrop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "avatarcrop",
		Usage:   l10n.T("Crop profile pictures and preview them across platforms"),
		Version: version,
		Description: l10n.T("avatarcrop pans and zooms a source image inside a square frame, " +
			"exports the crop and renders how it looks on social platforms."),
		Flags: globalFlags(),
		Commands: []*cli.Command{
			cropCommand(),
			previewCommand(),
			serveCommand(),
			watchCommand(),
			versionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Configuration"),
		},
		&cli.StringSliceFlag{
			Name:     "env-file",
			Usage:    l10n.T("Environment files to load (default: .env when present)"),
			Category: l10n.T("Configuration"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

func cropCommand() *cli.Command {
	return &cli.Command{
		Name:        "crop",
		Usage:       l10n.T("Crop a source image into a profile picture"),
		Description: l10n.T("Load the source, replay an optional gesture script and write the exported picture."),
		ArgsUsage:   "<source>",
		Flags:       cropFlags(),
		Action: func(c *cli.Context) error {
			return runCrop(c, false)
		},
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:        "preview",
		Usage:       l10n.T("Crop and render platform previews"),
		Description: l10n.T("Same as crop, then render the picture on every selected platform into a preview sheet."),
		ArgsUsage:   "<source>",
		Flags:       cropFlags(),
		Action: func(c *cli.Context) error {
			return runCrop(c, true)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       l10n.T("Serve the interactive editor"),
		Description: l10n.T("Serve an editor page whose sessions run on this machine over WebSocket."),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "addr",
				Usage:    l10n.T("Listen address (default: 127.0.0.1:8080)"),
				Category: l10n.T("Server"),
			},
			&cli.Int64Flag{
				Name:     "max-upload",
				Usage:    l10n.T("Largest accepted upload in bytes"),
				Category: l10n.T("Server"),
			},
			&cli.BoolFlag{
				Name:     "allow-remote",
				Usage:    l10n.T("Let clients load http(s) image URLs through the server"),
				Category: l10n.T("Server"),
			},
			&cli.BoolFlag{
				Name:     "no-normalize",
				Usage:    l10n.T("Open uploads as they are"),
				Category: l10n.T("Source"),
			},
		},
		Action: runServe,
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Usage:       l10n.T("Re-crop whenever the source file changes"),
		Description: l10n.T("Run crop once, then again each time the source file is written."),
		ArgsUsage:   "<source>",
		Flags: append(cropFlags(),
			&cli.IntFlag{
				Name:     "debounce-ms",
				Usage:    l10n.T("Quiet period before a change triggers a run"),
				Category: l10n.T("Source"),
			},
		),
		Action: runWatch,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("avatarcrop version %s", version))
			return nil
		},
	}
}

func cropFlags() []cli.Flag {
	return []cli.Flag{
		// Output
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    l10n.T("Output file path (default: profile-picture.jpg)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "preview-output",
			Usage:    l10n.T("Preview sheet PNG path"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "cards-dir",
			Usage:    l10n.T("Directory for one PNG per platform"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "report",
			Usage:    l10n.T("Markdown crop report path"),
			Category: l10n.T("Output"),
		},

		// Source
		&cli.StringFlag{
			Name:     "gestures",
			Aliases:  []string{"g"},
			Usage:    l10n.T("YAML gesture script to replay"),
			Category: l10n.T("Source"),
		},
		&cli.BoolFlag{
			Name:     "no-normalize",
			Usage:    l10n.T("Open the source as it is"),
			Category: l10n.T("Source"),
		},

		// Presets
		&cli.StringFlag{
			Name:     "preset",
			Aliases:  []string{"p"},
			Usage:    l10n.T("Preset (standard, compact), replaces file settings"),
			Category: l10n.T("Preset"),
		},
		&cli.StringFlag{
			Name:     "quality-preset",
			Usage:    l10n.T("Quality preset (low, medium, high)"),
			Category: l10n.T("Preset"),
		},

		// Export
		&cli.IntFlag{
			Name:     "size",
			Aliases:  []string{"s"},
			Usage:    l10n.T("Square export size in pixels"),
			Category: l10n.T("Export"),
		},
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    l10n.T("Export format (jpeg, png)"),
			Category: l10n.T("Export"),
		},
		&cli.IntFlag{
			Name:     "quality",
			Usage:    l10n.T("JPEG quality (1-100, overrides quality preset)"),
			Category: l10n.T("Export"),
		},
		&cli.StringFlag{
			Name:     "background-color",
			Usage:    l10n.T("Color behind transparent pixels (hex)"),
			Category: l10n.T("Export"),
		},
		&cli.Float64Flag{
			Name:     "max-zoom",
			Usage:    l10n.T("Maximum zoom as a multiple of the fit scale"),
			Category: l10n.T("Export"),
		},

		// Preview
		&cli.StringSliceFlag{
			Name:     "platform",
			Usage:    l10n.T("Platform to preview, repeatable (default: all)"),
			Category: l10n.T("Preview"),
		},
		&cli.StringFlag{
			Name:     "theme",
			Usage:    l10n.T("Preview theme (light, dark)"),
			Category: l10n.T("Preview"),
		},
		&cli.IntFlag{
			Name:     "columns",
			Usage:    l10n.T("Preview sheet columns (1-3)"),
			Category: l10n.T("Preview"),
		},
		&cli.StringFlag{
			Name:     "title",
			Usage:    l10n.T("Preview sheet title"),
			Category: l10n.T("Preview"),
		},
		&cli.BoolFlag{
			Name:     "no-banner",
			Usage:    l10n.T("Omit the preview sheet banner"),
			Category: l10n.T("Preview"),
		},

		// Debug
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Write intermediate images"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output (default: ./debug)"),
			Category: l10n.T("Debug"),
		},
	}
}
