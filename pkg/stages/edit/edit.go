// Package edit implements the editing stage: it opens the source in an
// editor session on its own event loop, replays gestures and downloads
// the result.
package edit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
)

// LoopFactory creates the event loop a session runs on.
type LoopFactory func() ports.EventLoop

// Stage runs one editor session per execution.
type Stage struct {
	renderer ports.Renderer
	loader   ports.ImageLoader
	newLoop  LoopFactory
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new edit stage.
func NewStage(renderer ports.Renderer, loader ports.ImageLoader, newLoop LoopFactory, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		loader:   loader,
		newLoop:  newLoop,
		sink:     sink,
		logger:   logger,
	}
}

// transformRecord is the JSON form of the final transform.
type transformRecord struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Percent float64 `json:"percent"`
	Width   float64 `json:"imageWidth"`
	Height  float64 `json:"imageHeight"`
}

// Execute opens the image, dispatches the gestures in order, waits for all
// exports and probes to settle and downloads the canvas.
func (s *Stage) Execute(ctx context.Context, input pipeline.EditInput) (pipeline.EditResult, error) {
	result := pipeline.EditResult{}

	loop := s.newLoop()
	runCtx, stop := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		loop.Run(runCtx)
	}()
	defer func() {
		stop()
		<-stopped
	}()

	var session *editor.Session
	exports := 0
	err := loop.Do(ctx, func() {
		session = editor.NewSession(s.renderer, s.loader, loop, s.logger, input.Options)
		session.OnImageEdit(func(data []byte) {
			if data == nil {
				return
			}
			exports++
			if s.sink.Enabled() {
				if err := s.sink.SaveExport(exports, data); err != nil {
					s.logger.Warn("Failed to save export %d: %v", exports, err)
				}
			}
		})
	})
	if err != nil {
		return result, err
	}
	defer loop.Do(runCtx, session.Close)

	if err := s.open(ctx, loop, session, input); err != nil {
		return result, err
	}

	for i, g := range input.Gestures {
		var dispatchErr error
		if err := loop.Do(ctx, func() { dispatchErr = session.Dispatch(g) }); err != nil {
			return result, err
		}
		if dispatchErr != nil {
			return result, fmt.Errorf("gesture %d: %w", i+1, dispatchErr)
		}
		result.Gestures++
	}

	if err := loop.WaitIdle(ctx); err != nil {
		return result, err
	}

	var downloadErr error
	err = loop.Do(ctx, func() {
		result.Artifact, downloadErr = session.Download()
		result.Transform = session.Transform()
		result.ImageSize = session.ImageSize()
		result.Percent = session.Percent()
		result.ScaleLabel = session.ScaleLabel()
		result.Caption = session.Caption(false)
		result.DownloadCaption = session.DownloadCaption()
		result.FileSize = session.FileSize()
		result.Exports = exports
	})
	if err != nil {
		return result, err
	}
	if downloadErr != nil {
		return result, fmt.Errorf("download: %w", downloadErr)
	}

	if s.sink.Enabled() {
		s.saveTransform(result)
	}

	return result, nil
}

// open opens input.Image, or loads input.Source through the session.
func (s *Stage) open(ctx context.Context, loop ports.EventLoop, session *editor.Session, input pipeline.EditInput) error {
	if input.Image != nil {
		var openErr error
		if err := loop.Do(ctx, func() { openErr = session.Open(input.Image) }); err != nil {
			return err
		}
		return openErr
	}

	loaded := make(chan error, 1)
	if err := loop.Do(ctx, func() {
		session.Load(ctx, input.Source, func(err error) { loaded <- err })
	}); err != nil {
		return err
	}
	select {
	case err := <-loaded:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stage) saveTransform(result pipeline.EditResult) {
	data, err := json.MarshalIndent(transformRecord{
		Scale:   result.Transform.Scale,
		OffsetX: result.Transform.Offset.X,
		OffsetY: result.Transform.Offset.Y,
		Percent: result.Percent,
		Width:   result.ImageSize.Width,
		Height:  result.ImageSize.Height,
	}, "", "  ")
	if err != nil {
		s.logger.Warn("Failed to encode transform: %v", err)
		return
	}
	if err := s.sink.SaveTransformJSON(data); err != nil {
		s.logger.Warn("Failed to save transform: %v", err)
	}
}
