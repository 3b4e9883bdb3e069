// Package load implements the source loading stage.
package load

import (
	"context"
	"fmt"

	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
)

// Stage decodes the source image and optionally normalizes it the way an
// upload is normalized before editing.
type Stage struct {
	loader     ports.ImageLoader
	normalizer ports.Normalizer
	sink       ports.DebugSink
	logger     ports.Logger
}

// NewStage creates a new load stage. normalizer may be nil when
// normalization is never requested.
func NewStage(loader ports.ImageLoader, normalizer ports.Normalizer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		loader:     loader,
		normalizer: normalizer,
		sink:       sink,
		logger:     logger.WithComponent("load"),
	}
}

// Execute loads the source.
func (s *Stage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	result := pipeline.LoadResult{}

	s.logger.Debug("Loading %s", input.Source)
	img, err := s.loader.Load(ctx, input.Source)
	if err != nil {
		return result, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	result.Original = pipeline.Dimension{Width: b.Dx(), Height: b.Dy()}
	result.Image = img
	result.Normalized = result.Original

	if !input.Normalize || s.normalizer == nil {
		return result, nil
	}

	normalized, data, err := s.normalizer.Normalize(img)
	if err != nil {
		return result, fmt.Errorf("normalize image: %w", err)
	}
	nb := normalized.Bounds()
	result.Image = normalized
	result.Data = data
	result.Normalized = pipeline.Dimension{Width: nb.Dx(), Height: nb.Dy()}
	s.logger.Debug("Normalized %dx%d to %dx%d (%d bytes)", b.Dx(), b.Dy(), nb.Dx(), nb.Dy(), len(data))

	if s.sink.Enabled() {
		if err := s.sink.SaveSource(data); err != nil {
			s.logger.Warn("Failed to save source: %v", err)
		}
	}

	return result, nil
}
