package orchestrator

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/mocks"
	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
)

// mockLoadStage is a mock for the load stage.
type mockLoadStage struct {
	result pipeline.LoadResult
	err    error
	input  pipeline.LoadInput
}

func (m *mockLoadStage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.LoadResult{}, m.err
	}
	return m.result, nil
}

// mockEditStage is a mock for the edit stage.
type mockEditStage struct {
	result pipeline.EditResult
	err    error
	input  pipeline.EditInput
}

func (m *mockEditStage) Execute(ctx context.Context, input pipeline.EditInput) (pipeline.EditResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.EditResult{}, m.err
	}
	return m.result, nil
}

// mockLayoutStage is a mock for the layout stage.
type mockLayoutStage struct {
	result pipeline.LayoutResult
	err    error
	input  pipeline.LayoutInput
}

func (m *mockLayoutStage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.LayoutResult{}, m.err
	}
	return m.result, nil
}

// mockBannerStage is a mock for the banner stage.
type mockBannerStage struct {
	result pipeline.BannerResult
	err    error
	called bool
}

func (m *mockBannerStage) Execute(ctx context.Context, input pipeline.BannerInput) (pipeline.BannerResult, error) {
	m.called = true
	if m.err != nil {
		return pipeline.BannerResult{}, m.err
	}
	return m.result, nil
}

// mockCompositeStage is a mock for the composite stage.
type mockCompositeStage struct {
	result pipeline.CompositeResult
	err    error
	input  pipeline.CompositeInput
}

func (m *mockCompositeStage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.CompositeResult{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	load      *mockLoadStage
	edit      *mockEditStage
	layout    *mockLayoutStage
	banner    *mockBannerStage
	composite *mockCompositeStage
	renderer  *mocks.Renderer
	fs        *mocks.FileSystem
	logger    *mocks.Logger
	orch      *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		load: &mockLoadStage{result: pipeline.LoadResult{
			Image:      image.NewRGBA(image.Rect(0, 0, 800, 600)),
			Original:   pipeline.Dimension{Width: 800, Height: 600},
			Normalized: pipeline.Dimension{Width: 800, Height: 600},
		}},
		edit: &mockEditStage{result: pipeline.EditResult{
			Artifact: editor.Artifact{
				Name:   "profile-picture.jpg",
				Data:   []byte{0xFF, 0xD8, 0xFF, 0xD9},
				Width:  1200,
				Height: 1200,
			},
			Transform:       editor.Transform{Scale: 2, Offset: editor.Point{X: -150}},
			ScaleLabel:      "Scale: 0%",
			DownloadCaption: "1200x1200 • JPG • 4 B",
			Gestures:        3,
			Exports:         2,
		}},
		layout: &mockLayoutStage{result: pipeline.LayoutResult{
			Sheet: pipeline.Dimension{Width: 1176, Height: 1752},
			Cells: make([]pipeline.Rectangle, 8),
			Rows:  3,
		}},
		banner: &mockBannerStage{result: pipeline.BannerResult{Image: image.NewRGBA(image.Rect(0, 0, 1176, 96))}},
		composite: &mockCompositeStage{result: pipeline.CompositeResult{
			Cards: []pipeline.Card{
				{Platform: "facebook", FileName: "facebook-profile-picture.jpg", Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
				{Platform: "slack", FileName: "slack-profile-picture.jpg", Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
			},
			Sheet: image.NewRGBA(image.Rect(0, 0, 1176, 1752)),
		}},
		renderer: &mocks.Renderer{},
		fs:       mocks.NewFileSystem(),
		logger:   mocks.NewLogger(),
	}
	f.orch = New(f.load, f.edit, f.layout, f.banner, f.composite, f.renderer, f.fs, f.logger)
	return f
}

func TestOrchestrator_Run(t *testing.T) {
	f := newFixture()

	config := DefaultConfig()
	config.Source = "photo.jpg"
	config.OutputPath = "out/avatar.jpg"
	config.Gestures = []editor.Event{{Type: editor.EventReset}}

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := f.fs.GetFile("out/avatar.jpg")
	if !ok {
		t.Fatal("expected avatar to be written")
	}
	if len(data) != 4 {
		t.Errorf("expected 4 bytes, got %d", len(data))
	}

	if f.load.input.Source != "photo.jpg" {
		t.Errorf("expected load of photo.jpg, got %q", f.load.input.Source)
	}
	if f.edit.input.Image == nil || len(f.edit.input.Gestures) != 1 {
		t.Error("expected the loaded image and gestures to reach the edit stage")
	}

	// Previews were not requested
	if f.composite.input.Avatar != nil || f.banner.called {
		t.Error("expected preview stages to be skipped")
	}

	if result.OutputBytes != 4 || result.CanvasWidth != 1200 || result.Exports != 2 || result.Gestures != 3 {
		t.Errorf("unexpected result %+v", result)
	}
	if result.WasNormalized {
		t.Error("expected WasNormalized false without normalized data")
	}
	if !f.logger.Contains(ports.LevelInfo, "Pipeline completed successfully") {
		t.Error("expected completion log")
	}
}

func TestOrchestrator_Run_WithPreviews(t *testing.T) {
	f := newFixture()

	config := DefaultConfig()
	config.Source = "photo.jpg"
	config.PreviewPath = "preview.png"
	config.CardsDir = "cards"
	config.Platforms = []string{"slack", "facebook"}

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !f.banner.called {
		t.Error("expected banner stage to be called when BannerEnabled is true")
	}
	if f.layout.input.Count != 2 || f.layout.input.BannerHeight == 0 {
		t.Errorf("unexpected layout input %+v", f.layout.input)
	}
	if len(f.composite.input.Platforms) != 2 || f.composite.input.Platforms[0].Slug != "facebook" {
		t.Errorf("expected facebook and slack in display order, got %+v", f.composite.input.Platforms)
	}
	if f.composite.input.Avatar == nil || f.composite.input.Banner == nil {
		t.Error("expected avatar and banner to reach the composite stage")
	}

	for _, path := range []string{"preview.png", "cards/facebook-preview.png", "cards/slack-preview.png"} {
		if _, ok := f.fs.GetFile(path); !ok {
			t.Errorf("expected %s to be written", path)
		}
	}

	if result.PreviewPath != "preview.png" || result.SheetWidth != 1176 {
		t.Errorf("unexpected preview result %+v", result)
	}
	if len(result.Previews) != 2 || result.Previews[1].CardPath != "cards/slack-preview.png" {
		t.Errorf("unexpected previews %+v", result.Previews)
	}
}

func TestOrchestrator_Run_WithoutBanner(t *testing.T) {
	f := newFixture()

	config := DefaultConfig()
	config.Source = "photo.jpg"
	config.PreviewPath = "preview.png"
	config.BannerEnabled = false

	if _, err := f.orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.banner.called {
		t.Error("expected banner stage to be skipped")
	}
	if f.layout.input.BannerHeight != 0 {
		t.Errorf("expected no banner height, got %d", f.layout.input.BannerHeight)
	}
}

func TestOrchestrator_Run_StageFuncLayout(t *testing.T) {
	f := newFixture()

	var columns int
	layoutFn := pipeline.StageFunc[pipeline.LayoutInput, pipeline.LayoutResult](
		func(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
			columns = input.Columns
			return f.layout.result, nil
		})
	orch := New(f.load, f.edit, layoutFn, f.banner, f.composite, f.renderer, f.fs, f.logger)

	config := DefaultConfig()
	config.Source = "photo.jpg"
	config.PreviewPath = "preview.png"
	config.Columns = 2

	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if columns != 2 {
		t.Errorf("expected 2 columns, got %d", columns)
	}
}

func TestOrchestrator_Run_UnknownPlatform(t *testing.T) {
	f := newFixture()

	config := DefaultConfig()
	config.PreviewPath = "preview.png"
	config.Platforms = []string{"myspace"}

	if _, err := f.orch.Run(context.Background(), config); err == nil {
		t.Fatal("expected error for unknown platform")
	}
	if f.load.input.Source != "" {
		t.Error("expected nothing to be loaded")
	}
}

func TestOrchestrator_Run_StageErrors(t *testing.T) {
	failure := errors.New("boom")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"load", func(f *fixture) { f.load.err = failure }},
		{"edit", func(f *fixture) { f.edit.err = failure }},
		{"layout", func(f *fixture) { f.layout.err = failure }},
		{"banner", func(f *fixture) { f.banner.err = failure }},
		{"composite", func(f *fixture) { f.composite.err = failure }},
		{"write", func(f *fixture) {
			f.fs.WriteFileFunc = func(path string, data []byte) error { return failure }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			config := DefaultConfig()
			config.Source = "photo.jpg"
			config.PreviewPath = "preview.png"

			_, err := f.orch.Run(context.Background(), config)
			if !errors.Is(err, failure) {
				t.Errorf("expected wrapped failure, got %v", err)
			}
		})
	}
}
