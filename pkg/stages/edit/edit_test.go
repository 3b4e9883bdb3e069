package edit

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/mocks"
	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
)

type fixture struct {
	stage    *Stage
	renderer *mocks.Renderer
	sink     *mocks.DebugSink
	loop     *mocks.Scheduler
}

func newFixture(sinkEnabled bool) *fixture {
	f := &fixture{
		renderer: &mocks.Renderer{},
		sink:     mocks.NewDebugSink(sinkEnabled),
		loop:     mocks.NewScheduler(true),
	}
	loader := mocks.NewImageLoader(map[string]image.Image{
		"landscape.jpg": image.NewRGBA(image.Rect(0, 0, 800, 600)),
	})
	f.stage = NewStage(f.renderer, loader, func() ports.EventLoop { return f.loop }, f.sink, mocks.NewLogger())
	return f
}

func TestStage_Execute_ReplaysGestures(t *testing.T) {
	f := newFixture(true)

	input := pipeline.EditInput{
		Image: image.NewRGBA(image.Rect(0, 0, 800, 600)),
		Gestures: []editor.Event{
			{Type: editor.EventPointerDown, X: 600, Y: 600},
			{Type: editor.EventPointerMove, X: 650, Y: 630},
			{Type: editor.EventPointerUp},
		},
		Options: editor.DefaultOptions(),
	}

	result, err := f.stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := editor.Transform{Scale: 2, Offset: editor.Point{X: -150, Y: 0}}
	if result.Transform != want {
		t.Errorf("expected %s, got %s", want, result.Transform)
	}
	if result.Gestures != 3 {
		t.Errorf("expected 3 gestures, got %d", result.Gestures)
	}
	if result.Exports < 2 {
		t.Errorf("expected the load and drag-end exports, got %d", result.Exports)
	}
	if result.Artifact.Name != "profile-picture.jpg" || len(result.Artifact.Data) == 0 {
		t.Errorf("unexpected artifact %s (%d bytes)", result.Artifact.Name, len(result.Artifact.Data))
	}
	if result.Caption != "800x600px • Drag to move • Scroll to zoom" {
		t.Errorf("unexpected caption %q", result.Caption)
	}
	if result.ScaleLabel != "Scale: 0%" {
		t.Errorf("unexpected scale label %q", result.ScaleLabel)
	}
	if result.FileSize != "4 B" {
		t.Errorf("expected probed file size, got %q", result.FileSize)
	}

	if len(f.sink.Exports) != result.Exports {
		t.Errorf("expected %d exports in sink, got %d", result.Exports, len(f.sink.Exports))
	}
	var record map[string]float64
	if err := json.Unmarshal(f.sink.TransformJSON, &record); err != nil {
		t.Fatalf("invalid transform JSON: %v", err)
	}
	if record["offsetX"] != -150 || record["scale"] != 2 {
		t.Errorf("unexpected transform record %v", record)
	}
}

func TestStage_Execute_LoadsSource(t *testing.T) {
	f := newFixture(false)

	result, err := f.stage.Execute(context.Background(), pipeline.EditInput{
		Source:   "landscape.jpg",
		Gestures: []editor.Event{{Type: editor.EventPercent, Percent: 500}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Transform.Scale-10) > 1e-9 {
		t.Errorf("expected max scale 10, got %v", result.Transform.Scale)
	}
	if result.ScaleLabel != "Scale: 500%" {
		t.Errorf("unexpected scale label %q", result.ScaleLabel)
	}
}

func TestStage_Execute_LoadError(t *testing.T) {
	f := newFixture(false)

	_, err := f.stage.Execute(context.Background(), pipeline.EditInput{Source: "missing.webp"})
	if !errors.Is(err, editor.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestStage_Execute_UnknownGesture(t *testing.T) {
	f := newFixture(false)

	_, err := f.stage.Execute(context.Background(), pipeline.EditInput{
		Image:    image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Gestures: []editor.Event{{Type: editor.EventReset}, {Type: "spin"}},
	})
	if !errors.Is(err, editor.ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestStage_Execute_ReuploadLeavesNothingToDownload(t *testing.T) {
	f := newFixture(false)

	_, err := f.stage.Execute(context.Background(), pipeline.EditInput{
		Image:    image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Gestures: []editor.Event{{Type: editor.EventReupload}},
	})
	if !errors.Is(err, editor.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestStage_Execute_Cancelled(t *testing.T) {
	f := newFixture(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.stage.Execute(ctx, pipeline.EditInput{Image: image.NewRGBA(image.Rect(0, 0, 10, 10))}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
