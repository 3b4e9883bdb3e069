package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource("photo.jpg", 800, 600).
		Build()

	if summary.Source.Path != "photo.jpg" {
		t.Errorf("expected path 'photo.jpg', got '%s'", summary.Source.Path)
	}
	if summary.Source.Width != 800 || summary.Source.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", summary.Source.Width, summary.Source.Height)
	}
	if summary.Source.Normalized {
		t.Error("expected Normalized to be false")
	}
}

func TestBuilder_WithNormalized(t *testing.T) {
	summary := NewBuilder().
		WithSource("photo.jpg", 800, 600).
		WithNormalized(3200, 2400).
		Build()

	if !summary.Source.Normalized {
		t.Error("expected Normalized to be true")
	}
	if summary.Source.NormalizedWidth != 3200 || summary.Source.NormalizedHeight != 2400 {
		t.Errorf("expected 3200x2400, got %dx%d", summary.Source.NormalizedWidth, summary.Source.NormalizedHeight)
	}
}

func TestBuilder_Chaining(t *testing.T) {
	crop := CropInfo{Scale: 2, OffsetX: -150, Gestures: 3, Exports: 2}
	settings := Settings{CanvasWidth: 1200, CanvasHeight: 1200, Format: "JPG", Quality: 92}
	output := OutputInfo{Path: "out.jpg", FileSize: 1024}

	summary := NewBuilder().
		WithCrop(crop).
		WithSettings(settings).
		WithOutput(output).
		Build()

	if summary.Crop != crop {
		t.Errorf("expected crop %+v, got %+v", crop, summary.Crop)
	}
	if summary.Settings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, summary.Settings)
	}
	if summary.Output.Path != "out.jpg" || summary.Output.FileSize != 1024 {
		t.Errorf("unexpected output %+v", summary.Output)
	}
}
