package filesink

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/user/avatarcrop/pkg/mocks"
	"github.com/user/avatarcrop/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveSource(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte{0xFF, 0xD8, 0xFF}
	if err := sink.SaveSource(data); err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "source.jpg")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveTransformJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte(`{"scale": 2}`)
	if err := sink.SaveTransformJSON(data); err != nil {
		t.Fatalf("SaveTransformJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "transform.json")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_SaveExports(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	for i := 0; i < 10; i++ {
		if err := sink.SaveExport(i, []byte{0xFF}); err != nil {
			t.Fatalf("SaveExport %d failed: %v", i, err)
		}
	}

	expectedPath := filepath.Join(testBaseDir, "exports", "export-0007.jpg")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
	if len(fs.GetAllFiles()) != 10 {
		t.Errorf("expected 10 files, got %d", len(fs.GetAllFiles()))
	}
}

func TestSink_SavePreviewCard(t *testing.T) {
	fs := mocks.NewFileSystem()
	var format ports.ImageFormat = -1
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, f ports.ImageFormat, quality int) ([]byte, error) {
			format = f
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SavePreviewCard("X / Twitter", image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatalf("SavePreviewCard failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "cards", "x-twitter.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
	if format != ports.FormatPNG {
		t.Errorf("expected PNG encoding, got %s", format)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Facebook":    "facebook",
		"X / Twitter": "x-twitter",
		"WhatsApp":    "whatsapp",
		"  GitHub  ":  "github",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q): expected %q, got %q", in, want, got)
		}
	}
}
