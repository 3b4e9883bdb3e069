package sourceloader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/avatarcrop/pkg/mocks"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoader_File(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("photo.png", pngBytes(t, 80, 60))

	img, err := New(fs).Load(context.Background(), "photo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Errorf("expected 80x60, got %v", img.Bounds())
	}
}

func TestLoader_MissingFile(t *testing.T) {
	if _, err := New(mocks.NewFileSystem()).Load(context.Background(), "missing.jpg"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoader_DataURL(t *testing.T) {
	src := EncodeDataURL("image/png", pngBytes(t, 8, 4))

	img, err := New(mocks.NewFileSystem()).Load(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("expected 8x4, got %v", img.Bounds())
	}
}

func TestParseDataURL_Errors(t *testing.T) {
	tests := []string{
		"data:image/png;base64",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,!!!",
	}
	for _, s := range tests {
		if _, err := parseDataURL(s); err == nil {
			t.Errorf("parseDataURL(%q): expected an error", s)
		}
	}
}

func TestLoader_HTTP(t *testing.T) {
	body := pngBytes(t, 20, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avatar.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	l := New(mocks.NewFileSystem()).WithHTTPClient(srv.Client())

	img, err := l.Load(context.Background(), srv.URL+"/avatar.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("expected width 20, got %d", img.Bounds().Dx())
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected an error for a 404")
	}
}

func TestLoader_SizeLimit(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("big.png", pngBytes(t, 64, 64))

	_, err := New(fs).WithMaxBytes(16).Load(context.Background(), "big.png")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("expected an error")
	}
}
