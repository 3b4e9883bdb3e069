// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/user/avatarcrop/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSource saves the normalized source image.
func (s *Sink) SaveSource(data []byte) error {
	path := filepath.Join(s.baseDir, "source.jpg")
	return s.fs.WriteFile(path, data)
}

// SaveTransformJSON saves the final transform as JSON.
func (s *Sink) SaveTransformJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "transform.json")
	return s.fs.WriteFile(path, data)
}

// SaveExport saves an export delivered during editing.
func (s *Sink) SaveExport(index int, data []byte) error {
	dir := filepath.Join(s.baseDir, "exports")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("export-%04d.jpg", index))
	return s.fs.WriteFile(path, data)
}

// SavePreviewCard saves a rendered platform preview card.
func (s *Sink) SavePreviewCard(platform string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "cards")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode preview card: %w", err)
	}
	path := filepath.Join(dir, slug(platform)+".png")
	return s.fs.WriteFile(path, data)
}

// slug turns a platform name such as "X / Twitter" into "x-twitter".
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
