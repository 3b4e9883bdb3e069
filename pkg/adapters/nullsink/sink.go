// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/avatarcrop/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveSource does nothing.
func (s *Sink) SaveSource(data []byte) error {
	return nil
}

// SaveTransformJSON does nothing.
func (s *Sink) SaveTransformJSON(data []byte) error {
	return nil
}

// SaveExport does nothing.
func (s *Sink) SaveExport(index int, data []byte) error {
	return nil
}

// SavePreviewCard does nothing.
func (s *Sink) SavePreviewCard(platform string, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
