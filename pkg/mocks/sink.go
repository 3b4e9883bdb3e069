package mocks

import (
	"image"
	"sync"

	"github.com/user/avatarcrop/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Source        []byte
	TransformJSON []byte
	Exports       map[int][]byte
	PreviewCards  map[string]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:      enabled,
		Exports:      make(map[int][]byte),
		PreviewCards: make(map[string]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSource(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Source = data
	return nil
}

func (m *DebugSink) SaveTransformJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransformJSON = data
	return nil
}

func (m *DebugSink) SaveExport(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Exports[index] = data
	return nil
}

func (m *DebugSink) SavePreviewCard(platform string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PreviewCards[platform] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                          { return false }
func (m *NullSink) SaveSource(data []byte) error                           { return nil }
func (m *NullSink) SaveTransformJSON(data []byte) error                    { return nil }
func (m *NullSink) SaveExport(index int, data []byte) error                { return nil }
func (m *NullSink) SavePreviewCard(platform string, img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
