package mocks

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/user/avatarcrop/pkg/ports"
)

// ImageLoader is a mock implementation of ports.ImageLoader.
type ImageLoader struct {
	LoadFunc func(ctx context.Context, source string) (image.Image, error)

	mu      sync.Mutex
	images  map[string]image.Image
	sources []string
}

// NewImageLoader creates a loader serving the given images by source.
func NewImageLoader(images map[string]image.Image) *ImageLoader {
	if images == nil {
		images = make(map[string]image.Image)
	}
	return &ImageLoader{images: images}
}

func (m *ImageLoader) Load(ctx context.Context, source string) (image.Image, error) {
	m.mu.Lock()
	m.sources = append(m.sources, source)
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, source)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if img, ok := m.images[source]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown format")
}

// Sources returns every source passed to Load.
func (m *ImageLoader) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}

var _ ports.ImageLoader = (*ImageLoader)(nil)

// Normalizer is a mock implementation of ports.Normalizer.
type Normalizer struct {
	NormalizeFunc func(img image.Image) (image.Image, []byte, error)
}

func (m *Normalizer) Normalize(img image.Image) (image.Image, []byte, error) {
	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(img)
	}
	return img, []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

var _ ports.Normalizer = (*Normalizer)(nil)

// Watcher is a mock implementation of ports.Watcher that fires onChange
// once per entry in Changes and then blocks until ctx is done.
type Watcher struct {
	Changes []string
	Err     error
}

func (m *Watcher) Watch(ctx context.Context, path string, onChange func(path string)) error {
	if m.Err != nil {
		return m.Err
	}
	for _, p := range m.Changes {
		onChange(p)
	}
	<-ctx.Done()
	return nil
}

var _ ports.Watcher = (*Watcher)(nil)
