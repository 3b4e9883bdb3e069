package ports

import (
	"context"
	"image"
)

// ImageLoader loads and decodes a source image.
type ImageLoader interface {
	// Load resolves source (a file path, an http(s) URL or a data URL)
	// and decodes it.
	Load(ctx context.Context, source string) (image.Image, error)
}

// Normalizer prepares an uploaded image before editing.
type Normalizer interface {
	// Normalize bounds the image size and re-encodes it under the size budget.
	// It returns the decoded result and the encoded bytes.
	Normalize(img image.Image) (image.Image, []byte, error)
}

// Watcher notifies about changes to a source file.
type Watcher interface {
	// Watch calls onChange each time path is written or re-created,
	// until ctx is done.
	Watch(ctx context.Context, path string, onChange func(path string)) error
}
