package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSource saves the normalized source image bytes.
	SaveSource(data []byte) error

	// SaveTransformJSON saves the final transform state as JSON.
	SaveTransformJSON(data []byte) error

	// SaveExport saves an export delivered to the consumer.
	SaveExport(index int, data []byte) error

	// SavePreviewCard saves a single rendered preview card.
	SavePreviewCard(platform string, img image.Image) error
}
