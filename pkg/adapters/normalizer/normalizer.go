// Package normalizer prepares uploaded images for editing: the shorter side
// is brought to a fixed dimension and the result is re-encoded as JPEG under
// a byte budget.
package normalizer

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/avatarcrop/pkg/ports"
)

// Defaults match the upload pipeline of the web editor.
const (
	DefaultMinDimension = 2400
	DefaultMaxBytes     = 512 * 1000
	DefaultQuality      = 90

	minQuality   = 50
	qualityStep  = 10
	shrinkFactor = 0.8
	smallestSide = 64
)

// Options configures a Normalizer.
type Options struct {
	MinDimension int // Target length of the shorter side
	MaxBytes     int // Byte budget of the encoded result
	Quality      int // Initial JPEG quality
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		MinDimension: DefaultMinDimension,
		MaxBytes:     DefaultMaxBytes,
		Quality:      DefaultQuality,
	}
}

// Normalizer implements ports.Normalizer with the imaging library.
type Normalizer struct {
	opts   Options
	logger ports.Logger
}

// New creates a Normalizer. Zero option fields take their defaults.
func New(opts Options, logger ports.Logger) *Normalizer {
	d := DefaultOptions()
	if opts.MinDimension <= 0 {
		opts.MinDimension = d.MinDimension
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = d.MaxBytes
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = d.Quality
	}
	return &Normalizer{opts: opts, logger: logger.WithComponent("normalize")}
}

// TargetSize scales (w, h) so the shorter side equals minDimension.
func TargetSize(w, h, minDimension int) (int, int) {
	shorter := math.Min(float64(w), float64(h))
	if shorter <= 0 {
		return w, h
	}
	f := float64(minDimension) / shorter
	return int(math.Round(float64(w) * f)), int(math.Round(float64(h) * f))
}

// Normalize resizes img and re-encodes it until it fits the byte budget,
// lowering quality first and then dimensions. It returns the decoded result
// and its JPEG bytes.
func (n *Normalizer) Normalize(img image.Image) (image.Image, []byte, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil, fmt.Errorf("normalize: empty image")
	}

	w, h := TargetSize(b.Dx(), b.Dy(), n.opts.MinDimension)
	quality := n.opts.Quality
	var data []byte
	for {
		resized := imaging.Resize(img, w, h, imaging.Lanczos)
		var err error
		data, err = encode(resized, quality)
		if err != nil {
			return nil, nil, err
		}
		if len(data) <= n.opts.MaxBytes {
			break
		}
		n.logger.Debug("Encoded %dx%d at quality %d is %d bytes, over budget %d", w, h, quality, len(data), n.opts.MaxBytes)
		if quality-qualityStep >= minQuality {
			quality -= qualityStep
			continue
		}
		nw, nh := int(float64(w)*shrinkFactor), int(float64(h)*shrinkFactor)
		if nw < smallestSide || nh < smallestSide {
			n.logger.Warn("Could not fit %dx%d under %d bytes, keeping %d bytes", w, h, n.opts.MaxBytes, len(data))
			break
		}
		w, h = nw, nh
	}

	out, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("normalize: decode result: %w", err)
	}
	n.logger.Debug("Normalized %dx%d to %dx%d, %d bytes", b.Dx(), b.Dy(), w, h, len(data))
	return out, data, nil
}

func encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("normalize: encode: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ports.Normalizer = (*Normalizer)(nil)
