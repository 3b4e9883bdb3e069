// Package sourceloader resolves image sources (files, http(s) URLs and data
// URLs) and decodes them with EXIF orientation applied.
package sourceloader

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/avatarcrop/pkg/ports"
)

// DefaultMaxBytes bounds how much a single source may occupy.
const DefaultMaxBytes = 64 << 20

// ErrTooLarge is returned when a source exceeds the byte limit.
var ErrTooLarge = errors.New("source exceeds size limit")

// Loader implements ports.ImageLoader.
type Loader struct {
	fs       ports.FileSystem
	client   *http.Client
	maxBytes int64
}

// New creates a loader reading files through fs.
func New(fs ports.FileSystem) *Loader {
	return &Loader{
		fs:       fs,
		client:   http.DefaultClient,
		maxBytes: DefaultMaxBytes,
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func (l *Loader) WithHTTPClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// WithMaxBytes sets the source size limit.
func (l *Loader) WithMaxBytes(n int64) *Loader {
	l.maxBytes = n
	return l
}

// Load resolves and decodes source.
func (l *Loader) Load(ctx context.Context, source string) (image.Image, error) {
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Read resolves source to its encoded bytes.
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return parseDataURL(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := l.fs.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		if int64(len(data)) > l.maxBytes {
			return nil, fmt.Errorf("%s: %w", source, ErrTooLarge)
		}
		return data, nil
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrTooLarge)
	}
	return data, nil
}

// parseDataURL decodes "data:[<mediatype>][;base64],<data>".
func parseDataURL(s string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL")
	}
	if mediaType, _, _ := strings.Cut(header, ";"); mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("data URL is %s, not an image", mediaType)
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data URL: %w", err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL: %w", err)
	}
	return []byte(unescaped), nil
}

// Decode decodes encoded image bytes, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, errors.New("image has no pixels")
	}
	return img, nil
}

// EncodeDataURL returns data as a base64 data URL of the given media type.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var _ ports.ImageLoader = (*Loader)(nil)
