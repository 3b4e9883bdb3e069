package editor

import "fmt"

const (
	kilobyte = 1024
	megabyte = 1024 * 1024
)

// FormatFileSize formats a byte count as "N B", "N.N KB" or "N.N MB".
func FormatFileSize(size int64) string {
	switch {
	case size < kilobyte:
		return fmt.Sprintf("%d B", size)
	case size < megabyte:
		return fmt.Sprintf("%.1f KB", float64(size)/kilobyte)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/megabyte)
	}
}
