package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Crop Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.row(&b, "Path", s.Source.Path)
	f.row(&b, "Size", fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height))
	if s.Source.Normalized {
		f.row(&b, "Normalized", fmt.Sprintf("%dx%d", s.Source.NormalizedWidth, s.Source.NormalizedHeight))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Crop"))
	f.row(&b, "Scale", fmt.Sprintf("%.4f (%.0f%%)", s.Crop.Scale, s.Crop.Percent))
	f.row(&b, "Offset", fmt.Sprintf("(%.1f, %.1f)", s.Crop.OffsetX, s.Crop.OffsetY))
	f.row(&b, "Gestures", fmt.Sprintf("%d", s.Crop.Gestures))
	f.row(&b, "Exports", fmt.Sprintf("%d", s.Crop.Exports))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.row(&b, "Canvas", fmt.Sprintf("%dx%d", s.Settings.CanvasWidth, s.Settings.CanvasHeight))
	f.row(&b, "Format", fmt.Sprintf("%s (%s %d)", s.Settings.Format, t("quality"), s.Settings.Quality))
	f.row(&b, "Max Zoom", fmt.Sprintf("%gx", s.Settings.MaxScaleMultiplier))
	if s.Settings.Theme != "" {
		f.row(&b, "Preview Theme", s.Settings.Theme)
		f.row(&b, "Preview Columns", fmt.Sprintf("%d", s.Settings.Columns))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	f.row(&b, "Avatar", fmt.Sprintf("%s (%s)", s.Output.Path, formatBytes(s.Output.FileSize)))
	if s.Output.PreviewPath != "" {
		f.row(&b, "Preview Sheet", s.Output.PreviewPath)
	}
	if len(s.Output.Previews) > 0 {
		fmt.Fprintf(&b, "\n### %s\n\n", t("Platforms"))
		for _, p := range s.Output.Previews {
			fmt.Fprintf(&b, "- %s: `%s`\n", p.Platform, p.FileName)
		}
	}

	b.WriteString("\n---\n\n")
	footer := "avatarcrop"
	if f.version != "" {
		footer += " " + f.version
	}
	fmt.Fprintf(&b, "%s %s\n", t("Generated by"), footer)

	return b.String()
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s**: %s\n", f.translate(label), value)
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
