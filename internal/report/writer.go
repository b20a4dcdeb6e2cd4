package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/researchscope/internal/pipeline"
)

// Format is a download format for a report.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// BaseFilename is the download name without extension.
const BaseFilename = "research_analysis_report"

// ParseFormat maps a user-supplied format name to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (want txt or md)", s)
	}
}

// Filename returns the download file name for the format.
func (f Format) Filename() string {
	return BaseFilename + "." + string(f)
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *pipeline.Report, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", f)
	}
}

// WriteText writes the final analysis text.
func WriteText(w io.Writer, r *pipeline.Report) error {
	text := strings.TrimRight(r.Final, "\n") + "\n"
	_, err := io.WriteString(w, text)
	return err
}
