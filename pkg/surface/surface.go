// Package surface defines output rendering for segap risk reports.
// Implementations handle different output targets: terminal, JSON, Markdown.
package surface

import (
	"io"
	"os"
	"strings"

	"github.com/segap/segap/pkg/scoring"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *scoring.Report) error
}

// Format names accepted by ForFormat.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ForFormat returns the renderer for a --output value, or nil if the
// format is unknown.
func ForFormat(format string, meta Meta) Renderer {
	switch strings.ToLower(format) {
	case "", FormatText:
		return &TerminalRenderer{}
	case FormatJSON:
		return &JSONRenderer{Meta: meta}
	case FormatMarkdown, "md":
		return &MarkdownRenderer{}
	default:
		return nil
	}
}

// Title is the heading every renderer prints above the table.
const Title = "Attack non-detection risk assessment"

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
