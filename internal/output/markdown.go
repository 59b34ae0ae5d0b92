package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal. When stdout is not a
// terminal, or rendering fails, the markdown source is returned unchanged
// so that piped output stays readable.
func RenderMarkdown(content string) string {
	if !IsTTY() {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth(80)),
	)
	if err != nil {
		Debug("markdown renderer unavailable", "error", err)
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		Debug("markdown render failed", "error", err)
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
