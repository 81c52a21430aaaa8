package display

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/hammamikhairi/aichef/internal/domain"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown turns a parsed recipe into markdown: the title becomes a level-2
// heading and each header line a level-3 heading.
func Markdown(r domain.ParsedRecipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", r.Title)
	for _, line := range r.Lines {
		if line.IsHeader {
			// Headings need blank lines around them to break out of lists.
			fmt.Fprintf(&b, "\n### %s\n\n", strings.TrimSpace(line.Text))
			continue
		}
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// HTML renders a parsed recipe as an HTML fragment. Raw HTML in the
// completion is escaped (goldmark's default).
func HTML(r domain.ParsedRecipe) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
