package bible

import (
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"
)

// minRenderWidth is the narrowest terminal we try to lay text out for.
const minRenderWidth = 10

// Render lays the verse out for a terminal of the given width: the text
// wrapped to the width, a blank line, then the reference right aligned under
// the text. Widths below minRenderWidth print the text and reference as is.
func (v Verse) Render(width int) string {
	ref := v.Reference()
	if width < minRenderWidth {
		return v.Text + "\n\n" + ref + "\n"
	}

	text := wordwrap.WrapString(v.Text, uint(width))

	// Align the reference with the right edge of the widest wrapped line.
	block := 0
	for _, line := range strings.Split(text, "\n") {
		block = max(block, utf8.RuneCountInString(line))
	}
	block = min(block, width)

	pad := block - utf8.RuneCountInString(ref)
	if pad < 0 {
		pad = 0
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(ref)
	sb.WriteString("\n")
	return sb.String()
}

// String prints the translation name underlined with "=", then one book per
// line.
func (b Books) String() string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", utf8.RuneCountInString(b.Name)))
	sb.WriteString("\n")
	for _, name := range b.Books {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}
