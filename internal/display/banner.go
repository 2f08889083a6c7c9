package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for the current terminal
// width, followed by subtitle when it is non-empty.
func RenderBanner(subtitle string) string {
	return renderBanner(termWidth(), subtitle)
}

func renderBanner(width int, subtitle string) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	// The art is centred as one block so its columns stay aligned.
	artW := 0
	for _, l := range lines {
		artW = max(artW, len(l))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent(width, artW))
		b.WriteString(bannerStyle.Render(l))
		b.WriteByte('\n')
	}
	if subtitle != "" {
		b.WriteString(indent(width, len(subtitle)))
		b.WriteString(hintStyle.Render(subtitle))
		b.WriteByte('\n')
	}
	return b.String()
}

func indent(width, content int) string {
	if width <= content {
		return ""
	}
	return strings.Repeat(" ", (width-content)/2)
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
