package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art and an optional tagline, centred
// for the current terminal width. Replace banner.txt to change the art.
func RenderBanner(tagline string) string {
	return renderBanner(termWidth(), tagline)
}

func renderBanner(width int, tagline string) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	if tagline != "" {
		lines = append(lines, "", tagline)
	}

	// Centre the block as a whole so the art keeps its shape.
	maxW := 0
	for _, l := range lines {
		if w := lipgloss.Width(l); w > maxW {
			maxW = w
		}
	}
	pad := ""
	if width > maxW {
		pad = strings.Repeat(" ", (width-maxW)/2)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(pad)
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
