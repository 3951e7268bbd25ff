package markup

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const quotePrefix = "│ "

// wrapText breaks text into lines at most width display columns wide.
// Words longer than a line are split.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineWidth := 0
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				out = append(out, head)
				word = word[len(head):]
			}

			w := runewidth.StringWidth(word)
			if line == "" {
				line, lineWidth = word, w
				continue
			}
			if lineWidth+1+w <= width {
				line += " " + word
				lineWidth += 1 + w
				continue
			}
			out = append(out, line)
			line, lineWidth = word, w
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Wrap exposes the plain word wrapper to other renderers.
func Wrap(text string, width int) []string {
	return wrapText(text, width)
}
