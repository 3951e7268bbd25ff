package markup

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.renderInlineNode(child))
	}
	return strings.Join(parts, " ")
}

func (r renderer) renderInlineNode(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		case "a":
			return linkLabel(normalizeInlineText(r.renderInlineChildren(node)), nodeAttr(node, "href"))
		case "code", "kbd", "samp":
			text := normalizeInlineText(r.renderInlineChildren(node))
			if text == "" {
				return ""
			}
			return "`" + text + "`"
		default:
			return r.renderInlineChildren(node)
		}
	default:
		return ""
	}
}

// linkLabel prints a link once. HN shortens long link texts with a
// trailing "...", in which case the full href replaces the text.
func linkLabel(text, href string) string {
	href = strings.TrimSpace(html.UnescapeString(href))
	switch {
	case href == "":
		return text
	case text == "", strings.EqualFold(text, href):
		return href
	case strings.HasSuffix(text, "...") && strings.HasPrefix(href, strings.TrimSuffix(text, "...")):
		return href
	default:
		return text + " (" + href + ")"
	}
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	normalized := strings.Join(out, "\n")
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" :", ":",
		" !", "!",
		" ?", "?",
		" )", ")",
		"( ", "(",
	)
	return replacer.Replace(normalized)
}
