// Package markup turns the small HTML dialect used in HN comments, story
// text and profile "about" fields into wrapped terminal lines.
package markup

import (
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

var reHTTPURL = regexp.MustCompile(`https?://[^\s)]+`)

type Options struct {
	StyleLinks bool
}

var DefaultOptions = Options{StyleLinks: true}

type renderer struct {
	width int
	opts  Options
}

func Lines(raw string, width int) []string {
	return LinesWithOptions(raw, width, DefaultOptions)
}

// LinesWithOptions renders raw at the given column width. Blank lines
// separate paragraphs; runs of blank lines collapse to one.
func LinesWithOptions(raw string, width int, opts Options) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	body := findBodyNode(doc)
	if body == nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	r := renderer{width: max(1, width), opts: opts}
	lines := trimBlankLines(r.renderNodes(elementChildren(body)))
	if opts.StyleLinks {
		lines = styleLinks(lines)
	}
	return lines
}

// PlainText flattens raw to a single line, for previews.
func PlainText(raw string) string {
	lines := LinesWithOptions(raw, 1<<16, Options{})
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func (r renderer) renderNodes(nodes []*nethtml.Node) []string {
	lines := make([]string, 0, len(nodes)*2)
	inlineParts := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flushInline := func() {
		text := normalizeInlineText(strings.Join(inlineParts, " "))
		inlineParts = inlineParts[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inlineParts = append(inlineParts, node.Data)
		case nethtml.ElementNode:
			if !isBlockElement(node.Data) {
				inlineParts = append(inlineParts, r.renderInlineNode(node))
				continue
			}
			flushInline()
			appendBlock(r.renderBlock(node))
		}
	}
	flushInline()
	return trimBlankLines(lines)
}

func (r renderer) renderBlock(node *nethtml.Node) []string {
	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript":
		return nil
	case "pre":
		return preformattedLines(collectRawText(node))
	case "blockquote":
		inner := r.renderNodes(elementChildren(node))
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			out = append(out, quotePrefix+line)
		}
		return out
	default:
		if hasBlockChild(node) {
			return r.renderNodes(elementChildren(node))
		}
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return wrapText(text, r.width)
	}
}

// preformattedLines keeps code blocks verbatim, indented two columns.
func preformattedLines(raw string) []string {
	raw = strings.Trim(html.UnescapeString(raw), "\n")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	src := strings.Split(raw, "\n")
	out := make([]string, 0, len(src))
	for _, line := range src {
		out = append(out, codeStyle.Render("  "+strings.TrimRight(line, " \t")))
	}
	return out
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "pre", "blockquote", "div", "ul", "ol", "li", "script", "style", "noscript":
		return true
	default:
		return false
	}
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}

func trimBlankLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

func styleLinks(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = reHTTPURL.ReplaceAllStringFunc(line, func(m string) string {
			return linkStyle.Render(m)
		})
	}
	return out
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
