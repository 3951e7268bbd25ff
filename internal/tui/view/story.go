package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
	"github.com/glabrego/hn-cli/internal/render/markup"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

// StoryLines renders the story panel: title, link, metadata and any
// self-post text, wrapped for a terminal cols wide.
func StoryLines(item hackernews.Item, now time.Time, cols int, th tuitheme.Theme) []string {
	width := layout.WrapWidth(cols)
	lines := make([]string, 0, 8)

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = fmt.Sprintf("Item %d", item.ID)
	}
	for _, line := range markup.Wrap(title, width) {
		lines = append(lines, th.StoryTitle.Render(line))
	}
	if item.URL != "" {
		lines = append(lines, th.Domain.Render(truncate(item.URL, width)))
	}

	meta := fmt.Sprintf("%s by %s %s | %s comments",
		th.Score.Render(humanize.Comma(int64(item.Score))+" points"),
		th.Author.Render(authorOf(item)),
		RelativeTimeLabel(now, item.CreatedAt()),
		humanize.Comma(int64(item.Descendants)),
	)
	lines = append(lines, meta)
	lines = append(lines, th.MetaLabel.Render(item.DiscussionURL()))

	if text := markup.Lines(item.Text, width); len(text) > 0 {
		lines = append(lines, "")
		lines = append(lines, text...)
	}
	return lines
}

// CommentLines renders one comment row with a guide column per level of
// nesting.
func CommentLines(row comments.Row, now time.Time, cols int, th tuitheme.Theme) []string {
	level := max(0, row.Depth-1)
	indent := th.Guide.Render(strings.Repeat("│ ", level))
	width := layout.IndentedWrapWidth(cols, 2*level)

	node := row.Node
	header := th.Author.Render(authorOf(node.Item)) + " " + th.MetaLabel.Render(RelativeTimeLabel(now, node.Item.CreatedAt()))
	if node.Placeholder {
		header = th.Placeholder.Render(placeholderLabel(node.Reason))
	}
	if row.Hidden > 0 {
		header += " " + th.MetaLabel.Render(fmt.Sprintf("[+%d more]", row.Hidden))
	}

	lines := []string{indent + header}
	if node.Placeholder {
		return lines
	}
	for _, line := range markup.Lines(node.Item.Text, width) {
		lines = append(lines, indent+line)
	}
	return lines
}

// CommentBody renders rows starting at from until at most height lines
// are filled.
func CommentBody(rows []comments.Row, from int, now time.Time, cols, height int, th tuitheme.Theme) []string {
	out := make([]string, 0, height)
	for i := max(0, from); i < len(rows) && len(out) < height; i++ {
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, CommentLines(rows[i], now, cols, th)...)
	}
	if len(out) > height {
		out = out[:height]
	}
	return out
}

func placeholderLabel(reason comments.Reason) string {
	switch reason {
	case comments.ReasonDeleted:
		return "[deleted]"
	case comments.ReasonDead:
		return "[dead]"
	case comments.ReasonNotFound:
		return "[missing]"
	case comments.ReasonUnavailable:
		return "[unavailable, press c to retry]"
	default:
		return "[hidden]"
	}
}

func authorOf(item hackernews.Item) string {
	if item.By == "" {
		return "unknown"
	}
	return item.By
}
