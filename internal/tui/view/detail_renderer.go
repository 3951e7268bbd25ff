package view

import (
	"strings"
	"time"

	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

type StoryRenderInput struct {
	Item     hackernews.Item
	Comments *comments.Node
	Rows     []comments.Row
	Scroll   int
	Now      time.Time
	Cols     int
	// BodyRows is the number of lines available for the story panel and
	// the comments under it.
	BodyRows int
	Margin   int
}

// RenderStory draws the story panel followed by a window of comments
// starting at the scroll row.
func RenderStory(in StoryRenderInput, th tuitheme.Theme) string {
	lines := StoryLines(in.Item, in.Now, in.Cols-in.Margin, th)
	lines = append(lines, "")
	switch {
	case in.Comments == nil:
		lines = append(lines, th.MetaLabel.Render("Press c to load comments."))
	case len(in.Rows) == 0:
		lines = append(lines, th.MetaLabel.Render("No comments yet."))
	default:
		lines = append(lines, th.Section.Render("Comments"))
		height := max(3, in.BodyRows-len(lines))
		lines = append(lines, CommentBody(in.Rows, in.Scroll, in.Now, in.Cols-in.Margin, height, th)...)
	}
	return RenderLines(leftPadLines(lines, in.Margin), 0, 0)
}

// RenderLines joins at most maxLines lines starting near top; zero
// maxLines shows everything.
func RenderLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	start, end := layout.Window(len(lines), top, maxLines)
	return strings.Join(lines[start:end], "\n") + "\n"
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = prefix + line
	}
	return out
}
