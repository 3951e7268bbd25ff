package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/hackernews"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

var titleCaser = cases.Title(language.English)

type StoryLineParams struct {
	Item    hackernews.Item
	Ordinal int
	Now     time.Time
	Width   int
	Active  bool
}

// RenderStoryLine renders one listing row: ordinal, title and domain on
// the left, score, comment count and age on the right.
func RenderStoryLine(p StoryLineParams, th tuitheme.Theme) string {
	prefix := fmt.Sprintf("%3d. ", p.Ordinal)
	meta := fmt.Sprintf("%s pts  %s cmts  %s",
		humanize.Comma(int64(p.Item.Score)),
		humanize.Comma(int64(p.Item.Descendants)),
		RelativeTimeLabel(p.Now, p.Item.CreatedAt()),
	)

	domain := ""
	if d := p.Item.Domain(); d != "" {
		domain = " (" + d + ")"
	}
	title := strings.TrimSpace(p.Item.Title)
	if title == "" {
		title = "(untitled)"
	}

	available := p.Width - visibleLen(prefix) - visibleLen(meta) - 2
	if available < 8 {
		// Too narrow for the metadata column.
		meta = ""
		available = p.Width - visibleLen(prefix)
	}
	if visibleLen(title+domain) > available {
		domain = ""
	}
	title = truncate(title, available)

	left := th.Index.Render(prefix) + th.StoryTitle.Render(title) + th.Domain.Render(domain)
	if meta == "" {
		return th.RenderActiveLine(p.Active, left)
	}
	gap := p.Width - visibleLen(left) - visibleLen(meta)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, left+strings.Repeat(" ", gap)+th.MetaValue.Render(meta))
}

// ListTitle names a listing screen, e.g. "Top Stories".
func ListTitle(kind hackernews.ListKind) string {
	return titleCaser.String(string(kind) + " stories")
}

func SearchTitle(query string) string {
	return fmt.Sprintf("Search: %q", query)
}

// PageLabel is "page 2/13" for pages of a known total.
func PageLabel(page app.PageView) string {
	if count := page.PageCount(); count > 0 {
		return fmt.Sprintf("page %d/%d", page.PageIndex+1, count)
	}
	return fmt.Sprintf("page %d", page.PageIndex+1)
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	day := 24 * time.Hour
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < day:
		return plural(int(d/time.Hour), "hour")
	case d < 30*day:
		return plural(int(d/day), "day")
	case d < 365*day:
		return plural(int(d/(30*day)), "month")
	default:
		return plural(int(d/(365*day)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func visibleLen(s string) int {
	return lipgloss.Width(s)
}
