package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
	"github.com/glabrego/hn-cli/internal/render/markup"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

// KeyValueTable renders two columns with a header row.
func KeyValueTable(header [2]string, rows [][2]string, th tuitheme.Theme) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.Guide).
		Headers(header[0], header[1]).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(th.Section)
			case col == 0:
				return base.Inherit(th.MetaLabel)
			default:
				return base.Inherit(th.MetaValue)
			}
		})
	for _, r := range rows {
		t.Row(r[0], r[1])
	}
	return t.String()
}

// Profile renders a user's public profile.
func Profile(user hackernews.User, now time.Time, cols int, th tuitheme.Theme) string {
	rows := [][2]string{
		{"Created", fmt.Sprintf("%s (%s)", user.CreatedAt().Format(time.DateOnly), RelativeTimeLabel(now, user.CreatedAt()))},
		{"Karma", humanize.Comma(int64(user.Karma))},
		{"Submissions", humanize.Comma(int64(len(user.Submitted)))},
		{"Profile", user.ProfileURL()},
	}
	var b strings.Builder
	b.WriteString(th.Title.Render("User: " + user.ID))
	b.WriteString("\n")
	b.WriteString(KeyValueTable([2]string{"Field", "Value"}, rows, th))
	b.WriteString("\n")
	if about := markup.Lines(user.About, layout.WrapWidth(cols)); len(about) > 0 {
		b.WriteString("\n")
		b.WriteString(th.Section.Render("About"))
		b.WriteString("\n")
		b.WriteString(strings.Join(about, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// CacheStats renders cache occupancy for the cache-stats command.
func CacheStats(path string, entries, expired, bytes int64, th tuitheme.Theme) string {
	rows := [][2]string{
		{"Location", path},
		{"Entries", humanize.Comma(entries)},
		{"Expired", humanize.Comma(expired)},
		{"Size", humanize.Bytes(uint64(max(0, bytes)))},
	}
	return KeyValueTable([2]string{"Cache", "Value"}, rows, th)
}
