package view

import (
	"strings"
	"time"

	"github.com/glabrego/hn-cli/internal/hackernews"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

type ListRenderInput struct {
	Items []hackernews.Item
	// FirstOrdinal is the 1-based number shown next to Items[0].
	FirstOrdinal int
	// Active highlights the row with this index; -1 for none.
	Active int
	Now    time.Time
	Width  int
}

func RenderListBody(in ListRenderInput, th tuitheme.Theme) string {
	if len(in.Items) == 0 {
		return th.MetaLabel.Render("No stories.") + "\n"
	}
	first := max(1, in.FirstOrdinal)
	var b strings.Builder
	for i, item := range in.Items {
		b.WriteString(RenderStoryLine(StoryLineParams{
			Item:    item,
			Ordinal: first + i,
			Now:     in.Now,
			Width:   in.Width,
			Active:  i == in.Active,
		}, th))
		b.WriteString("\n")
	}
	return b.String()
}
