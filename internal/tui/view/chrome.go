package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/nav"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
)

func Toolbar(v nav.View) string {
	switch v {
	case nav.ViewStory:
		return "c comments | o open | y copy URL | j/k scroll | b back | q quit"
	case nav.ViewList, nav.ViewSearch:
		return "n next | p prev | 1-9 open story | r refresh | q quit"
	default:
		return ""
	}
}

// Footer summarizes what the current screen shows.
func Footer(s nav.State, th tuitheme.Theme) string {
	parts := []string{th.MetaLabel.Render("view") + " " + th.MetaValue.Render(s.View().String())}
	switch cur := s.(type) {
	case nav.List:
		parts = append(parts, pageParts(cur.Page, th)...)
	case nav.Search:
		parts = append(parts, th.MetaLabel.Render("query")+" "+th.MetaValue.Render(fmt.Sprintf("%q", cur.Query)))
		parts = append(parts, pageParts(cur.Page, th)...)
	case nav.Story:
		if cur.Comments == nil {
			parts = append(parts, th.MetaValue.Render("comments not loaded"))
		} else {
			parts = append(parts, th.MetaValue.Render(fmt.Sprintf("comment %d/%d", min(cur.Scroll+1, len(cur.Rows)), len(cur.Rows))))
		}
	}
	return strings.Join(parts, " • ")
}

func pageParts(page app.PageView, th tuitheme.Theme) []string {
	return []string{
		th.MetaValue.Render(PageLabel(page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", len(page.Items))),
	}
}

// RetryHint tells the user how to repeat a transition that failed because
// the content source was unreachable. Other errors get no hint.
func RetryHint(v nav.View, err error) string {
	if !errors.Is(err, hackernews.ErrUnavailable) {
		return ""
	}
	switch v {
	case nav.ViewStory:
		return "press c to retry"
	case nav.ViewList, nav.ViewSearch:
		return "press r to retry"
	default:
		return ""
	}
}

func SearchRetryHint(err error) string {
	if !errors.Is(err, hackernews.ErrUnavailable) {
		return ""
	}
	return "press / to search again"
}

// StatusLine shows the loading state and the most recent message. An
// error wins over a notice; hint follows the error when set.
func StatusLine(loading bool, spinner string, notice string, err error, hint string, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	main := "Ready"
	switch {
	case err != nil:
		state = "error"
		stateLabel = th.StateWarn.Render("state")
		main = err.Error()
		if hint != "" {
			main += " (" + hint + ")"
		}
	case loading:
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
		main = "Fetching..."
		if spinner != "" {
			main = spinner + " " + main
		}
	case notice != "":
		main = notice
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// PendingInput echoes a partially typed story number.
func PendingInput(digits string, th tuitheme.Theme) string {
	if digits == "" {
		return ""
	}
	return th.Pending.Render("Go to: " + digits + "_")
}
