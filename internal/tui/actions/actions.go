package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/hn-cli/internal/nav"
)

const (
	stepTimeout     = 15 * time.Second
	commentsTimeout = 45 * time.Second
)

type Stepper interface {
	Step(ctx context.Context, s nav.State, cmd nav.Command, size nav.Size) (nav.State, nav.Effect, error)
}

type StepSuccessMsg struct {
	State    nav.State
	Effect   nav.Effect
	Action   nav.Action
	Duration time.Duration
}

type StepErrorMsg struct {
	Err      error
	Action   nav.Action
	Duration time.Duration
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// StepCmd runs one engine transition off the UI goroutine.
func StepCmd(stepper Stepper, s nav.State, cmd nav.Command, size nav.Size) tea.Cmd {
	return func() tea.Msg {
		timeout := stepTimeout
		if cmd.Action == nav.ActionComments {
			timeout = commentsTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		next, effect, err := stepper.Step(ctx, s, cmd, size)
		if err != nil {
			return StepErrorMsg{Err: err, Action: cmd.Action, Duration: time.Since(start)}
		}
		return StepSuccessMsg{State: next, Effect: effect, Action: cmd.Action, Duration: time.Since(start)}
	}
}

// OpenURLCmd tries the browser first and falls back to the clipboard.
func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened " + url, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open %s or copy it to clipboard", url)}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Copied " + url}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard, it is %s", url)}
	}
}
