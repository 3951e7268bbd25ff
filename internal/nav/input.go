package nav

import "strconv"

type Action int

const (
	ActionNone Action = iota
	ActionNextPage
	ActionPrevPage
	ActionRefresh
	ActionSelect
	ActionComments
	ActionOpenLink
	ActionCopyLink
	ActionScrollDown
	ActionScrollUp
	ActionPageDown
	ActionPageUp
	ActionBack
	ActionQuit
	ActionResize
)

type Command struct {
	Action  Action
	Ordinal int
}

// Fetches reports whether running the command may call the network.
func (c Command) Fetches() bool {
	switch c.Action {
	case ActionNextPage, ActionPrevPage, ActionRefresh, ActionComments, ActionResize:
		return true
	default:
		return false
	}
}

// Digits accumulates a multi-digit story number typed on a list screen.
type Digits struct {
	buf string
}

func (d *Digits) Pending() string {
	return d.buf
}

func (d *Digits) Reset() {
	d.buf = ""
}

// Push appends one digit. The number is committed as soon as no further
// digit could still name a visible item; a number naming nothing visible
// is dropped.
func (d *Digits) Push(r rune, visible int) (int, bool) {
	next := d.buf + string(r)
	n, err := strconv.Atoi(next)
	if err != nil || n < 1 || n > visible {
		d.buf = ""
		return 0, false
	}
	if n*10 > visible {
		d.buf = ""
		return n, true
	}
	d.buf = next
	return 0, false
}

// Commit ends entry early, as on enter.
func (d *Digits) Commit(visible int) (int, bool) {
	defer d.Reset()
	if d.buf == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d.buf)
	if err != nil || n < 1 || n > visible {
		return 0, false
	}
	return n, true
}

func (d *Digits) backspace() {
	if d.buf != "" {
		d.buf = d.buf[:len(d.buf)-1]
	}
}

// Resolve maps a key, in bubbletea's key string form, to a command for the
// current state. Unknown keys resolve to ActionNone.
func Resolve(s State, digits *Digits, key string) Command {
	switch s := s.(type) {
	case List:
		return resolvePaged(s.Page.Items, digits, key)
	case Search:
		return resolvePaged(s.Page.Items, digits, key)
	case Story:
		digits.Reset()
		return resolveStory(key)
	default:
		digits.Reset()
		return Command{}
	}
}

func resolvePaged[T any](items []T, digits *Digits, key string) Command {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		if n, ok := digits.Push(rune(key[0]), len(items)); ok {
			return Command{Action: ActionSelect, Ordinal: n}
		}
		return Command{}
	}
	if digits.Pending() != "" {
		switch key {
		case "enter":
			if n, ok := digits.Commit(len(items)); ok {
				return Command{Action: ActionSelect, Ordinal: n}
			}
			return Command{}
		case "backspace":
			digits.backspace()
			return Command{}
		case "esc":
			digits.Reset()
			return Command{}
		}
		digits.Reset()
	}

	switch key {
	case "n", "right", "pgdown":
		return Command{Action: ActionNextPage}
	case "p", "left", "pgup":
		return Command{Action: ActionPrevPage}
	case "r":
		return Command{Action: ActionRefresh}
	case "q", "ctrl+c":
		return Command{Action: ActionQuit}
	default:
		return Command{}
	}
}

func resolveStory(key string) Command {
	switch key {
	case "c":
		return Command{Action: ActionComments}
	case "o":
		return Command{Action: ActionOpenLink}
	case "y":
		return Command{Action: ActionCopyLink}
	case "j", "down":
		return Command{Action: ActionScrollDown}
	case "k", "up":
		return Command{Action: ActionScrollUp}
	case "pgdown", " ":
		return Command{Action: ActionPageDown}
	case "pgup":
		return Command{Action: ActionPageUp}
	case "b", "esc", "backspace":
		return Command{Action: ActionBack}
	case "q", "ctrl+c":
		return Command{Action: ActionQuit}
	default:
		return Command{}
	}
}
