package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/hn-cli/internal/layout"
	"github.com/glabrego/hn-cli/internal/nav"
	"github.com/glabrego/hn-cli/internal/tui/actions"
	"github.com/glabrego/hn-cli/internal/tui/platform"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
	"github.com/glabrego/hn-cli/internal/tui/view"
)

const statusTimeout = 4 * time.Second

type Engine interface {
	actions.Stepper
	Start(ctx context.Context, origin nav.Origin, size nav.Size) (nav.State, error)
	PageSize(size nav.Size) int
}

type Options struct {
	Theme tuitheme.Theme
	// OpenLinks sends "o" to the browser; when false the link is copied
	// and shown instead.
	OpenLinks bool
	Logger    zerolog.Logger

	OpenURLFn func(string) error
	CopyURLFn func(string) error
	NowFn     func() time.Time
}

type clearStatusMsg struct {
	id int
}

type searchSuccessMsg struct {
	state    nav.State
	duration time.Duration
}

type searchErrorMsg struct {
	err error
}

type Model struct {
	engine    Engine
	state     nav.State
	digits    nav.Digits
	size      nav.Size
	loading   bool
	status    string
	statusID  int
	err       error
	errHint   string
	showHelp  bool
	searching bool
	// returnTo is the listing a search was started from.
	returnTo nav.State

	search    textinput.Model
	spinner   spinner.Model
	theme     tuitheme.Theme
	openLinks bool
	logger    zerolog.Logger
	openURLFn func(string) error
	copyURLFn func(string) error
	nowFn     func() time.Time
}

// NewModel wraps an already started session.
func NewModel(engine Engine, initial nav.State, size nav.Size, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = opts.Theme.StateLoad

	in := textinput.New()
	in.Placeholder = "search stories"
	in.Prompt = "/ "
	in.CharLimit = 120

	m := Model{
		engine:    engine,
		state:     initial,
		size:      size,
		search:    in,
		spinner:   sp,
		theme:     opts.Theme,
		openLinks: opts.OpenLinks,
		logger:    opts.Logger,
		openURLFn: opts.OpenURLFn,
		copyURLFn: opts.CopyURLFn,
		nowFn:     opts.NowFn,
	}
	if m.openURLFn == nil {
		m.openURLFn = platform.OpenURLInBrowser
	}
	if m.copyURLFn == nil {
		m.copyURLFn = platform.CopyURLToClipboard
	}
	if m.nowFn == nil {
		m.nowFn = time.Now
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// State is the screen currently shown.
func (m Model) State() nav.State {
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = nav.Size{Rows: msg.Height, Cols: msg.Width}
		return m.syncPageSize()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case actions.StepSuccessMsg:
		m.loading = false
		m.logger.Debug().Str("view", msg.State.View().String()).Dur("took", msg.Duration).Msg("step done")
		return m.apply(msg.State, msg.Effect)
	case actions.StepErrorMsg:
		m.loading = false
		m.err, m.errHint = msg.Err, view.RetryHint(m.state.View(), msg.Err)
		m.logger.Warn().Err(msg.Err).Int("action", int(msg.Action)).Msg("step failed")
		return m, nil
	case searchSuccessMsg:
		m.loading = false
		m.logger.Debug().Dur("took", msg.duration).Msg("search done")
		return m.apply(msg.state, nav.Effect{})
	case searchErrorMsg:
		m.loading = false
		// A failed search from the results keeps the way back to the listing.
		if _, ok := m.state.(nav.Search); !ok {
			m.returnTo = nil
		}
		m.err, m.errHint = msg.err, view.SearchRetryHint(msg.err)
		m.logger.Warn().Err(msg.err).Msg("search failed")
		return m, nil
	case actions.OpenURLSuccessMsg:
		next, cmd := m.withStatus(msg.Status)
		return next, cmd
	case actions.OpenURLErrorMsg:
		m.err, m.errHint = msg.Err, ""
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.loading {
		// Only quitting is allowed while a fetch is in flight.
		if key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.showHelp {
		switch key {
		case "?", "esc":
			m.showHelp = false
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	_, paged := nav.PageOf(m.state)
	if paged && m.digits.Pending() == "" {
		switch key {
		case "?":
			m.showHelp = true
			return m, nil
		case "/":
			m.searching = true
			m.search.SetValue("")
			return m, m.search.Focus()
		case "esc":
			if _, ok := m.state.(nav.Search); ok && m.returnTo != nil {
				m.state, m.returnTo = m.returnTo, nil
				m.err = nil
				return m.syncPageSize()
			}
		}
	}
	if _, ok := m.state.(nav.Story); ok && key == "?" {
		m.showHelp = true
		return m, nil
	}

	cmd := nav.Resolve(m.state, &m.digits, key)
	if cmd.Action == nav.ActionNone {
		return m, nil
	}
	return m.run(cmd)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		query := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		if query == "" {
			return m, nil
		}
		if _, ok := m.state.(nav.List); ok {
			m.returnTo = m.state
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(searchCmd(m.engine, query, m.size), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// run executes a command. Commands that may reach the network run
// asynchronously; the rest are applied in place.
func (m Model) run(cmd nav.Command) (tea.Model, tea.Cmd) {
	m.err = nil
	if cmd.Fetches() {
		m.loading = true
		return m, tea.Batch(actions.StepCmd(m.engine, m.state, cmd, m.size), m.spinner.Tick)
	}
	next, effect, err := m.engine.Step(context.Background(), m.state, cmd, m.size)
	if err != nil {
		m.err, m.errHint = err, view.RetryHint(m.state.View(), err)
		return m, nil
	}
	return m.apply(next, effect)
}

func (m Model) apply(next nav.State, effect nav.Effect) (tea.Model, tea.Cmd) {
	if next != nil {
		m.state = next
	}
	var cmds []tea.Cmd
	switch effect.Kind {
	case nav.EffectQuit:
		return m, tea.Quit
	case nav.EffectOpenURL:
		if m.openLinks {
			cmds = append(cmds, actions.OpenURLCmd(effect.URL, m.openURLFn, m.copyURLFn))
		} else {
			cmds = append(cmds, actions.CopyURLCmd(effect.URL, m.copyURLFn))
		}
	case nav.EffectCopyURL:
		cmds = append(cmds, actions.CopyURLCmd(effect.URL, m.copyURLFn))
	}
	if effect.Notice != "" {
		var statusCmd tea.Cmd
		m, statusCmd = m.withStatus(effect.Notice)
		cmds = append(cmds, statusCmd)
	}
	model, syncCmd := m.syncPageSize()
	return model, tea.Batch(append(cmds, syncCmd)...)
}

// syncPageSize refetches the shown listing when the terminal no longer
// fits its page size.
func (m Model) syncPageSize() (tea.Model, tea.Cmd) {
	if m.loading || m.size.Rows <= 0 {
		return m, nil
	}
	page, ok := nav.PageOf(m.state)
	if !ok || page.PageSize == m.engine.PageSize(m.size) {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(actions.StepCmd(m.engine, m.state, nav.Command{Action: nav.ActionResize}, m.size), m.spinner.Tick)
}

func (m Model) withStatus(status string) (Model, tea.Cmd) {
	m.statusID++
	m.status = status
	return m, clearStatusCmd(m.statusID, statusTimeout)
}

func (m Model) View() string {
	if _, done := m.state.(nav.Terminal); done || m.state == nil {
		return ""
	}
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Title.Render("Hacker News"))
	b.WriteString(" ")
	b.WriteString(th.ModePill.Render(m.screenTitle()))
	b.WriteString("\n")
	b.WriteString(th.MetaLabel.Render(view.Toolbar(m.state.View()) + " | ? help"))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(helpView())
		b.WriteString("\n")
	default:
		b.WriteString(m.body())
	}

	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if pending := view.PendingInput(m.digits.Pending(), th); pending != "" {
		b.WriteString(pending)
		b.WriteString("\n")
	}
	b.WriteString(view.StatusLine(m.loading, m.spinner.View(), m.status, m.err, m.errHint, th))
	b.WriteString("\n")
	b.WriteString(view.Footer(m.state, th))
	b.WriteString("\n")
	return b.String()
}

func (m Model) body() string {
	now := m.nowFn()
	switch s := m.state.(type) {
	case nav.List:
		return view.RenderListBody(view.ListRenderInput{Items: s.Page.Items, FirstOrdinal: 1, Active: -1, Now: now, Width: m.cols()}, m.theme)
	case nav.Search:
		return view.RenderListBody(view.ListRenderInput{Items: s.Page.Items, FirstOrdinal: 1, Active: -1, Now: now, Width: m.cols()}, m.theme)
	case nav.Story:
		return view.RenderStory(view.StoryRenderInput{
			Item:     s.Item,
			Comments: s.Comments,
			Rows:     s.Rows,
			Scroll:   s.Scroll,
			Now:      now,
			Cols:     m.cols(),
			BodyRows: layout.BodyRows(m.size.Rows),
		}, m.theme)
	default:
		return ""
	}
}

func (m Model) screenTitle() string {
	switch s := m.state.(type) {
	case nav.List:
		return view.ListTitle(s.Kind)
	case nav.Search:
		return view.SearchTitle(s.Query)
	case nav.Story:
		return fmt.Sprintf("Story %d", s.Item.ID)
	default:
		return ""
	}
}

func (m Model) cols() int {
	if m.size.Cols <= 0 {
		return 80
	}
	return m.size.Cols
}

func helpView() string {
	lines := []string{
		"Lists:",
		"  1-9 open the story with that number, type several digits for larger numbers",
		"  n/p next and previous page, r refresh, / search",
		"Story:",
		"  c load comments, j/k scroll, space/pgup page, o open link, y copy link",
		"  b or esc back to the list",
		"Anywhere:",
		"  ? toggle help, q quit",
	}
	return strings.Join(lines, "\n")
}

func searchCmd(engine Engine, query string, size nav.Size) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		start := time.Now()

		state, err := engine.Start(ctx, nav.Origin{Query: query}, size)
		if err != nil {
			return searchErrorMsg{err: err}
		}
		return searchSuccessMsg{state: state, duration: time.Since(start)}
	}
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}
