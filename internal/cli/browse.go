package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
	"github.com/glabrego/hn-cli/internal/nav"
	"github.com/glabrego/hn-cli/internal/tui"
	"github.com/glabrego/hn-cli/internal/tui/platform"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
	"github.com/glabrego/hn-cli/internal/tui/view"
)

func listingCmd(f *flags, kind hackernews.ListKind) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Browse %s stories", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return browse(cmd, f, nav.Origin{Kind: kind})
		},
	}
}

func searchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search recent top, new and best stories by title and text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("search query is empty")
			}
			return browse(cmd, f, nav.Origin{Query: query})
		},
	}
}

func storyCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story <id>",
		Short: "Show a story with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return browse(cmd, f, nav.Origin{StoryID: id, WithComments: true})
		},
	}
	cmd.Flags().IntVarP(&f.comments, "comments", "c", 0, "number of top-level comments to load (0 for all)")
	return cmd
}

func userCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "user <name>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()
			user, err := s.service.FetchUser(ctx, args[0])
			if err != nil {
				return err
			}

			th := tuitheme.ByName(s.cfg.ColorTheme)
			fmt.Fprint(out(cmd), view.Profile(user, time.Now(), terminalSize().Cols, th))
			return openOrPrint(cmd, s.cfg.OpenLinksInBrowser, user.ProfileURL())
		},
	}
}

func openCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a story's discussion page in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := loadSettings(f)
			if err != nil {
				return err
			}
			defer st.Close()
			return openOrPrint(cmd, st.cfg.OpenLinksInBrowser, hackernews.ItemURL(id))
		},
	}
}

// browse loads the first screen and hands the terminal to the
// interactive view. A failed first fetch ends the command with an error.
func browse(cmd *cobra.Command, f *flags, origin nav.Origin) error {
	if f.limit < 0 {
		return fmt.Errorf("--limit must be positive, got %d", f.limit)
	}
	s, err := openSession(cmd.Context(), f)
	if err != nil {
		return err
	}
	defer s.Close()

	ceiling := s.cfg.StoriesPerPage
	if f.limit > 0 {
		ceiling = f.limit
	}
	assembler := comments.NewAssembler(s.service, s.logger)
	assembler.TopLevelLimit = f.comments
	engine := nav.NewEngine(s.service, assembler, layout.Calculator{Ceiling: ceiling}, s.cfg.MaxCommentDepth)

	size := terminalSize()
	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	initial, err := engine.Start(ctx, origin, size)
	cancel()
	if err != nil {
		s.logger.Error().Err(err).Msg("initial fetch failed")
		return fmt.Errorf("load first screen: %w", err)
	}
	s.logger.Info().Str("view", initial.View().String()).Int("page_ceiling", ceiling).Msg("session started")

	model := tui.NewModel(engine, initial, size, tui.Options{
		Theme:     tuitheme.ByName(s.cfg.ColorTheme),
		OpenLinks: s.cfg.OpenLinksInBrowser,
		Logger:    s.logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func openOrPrint(cmd *cobra.Command, openLinks bool, url string) error {
	if openLinks {
		if err := platform.OpenURLInBrowser(url); err == nil {
			fmt.Fprintf(out(cmd), "Opened %s\n", url)
			return nil
		}
	}
	fmt.Fprintln(out(cmd), url)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
