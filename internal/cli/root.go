// Package cli defines the hn command tree and wires the browsing engine
// to its collaborators.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/config"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/logging"
	"github.com/glabrego/hn-cli/internal/nav"
	"github.com/glabrego/hn-cli/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
)

const (
	initTimeout  = 5 * time.Second
	fetchTimeout = 30 * time.Second
)

// SetVersionInfo is called from main with values injected at build time.
func SetVersionInfo(v, c string) {
	version = v
	commit = c
}

type flags struct {
	configPath string
	limit      int
	comments   int
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "hn",
		Short:         "Browse Hacker News from the terminal",
		Long:          "hn browses Hacker News stories, comments and profiles in an interactive terminal view, caching API responses locally.",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return browse(cmd, f, nav.Origin{Kind: hackernews.ListTop})
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/hncli/config.yaml)")
	root.PersistentFlags().IntVar(&f.limit, "limit", 0, "override the stories-per-page ceiling for this run")

	for _, kind := range hackernews.ListKinds {
		root.AddCommand(listingCmd(f, kind))
	}
	root.AddCommand(
		searchCmd(f),
		storyCmd(f),
		userCmd(f),
		openCmd(f),
		configGetCmd(f),
		configSetCmd(f),
		configResetCmd(f),
		cacheClearCmd(f),
		cachePruneCmd(f),
		cacheStatsCmd(f),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hn %s (commit: %s)\n", version, commit)
		},
	}
}

// settings is the environment, user config and logger every command
// starts from.
type settings struct {
	env      config.Env
	store    *config.Store
	cfg      config.Config
	logger   zerolog.Logger
	closeLog func() error
}

func loadSettings(f *flags) (*settings, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if f.configPath != "" {
		env.ConfigPath = f.configPath
	}

	logger, closeLog := logging.New(logging.Config{Level: env.LogLevel, Output: env.LogPath})
	store := config.NewStore(env.ConfigPath)
	cfg, err := store.Load()
	if err != nil {
		// The session continues on defaults.
		logger.Warn().Err(err).Str("path", store.Path()).Msg("using default configuration")
	}
	return &settings{env: env, store: store, cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (s *settings) Close() {
	if err := s.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close log: %v\n", err)
	}
}

// session adds the API client and response cache to settings.
type session struct {
	*settings
	cache   *storage.Cache
	service *app.Service
}

// openSession never fails on cache problems: without a usable cache every
// request goes to the API.
func openSession(ctx context.Context, f *flags) (*session, error) {
	st, err := loadSettings(f)
	if err != nil {
		return nil, err
	}
	s := &session{settings: st}

	var cache app.Cache
	if c, err := openCache(ctx, st.env.CachePath); err != nil {
		st.logger.Warn().Err(err).Str("path", st.env.CachePath).Msg("response cache disabled")
	} else {
		s.cache = c
		cache = c
	}

	client := hackernews.NewClient(st.env.APIBaseURL, nil)
	ttl := time.Duration(st.cfg.CacheTimeoutMinutes) * time.Minute
	s.service = app.NewService(client, cache,
		app.WithTTL(func() time.Duration { return ttl }),
		app.WithLogger(st.logger),
	)
	return s, nil
}

func (s *session) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close response cache")
		}
	}
	s.settings.Close()
}

func openCache(ctx context.Context, path string) (*storage.Cache, error) {
	cache, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()
	if err := cache.Init(initCtx); err != nil {
		_ = cache.Close()
		return nil, err
	}
	return cache, nil
}

// terminalSize reports the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() nav.Size {
	cols, rows, err := term.GetSize(os.Stdout.Fd())
	if err != nil || cols <= 0 || rows <= 0 {
		return nav.Size{Rows: 24, Cols: 80}
	}
	return nav.Size{Rows: rows, Cols: cols}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
