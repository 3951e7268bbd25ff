package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
	"github.com/glabrego/hn-cli/internal/tui/view"
)

func cacheClearCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-clear",
		Short: "Drop every cached API response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStrictSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.ClearCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Cache cleared")
			return nil
		},
	}
}

func cachePruneCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-prune",
		Short: "Remove expired responses from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStrictSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.service.PurgeCache(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out(cmd), "Nothing to prune.")
				return nil
			}
			fmt.Fprintf(out(cmd), "Pruned %d expired response(s).\n", n)
			return nil
		},
	}
}

func cacheStatsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStrictSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			th := tuitheme.ByName(s.cfg.ColorTheme)
			fmt.Fprintln(out(cmd), view.CacheStats(s.env.CachePath, stats.Entries, stats.Expired, stats.Bytes, th))
			return nil
		},
	}
}

// openStrictSession is openSession for commands that operate on the cache
// itself and so cannot run without it.
func openStrictSession(cmd *cobra.Command, f *flags) (*session, error) {
	s, err := openSession(cmd.Context(), f)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		s.Close()
		return nil, fmt.Errorf("response cache at %s is unavailable, see the log at %s", s.env.CachePath, s.env.LogPath)
	}
	return s, nil
}
