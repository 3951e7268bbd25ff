package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glabrego/hn-cli/internal/config"
	"github.com/glabrego/hn-cli/internal/layout"
	tuitheme "github.com/glabrego/hn-cli/internal/tui/theme"
	"github.com/glabrego/hn-cli/internal/tui/view"
)

func configGetCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config-get [key]",
		Short: "Show configuration settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(f)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				value, err := st.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "%s: %s\n", args[0], value)
				return nil
			}

			rows := make([][2]string, 0, len(config.Keys)+2)
			for _, key := range config.Keys {
				value, _ := st.cfg.Get(key)
				rows = append(rows, [2]string{key, value})
			}
			size := terminalSize()
			perPage := layout.Calculator{Ceiling: st.cfg.StoriesPerPage}.PageSize(size.Rows, size.Cols, layout.ReservedListRows)
			rows = append(rows,
				[2]string{"terminal size", fmt.Sprintf("%dx%d", size.Cols, size.Rows)},
				[2]string{"current stories per page", strconv.Itoa(perPage)},
			)
			th := tuitheme.ByName(st.cfg.ColorTheme)
			fmt.Fprintln(out(cmd), view.KeyValueTable([2]string{"Setting", "Value"}, rows, th))
			fmt.Fprintf(out(cmd), "config file: %s\n", st.store.Path())
			return nil
		},
	}
}

func configSetCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config-set <key> <value>",
		Short: "Update a configuration setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(f)
			if err != nil {
				return err
			}
			defer st.Close()

			cfg, err := st.store.Set(args[0], args[1])
			if err != nil {
				return err
			}
			value, _ := cfg.Get(args[0])
			st.logger.Info().Str("key", args[0]).Str("value", value).Msg("config updated")
			fmt.Fprintf(out(cmd), "Updated %s to %s\n", args[0], value)
			return nil
		},
	}
}

func configResetCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config-reset",
		Short: "Reset configuration to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := loadSettings(f)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Configuration reset to defaults")
			return nil
		},
	}
}
