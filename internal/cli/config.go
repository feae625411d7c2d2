package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration.

Settings come from the config file and from ST_* environment variables,
e.g. ST_SUBMIT_DRAFT=true.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return actions.ConfigShowAction(a.splog, a.loaded)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting to the config file",
		Long: `Write a setting to the config file.

Known keys: ` + strings.Join(config.Keys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(_ *cobra.Command, args []string) error {
			return actions.ConfigSetAction(a.splog, a.configPath, args[0], args[1])
		},
	}

	cmd.AddCommand(setCmd)
	return cmd
}
