package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newInfoCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:               "info [branch]",
		Short:             "Show what st knows about a branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeTrackedBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.InfoAction(ctx, actions.InfoOptions{
					BranchName: argOrEmpty(args),
					JSON:       jsonOut,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON.")

	return cmd
}
