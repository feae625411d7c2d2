package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create [name]",
		Aliases: []string{"c"},
		Short:   "Create a new branch stacked on top of the current branch",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.CreateAction(ctx, actions.CreateOptions{BranchName: argOrEmpty(args)})
			})
		},
	}
	return cmd
}
