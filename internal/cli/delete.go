package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a branch and untrack it (local-only)",
		Long: `Delete a branch and untrack it (local-only).

Children move onto the deleted branch's parent and need a restack. This
command does not close the branch's pull request.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeTrackedBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.DeleteAction(ctx, actions.DeleteOptions{
					BranchName: argOrEmpty(args),
					Force:      force,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking for confirmation.")

	return cmd
}
