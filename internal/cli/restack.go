package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newRestackCmd(a *app) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "restack",
		Short: "Rebase every branch of the current stack onto its parent",
		Long: `Rebase every stale branch of the current stack onto its parent, trunk first.

If a rebase conflicts, resolve it with git and run st restack again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.RestackAction(ctx, actions.RestackOptions{BranchName: branch})
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Restack the stack containing this branch instead of the current one.")
	_ = cmd.RegisterFlagCompletionFunc("branch", a.completeTrackedBranches)

	return cmd
}
