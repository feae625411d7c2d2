package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var trunk bool

	cmd := &cobra.Command{
		Use:               "checkout [branch]",
		Aliases:           []string{"co"},
		Short:             "Switch to a branch, choosing from tracked branches when none is given",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeTrackedBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.CheckoutAction(ctx, actions.CheckoutOptions{
					BranchName: argOrEmpty(args),
					Trunk:      trunk,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&trunk, "trunk", "t", false, "Check out the trunk.")

	return cmd
}
