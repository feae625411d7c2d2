package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		trunk string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize st in the current repository",
		Long: `Initialize st in the current repository by choosing the trunk branch.

The branch store lives in the git directory and is shared by every worktree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.context(cmd)
			if err != nil {
				return err
			}
			return actions.InitAction(ctx, actions.InitOptions{Trunk: trunk, Reset: reset})
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The name of your trunk branch.")
	cmd.Flags().BoolVar(&reset, "reset", false, "Untrack every branch and start over, even if the store is corrupt.")

	return cmd
}
