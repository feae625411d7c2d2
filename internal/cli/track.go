package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newTrackCmd(a *app) *cobra.Command {
	var (
		parent string
		rebase bool
	)

	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Start tracking a branch by selecting its parent",
		Long: `Start tracking the current (or provided) branch by selecting its parent.

The branch is recorded as based on the parent's current tip. Use --rebase to
rebase it onto the parent first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.TrackAction(ctx, actions.TrackOptions{
					BranchName: argOrEmpty(args),
					Parent:     parent,
					Rebase:     rebase,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The tracked branch's parent. Must be a tracked branch.")
	cmd.Flags().BoolVar(&rebase, "rebase", false, "Rebase the branch onto its parent after tracking it.")
	_ = cmd.RegisterFlagCompletionFunc("parent", a.completeTrackedBranches)

	return cmd
}
