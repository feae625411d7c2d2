package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		reverse bool
		stack   bool
	)

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"l"},
		Short:   "Log all tracked branches as a tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.LogAction(ctx, actions.LogOptions{Reverse: reverse, Stack: stack})
			})
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Print the trunk at the top.")
	cmd.Flags().BoolVarP(&stack, "stack", "s", false, "Only show the current branch and what is stacked on it.")

	return cmd
}
