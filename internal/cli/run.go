package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/runtime"
)

// run builds a runtime.Context with the store loaded and calls fn.
func (a *app) run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := a.context(cmd)
	if err != nil {
		return err
	}
	if err := ctx.LoadStore(); err != nil {
		return err
	}
	return fn(ctx)
}

// context builds a runtime.Context without loading the store.
func (a *app) context(cmd *cobra.Command) (*runtime.Context, error) {
	return a.newContext(cmd.Context(), a.loaded.Config, a.splog)
}

// completeTrackedBranches completes the names of tracked branches.
func (a *app) completeTrackedBranches(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if a.loaded == nil {
		if err := a.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	ctx, err := a.context(cmd)
	if err != nil || ctx.LoadStore() != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return ctx.Store.BranchNames(), cobra.ShellCompDirectiveNoFileComp
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
