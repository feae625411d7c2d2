package actions

import (
	"st.dev/st/internal/runtime"
)

// branchOrCurrent returns name, or the checked out branch when name is empty.
func branchOrCurrent(ctx *runtime.Context, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	return ctx.Repo.CurrentBranch(ctx.Context)
}
