package actions

import (
	"errors"

	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// CheckoutOptions specifies options for the checkout command
type CheckoutOptions struct {
	BranchName string
	// Trunk checks out the trunk directly.
	Trunk bool
}

// CheckoutAction checks out a branch, asking for one when none is given.
func CheckoutAction(ctx *runtime.Context, opts CheckoutOptions) error {
	current, err := ctx.Repo.CurrentBranch(ctx.Context)
	if err != nil && !errors.Is(err, sterrors.ErrNotOnBranch) {
		return err
	}

	name := opts.BranchName
	switch {
	case opts.Trunk:
		name = ctx.Store.TrunkName
	case name == "":
		name, err = ctx.Prompter.Select("Checkout a branch", ctx.Store.BranchNames(), current)
		if err != nil {
			return err
		}
	}

	if name == current {
		ctx.Splog.Info("Already on %s.", output.ColorBranchName(name, true))
		return nil
	}
	if err := ctx.Repo.Checkout(ctx.Context, name); err != nil {
		return err
	}
	ctx.Splog.Info("Checked out %s.", output.ColorBranchName(name, false))
	return nil
}
