package actions

import (
	"fmt"
	"strings"

	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
	"st.dev/st/internal/utils"
)

// CreateOptions contains options for the create command
type CreateOptions struct {
	BranchName string
}

// CreateAction creates a branch at HEAD on top of the current branch and
// checks it out.
func CreateAction(ctx *runtime.Context, opts CreateOptions) error {
	store := ctx.Store
	parent, err := ctx.Repo.CurrentBranch(ctx.Context)
	if err != nil {
		return err
	}
	if !store.IsTracked(parent) {
		return sterrors.NewBranchNotTrackedError(parent)
	}

	name := opts.BranchName
	if strings.TrimSpace(name) == "" {
		if name, err = ctx.Prompter.Text("Branch name:", ""); err != nil {
			return err
		}
	}
	name = utils.SanitizeBranchName(name)
	if name == "" {
		return fmt.Errorf("branch name is required")
	}

	exists, err := ctx.Repo.BranchExists(ctx.Context, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("branch %s already exists", name)
	}

	parentTip, err := ctx.Repo.RevParse(ctx.Context, parent)
	if err != nil {
		return err
	}
	if err := ctx.Repo.CreateBranch(ctx.Context, name); err != nil {
		return err
	}
	if err := ctx.Repo.Checkout(ctx.Context, name); err != nil {
		return err
	}
	if err := store.Insert(parent, name, parentTip); err != nil {
		return err
	}

	if err := ctx.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Created %s on top of %s.", output.ColorBranchName(name, true), output.ColorBranchName(parent, false))
	return nil
}
