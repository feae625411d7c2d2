package actions

import (
	"errors"
	"fmt"

	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// DeleteOptions contains options for the delete command
type DeleteOptions struct {
	BranchName string
	// Force skips the confirmation prompt.
	Force bool
}

// DeleteAction deletes a branch and untracks it. Its children move onto
// its parent.
func DeleteAction(ctx *runtime.Context, opts DeleteOptions) error {
	store := ctx.Store
	name := opts.BranchName
	if name == "" {
		var candidates []string
		for _, b := range store.BranchNames() {
			if !store.IsTrunk(b) {
				candidates = append(candidates, b)
			}
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no tracked branches to delete")
		}
		var err error
		name, err = ctx.Prompter.Select("Select a branch to delete", candidates, "")
		if err != nil {
			return err
		}
	}

	if store.IsTrunk(name) {
		return sterrors.ErrCannotDeleteTrunk
	}
	b := store.Get(name)
	if b == nil {
		return sterrors.NewBranchNotTrackedError(name)
	}
	parent := b.Parent
	children := store.Children(name)

	if !opts.Force {
		ok, err := ctx.Prompter.Confirm(fmt.Sprintf("Delete branch %s?", name), false)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Splog.Info("Aborted, %s was not deleted.", name)
			return nil
		}
	}

	// untrack first so a rejected splice leaves git untouched
	if _, err := store.Delete(name); err != nil {
		return err
	}

	current, err := ctx.Repo.CurrentBranch(ctx.Context)
	if err != nil && !errors.Is(err, sterrors.ErrNotOnBranch) {
		return err
	}
	if current == name {
		if err := ctx.Repo.Checkout(ctx.Context, store.TrunkName); err != nil {
			return err
		}
	}
	if err := ctx.Repo.DeleteBranch(ctx.Context, name); err != nil {
		return err
	}

	if err := ctx.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Deleted %s.", output.ColorBranchName(name, false))
	for _, child := range children {
		ctx.Splog.Info("Moved %s onto %s.", output.ColorBranchName(child, false), output.ColorBranchName(parent, false))
	}
	if len(children) > 0 {
		ctx.Splog.Tip("run `st restack` from each moved branch to rebase it onto %s.", parent)
	}
	return nil
}
