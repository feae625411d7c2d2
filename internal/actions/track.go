package actions

import (
	"fmt"

	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// TrackOptions contains options for the track command
type TrackOptions struct {
	BranchName string
	Parent     string
	// Rebase rebases the branch onto its parent after tracking it.
	Rebase bool
}

// TrackAction starts tracking an existing branch under a tracked parent.
func TrackAction(ctx *runtime.Context, opts TrackOptions) error {
	store := ctx.Store
	branchName, err := branchOrCurrent(ctx, opts.BranchName)
	if err != nil {
		return err
	}

	if store.IsTracked(branchName) {
		return sterrors.NewBranchAlreadyTrackedError(branchName)
	}
	exists, err := ctx.Repo.BranchExists(ctx.Context, branchName)
	if err != nil {
		return err
	}
	if !exists {
		return sterrors.NewBranchNotFoundError(branchName)
	}

	parent := opts.Parent
	if parent == "" {
		parent, err = ctx.Prompter.Select(fmt.Sprintf("Select a parent for %s", branchName), store.BranchNames(), store.TrunkName)
		if err != nil {
			return err
		}
	}
	if !store.IsTracked(parent) {
		return sterrors.NewParentNotTrackedError(parent)
	}

	if opts.Rebase {
		// an unknown cache makes the restack replay onto the parent's tip
		if err := store.Insert(parent, branchName, ""); err != nil {
			return err
		}
		if _, err := ctx.Restacker().Restack(ctx.Context, []string{parent, branchName}); err != nil {
			return err
		}
	} else {
		parentTip, err := ctx.Repo.RevParse(ctx.Context, parent)
		if err != nil {
			return err
		}
		if err := store.Insert(parent, branchName, parentTip); err != nil {
			return err
		}
	}

	if err := ctx.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Tracked %s on top of %s.", output.ColorBranchName(branchName, false), output.ColorBranchName(parent, false))
	return nil
}
