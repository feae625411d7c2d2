package actions

import (
	"st.dev/st/internal/runtime"
)

// RestackOptions contains options for the restack command
type RestackOptions struct {
	BranchName string
}

// RestackAction rebases every stale branch of the stack containing the
// branch onto its parent, trunk first. Branches restacked before a
// conflict stay restacked, and their caches are saved.
func RestackAction(ctx *runtime.Context, opts RestackOptions) error {
	branchName, err := branchOrCurrent(ctx, opts.BranchName)
	if err != nil {
		return err
	}
	stack, err := ctx.Store.DiscoverStack(branchName)
	if err != nil {
		return err
	}

	report, err := ctx.Restacker().Restack(ctx.Context, stack)
	if err != nil {
		if len(report.Restacked) > 0 {
			if saveErr := ctx.Save(); saveErr != nil {
				ctx.Splog.Debug("failed to save restack progress: %v", saveErr)
			}
		}
		return err
	}

	if err := ctx.Save(); err != nil {
		return err
	}
	if len(report.Restacked) == 0 {
		ctx.Splog.Info("Nothing to restack.")
	}
	return nil
}
