package actions

import (
	"errors"
	"fmt"
	"slices"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// InitOptions contains options for the init command
type InitOptions struct {
	Trunk string
	// Reset replaces an existing or corrupt store.
	Reset bool
}

// InitAction creates the branch store with a trunk.
func InitAction(ctx *runtime.Context, opts InitOptions) error {
	existing, err := engine.Load(ctx.StorePath)
	if err != nil && !(opts.Reset && errors.Is(err, sterrors.ErrStoreCorrupt)) {
		return err
	}
	if existing != nil && !opts.Reset {
		return fmt.Errorf("st is already initialized with trunk %s; use --reset to start over", existing.TrunkName)
	}

	branches, err := ctx.Repo.BranchNames(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	trunk := opts.Trunk
	if trunk == "" {
		if len(branches) == 0 {
			return fmt.Errorf("the repository has no branches yet; commit something first")
		}
		def := branches[0]
		if current, err := ctx.Repo.CurrentBranch(ctx.Context); err == nil {
			def = current
		}
		trunk, err = ctx.Prompter.Select("Select the trunk branch", branches, def)
		if err != nil {
			return err
		}
	}
	if !slices.Contains(branches, trunk) {
		return sterrors.NewBranchNotFoundError(trunk)
	}

	ctx.InitStore(trunk)
	if err := ctx.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Initialized st with trunk %s.", output.ColorBranchName(trunk, false))
	return nil
}
