package actions

import (
	"errors"
	"strings"

	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// LogOptions contains options for the log command
type LogOptions struct {
	// Reverse prints the trunk at the top.
	Reverse bool
	// Stack limits the output to the current branch's stack.
	Stack bool
}

// LogAction draws the tracked tree with pull request numbers and restack
// markers.
func LogAction(ctx *runtime.Context, opts LogOptions) error {
	store := ctx.Store
	current, err := ctx.Repo.CurrentBranch(ctx.Context)
	if err != nil && !errors.Is(err, sterrors.ErrNotOnBranch) {
		return err
	}

	renderer := output.NewStackTreeRenderer(current, store)
	restacker := ctx.Restacker()
	for _, name := range store.BranchNames() {
		var annotation output.BranchAnnotation
		if b := store.Get(name); b.Remote != nil {
			annotation.PRNumber = b.Remote.PRNumber
		}
		stale, err := restacker.NeedsRestack(ctx.Context, name)
		if err != nil {
			return err
		}
		annotation.NeedsRestack = stale
		renderer.SetAnnotation(name, annotation)
	}

	root := store.TrunkName
	if opts.Stack && store.IsTracked(current) {
		root = current
	}
	lines := renderer.RenderStack(root, output.TreeRenderOptions{Reverse: opts.Reverse})
	ctx.Splog.Page(strings.Join(lines, "\n") + "\n")
	return nil
}
