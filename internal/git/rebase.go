package git

import (
	"context"
	"errors"
	"fmt"

	sterrors "st.dev/st/internal/errors"
)

// Rebase replays branch onto the tip of onto. When upstream is set only the
// commits after it are replayed (git rebase --onto), which drops commits the
// parent rewrote. On conflict the rebase is left in progress for the user to
// resolve and a RebaseConflictError is returned.
func (r *Repository) Rebase(ctx context.Context, branch, onto, upstream string) error {
	args := []string{"rebase"}
	if upstream != "" {
		args = append(args, "--onto", onto, upstream, branch)
	} else {
		args = append(args, onto, branch)
	}

	_, err := r.runner.Run(ctx, args...)
	if err == nil {
		return nil
	}

	if r.IsRebaseInProgress(ctx) {
		var cmdErr *sterrors.GitCommandError
		msg := ""
		if errors.As(err, &cmdErr) {
			msg = firstLine(cmdErr.Stdout)
		}
		return sterrors.NewRebaseConflictError(branch, msg)
	}
	return fmt.Errorf("failed to rebase %s onto %s: %w", branch, onto, err)
}
