package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sterrors "st.dev/st/internal/errors"
)

// ErrStaleRemoteInfo indicates that a push failed because the remote has changed
var ErrStaleRemoteInfo = errors.New("stale info")

// Push pushes branch to remote and sets it as upstream. With force the
// remote branch is overwritten. Otherwise a branch that already exists on
// the remote is pushed with --force-with-lease, so a restacked branch can be
// updated without clobbering commits someone else pushed.
func (r *Repository) Push(ctx context.Context, branch, remote string, force bool) error {
	args := []string{"push", "--quiet", "-u", remote}
	switch {
	case force:
		args = append(args, "--force")
	case r.hasRemoteBranch(remote, branch):
		args = append(args, "--force-with-lease")
	}
	args = append(args, branch)

	_, err := r.runner.Run(ctx, args...)
	if err == nil {
		return nil
	}

	var cmdErr *sterrors.GitCommandError
	if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "stale info") {
		return fmt.Errorf("force-with-lease push of %s failed due to external changes to the remote branch, use --force to overwrite them: %w", branch, ErrStaleRemoteInfo)
	}
	return fmt.Errorf("failed to push branch %s: %w", branch, err)
}
