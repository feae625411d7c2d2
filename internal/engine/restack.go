package engine

import (
	"context"
	"errors"
	"fmt"

	sterrors "st.dev/st/internal/errors"
)

// RestackReport lists what a restack pass did before it returned.
type RestackReport struct {
	Restacked []string
	Skipped   []string
}

// Restacker rebases stale branches onto their parents.
type Restacker struct {
	Store *Store
	Repo  Repository
	Log   Logger
}

// NewRestacker creates a Restacker. A nil logger discards messages.
func NewRestacker(store *Store, repo Repository, log Logger) *Restacker {
	if log == nil {
		log = nopLogger{}
	}
	return &Restacker{Store: store, Repo: repo, Log: log}
}

// NeedsRestack reports whether branch no longer sits on its parent's tip.
// The trunk never needs a restack. Any other branch does when its cached
// parent oid is unknown, differs from the parent's current tip, or when the
// parent itself needs a restack.
func (r *Restacker) NeedsRestack(ctx context.Context, branch string) (bool, error) {
	b := r.Store.Get(branch)
	if b == nil {
		return false, sterrors.NewBranchNotTrackedError(branch)
	}
	if r.Store.IsTrunk(branch) {
		return false, nil
	}
	if b.ParentOIDCache == "" {
		return true, nil
	}

	parentTip, err := r.Repo.RevParse(ctx, b.Parent)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b.Parent, err)
	}
	if parentTip != b.ParentOIDCache {
		return true, nil
	}
	return r.NeedsRestack(ctx, b.Parent)
}

// FirstStale returns the first branch of stack that needs a restack, or "".
func (r *Restacker) FirstStale(ctx context.Context, stack []string) (string, error) {
	for _, branch := range stack {
		stale, err := r.NeedsRestack(ctx, branch)
		if err != nil {
			return "", err
		}
		if stale {
			return branch, nil
		}
	}
	return "", nil
}

// Restack walks stack from the first branch above the trunk and rebases
// every stale branch onto its parent. It stops at the first conflict and
// returns a RebaseConflictError naming the branch; branches rebased before
// it keep their new history and cache. After each successful rebase the
// branch's parent oid cache is set to the parent's new tip. When every
// branch succeeds the originally checked out branch is checked out again.
func (r *Restacker) Restack(ctx context.Context, stack []string) (RestackReport, error) {
	var report RestackReport

	original, err := r.Repo.CurrentBranch(ctx)
	if err != nil && !errors.Is(err, sterrors.ErrNotOnBranch) {
		return report, fmt.Errorf("failed to get current branch: %w", err)
	}

	for i := 1; i < len(stack); i++ {
		branch := stack[i]
		b := r.Store.Get(branch)
		if b == nil {
			return report, sterrors.NewBranchNotTrackedError(branch)
		}

		stale, err := r.NeedsRestack(ctx, branch)
		if err != nil {
			return report, err
		}
		if !stale {
			r.Log.Info("Branch `%s` does not need to be restacked onto `%s`.", branch, b.Parent)
			report.Skipped = append(report.Skipped, branch)
			continue
		}

		r.Log.Debug("rebasing %s onto %s (upstream %q)", branch, b.Parent, b.ParentOIDCache)
		if err := r.Repo.Rebase(ctx, branch, b.Parent, b.ParentOIDCache); err != nil {
			if errors.Is(err, sterrors.ErrRebaseConflict) {
				return report, sterrors.NewRebaseConflictError(branch, "")
			}
			return report, fmt.Errorf("failed to restack %s: %w", branch, err)
		}

		parentTip, err := r.Repo.RevParse(ctx, b.Parent)
		if err != nil {
			return report, fmt.Errorf("failed to resolve %s: %w", b.Parent, err)
		}
		if err := r.Store.SetParentOIDCache(branch, parentTip); err != nil {
			return report, err
		}

		r.Log.Info("Restacked branch `%s` onto `%s`.", branch, b.Parent)
		report.Restacked = append(report.Restacked, branch)
	}

	if original != "" {
		current, err := r.Repo.CurrentBranch(ctx)
		if err != nil || current != original {
			if err := r.Repo.Checkout(ctx, original); err != nil {
				return report, fmt.Errorf("failed to check out %s: %w", original, err)
			}
		}
	}
	return report, nil
}
