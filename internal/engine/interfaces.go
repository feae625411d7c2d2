package engine

import (
	"context"
)

// Repository is the subset of git the engines need. internal/git provides
// the real implementation.
type Repository interface {
	// CurrentBranch returns the checked out branch, or ErrNotOnBranch.
	CurrentBranch(ctx context.Context) (string, error)
	// BranchNames lists local branches.
	BranchNames(ctx context.Context) ([]string, error)
	BranchExists(ctx context.Context, name string) (bool, error)
	// RevParse returns the tip oid of a local branch, or a BranchNotFoundError.
	RevParse(ctx context.Context, name string) (string, error)
	Checkout(ctx context.Context, name string) error
	// CreateBranch creates name at HEAD without checking it out.
	CreateBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string) error
	// Rebase replays branch onto the tip of onto. upstream, when set, is the
	// old base so only commits after it are replayed. A conflict leaves the
	// rebase in progress and returns a RebaseConflictError.
	Rebase(ctx context.Context, branch, onto, upstream string) error
	IsClean(ctx context.Context) (bool, error)
	// Push publishes branch to remote. force overwrites the remote branch
	// unconditionally.
	Push(ctx context.Context, branch, remote string, force bool) error
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// Logger receives progress messages from the engines.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
