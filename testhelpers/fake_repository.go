package testhelpers

import (
	"context"
	"fmt"
	"sort"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
)

var _ engine.Repository = (*FakeRepository)(nil)

// PushCall records one FakeRepository.Push invocation.
type PushCall struct {
	Branch string
	Remote string
	Force  bool
}

// RebaseCall records one FakeRepository.Rebase invocation.
type RebaseCall struct {
	Branch   string
	Onto     string
	Upstream string
}

// FakeRepository is an in-memory engine.Repository. Branch tips are opaque
// strings; every rebase or commit mints a fresh one.
type FakeRepository struct {
	Tips      map[string]string
	Current   string
	Dirty     bool
	Remotes   map[string]string
	Conflicts map[string]bool
	PushErr   error

	Pushes     []PushCall
	Rebases    []RebaseCall
	Deleted    []string
	CheckedOut []string

	next int
}

// NewFakeRepository creates a repository with the given branches, each at a
// distinct tip, and current checked out.
func NewFakeRepository(current string, branches ...string) *FakeRepository {
	r := &FakeRepository{
		Tips:      make(map[string]string),
		Current:   current,
		Remotes:   map[string]string{"origin": "git@github.com:owner/repo.git"},
		Conflicts: make(map[string]bool),
	}
	for _, b := range branches {
		r.Tips[b] = r.mint()
	}
	if _, ok := r.Tips[current]; !ok && current != "" {
		r.Tips[current] = r.mint()
	}
	return r
}

func (r *FakeRepository) mint() string {
	r.next++
	return fmt.Sprintf("%040x", r.next)
}

// Commit moves branch to a new tip, as a commit on it would.
func (r *FakeRepository) Commit(branch string) string {
	r.Tips[branch] = r.mint()
	return r.Tips[branch]
}

// Tip returns the tip of branch.
func (r *FakeRepository) Tip(branch string) string {
	return r.Tips[branch]
}

func (r *FakeRepository) CurrentBranch(_ context.Context) (string, error) {
	if r.Current == "" {
		return "", sterrors.ErrNotOnBranch
	}
	return r.Current, nil
}

func (r *FakeRepository) BranchNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(r.Tips))
	for name := range r.Tips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *FakeRepository) BranchExists(_ context.Context, name string) (bool, error) {
	_, ok := r.Tips[name]
	return ok, nil
}

func (r *FakeRepository) RevParse(_ context.Context, name string) (string, error) {
	tip, ok := r.Tips[name]
	if !ok {
		return "", sterrors.NewBranchNotFoundError(name)
	}
	return tip, nil
}

func (r *FakeRepository) Checkout(_ context.Context, name string) error {
	if _, ok := r.Tips[name]; !ok {
		return sterrors.NewBranchNotFoundError(name)
	}
	r.Current = name
	r.CheckedOut = append(r.CheckedOut, name)
	return nil
}

func (r *FakeRepository) CreateBranch(_ context.Context, name string) error {
	if _, ok := r.Tips[name]; ok {
		return fmt.Errorf("branch %s already exists", name)
	}
	r.Tips[name] = r.Tips[r.Current]
	return nil
}

func (r *FakeRepository) DeleteBranch(_ context.Context, name string) error {
	if _, ok := r.Tips[name]; !ok {
		return sterrors.NewBranchNotFoundError(name)
	}
	if name == r.Current {
		return fmt.Errorf("cannot delete checked out branch %s", name)
	}
	delete(r.Tips, name)
	r.Deleted = append(r.Deleted, name)
	return nil
}

func (r *FakeRepository) Rebase(_ context.Context, branch, onto, upstream string) error {
	r.Rebases = append(r.Rebases, RebaseCall{Branch: branch, Onto: onto, Upstream: upstream})
	r.Current = branch
	if r.Conflicts[branch] {
		return sterrors.NewRebaseConflictError(branch, "")
	}
	r.Tips[branch] = r.mint()
	return nil
}

func (r *FakeRepository) IsClean(_ context.Context) (bool, error) {
	return !r.Dirty, nil
}

func (r *FakeRepository) Push(_ context.Context, branch, remote string, force bool) error {
	if r.PushErr != nil {
		return r.PushErr
	}
	r.Pushes = append(r.Pushes, PushCall{Branch: branch, Remote: remote, Force: force})
	return nil
}

func (r *FakeRepository) RemoteURL(_ context.Context, remote string) (string, error) {
	url, ok := r.Remotes[remote]
	if !ok {
		return "", fmt.Errorf("remote %s not found", remote)
	}
	return url, nil
}

// PushedBranches returns the branch of every recorded push, in order.
func (r *FakeRepository) PushedBranches() []string {
	var names []string
	for _, p := range r.Pushes {
		names = append(names, p.Branch)
	}
	return names
}
