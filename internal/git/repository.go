package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
)

var _ engine.Repository = (*Repository)(nil)

// Repository wraps a go-git repository. Reads go through go-git; commands
// that rewrite the working tree (checkout, rebase, push) run the git CLI.
type Repository struct {
	*git.Repository
	path   string
	runner *CommandRunner
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	root := absPath
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{
		Repository: repo,
		path:       root,
		runner:     NewCommandRunner(root),
	}, nil
}

// Root returns the top level directory of the working tree
func (r *Repository) Root() string {
	return r.path
}

// Runner returns the CLI runner bound to the working tree
func (r *Repository) Runner() *CommandRunner {
	return r.runner
}

// CommonDir returns the absolute git directory shared by all worktrees.
func (r *Repository) CommonDir(ctx context.Context) (string, error) {
	dir, err := r.runner.Run(ctx, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("failed to locate git directory: %w", err)
	}
	return dir, nil
}

// GitDir returns the absolute git directory of this worktree.
func (r *Repository) GitDir(ctx context.Context) (string, error) {
	dir, err := r.runner.Run(ctx, "rev-parse", "--path-format=absolute", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to locate git directory: %w", err)
	}
	return dir, nil
}

// CurrentBranch returns the branch HEAD points at. It works on unborn
// branches, where HEAD does not resolve to a commit yet.
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", sterrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}

// BranchNames returns all local branch names, sorted
func (r *Repository) BranchNames(_ context.Context) ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// BranchExists reports whether a local branch exists
func (r *Repository) BranchExists(_ context.Context, name string) (bool, error) {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read branch %s: %w", name, err)
	}
	return true, nil
}

// RevParse returns the commit a local branch points at
func (r *Repository) RevParse(_ context.Context, name string) (string, error) {
	ref, err := r.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", sterrors.NewBranchNotFoundError(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read branch %s: %w", name, err)
	}
	return ref.Hash().String(), nil
}

// Checkout switches the working tree to a local branch
func (r *Repository) Checkout(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "checkout", "--quiet", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// CreateBranch points a new branch at the current HEAD commit
func (r *Repository) CreateBranch(_ context.Context, name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.Reference(refName, false); err == nil {
		return fmt.Errorf("branch %s already exists", name)
	}

	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if err := r.Storer.SetReference(plumbing.NewHashReference(refName, head.Hash())); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch force deletes a local branch
func (r *Repository) DeleteBranch(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "branch", "-D", name); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

// IsClean reports whether the working tree and index match HEAD. Untracked
// files do not count.
func (r *Repository) IsClean(_ context.Context) (bool, error) {
	wt, err := r.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	for _, fs := range status {
		if fs.Worktree == git.Untracked && fs.Staging == git.Untracked {
			continue
		}
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			return false, nil
		}
	}
	return true, nil
}

// RemoteURL returns the first fetch URL of a remote
func (r *Repository) RemoteURL(_ context.Context, remote string) (string, error) {
	rem, err := r.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to find remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

// hasRemoteBranch reports whether a remote tracking ref exists for branch
func (r *Repository) hasRemoteBranch(remote, branch string) bool {
	_, err := r.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	return err == nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (r *Repository) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false
	}
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}

// firstLine returns the first non-empty line of s
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
