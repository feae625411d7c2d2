// Package errors provides sentinel errors and custom error types for st.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a git branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrParentNotTracked indicates an insert under a parent the store does not know
	ErrParentNotTracked = errors.New("parent branch is not tracked")

	// ErrBranchNotTracked indicates a branch the store does not know
	ErrBranchNotTracked = errors.New("branch is not tracked")

	// ErrBranchAlreadyTracked indicates an insert of a name that is already tracked
	ErrBranchAlreadyTracked = errors.New("branch is already tracked")

	// ErrCannotDeleteTrunk indicates an attempt to untrack the trunk
	ErrCannotDeleteTrunk = errors.New("cannot delete the trunk branch")

	// ErrSpliceWouldFork indicates a delete that would leave the grandparent with a new fork
	ErrSpliceWouldFork = errors.New("deleting branch would fork its parent")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrWorkingTreeDirty indicates uncommitted changes in the working tree
	ErrWorkingTreeDirty = errors.New("working tree has uncommitted changes")

	// ErrNeedsRestack indicates a branch is stale relative to its parent
	ErrNeedsRestack = errors.New("branch needs to be restacked")

	// ErrRemotePRNotFound indicates a recorded pull request no longer exists remotely
	ErrRemotePRNotFound = errors.New("pull request not found")

	// ErrRemoteUnavailable indicates a transport or auth failure talking to the PR host
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrStoreCorrupt indicates the persisted store could not be parsed
	ErrStoreCorrupt = errors.New("store is corrupt")

	// ErrNotInitialized indicates no store exists for the repository yet
	ErrNotInitialized = errors.New("st is not initialized in this repository")
)

// Hinter is implemented by errors that carry a suggestion for the user.
type Hinter interface {
	Hint() string
}

// BranchNotFoundError represents an error when a git branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// ParentNotTrackedError is returned when inserting under an untracked parent
type ParentNotTrackedError struct {
	Parent string
}

func (e *ParentNotTrackedError) Error() string {
	return fmt.Sprintf("parent branch %s is not tracked", e.Parent)
}

// Is returns true if the target error is ErrParentNotTracked
func (e *ParentNotTrackedError) Is(target error) bool {
	return target == ErrParentNotTracked
}

// Hint suggests how to track the parent first
func (e *ParentNotTrackedError) Hint() string {
	return fmt.Sprintf("track %s first with `st track`", e.Parent)
}

// NewParentNotTrackedError creates a new ParentNotTrackedError
func NewParentNotTrackedError(parent string) *ParentNotTrackedError {
	return &ParentNotTrackedError{Parent: parent}
}

// BranchNotTrackedError is returned when an operation names an untracked branch
type BranchNotTrackedError struct {
	BranchName string
}

func (e *BranchNotTrackedError) Error() string {
	return fmt.Sprintf("branch %s is not tracked", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotTracked
func (e *BranchNotTrackedError) Is(target error) bool {
	return target == ErrBranchNotTracked
}

// Hint suggests tracking the branch
func (e *BranchNotTrackedError) Hint() string {
	return "run `st track` on the branch to add it to a stack"
}

// NewBranchNotTrackedError creates a new BranchNotTrackedError
func NewBranchNotTrackedError(branchName string) *BranchNotTrackedError {
	return &BranchNotTrackedError{BranchName: branchName}
}

// BranchAlreadyTrackedError is returned when inserting a name twice
type BranchAlreadyTrackedError struct {
	BranchName string
}

func (e *BranchAlreadyTrackedError) Error() string {
	return fmt.Sprintf("branch %s is already tracked", e.BranchName)
}

// Is returns true if the target error is ErrBranchAlreadyTracked
func (e *BranchAlreadyTrackedError) Is(target error) bool {
	return target == ErrBranchAlreadyTracked
}

// NewBranchAlreadyTrackedError creates a new BranchAlreadyTrackedError
func NewBranchAlreadyTrackedError(branchName string) *BranchAlreadyTrackedError {
	return &BranchAlreadyTrackedError{BranchName: branchName}
}

// SpliceWouldForkError is returned by delete under the reject-fork policy
type SpliceWouldForkError struct {
	BranchName string
	Parent     string
}

func (e *SpliceWouldForkError) Error() string {
	return fmt.Sprintf("deleting %s would give %s more than one child", e.BranchName, e.Parent)
}

// Is returns true if the target error is ErrSpliceWouldFork
func (e *SpliceWouldForkError) Is(target error) bool {
	return target == ErrSpliceWouldFork
}

// Hint points at the config key controlling the policy
func (e *SpliceWouldForkError) Hint() string {
	return "set stack.allow_fork_on_delete to true to allow forks"
}

// NewSpliceWouldForkError creates a new SpliceWouldForkError
func NewSpliceWouldForkError(branchName, parent string) *SpliceWouldForkError {
	return &SpliceWouldForkError{BranchName: branchName, Parent: parent}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// Hint explains how to finish the interrupted rebase
func (e *RebaseConflictError) Hint() string {
	return "resolve the conflicts, run `git rebase --continue`, then run `st restack` again"
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// NeedsRestackError is returned by submit when a stack branch is stale
type NeedsRestackError struct {
	BranchName string
}

func (e *NeedsRestackError) Error() string {
	return fmt.Sprintf("branch %s needs to be restacked before submitting", e.BranchName)
}

// Is returns true if the target error is ErrNeedsRestack
func (e *NeedsRestackError) Is(target error) bool {
	return target == ErrNeedsRestack
}

// Hint suggests running restack
func (e *NeedsRestackError) Hint() string {
	return "run `st restack` first"
}

// NewNeedsRestackError creates a new NeedsRestackError
func NewNeedsRestackError(branchName string) *NeedsRestackError {
	return &NeedsRestackError{BranchName: branchName}
}

// RemotePRNotFoundError is returned when a recorded PR number is unknown to the host
type RemotePRNotFoundError struct {
	BranchName string
	PRNumber   uint64
}

func (e *RemotePRNotFoundError) Error() string {
	return fmt.Sprintf("pull request #%d for branch %s was not found", e.PRNumber, e.BranchName)
}

// Is returns true if the target error is ErrRemotePRNotFound
func (e *RemotePRNotFoundError) Is(target error) bool {
	return target == ErrRemotePRNotFound
}

// NewRemotePRNotFoundError creates a new RemotePRNotFoundError
func NewRemotePRNotFoundError(branchName string, prNumber uint64) *RemotePRNotFoundError {
	return &RemotePRNotFoundError{BranchName: branchName, PRNumber: prNumber}
}

// RemoteUnavailableError wraps a transport or authentication failure
type RemoteUnavailableError struct {
	Op  string
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote unavailable during %s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrRemoteUnavailable
func (e *RemoteUnavailableError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// NewRemoteUnavailableError creates a new RemoteUnavailableError
func NewRemoteUnavailableError(op string, err error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Op: op, Err: err}
}

// StoreCorruptError is returned when the persisted store cannot be read back
type StoreCorruptError struct {
	Path string
	Err  error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("store at %s is corrupt: %v", e.Path, e.Err)
}

// Is returns true if the target error is ErrStoreCorrupt
func (e *StoreCorruptError) Is(target error) bool {
	return target == ErrStoreCorrupt
}

func (e *StoreCorruptError) Unwrap() error {
	return e.Err
}

// Hint explains how to recover
func (e *StoreCorruptError) Hint() string {
	return "run `st init --reset` to start over with an empty store"
}

// NewStoreCorruptError creates a new StoreCorruptError
func NewStoreCorruptError(path string, err error) *StoreCorruptError {
	return &StoreCorruptError{Path: path, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// HintFor returns the hint carried by err, if any.
func HintFor(err error) string {
	var h Hinter
	if errors.As(err, &h) {
		return h.Hint()
	}
	return ""
}
