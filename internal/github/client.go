// Package github mirrors stacks onto GitHub pull requests.
package github

import (
	"context"
)

// PR states reported by GitHub. Merged pull requests are "closed".
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// PullRequest is the part of a pull request st cares about.
// This is a simplified struct to avoid coupling to go-github library
type PullRequest struct {
	Number  uint64
	State   string
	Merged  bool
	Draft   bool
	Title   string
	BaseRef string
	HeadRef string
	HeadSHA string
	HTMLURL string
}

// IsClosed reports whether the pull request was closed or merged.
func (p *PullRequest) IsClosed() bool {
	return p.State == StateClosed
}

// NewPull describes a pull request to open.
type NewPull struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// Host is the pull request API st talks to. Lookups of unknown pull
// requests return errors.ErrRemotePRNotFound; transport and auth failures
// return a RemoteUnavailableError.
type Host interface {
	GetPull(ctx context.Context, number uint64) (*PullRequest, error)
	CreatePull(ctx context.Context, pull NewPull) (*PullRequest, error)
	UpdatePullBase(ctx context.Context, number uint64, base string) error
	ListLabels(ctx context.Context) ([]string, error)
	AddLabels(ctx context.Context, number uint64, labels []string) error
	AddAssignees(ctx context.Context, number uint64, assignees []string) error
	CreateComment(ctx context.Context, number uint64, body string) (uint64, error)
	UpdateComment(ctx context.Context, commentID uint64, body string) error
}
