package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	sterrors "st.dev/st/internal/errors"
)

var _ Host = (*Client)(nil)

// Client implements Host with go-github for a single repository.
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient wraps an existing go-github client.
func NewClient(client *github.Client, owner, repo string) *Client {
	return &Client{client: client, owner: owner, repo: repo}
}

// NewClientForRepo creates an authenticated client for info. Hosts other
// than github.com are treated as GitHub Enterprise.
func NewClientForRepo(ctx context.Context, info *RepoInfo, token string) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if info.Hostname != "github.com" {
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		var err error
		client, err = client.WithEnterpriseURLs(
			fmt.Sprintf("https://%s/api/v3/", info.Hostname),
			fmt.Sprintf("https://%s/api/uploads/", info.Hostname),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to configure GitHub Enterprise host %s: %w", info.Hostname, err)
		}
	}

	return NewClient(client, info.Owner, info.Repo), nil
}

// OwnerRepo returns the repository owner and name
func (c *Client) OwnerRepo() (string, string) {
	return c.owner, c.repo
}

// GetPull fetches a pull request by number
func (c *Client) GetPull(ctx context.Context, number uint64) (*PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, int(number))
	if err != nil {
		return nil, classify("get pull request", err)
	}
	return toPullRequest(pr), nil
}

// CreatePull opens a new pull request
func (c *Client) CreatePull(ctx context.Context, pull NewPull) (*PullRequest, error) {
	req := &github.NewPullRequest{
		Title: github.String(pull.Title),
		Head:  github.String(pull.Head),
		Base:  github.String(pull.Base),
		Draft: github.Bool(pull.Draft),
	}
	if pull.Body != "" {
		req.Body = github.String(pull.Body)
	}

	created, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return nil, classify("create pull request", err)
	}
	return toPullRequest(created), nil
}

// UpdatePullBase retargets a pull request at a new base branch
func (c *Client) UpdatePullBase(ctx context.Context, number uint64, base string) error {
	update := &github.PullRequest{
		Base: &github.PullRequestBranch{Ref: github.String(base)},
	}
	if _, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, int(number), update); err != nil {
		return classify("update pull request base", err)
	}
	return nil
}

// ListLabels returns the names of every label defined on the repository
func (c *Client) ListLabels(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var names []string
	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, classify("list labels", err)
		}
		for _, l := range labels {
			names = append(names, l.GetName())
		}
		if resp == nil || resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

// AddLabels adds labels to a pull request
func (c *Client) AddLabels(ctx context.Context, number uint64, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	if _, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, int(number), labels); err != nil {
		return classify("add labels", err)
	}
	return nil
}

// AddAssignees assigns users to a pull request
func (c *Client) AddAssignees(ctx context.Context, number uint64, assignees []string) error {
	if len(assignees) == 0 {
		return nil
	}
	if _, _, err := c.client.Issues.AddAssignees(ctx, c.owner, c.repo, int(number), assignees); err != nil {
		return classify("add assignees", err)
	}
	return nil
}

// CreateComment posts a comment on a pull request and returns its id
func (c *Client) CreateComment(ctx context.Context, number uint64, body string) (uint64, error) {
	comment, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, int(number), &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return 0, classify("create comment", err)
	}
	return uint64(comment.GetID()), nil
}

// UpdateComment replaces the body of an existing comment
func (c *Client) UpdateComment(ctx context.Context, commentID uint64, body string) error {
	_, _, err := c.client.Issues.EditComment(ctx, c.owner, c.repo, int64(commentID), &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return classify("update comment", err)
	}
	return nil
}

func toPullRequest(pr *github.PullRequest) *PullRequest {
	return &PullRequest{
		Number:  uint64(pr.GetNumber()),
		State:   pr.GetState(),
		Merged:  pr.GetMerged(),
		Draft:   pr.GetDraft(),
		Title:   pr.GetTitle(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
		HTMLURL: pr.GetHTMLURL(),
	}
}

// classify maps go-github errors onto st's error taxonomy.
func classify(op string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, sterrors.ErrRemotePRNotFound)
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			return fmt.Errorf("failed to %s: %s", op, ghErr.Message)
		}
	}
	return sterrors.NewRemoteUnavailableError(op, err)
}
