// Package submit mirrors a stack of branches onto pull requests.
package submit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/github"
	"st.dev/st/internal/prompt"
)

// Pull request kinds offered when the draft flag is not given.
const (
	KindDraft = "Draft"
	KindReady = "Ready"
)

// Options configures one submission.
type Options struct {
	// Stack is the branch chain to submit, trunk first.
	Stack []string
	// Remote is the git remote to push to.
	Remote string
	// Force pushes with --force instead of the default safe push.
	Force bool
	// Draft, when set, skips the kind prompt for new pull requests.
	Draft *bool
	// DraftDefault preselects the kind prompt.
	DraftDefault bool
	// DryRun reports the plan without pushing or changing pull requests.
	DryRun bool
	// PreferredLabels are listed first in the label prompt.
	PreferredLabels []string
}

// Report lists what a submission did, or would do on a dry run.
type Report struct {
	Created []string
	Updated []string
	Pushed  []string
	Skipped []string
	Deleted []string
	DryRun  bool
}

// Engine submits stacks. Store mutations are left to the caller to save.
type Engine struct {
	Store     *engine.Store
	Repo      engine.Repository
	Host      github.Host
	Prompter  prompt.Prompter
	Restacker *engine.Restacker
	Log       engine.Logger
}

// NewEngine wires an Engine. A nil logger discards messages.
func NewEngine(store *engine.Store, repo engine.Repository, host github.Host, prompter prompt.Prompter, log engine.Logger) *Engine {
	return &Engine{
		Store:     store,
		Repo:      repo,
		Host:      host,
		Prompter:  prompter,
		Restacker: engine.NewRestacker(store, repo, log),
		Log:       logOrNop(log),
	}
}

// Submit pushes every branch of opts.Stack above the trunk and opens or
// updates its pull request, then refreshes the navigation comments.
// Nothing is sent to the remote unless the stack is fully restacked and
// the working tree is clean.
func (e *Engine) Submit(ctx context.Context, opts Options) (*Report, error) {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	report := &Report{DryRun: opts.DryRun}

	if err := e.preflight(ctx, opts.Stack); err != nil {
		return report, err
	}

	branches, err := e.reconcileClosed(ctx, opts, report)
	if err != nil {
		return report, err
	}
	if len(report.Deleted) > 0 && !opts.DryRun {
		// children of a deleted branch now sit on its parent and need a restack
		stale, err := e.Restacker.FirstStale(ctx, append([]string{e.Store.TrunkName}, branches...))
		if err != nil {
			return report, err
		}
		if stale != "" {
			return report, sterrors.NewNeedsRestackError(stale)
		}
	}

	for _, branch := range branches {
		if err := e.submitBranch(ctx, branch, opts, report); err != nil {
			return report, err
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := e.syncComments(ctx, branches); err != nil {
		return report, err
	}
	return report, nil
}

func (e *Engine) preflight(ctx context.Context, stack []string) error {
	for _, branch := range stack {
		if !e.Store.IsTracked(branch) {
			return sterrors.NewBranchNotTrackedError(branch)
		}
	}

	stale, err := e.Restacker.FirstStale(ctx, stack)
	if err != nil {
		return err
	}
	if stale != "" {
		return sterrors.NewNeedsRestackError(stale)
	}

	clean, err := e.Repo.IsClean(ctx)
	if err != nil {
		return fmt.Errorf("failed to check working tree: %w", err)
	}
	if !clean {
		return sterrors.ErrWorkingTreeDirty
	}
	return nil
}

// reconcileClosed offers to delete branches whose pull request was closed
// or merged and returns the stacked branches left to submit.
func (e *Engine) reconcileClosed(ctx context.Context, opts Options, report *Report) ([]string, error) {
	var branches []string
	for _, branch := range opts.Stack {
		if e.Store.IsTrunk(branch) {
			continue
		}
		b := e.Store.Get(branch)
		if b.Remote == nil {
			branches = append(branches, branch)
			continue
		}

		pr, err := e.getPull(ctx, branch, b.Remote.PRNumber)
		if err != nil {
			return nil, err
		}
		if !pr.IsClosed() {
			branches = append(branches, branch)
			continue
		}

		if opts.DryRun {
			e.Log.Info("Pull request #%d for `%s` is closed; it would be offered for deletion.", pr.Number, branch)
			report.Deleted = append(report.Deleted, branch)
			continue
		}

		kind := "closed"
		if pr.Merged {
			kind = "merged"
		}
		ok, err := e.Prompter.Confirm(fmt.Sprintf("Pull request #%d for %s was %s. Delete the local branch?", pr.Number, branch, kind), false)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.Log.Info("Skipping `%s`: its pull request #%d is %s.", branch, pr.Number, kind)
			report.Skipped = append(report.Skipped, branch)
			continue
		}
		if err := e.deleteBranch(ctx, branch); err != nil {
			return nil, err
		}
		report.Deleted = append(report.Deleted, branch)
	}
	return branches, nil
}

func (e *Engine) deleteBranch(ctx context.Context, branch string) error {
	current, err := e.Repo.CurrentBranch(ctx)
	if err != nil && !errors.Is(err, sterrors.ErrNotOnBranch) {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if current == branch {
		if err := e.Repo.Checkout(ctx, e.Store.TrunkName); err != nil {
			return fmt.Errorf("failed to check out %s: %w", e.Store.TrunkName, err)
		}
	}
	if _, err := e.Store.Delete(branch); err != nil {
		return err
	}
	if err := e.Repo.DeleteBranch(ctx, branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	e.Log.Info("Deleted branch `%s`.", branch)
	return nil
}

func (e *Engine) submitBranch(ctx context.Context, branch string, opts Options, report *Report) error {
	b := e.Store.Get(branch)
	if b.Remote == nil {
		return e.createPull(ctx, b, opts, report)
	}

	pr, err := e.getPull(ctx, branch, b.Remote.PRNumber)
	if err != nil {
		return err
	}

	if pr.BaseRef != b.Parent {
		if opts.DryRun {
			e.Log.Info("Would retarget #%d from `%s` to `%s`.", pr.Number, pr.BaseRef, b.Parent)
		} else {
			if err := e.Host.UpdatePullBase(ctx, pr.Number, b.Parent); err != nil {
				return e.remoteErr(branch, pr.Number, err)
			}
			e.Log.Info("Retargeted #%d from `%s` to `%s`.", pr.Number, pr.BaseRef, b.Parent)
		}
		report.Updated = append(report.Updated, branch)
	}

	tip, err := e.Repo.RevParse(ctx, branch)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", branch, err)
	}
	if tip == pr.HeadSHA {
		e.Log.Info("Branch `%s` is up to date with #%d.", branch, pr.Number)
		report.Skipped = append(report.Skipped, branch)
		return nil
	}
	return e.push(ctx, branch, opts, report)
}

func (e *Engine) createPull(ctx context.Context, b *engine.Branch, opts Options, report *Report) error {
	if opts.DryRun {
		e.Log.Info("Would push `%s` and open a pull request into `%s`.", b.Name, b.Parent)
		report.Pushed = append(report.Pushed, b.Name)
		report.Created = append(report.Created, b.Name)
		return nil
	}

	if err := e.push(ctx, b.Name, opts, report); err != nil {
		return err
	}

	meta, err := e.collectMetadata(ctx, b.Name, opts)
	if err != nil {
		return err
	}

	pr, err := e.Host.CreatePull(ctx, github.NewPull{
		Title: meta.Title,
		Body:  meta.Body,
		Head:  b.Name,
		Base:  b.Parent,
		Draft: meta.Draft,
	})
	if err != nil {
		return fmt.Errorf("failed to create pull request for %s: %w", b.Name, err)
	}
	if err := e.Store.SetRemote(b.Name, pr.Number); err != nil {
		return err
	}

	if err := e.Host.AddLabels(ctx, pr.Number, meta.Labels); err != nil {
		return fmt.Errorf("failed to label #%d: %w", pr.Number, err)
	}
	if err := e.Host.AddAssignees(ctx, pr.Number, meta.Assignees); err != nil {
		return fmt.Errorf("failed to assign #%d: %w", pr.Number, err)
	}

	if pr.HTMLURL != "" {
		e.Log.Info("Opened #%d for `%s`: %s", pr.Number, b.Name, pr.HTMLURL)
	} else {
		e.Log.Info("Opened #%d for `%s`.", pr.Number, b.Name)
	}
	report.Created = append(report.Created, b.Name)
	return nil
}

func (e *Engine) push(ctx context.Context, branch string, opts Options, report *Report) error {
	if opts.DryRun {
		e.Log.Info("Would push `%s` to %s.", branch, opts.Remote)
		report.Pushed = append(report.Pushed, branch)
		return nil
	}
	e.Log.Debug("pushing %s to %s (force=%v)", branch, opts.Remote, opts.Force)
	if err := e.Repo.Push(ctx, branch, opts.Remote, opts.Force); err != nil {
		return err
	}
	e.Log.Info("Pushed `%s`.", branch)
	report.Pushed = append(report.Pushed, branch)
	return nil
}

func (e *Engine) syncComments(ctx context.Context, branches []string) error {
	entries := make([]CommentEntry, 0, len(branches))
	for _, branch := range branches {
		entry := CommentEntry{Branch: branch}
		if b := e.Store.Get(branch); b.Remote != nil {
			entry.PRNumber = b.Remote.PRNumber
		}
		entries = append(entries, entry)
	}

	for _, entry := range entries {
		b := e.Store.Get(entry.Branch)
		if b.Remote == nil {
			continue
		}
		body := RenderStackComment(e.Store.TrunkName, entries, entry.Branch)

		if id := b.Remote.CommentID; id != nil {
			err := e.Host.UpdateComment(ctx, *id, body)
			if err == nil {
				continue
			}
			if !errors.Is(err, sterrors.ErrRemotePRNotFound) {
				return fmt.Errorf("failed to update stack comment on #%d: %w", b.Remote.PRNumber, err)
			}
			e.Log.Debug("stack comment %d on #%d is gone, posting a new one", *id, b.Remote.PRNumber)
		}

		id, err := e.Host.CreateComment(ctx, b.Remote.PRNumber, body)
		if err != nil {
			return e.remoteErr(entry.Branch, b.Remote.PRNumber, err)
		}
		if err := e.Store.SetCommentID(entry.Branch, id); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) getPull(ctx context.Context, branch string, number uint64) (*github.PullRequest, error) {
	pr, err := e.Host.GetPull(ctx, number)
	if err != nil {
		return nil, e.remoteErr(branch, number, err)
	}
	return pr, nil
}

func (e *Engine) remoteErr(branch string, number uint64, err error) error {
	if errors.Is(err, sterrors.ErrRemotePRNotFound) {
		return sterrors.NewRemotePRNotFoundError(branch, number)
	}
	return err
}

// Metadata is what the user supplies for a new pull request.
type Metadata struct {
	Title     string
	Body      string
	Draft     bool
	Labels    []string
	Assignees []string
}

func (e *Engine) collectMetadata(ctx context.Context, branch string, opts Options) (*Metadata, error) {
	meta := &Metadata{}
	var err error

	if meta.Title, err = e.Prompter.Text(fmt.Sprintf("Title of pull request for %s:", branch), branch); err != nil {
		return nil, err
	}
	if meta.Body, err = e.Prompter.Editor("Pull request description", ""); err != nil {
		return nil, err
	}

	if opts.Draft != nil {
		meta.Draft = *opts.Draft
	} else {
		def := KindReady
		if opts.DraftDefault {
			def = KindDraft
		}
		kind, err := e.Prompter.Select("Pull request kind", []string{KindDraft, KindReady}, def)
		if err != nil {
			return nil, err
		}
		meta.Draft = kind == KindDraft
	}

	labels, err := e.Host.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	if len(labels) > 0 {
		labels = preferFirst(labels, opts.PreferredLabels)
		if meta.Labels, err = e.Prompter.MultiSelect("Labels", labels); err != nil {
			return nil, err
		}
	}

	assignees, err := e.Prompter.Text("Assignees (comma separated, optional):", "")
	if err != nil {
		return nil, err
	}
	meta.Assignees = splitList(assignees)
	return meta, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "@"))
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

// preferFirst moves the preferred names that exist in names to the front,
// in preferred order.
func preferFirst(names, preferred []string) []string {
	out := make([]string, 0, len(names))
	for _, p := range preferred {
		if slices.Contains(names, p) && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

func logOrNop(log engine.Logger) engine.Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
