package submit_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/git"
	"st.dev/st/internal/prompt"
	"st.dev/st/internal/submit"
	"st.dev/st/testhelpers"
)

// submitFixture tracks main -> a -> b, fully restacked, with b checked out.
type submitFixture struct {
	store  *engine.Store
	repo   *testhelpers.FakeRepository
	github *testhelpers.MockGitHubServerConfig
	engine *submit.Engine
}

func newSubmitFixture(t *testing.T, answers ...prompt.Answer) *submitFixture {
	t.Helper()
	repo := testhelpers.NewFakeRepository("b", "main", "a", "b")
	store := engine.NewStore("main")
	require.NoError(t, store.Insert("main", "a", repo.Tip("main")))
	require.NoError(t, store.Insert("a", "b", repo.Tip("a")))

	config := testhelpers.NewMockGitHubServerConfig()
	host := testhelpers.NewMockGitHubClient(t, config)

	return &submitFixture{
		store:  store,
		repo:   repo,
		github: config,
		engine: submit.NewEngine(store, repo, host, prompt.NewScripted(answers...), nil),
	}
}

func (f *submitFixture) submit(t *testing.T, opts submit.Options) (*submit.Report, error) {
	t.Helper()
	if opts.Stack == nil {
		opts.Stack = []string{"main", "a", "b"}
	}
	return f.engine.Submit(context.Background(), opts)
}

func (f *submitFixture) prompter() *prompt.Scripted {
	return f.engine.Prompter.(*prompt.Scripted)
}

func (f *submitFixture) setRemote(t *testing.T, branch string, number int, base, headSHA, state string) {
	t.Helper()
	require.NoError(t, f.store.SetRemote(branch, uint64(number)))
	f.github.AddPR(number, branch, base, headSHA, state)
}

func TestSubmit_CreatesPullRequests(t *testing.T) {
	f := newSubmitFixture(t,
		// a
		prompt.Answer{Text: "Add a"},
		prompt.Answer{Text: "Body of a"},
		prompt.Answer{Text: submit.KindDraft},
		prompt.Answer{Text: "octocat, @hubot"},
		// b
		prompt.Answer{UseDefault: true},
		prompt.Answer{},
		prompt.Answer{UseDefault: true},
		prompt.Answer{},
	)

	report, err := f.submit(t, submit.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, report.Created)
	require.Equal(t, []string{"a", "b"}, report.Pushed)
	require.Zero(t, f.prompter().Remaining())

	require.Equal(t, []string{"a", "b"}, f.repo.PushedBranches())
	require.False(t, f.repo.Pushes[0].Force)
	require.Equal(t, "origin", f.repo.Pushes[0].Remote)

	require.Len(t, f.github.CreatedPRs, 2)
	prA, prB := f.github.CreatedPRs[0], f.github.CreatedPRs[1]
	require.Equal(t, "Add a", prA.GetTitle())
	require.Equal(t, "Body of a", prA.GetBody())
	require.Equal(t, "a", prA.GetHead().GetRef())
	require.Equal(t, "main", prA.GetBase().GetRef())
	require.True(t, prA.GetDraft())
	require.Equal(t, "b", prB.GetTitle())
	require.Equal(t, "a", prB.GetBase().GetRef())
	require.False(t, prB.GetDraft())

	require.Equal(t, []string{"octocat", "hubot"}, f.github.AddedAssignees[101])
	require.Empty(t, f.github.AddedAssignees[102])

	require.Equal(t, uint64(101), f.store.Get("a").Remote.PRNumber)
	require.Equal(t, uint64(102), f.store.Get("b").Remote.PRNumber)

	entries := []submit.CommentEntry{{Branch: "a", PRNumber: 101}, {Branch: "b", PRNumber: 102}}
	require.Equal(t, []string{submit.RenderStackComment("main", entries, "a")}, f.github.CommentBodies(101))
	require.Equal(t, []string{submit.RenderStackComment("main", entries, "b")}, f.github.CommentBodies(102))
	require.NotNil(t, f.store.Get("a").Remote.CommentID)
	require.NotNil(t, f.store.Get("b").Remote.CommentID)
}

func TestSubmit_DraftFlagAndLabels(t *testing.T) {
	f := newSubmitFixture(t,
		prompt.Answer{UseDefault: true},
		prompt.Answer{},
		prompt.Answer{Choices: []string{"stacked"}},
		prompt.Answer{},
	)
	f.github.Labels = []string{"bug", "stacked"}
	draft := true

	_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}, Draft: &draft})
	require.NoError(t, err)
	require.True(t, f.github.CreatedPRs[0].GetDraft())
	require.Equal(t, []string{"stacked"}, f.github.AddedLabels[101])
	require.NotContains(t, f.prompter().Asked, "Pull request kind")
	require.Contains(t, f.prompter().Asked, "Labels")
}

func TestSubmit_SkipsPushWhenHeadMatches(t *testing.T) {
	f := newSubmitFixture(t)
	f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "open")

	report, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
	require.NoError(t, err)
	require.Empty(t, f.repo.Pushes)
	require.Equal(t, []string{"a"}, report.Skipped)
	require.Empty(t, f.github.BaseUpdates)
	require.Len(t, f.github.CommentBodies(12), 1)

	// a second run edits the same comment
	commentID := *f.store.Get("a").Remote.CommentID
	_, err = f.submit(t, submit.Options{Stack: []string{"main", "a"}})
	require.NoError(t, err)
	require.Empty(t, f.repo.Pushes)
	require.Len(t, f.github.Comments, 1)
	require.Equal(t, commentID, *f.store.Get("a").Remote.CommentID)
}

func TestSubmit_PushesAndRetargetsExistingPullRequests(t *testing.T) {
	f := newSubmitFixture(t)
	f.setRemote(t, "a", 12, "main", "old-sha", "open")
	f.setRemote(t, "b", 13, "main", f.repo.Tip("b"), "open")

	report, err := f.submit(t, submit.Options{Force: true})
	require.NoError(t, err)

	require.Equal(t, []testhelpers.PushCall{{Branch: "a", Remote: "origin", Force: true}}, f.repo.Pushes)
	require.Equal(t, []string{"a"}, report.Pushed)
	require.Equal(t, []string{"b"}, report.Updated)
	require.Equal(t, []string{"b"}, report.Skipped)
	require.Equal(t, []string{"a"}, f.github.BaseUpdates[13])
	require.Empty(t, f.github.CreatedPRs)
}

func TestSubmit_Preflight(t *testing.T) {
	t.Run("needs restack", func(t *testing.T) {
		f := newSubmitFixture(t)
		f.repo.Commit("main")

		_, err := f.submit(t, submit.Options{})
		require.ErrorIs(t, err, sterrors.ErrNeedsRestack)
		var restackErr *sterrors.NeedsRestackError
		require.ErrorAs(t, err, &restackErr)
		require.Equal(t, "a", restackErr.BranchName)
		require.Empty(t, f.repo.Pushes)
		require.Empty(t, f.github.CreatedPRs)
	})

	t.Run("dirty working tree", func(t *testing.T) {
		f := newSubmitFixture(t)
		f.repo.Dirty = true

		_, err := f.submit(t, submit.Options{})
		require.ErrorIs(t, err, sterrors.ErrWorkingTreeDirty)
		require.Empty(t, f.repo.Pushes)
	})

	t.Run("untracked branch", func(t *testing.T) {
		f := newSubmitFixture(t)
		_, err := f.submit(t, submit.Options{Stack: []string{"main", "x"}})
		require.ErrorIs(t, err, sterrors.ErrBranchNotTracked)
	})
}

func TestSubmit_ClosedPullRequest(t *testing.T) {
	t.Run("confirmed deletes the branch and stops on its stale child", func(t *testing.T) {
		f := newSubmitFixture(t, prompt.Answer{Confirm: true})
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "closed")
		f.setRemote(t, "b", 13, "a", "old-head", "open")

		report, err := f.submit(t, submit.Options{})
		var needsRestack *sterrors.NeedsRestackError
		require.ErrorAs(t, err, &needsRestack)
		require.Equal(t, "b", needsRestack.BranchName)

		require.Equal(t, []string{"a"}, report.Deleted)
		require.Equal(t, []string{"a"}, f.repo.Deleted)
		require.False(t, f.store.IsTracked("a"))
		require.Equal(t, "main", f.store.Parent("b"))

		require.Empty(t, f.repo.Pushes)
		require.Empty(t, f.github.BaseUpdates[13])
		require.Empty(t, f.github.CommentBodies(13))
	})

	t.Run("deleting a leaf keeps submitting the rest", func(t *testing.T) {
		f := newSubmitFixture(t, prompt.Answer{Confirm: true})
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "open")
		f.setRemote(t, "b", 13, "a", f.repo.Tip("b"), "closed")

		report, err := f.submit(t, submit.Options{})
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, report.Deleted)
		require.Equal(t, []string{"a"}, report.Skipped)
		require.Empty(t, f.repo.Pushes)
		require.Equal(t, []string{submit.RenderStackComment("main", []submit.CommentEntry{{Branch: "a", PRNumber: 12}}, "a")},
			f.github.CommentBodies(12))
	})

	t.Run("the default answer keeps the branch", func(t *testing.T) {
		f := newSubmitFixture(t, prompt.Answer{UseDefault: true})
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "closed")

		report, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, report.Skipped)
		require.True(t, f.store.IsTracked("a"))
		require.Empty(t, f.repo.Deleted)
	})

	t.Run("deleting the current branch checks out trunk", func(t *testing.T) {
		f := newSubmitFixture(t, prompt.Answer{Confirm: true})
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "closed")
		f.repo.Current = "a"

		_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		require.NoError(t, err)
		require.Equal(t, "main", f.repo.Current)
		require.Equal(t, []string{"a"}, f.repo.Deleted)
	})

	t.Run("declined keeps the branch", func(t *testing.T) {
		f := newSubmitFixture(t, prompt.Answer{Confirm: false})
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "closed")

		report, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, report.Skipped)
		require.True(t, f.store.IsTracked("a"))
		require.Empty(t, f.repo.Deleted)
		require.Empty(t, f.github.CommentBodies(12))
	})
}

func TestSubmit_RejectedLeasePush(t *testing.T) {
	f := newSubmitFixture(t)
	f.setRemote(t, "a", 12, "main", "old-head", "open")
	f.repo.PushErr = fmt.Errorf("force-with-lease push of a failed due to external changes to the remote branch, use --force to overwrite them: %w", git.ErrStaleRemoteInfo)

	_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
	require.ErrorIs(t, err, git.ErrStaleRemoteInfo)
	require.Equal(t, 1, strings.Count(err.Error(), "--force"))
}

func TestSubmit_RemoteErrors(t *testing.T) {
	t.Run("unknown pull request", func(t *testing.T) {
		f := newSubmitFixture(t)
		require.NoError(t, f.store.SetRemote("a", 77))

		_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		var notFound *sterrors.RemotePRNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "a", notFound.BranchName)
		require.Equal(t, uint64(77), notFound.PRNumber)
	})

	t.Run("host failure", func(t *testing.T) {
		f := newSubmitFixture(t)
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "open")
		f.github.ErrorResponses["GET /repos/owner/repo/pulls/12"] = 502

		_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		require.ErrorIs(t, err, sterrors.ErrRemoteUnavailable)
		require.Empty(t, f.repo.Pushes)
	})

	t.Run("deleted comment is posted again", func(t *testing.T) {
		f := newSubmitFixture(t)
		f.setRemote(t, "a", 12, "main", f.repo.Tip("a"), "open")
		require.NoError(t, f.store.SetCommentID("a", 777))

		_, err := f.submit(t, submit.Options{Stack: []string{"main", "a"}})
		require.NoError(t, err)
		require.Len(t, f.github.CommentBodies(12), 1)
		require.Equal(t, uint64(5001), *f.store.Get("a").Remote.CommentID)
	})
}

func TestSubmit_DryRun(t *testing.T) {
	f := newSubmitFixture(t)
	f.setRemote(t, "b", 13, "main", "old-sha", "open")

	report, err := f.submit(t, submit.Options{DryRun: true})
	require.NoError(t, err)
	require.True(t, report.DryRun)
	require.Equal(t, []string{"a"}, report.Created)
	require.Equal(t, []string{"b"}, report.Updated)
	require.Equal(t, []string{"a", "b"}, report.Pushed)

	require.Empty(t, f.repo.Pushes)
	require.Empty(t, f.github.CreatedPRs)
	require.Empty(t, f.github.BaseUpdates)
	require.Empty(t, f.github.Comments)
	require.Nil(t, f.store.Get("a").Remote)
	require.Empty(t, f.prompter().Asked)
}
