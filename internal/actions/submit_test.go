package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/prompt"
	"st.dev/st/testhelpers"
)

// newPullAnswers accepts every default for one new pull request.
func newPullAnswers() []prompt.Answer {
	return []prompt.Answer{
		{UseDefault: true}, // title
		{},                 // description
		{UseDefault: true}, // kind
		{},                 // assignees
	}
}

func newSubmitActionFixture(t *testing.T, answers ...prompt.Answer) (*actionFixture, *testhelpers.MockGitHubServerConfig, string) {
	t.Helper()
	f := newActionFixture(t, testhelpers.StackSceneSetup, answers...)
	bare, err := f.scene.Repo.CreateBareRemote("origin")
	require.NoError(t, err)
	f.track(t)

	config := testhelpers.NewMockGitHubServerConfig()
	f.ctx.SetHost(testhelpers.NewMockGitHubClient(t, config))
	return f, config, bare
}

func TestSubmitAction(t *testing.T) {
	t.Run("pushes and opens pull requests", func(t *testing.T) {
		answers := append(newPullAnswers(), newPullAnswers()...)
		f, gh, bare := newSubmitActionFixture(t, answers...)

		require.NoError(t, actions.SubmitAction(f.ctx, actions.SubmitOptions{}))
		require.Zero(t, f.prompter.Remaining())
		require.Contains(t, f.out.String(), "Created: a, b")

		for _, branch := range []string{"a", "b"} {
			remote, err := testhelpers.RemoteRevision(bare, branch)
			require.NoError(t, err)
			require.Equal(t, f.rev(t, branch), remote)
		}
		require.Len(t, gh.CreatedPRs, 2)
		require.Equal(t, "a", gh.CreatedPRs[1].GetBase().GetRef())

		ctx := f.reload(t)
		require.Equal(t, uint64(101), ctx.Store.Get("a").Remote.PRNumber)
		require.Equal(t, uint64(102), ctx.Store.Get("b").Remote.PRNumber)
		require.NotNil(t, ctx.Store.Get("b").Remote.CommentID)
	})

	t.Run("saves created pull requests when a later step fails", func(t *testing.T) {
		answers := append(newPullAnswers(), newPullAnswers()...)
		f, gh, _ := newSubmitActionFixture(t, answers...)
		gh.ErrorResponses["POST /repos/owner/repo/issues/101/comments"] = 500

		err := actions.SubmitAction(f.ctx, actions.SubmitOptions{})
		require.ErrorIs(t, err, sterrors.ErrRemoteUnavailable)

		stored, err := engine.Load(f.ctx.StorePath)
		require.NoError(t, err)
		require.Equal(t, uint64(101), stored.Get("a").Remote.PRNumber)
		require.Equal(t, uint64(102), stored.Get("b").Remote.PRNumber)
	})

	t.Run("refuses a stale stack", func(t *testing.T) {
		f, gh, _ := newSubmitActionFixture(t)
		f.commitOnMain(t)

		err := actions.SubmitAction(f.ctx, actions.SubmitOptions{})
		require.ErrorIs(t, err, sterrors.ErrNeedsRestack)
		require.Empty(t, gh.CreatedPRs)
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		draft := true
		f, gh, bare := newSubmitActionFixture(t)

		require.NoError(t, actions.SubmitAction(f.ctx, actions.SubmitOptions{DryRun: true, Draft: &draft}))
		require.Contains(t, f.out.String(), "[dry run]")
		require.Empty(t, gh.CreatedPRs)
		_, err := testhelpers.RemoteRevision(bare, "a")
		require.Error(t, err)
		require.Nil(t, f.reload(t).Store.Get("a").Remote)
	})

	t.Run("trunk has nothing to submit", func(t *testing.T) {
		f, gh, _ := newSubmitActionFixture(t)
		require.NoError(t, f.scene.Repo.CheckoutBranch("main"))

		require.NoError(t, actions.SubmitAction(f.ctx, actions.SubmitOptions{}))
		require.Contains(t, f.out.String(), "Nothing to submit")
		require.Empty(t, gh.CreatedPRs)
	})
}
