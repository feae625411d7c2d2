package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/actions"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/prompt"
	"st.dev/st/testhelpers"
)

func TestTrackAction(t *testing.T) {
	t.Run("tracks branches under a parent", func(t *testing.T) {
		f := newActionFixture(t, testhelpers.StackSceneSetup, prompt.Answer{Text: "a"})
		f.ctx.InitStore("main")

		require.NoError(t, actions.TrackAction(f.ctx, actions.TrackOptions{BranchName: "a", Parent: "main"}))
		// the current branch, with the parent picked from a prompt
		require.NoError(t, actions.TrackAction(f.ctx, actions.TrackOptions{}))
		require.Equal(t, []string{"Select a parent for b"}, f.prompter.Asked)

		ctx := f.reload(t)
		require.Equal(t, "a", ctx.Store.Parent("b"))
		require.Equal(t, f.rev(t, "main"), ctx.Store.Get("a").ParentOIDCache)
		require.Equal(t, f.rev(t, "a"), ctx.Store.Get("b").ParentOIDCache)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		f := newActionFixture(t, testhelpers.StackSceneSetup)
		f.track(t)

		err := actions.TrackAction(f.ctx, actions.TrackOptions{BranchName: "a", Parent: "main"})
		require.ErrorIs(t, err, sterrors.ErrBranchAlreadyTracked)

		require.NoError(t, f.scene.Repo.CreateBranch("c"))
		err = actions.TrackAction(f.ctx, actions.TrackOptions{BranchName: "c", Parent: "nope"})
		require.ErrorIs(t, err, sterrors.ErrParentNotTracked)

		err = actions.TrackAction(f.ctx, actions.TrackOptions{BranchName: "missing", Parent: "main"})
		require.ErrorIs(t, err, sterrors.ErrBranchNotFound)
	})

	t.Run("rebases onto the parent", func(t *testing.T) {
		f := newActionFixture(t, testhelpers.StackSceneSetup)
		f.ctx.InitStore("main")
		f.commitOnMain(t)

		require.NoError(t, actions.TrackAction(f.ctx, actions.TrackOptions{BranchName: "a", Parent: "main", Rebase: true}))
		require.True(t, f.scene.Repo.IsAncestor("main", "a"))
		require.Equal(t, "b", f.current(t))
		require.Equal(t, f.rev(t, "main"), f.reload(t).Store.Get("a").ParentOIDCache)
	})
}
