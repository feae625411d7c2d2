package actions_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/config"
	"st.dev/st/internal/output"
	"st.dev/st/internal/prompt"
	"st.dev/st/internal/runtime"
	"st.dev/st/testhelpers"
)

type actionFixture struct {
	scene    *testhelpers.Scene
	ctx      *runtime.Context
	out      *bytes.Buffer
	prompter *prompt.Scripted
}

func newActionFixture(t *testing.T, setup testhelpers.SceneSetup, answers ...prompt.Answer) *actionFixture {
	t.Helper()
	output.SetColorEnabled(false)
	t.Setenv("DEBUG", "")
	scene := testhelpers.NewScene(t, setup)

	out := &bytes.Buffer{}
	ctx, err := runtime.NewContext(context.Background(), scene.Dir, testConfig(), output.NewSplogWithWriter(out))
	require.NoError(t, err)
	scripted := prompt.NewScripted(answers...)
	ctx.Prompter = scripted

	return &actionFixture{scene: scene, ctx: ctx, out: out, prompter: scripted}
}

// track records main -> a -> b with every cache at the parent's tip.
func (f *actionFixture) track(t *testing.T) {
	t.Helper()
	f.ctx.InitStore("main")
	require.NoError(t, f.ctx.Store.Insert("main", "a", f.rev(t, "main")))
	require.NoError(t, f.ctx.Store.Insert("a", "b", f.rev(t, "a")))
	require.NoError(t, f.ctx.Save())
}

// reload reads the saved store into a fresh context.
func (f *actionFixture) reload(t *testing.T) *runtime.Context {
	t.Helper()
	ctx, err := runtime.NewContext(context.Background(), f.scene.Dir, testConfig(), output.NewSplogWithWriter(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, ctx.LoadStore())
	return ctx
}

func (f *actionFixture) rev(t *testing.T, name string) string {
	t.Helper()
	sha, err := f.scene.Repo.GetRevision(name)
	require.NoError(t, err)
	return sha
}

func (f *actionFixture) current(t *testing.T) string {
	t.Helper()
	name, err := f.scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	return name
}

// commitOnMain adds a commit to main and returns to the previous branch.
func (f *actionFixture) commitOnMain(t *testing.T) {
	t.Helper()
	previous := f.current(t)
	require.NoError(t, f.scene.Repo.CheckoutBranch("main"))
	require.NoError(t, f.scene.Repo.CreateChangeAndCommit("main 2", "main2"))
	require.NoError(t, f.scene.Repo.CheckoutBranch(previous))
}

func testConfig() *config.Config {
	return &config.Config{
		Remote: "origin",
		Stack:  config.StackConfig{AllowForkOnDelete: true},
	}
}
