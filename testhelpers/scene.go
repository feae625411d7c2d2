package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Scene is a temporary git repository that is also the working directory
// for the duration of a test.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a repository in a temp dir, changes into it, and runs
// setup. Global git config is disabled for every git process the test
// starts, including the ones started by the code under test.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	// resolve symlinks so paths compare equal to what git reports (macOS /var)
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_TERMINAL_PROMPT", "0")

	repo, err := NewGitRepo(tmpDir)
	require.NoError(t, err, "failed to create git repo")

	scene := &Scene{Dir: tmpDir, Repo: repo}
	t.Chdir(tmpDir)

	if setup != nil {
		require.NoError(t, setup(scene), "scene setup failed")
	}
	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// StackSceneSetup creates main with one commit and the stack
// main -> a -> b, each branch carrying its own commit. b is checked out.
func StackSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	for _, name := range []string{"a", "b"} {
		if err := scene.Repo.CreateAndCheckoutBranch(name); err != nil {
			return err
		}
		if err := scene.Repo.CreateChangeAndCommit(name, name); err != nil {
			return err
		}
	}
	return nil
}
