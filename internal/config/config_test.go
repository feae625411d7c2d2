package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Empty(t, loaded.ConfigFileUsed)

	cfg := loaded.Config
	require.Equal(t, "origin", cfg.Remote)
	require.True(t, cfg.Stack.AllowForkOnDelete)
	require.True(t, cfg.Log.File)
	require.False(t, cfg.Submit.Force)
	require.Empty(t, cfg.GitHub.Token)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
remote: upstream
submit:
  draft: true
stack:
  allow_fork_on_delete: false
github:
  labels: [stacked]
`), 0o600))
	t.Setenv("ST_GITHUB_TOKEN", "  secret  ")
	t.Setenv("ST_SUBMIT_FORCE", "true")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.ConfigFileUsed)

	cfg := loaded.Config
	require.Equal(t, "upstream", cfg.Remote)
	require.True(t, cfg.Submit.Draft)
	require.True(t, cfg.Submit.Force)
	require.False(t, cfg.Stack.AllowForkOnDelete)
	require.Equal(t, "secret", cfg.GitHub.Token)
	require.Equal(t, []string{"stacked"}, cfg.GitHub.Labels)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("remote: [unterminated"), 0o600))

	_, err := config.Load(path)
	require.ErrorContains(t, err, "failed to read configuration")
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, config.Set(path, "submit.draft", "true"))
	require.NoError(t, config.Set(path, "remote", "upstream"))
	require.NoError(t, config.Set(path, "github.labels", "a, b,"))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Config.Submit.Draft)
	require.Equal(t, "upstream", loaded.Config.Remote)
	require.Equal(t, []string{"a", "b"}, loaded.Config.GitHub.Labels)

	t.Run("unknown key", func(t *testing.T) {
		err := config.Set(path, "nope", "1")
		require.ErrorContains(t, err, "unknown config key")
	})

	t.Run("bad bool", func(t *testing.T) {
		err := config.Set(path, "submit.force", "maybe")
		require.ErrorContains(t, err, "must be true or false")
	})
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := config.DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/xdg", "st", "config.yaml"), path)

	t.Setenv(config.PathEnv, "/custom.yaml")
	path, err = config.DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/custom.yaml", path)
}

func TestConfigYAMLHidesToken(t *testing.T) {
	cfg := &config.Config{Remote: "origin"}
	cfg.GitHub.Token = "secret"

	out, err := cfg.YAML()
	require.NoError(t, err)
	require.Contains(t, out, "remote: origin")
	require.NotContains(t, out, "secret")
	require.Equal(t, "secret", cfg.GitHub.Token)
}

func TestKeys(t *testing.T) {
	require.Contains(t, config.Keys(), "stack.allow_fork_on_delete")
	require.IsIncreasing(t, config.Keys())
}
