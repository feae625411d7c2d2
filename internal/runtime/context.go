package runtime

import (
	"context"
	"fmt"
	"path/filepath"

	"st.dev/st/internal/config"
	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/git"
	"st.dev/st/internal/github"
	"st.dev/st/internal/output"
	"st.dev/st/internal/prompt"
)

// LogFileName is the debug log inside the git directory.
const LogFileName = "st.log"

// HostFactory creates the pull request host for a session.
type HostFactory func(ctx context.Context, c *Context) (github.Host, error)

// Context provides access to the repository, store and output for commands.
// A command loads the store once, mutates it in memory and calls Save only
// when it succeeds.
type Context struct {
	Context   context.Context
	Splog     *output.Splog
	Config    *config.Config
	Repo      engine.Repository
	Prompter  prompt.Prompter
	StorePath string
	// Store is nil until LoadStore or InitStore succeeds.
	Store *engine.Store
	// NewHost is called once, on the first Host call.
	NewHost HostFactory

	host github.Host
}

// NewContext opens the repository containing dir and enables the debug
// log file when configured.
func NewContext(ctx context.Context, dir string, cfg *config.Config, splog *output.Splog) (*Context, error) {
	repo, err := git.OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	commonDir, err := repo.CommonDir(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Log.File {
		if gitDir, err := repo.GitDir(ctx); err == nil {
			if err := splog.EnableFileLog(filepath.Join(gitDir, ".st", LogFileName)); err != nil {
				splog.Debug("debug log disabled: %v", err)
			}
		}
	}

	return &Context{
		Context:   ctx,
		Splog:     splog,
		Config:    cfg,
		Repo:      repo,
		Prompter:  prompt.Terminal{},
		StorePath: engine.StorePath(commonDir),
		NewHost:   GitHubHost,
	}, nil
}

// LoadStore reads the branch store and untracks branches that were deleted
// outside st. The pruned store is saved right away.
func (c *Context) LoadStore() error {
	store, err := engine.Load(c.StorePath)
	if err != nil {
		return err
	}
	if store == nil {
		return sterrors.ErrNotInitialized
	}
	c.applyPolicy(store)

	names, err := c.Repo.BranchNames(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}
	if !existing[store.TrunkName] {
		return fmt.Errorf("trunk branch %s no longer exists; run `st init --reset`", store.TrunkName)
	}

	pruned := store.Prune(func(name string) bool { return existing[name] })
	c.Store = store
	if len(pruned) > 0 {
		for _, name := range pruned {
			c.Splog.Debug("untracked %s: the branch no longer exists", name)
		}
		return c.Save()
	}
	return nil
}

// InitStore replaces the store with a fresh one rooted at trunk. It is not
// saved until Save is called.
func (c *Context) InitStore(trunk string) {
	store := engine.NewStore(trunk)
	c.applyPolicy(store)
	c.Store = store
}

func (c *Context) applyPolicy(store *engine.Store) {
	if c.Config != nil && !c.Config.Stack.AllowForkOnDelete {
		store.Policy = engine.SpliceRejectFork
	}
}

// Save persists the store.
func (c *Context) Save() error {
	if c.Store == nil {
		return sterrors.ErrNotInitialized
	}
	return c.Store.Save(c.StorePath)
}

// Remote returns the configured git remote.
func (c *Context) Remote() string {
	if c.Config != nil && c.Config.Remote != "" {
		return c.Config.Remote
	}
	return "origin"
}

// Restacker returns a restacker over the loaded store.
func (c *Context) Restacker() *engine.Restacker {
	return engine.NewRestacker(c.Store, c.Repo, c.Splog)
}

// Host returns the pull request host, creating it on first use.
func (c *Context) Host() (github.Host, error) {
	if c.host != nil {
		return c.host, nil
	}
	if c.NewHost == nil {
		return nil, fmt.Errorf("no pull request host configured")
	}
	host, err := c.NewHost(c.Context, c)
	if err != nil {
		return nil, err
	}
	c.host = host
	return host, nil
}

// SetHost injects a host, for tests.
func (c *Context) SetHost(host github.Host) {
	c.host = host
}

// GitHubHost connects to the GitHub repository behind the configured remote.
func GitHubHost(ctx context.Context, c *Context) (github.Host, error) {
	url, err := c.Repo.RemoteURL(ctx, c.Remote())
	if err != nil {
		return nil, err
	}
	info, err := github.ParseGitHubRemoteURL(url)
	if err != nil {
		return nil, err
	}

	var configured string
	if c.Config != nil {
		configured = c.Config.GitHub.Token
		if c.Config.GitHub.Host != "" {
			info.Hostname = c.Config.GitHub.Host
		}
	}

	var gh github.TokenSource
	if repo, ok := c.Repo.(*git.Repository); ok {
		gh = func(ctx context.Context) (string, error) {
			return repo.Runner().RunGH(ctx, "auth", "token", "--hostname", info.Hostname)
		}
	}
	token, err := github.ResolveToken(ctx, configured, gh)
	if err != nil {
		return nil, err
	}
	return github.NewClientForRepo(ctx, info, token)
}
