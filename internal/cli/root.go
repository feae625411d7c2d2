package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"st.dev/st/internal/config"
	sterrors "st.dev/st/internal/errors"
	"st.dev/st/internal/output"
	"st.dev/st/internal/prompt"
	"st.dev/st/internal/runtime"
)

// app carries what every command needs before it builds a runtime.Context.
type app struct {
	splog      *output.Splog
	configPath string
	loaded     *config.Loaded
	newContext func(ctx context.Context, cfg *config.Config, splog *output.Splog) (*runtime.Context, error)
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version string, splog *output.Splog) *cobra.Command {
	a := &app{
		splog: splog,
		newContext: func(ctx context.Context, cfg *config.Config, splog *output.Splog) (*runtime.Context, error) {
			return runtime.NewContext(ctx, ".", cfg, splog)
		},
	}

	var (
		debug         bool
		noInteractive bool
	)

	rootCmd := &cobra.Command{
		Use:   "st",
		Short: "st keeps stacks of dependent branches rebased and mirrored to pull requests",
		Long: `st keeps stacks of dependent branches rebased and mirrored to pull requests.

Track branches with their parents, restack them when a parent moves, and
submit a whole stack as a chain of GitHub pull requests.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.splog.SetDebug(debug || os.Getenv("DEBUG") != "")
			if noInteractive {
				if err := os.Setenv(prompt.NoInteractiveEnv, "1"); err != nil {
					return err
				}
			}
			return a.loadConfig()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug output to the terminal.")
	rootCmd.PersistentFlags().BoolVar(&noInteractive, "no-interactive", false, "Fail instead of prompting.")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config file.")

	rootCmd.AddCommand(
		newInitCmd(a),
		newTrackCmd(a),
		newCreateCmd(a),
		newDeleteCmd(a),
		newLogCmd(a),
		newCheckoutCmd(a),
		newRestackCmd(a),
		newSubmitCmd(a),
		newInfoCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// Execute runs st with args and returns the process exit code. Errors are
// printed once, followed by a hint when the error carries one.
func Execute(ctx context.Context, version string, args []string) int {
	splog := output.NewSplog()
	defer func() { _ = splog.Close() }()
	output.ConfigureColor(os.Stdout)

	rootCmd := NewRootCmd(version, splog)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(splog, err)
		return 1
	}
	return 0
}

func (a *app) loadConfig() error {
	if a.configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.configPath = path
	}
	loaded, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.loaded = loaded
	return nil
}

func reportError(splog *output.Splog, err error) {
	splog.Error("%v", err)
	hint := sterrors.HintFor(err)
	if hint == "" && errors.Is(err, sterrors.ErrNotInitialized) {
		hint = "run `st init` first."
	}
	if hint != "" {
		splog.Tip("%s", hint)
	}
}
