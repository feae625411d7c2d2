package cli

import (
	"github.com/spf13/cobra"

	"st.dev/st/internal/actions"
	"st.dev/st/internal/runtime"
)

func newSubmitCmd(a *app) *cobra.Command {
	var (
		force   bool
		draft   bool
		noDraft bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:     "submit",
		Aliases: []string{"s"},
		Short:   "Push the current stack and open or update a pull request per branch",
		Long: `Push the current stack and open or update a pull request per branch.

Each pull request targets its parent branch, and every pull request in the
stack carries a comment linking the others. The stack must be restacked and
the working tree clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := actions.SubmitOptions{Force: force, DryRun: dryRun}
			switch {
			case cmd.Flags().Changed("draft"):
				opts.Draft = &draft
			case cmd.Flags().Changed("no-draft"):
				isDraft := !noDraft
				opts.Draft = &isDraft
			}
			return a.run(cmd, func(ctx *runtime.Context) error {
				return actions.SubmitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force push, overwriting remote changes.")
	cmd.Flags().BoolVar(&draft, "draft", false, "Open new pull requests as drafts.")
	cmd.Flags().BoolVar(&noDraft, "no-draft", false, "Open new pull requests ready for review.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be pushed and opened without doing it.")
	cmd.MarkFlagsMutuallyExclusive("draft", "no-draft")

	return cmd
}
