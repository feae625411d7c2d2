package actions

import (
	"strings"

	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
	"st.dev/st/internal/submit"
)

// SubmitOptions contains options for the submit command
type SubmitOptions struct {
	// Force pushes with --force.
	Force bool
	// Draft is set when --draft or --no-draft was given.
	Draft  *bool
	DryRun bool
}

// SubmitAction pushes the current stack and opens or updates a pull
// request for each branch above the trunk.
func SubmitAction(ctx *runtime.Context, opts SubmitOptions) error {
	current, err := ctx.Repo.CurrentBranch(ctx.Context)
	if err != nil {
		return err
	}
	if ctx.Store.IsTrunk(current) {
		ctx.Splog.Info("Nothing to submit: %s is the trunk.", output.ColorBranchName(current, true))
		return nil
	}
	stack, err := ctx.Store.DiscoverStack(current)
	if err != nil {
		return err
	}

	host, err := ctx.Host()
	if err != nil {
		return err
	}

	engine := submit.NewEngine(ctx.Store, ctx.Repo, host, ctx.Prompter, ctx.Splog)
	submitOpts := submit.Options{
		Stack:  stack,
		Remote: ctx.Remote(),
		Force:  opts.Force,
		Draft:  opts.Draft,
		DryRun: opts.DryRun,
	}
	if ctx.Config != nil {
		submitOpts.Force = submitOpts.Force || ctx.Config.Submit.Force
		submitOpts.DraftDefault = ctx.Config.Submit.Draft
		submitOpts.PreferredLabels = ctx.Config.GitHub.Labels
	}

	report, err := engine.Submit(ctx.Context, submitOpts)
	if !opts.DryRun {
		// pull requests opened before a failure must not be opened twice
		if saveErr := ctx.Save(); saveErr != nil {
			if err == nil {
				return saveErr
			}
			ctx.Splog.Debug("failed to save submit progress: %v", saveErr)
		}
	}
	if report != nil {
		printSubmitReport(ctx, report)
	}
	return err
}

func printSubmitReport(ctx *runtime.Context, report *submit.Report) {
	prefix := ""
	if report.DryRun {
		prefix = "[dry run] "
	}
	sections := []struct {
		label    string
		branches []string
	}{
		{"Created", report.Created},
		{"Updated", report.Updated},
		{"Pushed", report.Pushed},
		{"Up to date", report.Skipped},
		{"Deleted", report.Deleted},
	}
	for _, s := range sections {
		if len(s.branches) == 0 {
			continue
		}
		names := make([]string, len(s.branches))
		for i, b := range s.branches {
			names[i] = output.ColorBranchName(b, false)
		}
		ctx.Splog.Info("%s%s: %s", prefix, s.label, strings.Join(names, ", "))
	}
	if report.DryRun {
		ctx.Splog.Info("%sNo changes were made.", prefix)
	}
}
