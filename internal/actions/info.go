package actions

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"st.dev/st/internal/output"
	"st.dev/st/internal/runtime"
)

// InfoOptions contains options for the info command
type InfoOptions struct {
	BranchName string
	JSON       bool
}

// BranchInfo describes a tracked branch.
type BranchInfo struct {
	Name           string   `json:"name"`
	Trunk          bool     `json:"trunk"`
	Parent         string   `json:"parent,omitempty"`
	Children       []string `json:"children"`
	ParentOIDCache string   `json:"parent_oid_cache,omitempty"`
	NeedsRestack   bool     `json:"needs_restack"`
	PRNumber       uint64   `json:"pr_number,omitempty"`
	Stack          []string `json:"stack"`
}

// InfoAction shows what st knows about a branch.
func InfoAction(ctx *runtime.Context, opts InfoOptions) error {
	info, err := branchInfo(ctx, opts.BranchName)
	if err != nil {
		return err
	}

	if opts.JSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode branch info: %w", err)
		}
		ctx.Splog.Page(string(out) + "\n")
		return nil
	}

	ctx.Splog.Info("%s", output.ColorBranchName(info.Name, false))
	if info.Trunk {
		ctx.Splog.Info("trunk")
	} else {
		ctx.Splog.Info("%s %s", output.ColorDim("parent:"), info.Parent)
	}
	if len(info.Children) > 0 {
		ctx.Splog.Info("%s %s", output.ColorDim("children:"), strings.Join(info.Children, ", "))
	}
	if info.PRNumber != 0 {
		ctx.Splog.Info("%s %s", output.ColorDim("pull request:"), output.ColorPRNumber(info.PRNumber))
	}
	if info.NeedsRestack {
		ctx.Splog.Info("%s", output.ColorNeedsRestack("needs restack"))
	}
	ctx.Splog.Info("%s %s", output.ColorDim("stack:"), strings.Join(info.Stack, " → "))
	return nil
}

func branchInfo(ctx *runtime.Context, name string) (*BranchInfo, error) {
	store := ctx.Store
	name, err := branchOrCurrent(ctx, name)
	if err != nil {
		return nil, err
	}
	stack, err := store.DiscoverStack(name)
	if err != nil {
		return nil, err
	}
	stale, err := ctx.Restacker().NeedsRestack(ctx.Context, name)
	if err != nil {
		return nil, err
	}

	b := store.Get(name)
	info := &BranchInfo{
		Name:           name,
		Trunk:          store.IsTrunk(name),
		Parent:         b.Parent,
		Children:       append([]string{}, b.Children...),
		ParentOIDCache: b.ParentOIDCache,
		NeedsRestack:   stale,
		Stack:          stack,
	}
	if b.Remote != nil {
		info.PRNumber = b.Remote.PRNumber
	}
	return info, nil
}
