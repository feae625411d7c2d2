package output

import (
	"slices"
	"strings"
)

// BranchAnnotation holds per-branch display metadata
type BranchAnnotation struct {
	PRNumber     uint64
	NeedsRestack bool
}

// TreeRenderOptions configures rendering behavior
type TreeRenderOptions struct {
	// Reverse prints the trunk first and children below their parent.
	Reverse bool
}

// TreeSource is the tree being drawn.
type TreeSource interface {
	Children(name string) []string
	Parent(name string) string
	IsTrunk(name string) bool
}

// StackTreeRenderer renders branch trees with annotations
type StackTreeRenderer struct {
	currentBranch string
	source        TreeSource
	annotations   map[string]BranchAnnotation
}

// NewStackTreeRenderer creates a new tree renderer
func NewStackTreeRenderer(currentBranch string, source TreeSource) *StackTreeRenderer {
	return &StackTreeRenderer{
		currentBranch: currentBranch,
		source:        source,
		annotations:   make(map[string]BranchAnnotation),
	}
}

// SetAnnotation sets the annotation for a branch
func (r *StackTreeRenderer) SetAnnotation(branchName string, annotation BranchAnnotation) {
	r.annotations[branchName] = annotation
}

// RenderStack renders branchName with everything above it and its
// ancestors below it. Children are drawn above their parent unless
// opts.Reverse is set.
func (r *StackTreeRenderer) RenderStack(branchName string, opts TreeRenderOptions) []string {
	sections := [][]string{
		r.upstackLines(branchName, 0, opts.Reverse),
		r.branchLines(branchName, 0, opts.Reverse, false),
		r.downstackLines(branchName, opts.Reverse),
	}
	if opts.Reverse {
		slices.Reverse(sections)
	}
	lines := slices.Concat(sections...)

	// drop the dangling connector below the trunk
	if opts.Reverse && len(lines) > 0 && lines[0] == "│" {
		lines = lines[1:]
	}
	if !opts.Reverse && len(lines) > 0 && lines[len(lines)-1] == "│" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (r *StackTreeRenderer) upstackLines(branchName string, indent int, reverse bool) []string {
	children := r.source.Children(branchName)
	var result []string
	for i, child := range children {
		childIndent := indent + i
		if reverse {
			childIndent = indent + (len(children) - i - 1)
		}
		sections := [][]string{
			r.upstackLines(child, childIndent, reverse),
			r.branchLines(child, childIndent, reverse, false),
		}
		if reverse {
			slices.Reverse(sections)
		}
		result = append(result, slices.Concat(sections...)...)
	}
	return result
}

func (r *StackTreeRenderer) downstackLines(branchName string, reverse bool) []string {
	if r.source.IsTrunk(branchName) {
		return nil
	}

	// ancestors, nearest first
	var result []string
	for parent := r.source.Parent(branchName); parent != ""; parent = r.source.Parent(parent) {
		result = append(result, r.infoLines(parent, 0)...)
		if r.source.IsTrunk(parent) {
			break
		}
	}
	if reverse {
		slices.Reverse(result)
	}
	return result
}

func (r *StackTreeRenderer) branchLines(branchName string, indent int, reverse, skipBranching bool) []string {
	var result []string
	if n := len(r.source.Children(branchName)); !skipBranching && n >= 2 {
		result = append(result, branchingLine(n, reverse, indent))
	}
	result = append(result, r.infoLines(branchName, indent)...)
	if reverse {
		slices.Reverse(result)
	}
	return result
}

func branchingLine(numChildren int, reverse bool, indent int) string {
	middle, last := "──┴", "──┘"
	if reverse {
		middle, last = "──┬", "──┐"
	}
	return strings.Repeat("│  ", indent) + "├" + strings.Repeat(middle, numChildren-2) + last
}

func (r *StackTreeRenderer) infoLines(branchName string, indent int) []string {
	isCurrent := branchName == r.currentBranch
	prefix := strings.Repeat("│  ", indent)

	symbol := "◯"
	if isCurrent {
		symbol = "◉"
	}

	line := prefix + symbol + " " + ColorBranchName(branchName, isCurrent)
	annotation := r.annotations[branchName]
	if annotation.PRNumber != 0 {
		line += " " + ColorPRNumber(annotation.PRNumber)
	}
	if annotation.NeedsRestack {
		line += " " + ColorNeedsRestack("(needs restack)")
	}

	return []string{line, prefix + "│"}
}
