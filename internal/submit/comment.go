package submit

import (
	"fmt"
	"strings"
)

// CommentMarker opens every navigation comment st posts.
const CommentMarker = "<!-- st:stack-comment -->"

// CommentEntry is one stacked branch listed in a navigation comment.
// PRNumber is zero when the branch has no pull request yet.
type CommentEntry struct {
	Branch   string
	PRNumber uint64
}

// RenderStackComment renders the navigation comment for current. entries
// are the stacked branches trunk-first (trunk excluded); they are listed tip
// to trunk with trunk last.
func RenderStackComment(trunk string, entries []CommentEntry, current string) string {
	var sb strings.Builder
	sb.WriteString(CommentMarker)
	sb.WriteString("\n### 📚 Stack\n\n")

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.PRNumber != 0 {
			fmt.Fprintf(&sb, "* #%d", e.PRNumber)
		} else {
			fmt.Fprintf(&sb, "* `%s`", e.Branch)
		}
		if e.Branch == current {
			sb.WriteString(" 👈")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "* `%s`\n", trunk)

	sb.WriteString("\nManaged by `st`.\n")
	return sb.String()
}
