package utils

import (
	"regexp"
	"strings"
)

// MaxBranchNameByteLength keeps refs/heads/<name> under git's 255 byte limit.
const MaxBranchNameByteLength = 244

var (
	// invalid characters collapse into a single hyphen
	branchNameReplaceRegex = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)
	branchNameTrailerRegex = regexp.MustCompile(`[/.]+$`)
	hyphenRunRegex         = regexp.MustCompile(`-{2,}`)
)

// SanitizeBranchName turns free text into a usable branch name:
// "Fix login bug!" becomes "Fix-login-bug".
func SanitizeBranchName(name string) string {
	name = branchNameReplaceRegex.ReplaceAllString(strings.TrimSpace(name), "-")
	name = hyphenRunRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	name = branchNameTrailerRegex.ReplaceAllString(name, "")

	if len(name) > MaxBranchNameByteLength {
		name = strings.TrimRight(name[:MaxBranchNameByteLength], "-/.")
	}
	return name
}
