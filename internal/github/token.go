package github

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TokenSource runs `gh auth token` or an equivalent.
type TokenSource func(ctx context.Context) (string, error)

// ResolveToken picks the GitHub token: the configured value, then the
// GITHUB_TOKEN environment variable, then the gh CLI.
func ResolveToken(ctx context.Context, configured string, gh TokenSource) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if gh == nil {
		return "", fmt.Errorf("no GitHub token: set GITHUB_TOKEN or github.token")
	}

	output, err := gh(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}
	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}
