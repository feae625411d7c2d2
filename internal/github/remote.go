package github

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseGitHubRemoteURL parses a git remote URL and extracts hostname, owner, and repo.
// Supports both github.com and GitHub Enterprise URLs
// Examples:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.company.com:2222/owner/repo.git
//   - git@github.company.com/owner/repo
func ParseGitHubRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(strings.TrimSuffix(remoteURL, "/"), ".git")
	if remoteURL == "" {
		return nil, fmt.Errorf("empty remote URL")
	}

	var hostname, path string

	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}
		switch u.Scheme {
		case "https", "http", "ssh", "git":
		default:
			return nil, fmt.Errorf("unsupported remote protocol %q", u.Scheme)
		}
		hostname = u.Hostname()
		path = strings.TrimPrefix(u.Path, "/")
	} else {
		// scp-like syntax: [user@]hostname:owner/repo
		hostAndPath := remoteURL
		if i := strings.Index(hostAndPath, "@"); i >= 0 {
			hostAndPath = hostAndPath[i+1:]
		}
		sep := strings.IndexAny(hostAndPath, ":/")
		if sep < 0 {
			return nil, fmt.Errorf("invalid SSH remote URL %q: missing path", remoteURL)
		}
		hostname = hostAndPath[:sep]
		path = hostAndPath[sep+1:]
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid remote URL %q: path must be owner/repo", remoteURL)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL %q", remoteURL)
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}
