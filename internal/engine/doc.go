// Package engine manages the tree of tracked branches and keeps it in sync with git.
//
// It is the core of st, responsible for:
//   - Tracking parent-child relationships between branches (Store)
//   - Resolving the linear stack that contains a branch (DiscoverStack)
//   - Detecting stale branches and rebasing them in dependency order (Restacker)
//   - Persisting the tree to a file inside the git directory
//
// The engine does not talk to git directly. It goes through the Repository
// interface, which internal/git implements and tests replace with fakes.
package engine
