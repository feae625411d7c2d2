// Package runtime holds the per-command session: the repository, the
// loaded branch store, output and configuration.
package runtime
