package submit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreferFirst(t *testing.T) {
	names := []string{"bug", "docs", "stacked"}
	require.Equal(t, []string{"stacked", "bug", "docs"}, preferFirst(names, []string{"stacked", "missing", "stacked"}))
	require.Equal(t, names, preferFirst(names, nil))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"octocat", "hubot"}, splitList(" @octocat, hubot,,octocat "))
	require.Nil(t, splitList(""))
}
