package output

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mockTree is main -> a -> b plus main -> c.
type mockTree struct {
	children map[string][]string
	parents  map[string]string
}

func newMockTree() *mockTree {
	return &mockTree{
		children: map[string][]string{
			"main": {"a", "c"},
			"a":    {"b"},
		},
		parents: map[string]string{
			"a": "main",
			"b": "a",
			"c": "main",
		},
	}
}

func (m *mockTree) Children(name string) []string { return m.children[name] }
func (m *mockTree) Parent(name string) string     { return m.parents[name] }
func (m *mockTree) IsTrunk(name string) bool      { return name == "main" }

func TestStackTreeRenderer_WholeTree(t *testing.T) {
	SetColorEnabled(false)
	renderer := NewStackTreeRenderer("b", newMockTree())

	lines := renderer.RenderStack("main", TreeRenderOptions{})
	require.Equal(t, []string{
		"◉ b (current)",
		"│",
		"◯ a",
		"│",
		"│  ◯ c",
		"│  │",
		"├──┘",
		"◯ main",
	}, lines)
}

func TestStackTreeRenderer_Annotations(t *testing.T) {
	SetColorEnabled(false)
	renderer := NewStackTreeRenderer("b", newMockTree())
	renderer.SetAnnotation("a", BranchAnnotation{PRNumber: 11})
	renderer.SetAnnotation("b", BranchAnnotation{PRNumber: 12, NeedsRestack: true})

	lines := renderer.RenderStack("b", TreeRenderOptions{})
	require.Equal(t, []string{
		"◉ b (current) #12 (needs restack)",
		"│",
		"◯ a #11",
		"│",
		"◯ main",
	}, lines)
}

func TestStackTreeRenderer_Reverse(t *testing.T) {
	SetColorEnabled(false)
	renderer := NewStackTreeRenderer("b", newMockTree())

	lines := renderer.RenderStack("b", TreeRenderOptions{Reverse: true})
	require.Equal(t, []string{
		"◯ main",
		"│",
		"◯ a",
		"│",
		"◉ b (current)",
	}, lines)
}

func TestStackTreeRenderer_TrunkOnly(t *testing.T) {
	SetColorEnabled(false)
	renderer := NewStackTreeRenderer("main", &mockTree{})

	require.Equal(t, []string{"◉ main (current)"}, renderer.RenderStack("main", TreeRenderOptions{}))
}
