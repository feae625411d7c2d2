package engine

import (
	sterrors "st.dev/st/internal/errors"
)

// DiscoverStack returns the linear stack containing current, ordered from
// the trunk up. Downstack it follows parent links to the trunk. Upstack it
// follows children only while a branch has exactly one child, so the stack
// stops below the first fork.
func (s *Store) DiscoverStack(current string) ([]string, error) {
	b := s.Branches[current]
	if b == nil {
		return nil, sterrors.NewBranchNotTrackedError(current)
	}

	var downstack []string
	name := current
	for {
		downstack = append(downstack, name)
		if s.IsTrunk(name) {
			break
		}
		parent := s.Branches[name].Parent
		if !s.IsTracked(parent) {
			return nil, sterrors.NewBranchNotTrackedError(parent)
		}
		name = parent
	}

	stack := make([]string, 0, len(downstack))
	for i := len(downstack) - 1; i >= 0; i-- {
		stack = append(stack, downstack[i])
	}

	for node := b; node != nil && len(node.Children) == 1; {
		next := node.Children[0]
		stack = append(stack, next)
		node = s.Branches[next]
	}
	return stack, nil
}
