package engine

import (
	"fmt"
	"slices"
	"sort"

	sterrors "st.dev/st/internal/errors"
)

// SplicePolicy controls what Delete does when reparenting children would
// give the grandparent more than one child.
type SplicePolicy int

const (
	// SpliceAllowFork reparents children onto the grandparent unconditionally
	SpliceAllowFork SplicePolicy = iota
	// SpliceRejectFork refuses a delete that would create a new fork
	SpliceRejectFork
)

// RemoteMetadata records the pull request that mirrors a branch.
type RemoteMetadata struct {
	PRNumber  uint64
	CommentID *uint64
}

// Branch is a single node of the tracked tree.
type Branch struct {
	Name   string
	Parent string
	// Children is kept sorted and free of duplicates.
	Children []string
	// ParentOIDCache is the parent's tip at the time this branch was last
	// based on it. Empty means unknown.
	ParentOIDCache string
	Remote         *RemoteMetadata
}

// HasChild reports whether name is a direct child of b.
func (b *Branch) HasChild(name string) bool {
	_, found := slices.BinarySearch(b.Children, name)
	return found
}

func (b *Branch) addChild(name string) {
	i, found := slices.BinarySearch(b.Children, name)
	if found {
		return
	}
	b.Children = slices.Insert(b.Children, i, name)
}

func (b *Branch) removeChild(name string) {
	i, found := slices.BinarySearch(b.Children, name)
	if !found {
		return
	}
	b.Children = slices.Delete(b.Children, i, i+1)
	if len(b.Children) == 0 {
		b.Children = nil
	}
}

// Store is the tree of tracked branches, kept as a flat map keyed by name.
// Parent and child links are names, so there are no pointer cycles.
type Store struct {
	TrunkName string
	Branches  map[string]*Branch
	Policy    SplicePolicy
}

// NewStore creates a store that tracks only the trunk.
func NewStore(trunk string) *Store {
	return &Store{
		TrunkName: trunk,
		Branches: map[string]*Branch{
			trunk: {Name: trunk},
		},
	}
}

// Get returns the tracked branch, or nil when name is not tracked.
func (s *Store) Get(name string) *Branch {
	return s.Branches[name]
}

// IsTracked reports whether name is in the store.
func (s *Store) IsTracked(name string) bool {
	_, ok := s.Branches[name]
	return ok
}

// IsTrunk reports whether name is the trunk.
func (s *Store) IsTrunk(name string) bool {
	return name == s.TrunkName
}

// Parent returns the parent of name, or "" for the trunk and untracked names.
func (s *Store) Parent(name string) string {
	if b := s.Branches[name]; b != nil {
		return b.Parent
	}
	return ""
}

// Children returns a copy of the children of name.
func (s *Store) Children(name string) []string {
	if b := s.Branches[name]; b != nil {
		return slices.Clone(b.Children)
	}
	return nil
}

// Insert tracks name as a child of parent. initialParentOID seeds the
// parent tip cache and may be empty.
func (s *Store) Insert(parent, name, initialParentOID string) error {
	p := s.Branches[parent]
	if p == nil {
		return sterrors.NewParentNotTrackedError(parent)
	}
	if s.IsTracked(name) {
		return sterrors.NewBranchAlreadyTrackedError(name)
	}

	p.addChild(name)
	s.Branches[name] = &Branch{
		Name:           name,
		Parent:         parent,
		ParentOIDCache: initialParentOID,
	}
	return nil
}

// Delete untracks name and reparents its children onto its parent.
// The removed node is returned so callers can inspect its remote metadata.
func (s *Store) Delete(name string) (*Branch, error) {
	return s.remove(name, s.Policy)
}

func (s *Store) remove(name string, policy SplicePolicy) (*Branch, error) {
	b := s.Branches[name]
	if b == nil {
		return nil, sterrors.NewBranchNotTrackedError(name)
	}
	if s.IsTrunk(name) {
		return nil, sterrors.ErrCannotDeleteTrunk
	}

	grandparent := s.Branches[b.Parent]
	if grandparent == nil {
		return nil, fmt.Errorf("branch %s has untracked parent %s", name, b.Parent)
	}

	if policy == SpliceRejectFork && len(b.Children) > 0 {
		// after the splice the grandparent owns its other children plus ours
		if len(grandparent.Children)-1+len(b.Children) > 1 {
			return nil, sterrors.NewSpliceWouldForkError(name, b.Parent)
		}
	}

	grandparent.removeChild(name)
	for _, child := range b.Children {
		if c := s.Branches[child]; c != nil {
			c.Parent = b.Parent
		}
		grandparent.addChild(child)
	}
	delete(s.Branches, name)

	b.Children = nil
	return b, nil
}

// Prune untracks every non-trunk branch for which exists returns false and
// returns the pruned names in the order they were removed. It repeats until
// no tracked branch is missing or a pass removes nothing. Pruning ignores
// the splice policy.
func (s *Store) Prune(exists func(name string) bool) []string {
	var pruned []string
	for {
		var missing []string
		for name := range s.Branches {
			if !s.IsTrunk(name) && !exists(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			return pruned
		}
		sort.Strings(missing)
		removed := 0
		for _, name := range missing {
			if _, err := s.remove(name, SpliceAllowFork); err == nil {
				pruned = append(pruned, name)
				removed++
			}
		}
		// whatever is left cannot be removed
		if removed == 0 {
			return pruned
		}
	}
}

// BranchNames returns every tracked name with parents before children.
// Siblings are visited in name order.
func (s *Store) BranchNames() []string {
	names := make([]string, 0, len(s.Branches))
	var walk func(name string)
	walk = func(name string) {
		b := s.Branches[name]
		if b == nil {
			return
		}
		names = append(names, name)
		for _, child := range b.Children {
			walk(child)
		}
	}
	walk(s.TrunkName)
	return names
}

// SetParentOIDCache records the parent tip that name is based on.
func (s *Store) SetParentOIDCache(name, oid string) error {
	b := s.Branches[name]
	if b == nil {
		return sterrors.NewBranchNotTrackedError(name)
	}
	b.ParentOIDCache = oid
	return nil
}

// SetRemote records the pull request number for name, keeping any comment id
// already known for the same pull request.
func (s *Store) SetRemote(name string, prNumber uint64) error {
	b := s.Branches[name]
	if b == nil {
		return sterrors.NewBranchNotTrackedError(name)
	}
	if b.Remote != nil && b.Remote.PRNumber == prNumber {
		return nil
	}
	b.Remote = &RemoteMetadata{PRNumber: prNumber}
	return nil
}

// SetCommentID records the navigation comment posted on name's pull request.
func (s *Store) SetCommentID(name string, commentID uint64) error {
	b := s.Branches[name]
	if b == nil {
		return sterrors.NewBranchNotTrackedError(name)
	}
	if b.Remote == nil {
		return fmt.Errorf("branch %s has no pull request", name)
	}
	b.Remote.CommentID = &commentID
	return nil
}

// Validate checks the structural invariants of the tree: the trunk is
// present and parentless, every other node has a tracked parent that lists
// it as a child, every child link points back, and every node is reachable
// from the trunk.
func (s *Store) Validate() error {
	trunk := s.Branches[s.TrunkName]
	if trunk == nil {
		return fmt.Errorf("trunk %q is not tracked", s.TrunkName)
	}
	if trunk.Parent != "" {
		return fmt.Errorf("trunk %q has parent %q", s.TrunkName, trunk.Parent)
	}

	for name, b := range s.Branches {
		if b.Name != name {
			return fmt.Errorf("branch keyed %q is named %q", name, b.Name)
		}
		if !sort.StringsAreSorted(b.Children) {
			return fmt.Errorf("children of %q are not sorted", name)
		}
		for i, child := range b.Children {
			if i > 0 && b.Children[i-1] == child {
				return fmt.Errorf("branch %q lists child %q twice", name, child)
			}
			c := s.Branches[child]
			if c == nil {
				return fmt.Errorf("branch %q has untracked child %q", name, child)
			}
			if c.Parent != name {
				return fmt.Errorf("branch %q lists child %q whose parent is %q", name, child, c.Parent)
			}
		}
		if name == s.TrunkName {
			continue
		}
		p := s.Branches[b.Parent]
		if p == nil {
			return fmt.Errorf("branch %q has untracked parent %q", name, b.Parent)
		}
		if !p.HasChild(name) {
			return fmt.Errorf("parent %q does not list %q as a child", b.Parent, name)
		}
	}

	if reachable := len(s.BranchNames()); reachable != len(s.Branches) {
		return fmt.Errorf("%d of %d branches are not reachable from trunk", len(s.Branches)-reachable, len(s.Branches))
	}
	return nil
}
