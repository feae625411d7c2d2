package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	sterrors "st.dev/st/internal/errors"
)

// StoreFileName is the name of the store file inside the git common directory.
const StoreFileName = ".st_store.yaml"

// storeDocument is the on-disk shape of a Store.
type storeDocument struct {
	TrunkName string                     `yaml:"trunk-name"`
	Branches  map[string]*branchDocument `yaml:"branches"`
}

type branchDocument struct {
	Parent   string          `yaml:"parent,omitempty"`
	Children []string        `yaml:"children"`
	Local    *localDocument  `yaml:"local,omitempty"`
	Remote   *remoteDocument `yaml:"remote,omitempty"`
}

type localDocument struct {
	ParentOIDCache string `yaml:"parent-oid-cache,omitempty"`
}

type remoteDocument struct {
	PRNumber  uint64  `yaml:"pr-number"`
	CommentID *uint64 `yaml:"comment-id,omitempty"`
}

// StorePath returns the store location for a git common directory.
func StorePath(gitDir string) string {
	return filepath.Join(gitDir, StoreFileName)
}

// Marshal encodes the store. Output is deterministic: yaml.v3 sorts map keys
// and children are kept sorted.
func (s *Store) Marshal() ([]byte, error) {
	doc := storeDocument{
		TrunkName: s.TrunkName,
		Branches:  make(map[string]*branchDocument, len(s.Branches)),
	}
	for name, b := range s.Branches {
		bd := &branchDocument{
			Parent:   b.Parent,
			Children: b.Children,
		}
		if bd.Children == nil {
			bd.Children = []string{}
		}
		if b.ParentOIDCache != "" {
			bd.Local = &localDocument{ParentOIDCache: b.ParentOIDCache}
		}
		if b.Remote != nil {
			bd.Remote = &remoteDocument{PRNumber: b.Remote.PRNumber, CommentID: b.Remote.CommentID}
		}
		doc.Branches[name] = bd
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a store and checks its invariants. Any failure is
// reported as a StoreCorruptError for path.
func Unmarshal(path string, data []byte) (*Store, error) {
	var doc storeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, sterrors.NewStoreCorruptError(path, err)
	}
	if doc.TrunkName == "" {
		return nil, sterrors.NewStoreCorruptError(path, errors.New("missing trunk-name"))
	}

	s := &Store{
		TrunkName: doc.TrunkName,
		Branches:  make(map[string]*Branch, len(doc.Branches)),
	}
	for name, bd := range doc.Branches {
		if bd == nil {
			return nil, sterrors.NewStoreCorruptError(path, fmt.Errorf("branch %q has no body", name))
		}
		b := &Branch{
			Name:     name,
			Parent:   bd.Parent,
			Children: bd.Children,
		}
		if len(b.Children) == 0 {
			b.Children = nil
		}
		sort.Strings(b.Children)
		if bd.Local != nil {
			b.ParentOIDCache = bd.Local.ParentOIDCache
		}
		if bd.Remote != nil {
			b.Remote = &RemoteMetadata{PRNumber: bd.Remote.PRNumber, CommentID: bd.Remote.CommentID}
		}
		s.Branches[name] = b
	}

	if err := s.Validate(); err != nil {
		return nil, sterrors.NewStoreCorruptError(path, err)
	}
	return s, nil
}

// Load reads the store at path. It returns (nil, nil) when no store exists.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	return Unmarshal(path, data)
}

// Save replaces the file at path with the encoded store. The data is written
// to a temporary file in the same directory and renamed into place, so
// readers see either the old or the new store.
func (s *Store) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, StoreFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename has happened
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
