package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"st.dev/st/internal/engine"
	sterrors "st.dev/st/internal/errors"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Run("marshal then unmarshal yields an equal store", func(t *testing.T) {
		s := newTree(t)
		require.NoError(t, s.SetRemote("a", 12))
		require.NoError(t, s.SetCommentID("a", 3401))
		require.NoError(t, s.SetRemote("b", 13))

		data, err := s.Marshal()
		require.NoError(t, err)

		loaded, err := engine.Unmarshal("store", data)
		require.NoError(t, err)
		require.Equal(t, s, loaded)

		again, err := loaded.Marshal()
		require.NoError(t, err)
		require.Equal(t, string(data), string(again))
	})

	t.Run("uses the documented keys and omits absent fields", func(t *testing.T) {
		s := newTree(t)
		require.NoError(t, s.SetRemote("a", 12))

		data, err := s.Marshal()
		require.NoError(t, err)

		out := string(data)
		require.Contains(t, out, "trunk-name: main")
		require.Contains(t, out, "parent-oid-cache: oid-main")
		require.Contains(t, out, "pr-number: 12")
		require.NotContains(t, out, "comment-id")
	})

	t.Run("survives a deletion", func(t *testing.T) {
		s := newTree(t)
		_, err := s.Delete("a")
		require.NoError(t, err)

		data, err := s.Marshal()
		require.NoError(t, err)
		loaded, err := engine.Unmarshal("store", data)
		require.NoError(t, err)
		require.Equal(t, s, loaded)
	})
}

func TestStoreRoundTrip_Shapes(t *testing.T) {
	shapes := map[string]func(t *testing.T) *engine.Store{
		"trunk only": func(*testing.T) *engine.Store {
			return engine.NewStore("main")
		},
		"deep chain": func(t *testing.T) *engine.Store {
			s := engine.NewStore("main")
			parent := "main"
			for _, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
				require.NoError(t, s.Insert(parent, name, "oid-"+parent))
				parent = name
			}
			return s
		},
		"fork with a comment on a leaf": func(t *testing.T) *engine.Store {
			s := engine.NewStore("develop")
			require.NoError(t, s.Insert("develop", "x", "oid-develop"))
			require.NoError(t, s.Insert("develop", "y", "oid-develop"))
			require.NoError(t, s.Insert("x", "x1", "oid-x"))
			require.NoError(t, s.Insert("x", "x2", "oid-x"))
			require.NoError(t, s.SetRemote("x2", 41))
			require.NoError(t, s.SetCommentID("x2", 9001))
			return s
		},
		"empty cache": func(t *testing.T) *engine.Store {
			s := engine.NewStore("main")
			require.NoError(t, s.Insert("main", "fresh", ""))
			require.NoError(t, s.SetRemote("fresh", 7))
			return s
		},
	}

	for name, build := range shapes {
		t.Run(name, func(t *testing.T) {
			s := build(t)
			require.NoError(t, s.Validate())

			data, err := s.Marshal()
			require.NoError(t, err)
			loaded, err := engine.Unmarshal("store", data)
			require.NoError(t, err)
			require.Equal(t, s, loaded)

			again, err := loaded.Marshal()
			require.NoError(t, err)
			require.Equal(t, string(data), string(again))
		})
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	cases := map[string]string{
		"not yaml":        "trunk-name: [",
		"missing trunk":   "branches: {}\n",
		"trunk untracked": "trunk-name: main\nbranches: {}\n",
		"dangling parent": `trunk-name: main
branches:
  main:
    children: []
  a:
    parent: gone
    children: []
`,
		"child not linked": `trunk-name: main
branches:
  main:
    children: []
  a:
    parent: main
    children: []
`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Unmarshal("/repo/.git/.st_store.yaml", []byte(input))
			require.ErrorIs(t, err, sterrors.ErrStoreCorrupt)

			var corrupt *sterrors.StoreCorruptError
			require.ErrorAs(t, err, &corrupt)
			require.Equal(t, "/repo/.git/.st_store.yaml", corrupt.Path)
		})
	}
}

func TestLoadSave(t *testing.T) {
	t.Run("load of a missing file returns nil", func(t *testing.T) {
		s, err := engine.Load(filepath.Join(t.TempDir(), engine.StoreFileName))
		require.NoError(t, err)
		require.Nil(t, s)
	})

	t.Run("save replaces the file", func(t *testing.T) {
		dir := t.TempDir()
		path := engine.StorePath(dir)
		require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o600))

		s := newTree(t)
		require.NoError(t, s.Save(path))

		loaded, err := engine.Load(path)
		require.NoError(t, err)
		require.Equal(t, s, loaded)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1, "temp file should not be left behind")
	})
}
