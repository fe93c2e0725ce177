// Package vostest provides deterministic filesystems for tests.
package vostest

import (
	"path"
	"strings"
	"testing"

	"github.com/josephlewis42/tarsh/core/vos"
	"github.com/spf13/afero"
)

// Tree describes filesystem contents, keys ending in "/" are directories and
// all other keys are files holding the value.
type Tree map[string]string

// Populate writes the tree into fs.
func (tree Tree) Populate(t testing.TB, fs vos.VFS) {
	t.Helper()

	for key, contents := range tree {
		name := path.Join("/", key)

		if strings.HasSuffix(key, "/") {
			if err := fs.MkdirAll(name, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}

		if err := fs.MkdirAll(path.Dir(name), 0755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, name, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// NewMemFS creates an in-memory sandbox containing tree.
func NewMemFS(t testing.TB, tree Tree) vos.VFS {
	t.Helper()

	fs := afero.NewMemMapFs()
	tree.Populate(t, fs)
	return fs
}

// NewSandboxFS creates a sandbox in a temporary host directory containing tree.
// It returns the filesystem and the host root.
func NewSandboxFS(t testing.TB, tree Tree) (vos.VFS, string) {
	t.Helper()

	root := t.TempDir()
	fs, err := vos.NewSandboxFs(root)
	if err != nil {
		t.Fatal(err)
	}
	tree.Populate(t, fs)
	return fs, root
}
