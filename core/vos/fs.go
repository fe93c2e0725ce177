package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// VFS is the filesystem a session operates on. Paths are slash separated and
// "/" is the sandbox root.
type VFS = afero.Fs

// ErrNotDir is returned when a sandbox root exists but isn't a directory.
var ErrNotDir = errors.New("not a directory")

// NewSandboxFs returns a filesystem confined to the host directory root.
//
// The root must already exist and be a directory.
func NewSandboxFs(root string) (*SandboxFs, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return nil, fmt.Errorf("sandbox root: %w", err)
	case !info.IsDir():
		return nil, &os.PathError{Op: "sandbox root", Path: abs, Err: ErrNotDir}
	}

	return &SandboxFs{
		BasePathFs: afero.NewBasePathFs(afero.NewOsFs(), abs).(*afero.BasePathFs),
		root:       abs,
	}, nil
}

// SandboxFs is a host directory exposed as "/".
//
// Unlike afero.BasePathFs, symlink targets are stored verbatim so links
// extracted from an archive keep their meaning inside the sandbox, and links
// pointing into the host root read back as sandbox paths.
type SandboxFs struct {
	*afero.BasePathFs
	root string
}

var _ afero.Symlinker = (*SandboxFs)(nil)

// Root returns the absolute host path of the sandbox.
func (s *SandboxFs) Root() string {
	return s.root
}

// SymlinkIfPossible implements afero.Linker.
func (s *SandboxFs) SymlinkIfPossible(oldname, newname string) error {
	hostName, err := s.RealPath(newname)
	if err != nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: err}
	}
	return os.Symlink(filepath.FromSlash(oldname), hostName)
}

// ReadlinkIfPossible implements afero.LinkReader.
func (s *SandboxFs) ReadlinkIfPossible(name string) (string, error) {
	link, err := s.BasePathFs.ReadlinkIfPossible(name)
	if err != nil {
		return "", err
	}

	if link == s.root {
		return "/", nil
	}
	if rel := strings.TrimPrefix(link, s.root+string(filepath.Separator)); rel != link {
		return "/" + filepath.ToSlash(rel), nil
	}
	return filepath.ToSlash(link), nil
}

// linkOS adapts a VFS to the realpath.OS interface.
type linkOS struct {
	base VFS
}

func (l *linkOS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := l.base.(afero.Lstater); ok {
		stat, _, err := lstater.LstatIfPossible(name)
		return stat, err
	}
	return l.base.Stat(name)
}

func (l *linkOS) Readlink(name string) (string, error) {
	if reader, ok := l.base.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

// Lstat returns file info without following a final symlink when the VFS
// supports it.
func Lstat(vfs VFS, name string) (fs.FileInfo, error) {
	return (&linkOS{vfs}).Lstat(name)
}
