package vos

import (
	"errors"
	"io/fs"
	"path"
	"strings"
	"syscall"

	"github.com/josephlewis42/tarsh/third_party/realpath"
)

// Kind classifies the target of a resolved path.
type Kind int

const (
	NotFound Kind = iota
	Directory
	File
	Other
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	case Other:
		return "other"
	default:
		return "not found"
	}
}

// Resolution is the result of resolving a path argument.
type Resolution struct {
	Kind Kind
	// Path is the canonical sandbox path. It's empty when Kind is NotFound.
	Path string
}

// Resolver turns path arguments into canonical sandbox paths.
type Resolver struct {
	fs  VFS
	los *linkOS
}

// NewResolver creates a resolver over the given filesystem.
func NewResolver(vfs VFS) *Resolver {
	return &Resolver{fs: vfs, los: &linkOS{vfs}}
}

// IsMissing reports whether err means a path component doesn't exist.
// Walking through a regular file counts as missing.
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// Resolve resolves arg against the absolute sandbox directory base.
//
// Missing targets produce a NotFound resolution rather than an error; errors
// are reserved for failures such as permission problems or link loops.
func (r *Resolver) Resolve(base, arg string) (Resolution, error) {
	if arg == "" {
		return Resolution{Kind: Directory, Path: base}, nil
	}

	resolved, err := realpath.Realpath(r.los, base, arg)
	switch {
	case IsMissing(err):
		return r.resolveDangling(base, arg)
	case err != nil:
		return Resolution{}, err
	}

	info, err := r.fs.Stat(resolved)
	switch {
	case IsMissing(err):
		return Resolution{Kind: NotFound}, nil
	case err != nil:
		return Resolution{}, err
	}

	return Resolution{Kind: classify(info), Path: resolved}, nil
}

// resolveDangling reports a final component that is a symlink to nowhere as
// Other, everything else as NotFound.
func (r *Resolver) resolveDangling(base, arg string) (Resolution, error) {
	dir, name := path.Split(strings.TrimRight(arg, "/"))
	if name == "" || name == "." || name == ".." {
		return Resolution{Kind: NotFound}, nil
	}

	parent, err := realpath.Realpath(r.los, base, dir)
	if err != nil {
		return Resolution{Kind: NotFound}, nil
	}

	candidate := path.Join(parent, name)
	info, err := r.los.Lstat(candidate)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return Resolution{Kind: NotFound}, nil
	}

	return Resolution{Kind: Other, Path: candidate}, nil
}

// ResolveMissing returns the canonical sandbox path a not-yet-existing arg
// would be created at. Existing leading components, including links, are
// resolved on the filesystem and the missing remainder is appended.
func (r *Resolver) ResolveMissing(base, arg string) (string, error) {
	return realpath.RealpathMissing(r.los, base, arg)
}

func classify(info fs.FileInfo) Kind {
	switch {
	case info.IsDir():
		return Directory
	case info.Mode().IsRegular():
		return File
	default:
		return Other
	}
}
