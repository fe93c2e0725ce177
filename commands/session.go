package commands

import (
	"fmt"
	"path/filepath"

	"github.com/josephlewis42/tarsh/core/vos"
)

// Session holds the state commands operate on.
type Session struct {
	fs       vos.VFS
	resolver *vos.Resolver

	// root is the host path of the sandbox, it's only used for display.
	root string
	// cwd is the sandbox path of the working directory, it's always a
	// directory.
	cwd  string
	user string
}

// NewSession starts a session at the root of fs.
func NewSession(fs vos.VFS, root, user string) (*Session, error) {
	info, err := fs.Stat("/")
	switch {
	case err != nil:
		return nil, fmt.Errorf("sandbox root %q: %w", root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("sandbox root %q: %w", root, vos.ErrNotDir)
	}

	return &Session{
		fs:       fs,
		resolver: vos.NewResolver(fs),
		root:     root,
		cwd:      "/",
		user:     user,
	}, nil
}

// FS returns the sandbox filesystem.
func (s *Session) FS() vos.VFS {
	return s.fs
}

// Root returns the host path of the sandbox.
func (s *Session) Root() string {
	return s.root
}

// User returns the display name of the session's user.
func (s *Session) User() string {
	return s.user
}

// Cwd returns the working directory as a sandbox path.
func (s *Session) Cwd() string {
	return s.cwd
}

// Getwd returns the working directory as a host path.
func (s *Session) Getwd() string {
	return filepath.Join(s.root, filepath.FromSlash(s.cwd))
}

// Resolve resolves arg against the working directory.
func (s *Session) Resolve(arg string) (vos.Resolution, error) {
	return s.resolver.Resolve(s.cwd, arg)
}

// ResolveMissing returns the sandbox path arg would be created at.
func (s *Session) ResolveMissing(arg string) (string, error) {
	return s.resolver.ResolveMissing(s.cwd, arg)
}

// chdir sets the working directory, dir must be a resolved directory.
func (s *Session) chdir(dir string) {
	s.cwd = dir
}
