// Package archive provisions a sandbox from a tar filesystem image.
package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/tarsh/core/config"
	"github.com/josephlewis42/tarsh/core/vos"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Stats counts what an extraction produced.
type Stats struct {
	Dirs     int
	Files    int
	Symlinks int
	Skipped  int
}

// Open returns a tar reader for r, transparently decompressing gzip input.
func Open(r io.Reader) (*tar.Reader, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(len(gzipMagic))
	if err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("couldn't unzip: %w", err)
		}
		return tar.NewReader(gz), nil
	}

	return tar.NewReader(br), nil
}

type dirMeta struct {
	name    string
	mode    fs.FileMode
	modTime time.Time
}

// Extract writes every entry of tr into dst.
//
// Entry names are interpreted relative to the root of dst and can't escape
// it, neither through ".." nor through symlinks created by earlier entries.
// Devices, fifos and other special files are skipped. Ownership isn't
// preserved and extracted entries stay writable by the owner.
func Extract(dst vos.VFS, tr *tar.Reader, logger *log.Logger) (Stats, error) {
	var (
		stats    Stats
		dirs     []dirMeta
		resolver = vos.NewResolver(dst)
	)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		// Insecure names are still returned with their header; they're confined
		// below.
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return stats, fmt.Errorf("couldn't read archive: %w", err)
		}

		name := path.Clean("/" + hdr.Name)
		if name == "/" {
			continue
		}

		parent, err := resolver.ResolveMissing("/", path.Dir(name))
		if err != nil {
			return stats, fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
		}
		target := path.Join(parent, path.Base(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := mkdirEntry(dst, target); err != nil {
				return stats, fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
			dirs = append(dirs, dirMeta{target, hdr.FileInfo().Mode(), hdr.ModTime})
			stats.Dirs++

		case tar.TypeReg:
			if err := writeEntry(dst, parent, target, tr, hdr); err != nil {
				return stats, fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
			stats.Files++

		case tar.TypeLink:
			if err := linkEntry(dst, resolver, parent, target, hdr); err != nil {
				return stats, fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
			stats.Files++

		case tar.TypeSymlink:
			linker, ok := dst.(afero.Linker)
			if !ok {
				logger.Warn("Skipping symlink, filesystem doesn't support links", "name", hdr.Name)
				stats.Skipped++
				continue
			}
			if err := symlinkEntry(dst, linker, parent, target, hdr.Linkname); err != nil {
				return stats, fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
			stats.Symlinks++

		default:
			logger.Debug("Skipping unsupported entry", "name", hdr.Name, "type", string(hdr.Typeflag))
			stats.Skipped++
		}
	}

	// Directory modes are applied last so read-only directories can still be
	// populated; deepest directories first.
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := dst.Chmod(d.name, d.mode.Perm()|0700); err != nil {
			return stats, err
		}
		if err := dst.Chtimes(d.name, d.modTime, d.modTime); err != nil {
			logger.Debug("Couldn't set directory times", "name", d.name, "err", err)
		}
	}

	return stats, nil
}

func mkdirEntry(dst vos.VFS, target string) error {
	info, err := vos.Lstat(dst, target)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		if err := dst.Remove(target); err != nil {
			return err
		}
	}

	return dst.MkdirAll(target, 0755)
}

// clearEntry removes whatever non-directory is at target so a new entry can
// replace it without writing through a symlink.
func clearEntry(dst vos.VFS, target string) error {
	info, err := vos.Lstat(dst, target)
	switch {
	case vos.IsMissing(err):
		return nil
	case err != nil:
		return err
	case info.IsDir():
		return &os.PathError{Op: "extract", Path: target, Err: errors.New("is a directory")}
	default:
		return dst.Remove(target)
	}
}

func writeEntry(dst vos.VFS, parent, target string, r io.Reader, hdr *tar.Header) error {
	if err := dst.MkdirAll(parent, 0755); err != nil {
		return err
	}
	if err := clearEntry(dst, target); err != nil {
		return err
	}

	fd, err := dst.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fd, r); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return err
	}

	if err := dst.Chmod(target, hdr.FileInfo().Mode().Perm()|0600); err != nil {
		return err
	}
	return dst.Chtimes(target, hdr.ModTime, hdr.ModTime)
}

// linkEntry materializes a hard link as a copy of the file it points to.
func linkEntry(dst vos.VFS, resolver *vos.Resolver, parent, target string, hdr *tar.Header) error {
	source, err := resolver.Resolve("/", path.Clean("/"+hdr.Linkname))
	if err != nil {
		return err
	}
	if source.Kind != vos.File {
		return &os.LinkError{Op: "link", Old: hdr.Linkname, New: hdr.Name, Err: fs.ErrNotExist}
	}
	if source.Path == target {
		return nil
	}

	src, err := dst.Open(source.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	return writeEntry(dst, parent, target, src, hdr)
}

func symlinkEntry(dst vos.VFS, linker afero.Linker, parent, target, linkname string) error {
	if err := dst.MkdirAll(parent, 0755); err != nil {
		return err
	}
	if err := clearEntry(dst, target); err != nil {
		return err
	}
	return linker.SymlinkIfPossible(linkname, target)
}

// Provision extracts the configured filesystem archive into the configured
// root, creating the root if needed, and returns the sandbox over it.
func Provision(cfg *config.Configuration, logger *log.Logger) (*vos.SandboxFs, error) {
	archivePath := cfg.FilesystemPath()

	fd, err := cfg.OpenFilesystem()
	if err != nil {
		return nil, fmt.Errorf("filesystem archive %q: %w", archivePath, err)
	}
	defer fd.Close()

	root, err := cfg.RootPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("couldn't create root: %w", err)
	}

	sandbox, err := vos.NewSandboxFs(root)
	if err != nil {
		return nil, err
	}

	tr, err := Open(fd)
	if err != nil {
		return nil, fmt.Errorf("filesystem archive %q: %w", archivePath, err)
	}

	start := time.Now()
	stats, err := Extract(sandbox, tr, logger)
	if err != nil {
		return nil, fmt.Errorf("filesystem archive %q: %w", archivePath, err)
	}

	logger.Info("Extracted filesystem",
		"archive", archivePath,
		"root", root,
		"dirs", stats.Dirs,
		"files", stats.Files,
		"symlinks", stats.Symlinks,
		"skipped", stats.Skipped,
		"took", time.Since(start))

	return sandbox, nil
}
