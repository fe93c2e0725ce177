// This software is distributed under the MIT License.
//
// You should have received a copy of the MIT License along with this program.
// If not, see <https://opensource.org/licenses/MIT>

package realpath

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path"
)

const (
	pathSeparator = '/'

	// MaxLinks is the number of symbolic links followed before giving up.
	MaxLinks = 16
)

// ErrTooManyLinks is returned when resolution follows more than MaxLinks links.
var ErrTooManyLinks = errors.New("too many levels of symbolic links")

// OS is the subset of a filesystem needed to resolve paths.
type OS interface {
	Lstat(name string) (os.FileInfo, error)
	Readlink(name string) (string, error)
}

// Realpath returns the canonical form of fpath with every symbolic link
// expanded. Relative paths are resolved against base, which must be absolute.
// Absolute link targets are interpreted from the root of fs, and ".." at the
// root stays at the root.
func Realpath(fs OS, base, fpath string) (string, error) {
	return realpath(fs, base, fpath, false)
}

// RealpathMissing is like Realpath, but stops at the first component that
// doesn't exist and appends the cleaned remainder instead of failing. Links
// are still followed, so the result is where the path would be created.
func RealpathMissing(fs OS, base, fpath string) (string, error) {
	return realpath(fs, base, fpath, true)
}

func realpath(osys OS, base, fpath string, allowMissing bool) (string, error) {
	if len(fpath) == 0 {
		fpath = "."
	}

	if !path.IsAbs(fpath) {
		fpath = base + string(pathSeparator) + fpath
	}

	p := []byte(fpath)
	nlinks := 0
	start := 1
	prev := 1
	for start < len(p) {
		c := nextComponent(p, start)
		cur := c[start:]

		switch {
		case len(cur) == 0:
			copy(p[start:], p[start+1:])
			p = p[0 : len(p)-1]

		case len(cur) == 1 && cur[0] == '.':
			if start+2 < len(p) {
				copy(p[start:], p[start+2:])
			}
			p = p[0 : len(p)-2]

		case len(cur) == 2 && cur[0] == '.' && cur[1] == '.':
			copy(p[prev:], p[start+2:])
			p = p[0 : len(p)+prev-(start+2)]
			prev = 1
			start = 1

		default:
			fi, err := osys.Lstat(string(c))
			if allowMissing && errors.Is(err, fs.ErrNotExist) {
				return path.Join(string(p[:start]), string(p[start:])), nil
			}
			if err != nil {
				return "", err
			}

			if !isSymlink(fi) {
				prev = start
				start = len(c) + 1
				continue
			}

			nlinks++
			if nlinks > MaxLinks {
				return "", &os.PathError{Op: "realpath", Path: string(c), Err: ErrTooManyLinks}
			}

			link, err := osys.Readlink(string(c))
			if err != nil {
				return "", err
			}

			p = switchSymlinkCom(p, start, link, string(p[len(c):]))
			prev = 1
			start = 1
		}
	}

	for len(p) > 1 && p[len(p)-1] == pathSeparator {
		p = p[0 : len(p)-1]
	}
	if len(p) == 0 {
		return "/", nil
	}
	return string(p), nil
}

func isSymlink(fi os.FileInfo) bool {
	return fi.Mode()&os.ModeSymlink == os.ModeSymlink
}

// switchSymlinkCom replaces the link component starting at start with its
// target. The remainder is appended verbatim so ".." segments after the link
// are resolved against the link target rather than lexically.
func switchSymlinkCom(origPath []byte, start int, link, after string) []byte {
	var out []byte
	if len(link) > 0 && link[0] == pathSeparator {
		out = append(out, link...)
	} else {
		out = append(out, origPath[0:start]...)
		out = append(out, link...)
	}
	return append(out, after...)
}

func nextComponent(p []byte, start int) []byte {
	v := bytes.IndexByte(p[start:], pathSeparator)
	if v < 0 {
		return p
	}
	return p[0 : start+v]
}
