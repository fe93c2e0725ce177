package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/tarsh/core/vos"
	"github.com/josephlewis42/tarsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	*Shell
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, fs vos.VFS) *harness {
	t.Helper()

	session, err := NewSession(fs, testRoot, "user")
	require.Nil(t, err)

	h := &harness{}
	vio := vos.NewStreams(nil, &h.stdout, &h.stderr)
	h.Shell = NewShell(session, vio, NewLineScanner(vio.Stdin(), io.Discard), log.New(io.Discard))
	return h
}

// Exec runs line and returns what it wrote to stdout and stderr.
func (h *harness) Exec(line string) (string, string) {
	h.stdout.Reset()
	h.stderr.Reset()
	h.Execute(line)
	return h.stdout.String(), h.stderr.String()
}

func TestAllBuiltins(t *testing.T) {
	var names []string
	for _, b := range ListBuiltins() {
		names = append(names, b.Name)

		t.Run(b.Name, func(t *testing.T) {
			assert.NotNil(t, b.Main)
			assert.NotEqual(t, KindUnknown, b.Kind)
			assert.True(t, strings.HasPrefix(b.Use, b.Name), "usage starts with the name")
		})
	}

	assert.Equal(t, []string{"cd", "exit", "ls", "mkdir", "tac"}, names)
}

func TestLs(t *testing.T) {
	h := newHarness(t, vostest.NewMemFS(t, sampleTree))

	stdout, stderr := h.Exec("ls")
	assert.Equal(t, "empty\netc\nhome\n", stdout)
	assert.Empty(t, stderr)

	t.Run("empty directory", func(t *testing.T) {
		h.Exec("cd empty")
		stdout, stderr := h.Exec("ls")
		assert.Empty(t, stdout)
		assert.Empty(t, stderr)
	})

	t.Run("arguments are ignored", func(t *testing.T) {
		h.Exec("cd /home/user")
		stdout, _ := h.Exec("ls /etc -la")
		assert.Equal(t, "notes.txt\nprojects\n", stdout)
	})

	t.Run("directory removed underneath", func(t *testing.T) {
		require.Nil(t, h.FS().RemoveAll("/home/user"))
		stdout, stderr := h.Exec("ls")
		assert.Empty(t, stdout)
		assert.True(t, strings.HasPrefix(stderr, "Error: Could not list directory. "), stderr)
	})
}

func TestCd(t *testing.T) {
	cases := map[string]struct {
		line    string
		wantCwd string
		stderr  string
	}{
		"relative":         {line: "cd home/user", wantCwd: "/home/user"},
		"absolute":         {line: "cd /etc", wantCwd: "/etc"},
		"trailing slash":   {line: "cd home/", wantCwd: "/home"},
		"dot segments":     {line: "cd ./home/./user/../user", wantCwd: "/home/user"},
		"parent of root":   {line: "cd ..", wantCwd: "/"},
		"escape attempt":   {line: "cd ../../../../etc", wantCwd: "/etc"},
		"missing":          {line: "cd nowhere", wantCwd: "/", stderr: "Error: Directory 'nowhere' does not exist.\n"},
		"file":             {line: "cd etc/motd", wantCwd: "/", stderr: "Error: 'etc/motd' is not a directory.\n"},
		"through a file":   {line: "cd etc/motd/x", wantCwd: "/", stderr: "Error: Directory 'etc/motd/x' does not exist.\n"},
		"no arguments":     {line: "cd", wantCwd: "/", stderr: "Usage: cd <directory>\n"},
		"too many":         {line: "cd etc home", wantCwd: "/", stderr: "Usage: cd <directory>\n"},
		"unicode":          {line: "cd données", wantCwd: "/données"},
		"case sensitivity": {line: "cd ETC", wantCwd: "/", stderr: "Error: Directory 'ETC' does not exist.\n"},
	}

	tree := vostest.Tree{"données/": ""}
	for k, v := range sampleTree {
		tree[k] = v
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			h := newHarness(t, vostest.NewMemFS(t, tree))

			stdout, stderr := h.Exec(tc.line)
			assert.Empty(t, stdout)
			assert.Equal(t, tc.stderr, stderr)
			assert.Equal(t, tc.wantCwd, h.Cwd())
			assert.Equal(t, filepath.Join(testRoot, tc.wantCwd), h.Getwd())
		})
	}
}

func TestMkdir(t *testing.T) {
	t.Run("creates", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		stdout, stderr := h.Exec("mkdir docs")
		assert.Equal(t, "Directory 'docs' created.\n", stdout)
		assert.Empty(t, stderr)

		stdout, _ = h.Exec("ls")
		assert.Equal(t, "docs\nempty\netc\nhome\n", stdout)
	})

	t.Run("creates parents", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		stdout, _ := h.Exec("mkdir x/y/z")
		assert.Equal(t, "Directory 'x/y/z' created.\n", stdout)

		info, err := h.FS().Stat("/x/y/z")
		require.Nil(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("already exists", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		for _, arg := range []string{"etc", "etc/motd", ".", "/"} {
			stdout, stderr := h.Exec("mkdir " + arg)
			assert.Empty(t, stdout)
			assert.Equal(t, "Error: Directory '"+arg+"' already exists.\n", stderr)
		}
	})

	t.Run("missing component then parent", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		for _, arg := range []string{"missing/../home", "x/..", "ghost/../etc/../empty"} {
			stdout, stderr := h.Exec("mkdir " + arg)
			assert.Empty(t, stdout, arg)
			assert.Equal(t, "Error: Could not create directory. mkdir "+arg+": file already exists\n", stderr)
		}

		stdout, _ := h.Exec("ls")
		assert.Equal(t, "empty\netc\nhome\n", stdout)
	})

	t.Run("missing component then new name", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		stdout, stderr := h.Exec("mkdir missing/../docs")
		assert.Equal(t, "Directory 'missing/../docs' created.\n", stdout)
		assert.Empty(t, stderr)

		info, err := h.FS().Stat("/docs")
		require.Nil(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("twice", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		h.Exec("mkdir new")
		_, stderr := h.Exec("mkdir new")
		assert.Equal(t, "Error: Directory 'new' already exists.\n", stderr)
	})

	t.Run("does not change cwd", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		h.Exec("mkdir new")
		assert.Equal(t, "/", h.Cwd())
	})

	t.Run("usage", func(t *testing.T) {
		h := newHarness(t, vostest.NewMemFS(t, sampleTree))

		for _, line := range []string{"mkdir", "mkdir a b"} {
			stdout, stderr := h.Exec(line)
			assert.Empty(t, stdout)
			assert.Equal(t, "Usage: mkdir <directory>\n", stderr)
		}

		_, err := h.FS().Stat("/a")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		h := newHarness(t, afero.NewReadOnlyFs(vostest.NewMemFS(t, sampleTree)))

		stdout, stderr := h.Exec("mkdir docs")
		assert.Empty(t, stdout)
		assert.True(t, strings.HasPrefix(stderr, "Error: Could not create directory. "), stderr)
	})
}

func TestTac(t *testing.T) {
	tree := vostest.Tree{
		"notes.txt":   "first line\nsecond line\nthird line\n",
		"partial.txt": "a\nb",
		"empty.txt":   "",
		"crlf.txt":    "one\r\ntwo\r\n",
		"binary.bin":  "\xff\xfe\x00",
		"dir/":        "",
	}

	cases := map[string]struct {
		line   string
		stdout string
		stderr string
	}{
		"reverses":         {line: "tac notes.txt", stdout: "third line\nsecond line\nfirst line\n"},
		"no final newline": {line: "tac partial.txt", stdout: "ba\n"},
		"empty":            {line: "tac empty.txt"},
		"crlf":             {line: "tac crlf.txt", stdout: "two\r\none\r\n"},
		"absolute":         {line: "tac /notes.txt", stdout: "third line\nsecond line\nfirst line\n"},
		"directory":        {line: "tac dir", stderr: "Error: File 'dir' not found.\n"},
		"missing":          {line: "tac missing.txt", stderr: "Error: File 'missing.txt' not found.\n"},
		"invalid utf-8":    {line: "tac binary.bin", stderr: "Error: Could not read file. file is not valid UTF-8\n"},
		"usage":            {line: "tac", stderr: "Usage: tac <file>\n"},
		"too many":         {line: "tac notes.txt partial.txt", stderr: "Usage: tac <file>\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			h := newHarness(t, vostest.NewMemFS(t, tree))

			stdout, stderr := h.Exec(tc.line)
			assert.Equal(t, tc.stdout, stdout)
			assert.Equal(t, tc.stderr, stderr)
		})
	}
}

func TestExit(t *testing.T) {
	h := newHarness(t, vostest.NewMemFS(t, sampleTree))

	stdout, stderr := h.Exec("exit")
	assert.Equal(t, "Exiting...\n", stdout)
	assert.Empty(t, stderr)
	assert.True(t, h.Quit)
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, vostest.NewMemFS(t, sampleTree))

	for _, line := range []string{"pwd", "LS", "cat etc/motd"} {
		stdout, stderr := h.Exec(line)
		assert.Empty(t, stdout)
		assert.Equal(t, "Unknown command: "+strings.Fields(line)[0]+"\n", stderr)
	}
	assert.Equal(t, "/", h.Cwd())
}

func TestSandboxFS(t *testing.T) {
	fs, root := vostest.NewSandboxFS(t, vostest.Tree{
		"etc/motd":               "Welcome to the emulator.\n",
		"home/user/notes.txt":    "first line\nsecond line\n",
		"srv/data/report.txt":    "q1\nq2\n",
		"home/user/projects/":    "",
		"home/user/.hidden/keep": "",
	})

	linker := fs.(afero.Linker)
	require.Nil(t, linker.SymlinkIfPossible("/srv/data", "/home/user/data"))
	require.Nil(t, linker.SymlinkIfPossible("../../etc/motd", "/home/user/motd"))
	require.Nil(t, linker.SymlinkIfPossible("/does/not/exist", "/home/user/broken"))
	require.Nil(t, linker.SymlinkIfPossible("/", "/home/user/top"))

	h := newHarness(t, fs)
	h.Session.root = root

	t.Run("ls shows links and dotfiles", func(t *testing.T) {
		h.Exec("cd /home/user")
		stdout, _ := h.Exec("ls")
		assert.Equal(t, ".hidden\nbroken\ndata\nmotd\nnotes.txt\nprojects\ntop\n", stdout)
	})

	t.Run("tac follows links", func(t *testing.T) {
		h.Exec("cd /home/user")
		stdout, stderr := h.Exec("tac motd")
		assert.Equal(t, "Welcome to the emulator.\n", stdout)
		assert.Empty(t, stderr)

		stdout, _ = h.Exec("tac data/report.txt")
		assert.Equal(t, "q2\nq1\n", stdout)
	})

	t.Run("parent after link follows real tree", func(t *testing.T) {
		h.Exec("cd /home/user")
		h.Exec("cd data/..")
		assert.Equal(t, "/srv", h.Cwd())
		assert.Equal(t, filepath.Join(root, "srv"), h.Getwd())
	})

	t.Run("absolute link stays in sandbox", func(t *testing.T) {
		h.Exec("cd /home/user")
		h.Exec("cd top")
		assert.Equal(t, "/", h.Cwd())
		assert.Equal(t, root, h.Getwd())
	})

	t.Run("dangling link", func(t *testing.T) {
		h.Exec("cd /home/user")

		_, stderr := h.Exec("cd broken")
		assert.Equal(t, "Error: 'broken' is not a directory.\n", stderr)

		_, stderr = h.Exec("tac broken")
		assert.Equal(t, "Error: File 'broken' not found.\n", stderr)

		_, stderr = h.Exec("mkdir broken")
		assert.Equal(t, "Error: Directory 'broken' already exists.\n", stderr)
	})

	t.Run("mkdir through link", func(t *testing.T) {
		h.Exec("cd /home/user")
		stdout, _ := h.Exec("mkdir data/archive")
		assert.Equal(t, "Directory 'data/archive' created.\n", stdout)

		info, err := os.Stat(filepath.Join(root, "srv", "data", "archive"))
		require.Nil(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("mkdir through a file", func(t *testing.T) {
		h.Exec("cd /home/user")
		stdout, stderr := h.Exec("mkdir notes.txt/sub")
		assert.Empty(t, stdout)
		assert.True(t, strings.HasPrefix(stderr, "Error: Could not create directory. "), stderr)
	})

	t.Run("unreadable file", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permissions aren't enforced for root")
		}

		require.Nil(t, os.Chmod(filepath.Join(root, "etc", "motd"), 0))
		defer os.Chmod(filepath.Join(root, "etc", "motd"), 0644)

		_, stderr := h.Exec("tac /etc/motd")
		assert.True(t, strings.HasPrefix(stderr, "Error: Could not read file. "), stderr)
	})
}
