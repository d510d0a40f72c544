package paths_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/arthur-debert/fontdrop/pkg/config"
	"github.com/arthur-debert/fontdrop/pkg/elevate"
	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/filesystem"
	"github.com/arthur-debert/fontdrop/pkg/fontkind"
	"github.com/arthur-debert/fontdrop/pkg/paths"
	"github.com/arthur-debert/fontdrop/pkg/testutil"
)

// lstatFailFS delegates to the OS filesystem but fails every Lstat
// with a chosen errno, simulating an unreadable font directory.
type lstatFailFS struct {
	filesystem.FS
	errno syscall.Errno
}

func (f *lstatFailFS) Lstat(name string) (fs.FileInfo, error) {
	return nil, &os.PathError{Op: "lstat", Path: name, Err: f.errno}
}

func TestFontsBaseUserMode(t *testing.T) {
	p := paths.New(true, config.Default())

	t.Run("xdg data home wins", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
		t.Setenv("HOME", "/home/someone")
		assert.Equal(t, "/tmp/xdg-data/fonts", p.FontsBase())
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/someone")
		assert.Equal(t, "/home/someone/.local/share/fonts", p.FontsBase())
	})

	t.Run("relative last resort", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "")
		assert.Equal(t, filepath.Join(".local", "share", "fonts"), p.FontsBase())
	})
}

func TestFontsBaseSystemMode(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	p := paths.New(false, config.Default())
	assert.Equal(t, "/usr/share/fonts", p.FontsBase())

	cfg := config.Default()
	cfg.SystemFontDir = "/opt/fonts"
	p = paths.New(false, cfg)
	assert.Equal(t, "/opt/fonts", p.FontsBase())
}

func TestFontDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/x")

	p := paths.New(true, config.Default())
	assert.Equal(t, "/tmp/x/fonts/OTF", p.FontDir(fontkind.OpenType))
	assert.Equal(t, "/tmp/x/fonts/TTF", p.FontDir(fontkind.TrueType))
}

func TestEnsureFontDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p := paths.New(true, config.Default())
	created, err := p.EnsureFontDir(filesystem.NewOS(), fontkind.TrueType)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "fonts", "TTF"), created)
	assert.True(t, testutil.DirExists(t, created))

	// Idempotent on an existing directory
	_, err = p.EnsureFontDir(filesystem.NewOS(), fontkind.TrueType)
	require.NoError(t, err)
}

func TestEnsureFontDirPermissionDenied(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)

	readonly := t.TempDir()
	require.NoError(t, os.Chmod(readonly, 0555))
	t.Cleanup(func() { _ = os.Chmod(readonly, 0755) })

	cfg := config.Default()
	cfg.SystemFontDir = filepath.Join(readonly, "fonts")

	p := paths.New(false, cfg)
	_, err := p.EnsureFontDir(filesystem.NewOS(), fontkind.TrueType)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPermission))
}

func TestCandidate(t *testing.T) {
	tests := []struct {
		name string
		dest string
		i    int
		want string
	}{
		{"zeroth is the original", "/fonts/TTF/Roboto.ttf", 0, "/fonts/TTF/Roboto.ttf"},
		{"first suffix", "/fonts/TTF/Roboto.ttf", 1, "/fonts/TTF/Roboto-1.ttf"},
		{"later suffix", "/fonts/TTF/Roboto.ttf", 42, "/fonts/TTF/Roboto-42.ttf"},
		{"no extension", "/fonts/TTF/Roboto", 3, "/fonts/TTF/Roboto-3"},
		{"dotted stem keeps last extension", "/fonts/TTF/My.Font.ttf", 1, "/fonts/TTF/My.Font-1.ttf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.Candidate(tt.dest, tt.i))
		})
	}
}

func TestResolveDestinationNoCollision(t *testing.T) {
	dir := t.TempDir()

	dest, err := paths.ResolveDestination(filesystem.NewOS(), dir, "Roboto.ttf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Roboto.ttf"), dest)
}

func TestResolveDestinationCollisionLadder(t *testing.T) {
	// With font.ttf, font-1.ttf ... font-(N-1).ttf taken, resolution
	// yields font-N.ttf
	const n = 5

	dir := t.TempDir()
	testutil.CreateFile(t, dir, "font.ttf", "x")
	for i := 1; i < n; i++ {
		testutil.CreateFile(t, dir, fmt.Sprintf("font-%d.ttf", i), "x")
	}

	dest, err := paths.ResolveDestination(filesystem.NewOS(), dir, "font.ttf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, fmt.Sprintf("font-%d.ttf", n)), dest)
}

func TestResolveDestinationIsPure(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateFile(t, dir, "font.ttf", "x")

	first, err := paths.ResolveDestination(filesystem.NewOS(), dir, "font.ttf")
	require.NoError(t, err)

	second, err := paths.ResolveDestination(filesystem.NewOS(), dir, "font.ttf")
	require.NoError(t, err)

	assert.Equal(t, first, second, "resolution must not mutate the filesystem")
	assert.False(t, testutil.FileExists(t, first))
}

func TestResolveDestinationGapFills(t *testing.T) {
	// A free slot in the middle of the ladder is used
	dir := t.TempDir()
	testutil.CreateFile(t, dir, "font.ttf", "x")
	testutil.CreateFile(t, dir, "font-2.ttf", "x")

	dest, err := paths.ResolveDestination(filesystem.NewOS(), dir, "font.ttf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "font-1.ttf"), dest)
}

func TestResolveDestinationPermissionDenied(t *testing.T) {
	// An unreadable destination directory (e.g. a root-owned 0700
	// fonts/TTF) must surface as a permission error that the
	// escalation check recognizes, not exhaust the candidate search
	fakeFS := &lstatFailFS{FS: filesystem.NewOS(), errno: unix.EACCES}

	_, err := paths.ResolveDestination(fakeFS, "/usr/share/fonts/TTF", "Roboto.ttf")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPermission))
	assert.True(t, elevate.IsPermissionDenied(err))
}

func TestResolveDestinationOtherStatError(t *testing.T) {
	fakeFS := &lstatFailFS{FS: filesystem.NewOS(), errno: unix.EIO}

	_, err := paths.ResolveDestination(fakeFS, "/usr/share/fonts/TTF", "Roboto.ttf")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	assert.False(t, elevate.IsPermissionDenied(err))
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")

	assert.Equal(t, "/home/someone/fonts", paths.ExpandHome("~/fonts"))
	assert.Equal(t, "/home/someone", paths.ExpandHome("~"))
	assert.Equal(t, "/abs/path", paths.ExpandHome("/abs/path"))
	assert.Equal(t, "~other/fonts", paths.ExpandHome("~other/fonts"))
	assert.Equal(t, "", paths.ExpandHome(""))
}
