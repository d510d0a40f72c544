// Package paths provides centralized path handling for fontdrop.
// It resolves the installation base directory for user and system
// installs and computes collision-free destination paths.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fontdrop/pkg/config"
	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/filesystem"
	"github.com/arthur-debert/fontdrop/pkg/fontkind"
)

// Environment variable names
const (
	// EnvXDGDataHome is the XDG base directory for user data
	EnvXDGDataHome = "XDG_DATA_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// maxCandidates bounds the collision-avoidance search. Collisions are
// finite so the search always terminates well before this; the bound
// only turns a logic bug into an error instead of a spin.
const maxCandidates = 10000

// Paths resolves installation directories for one install request
type Paths struct {
	userMode      bool
	systemFontDir string
}

// New creates a Paths instance for the given mode and configuration
func New(userMode bool, cfg config.Config) Paths {
	return Paths{
		userMode:      userMode,
		systemFontDir: cfg.SystemFontDir,
	}
}

// UserMode reports whether this resolver targets the user font directory
func (p Paths) UserMode() bool {
	return p.userMode
}

// FontsBase returns the font root for the install. User mode follows
// the XDG chain: $XDG_DATA_HOME/fonts, then $HOME/.local/share/fonts,
// then a relative .local/share/fonts as a last resort.
func (p Paths) FontsBase() string {
	if !p.userMode {
		return p.systemFontDir
	}

	if dataHome := os.Getenv(EnvXDGDataHome); dataHome != "" {
		return filepath.Join(dataHome, "fonts")
	}
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Join(home, ".local", "share", "fonts")
	}
	return filepath.Join(".local", "share", "fonts")
}

// FontDir returns the kind-specific subdirectory under the font root
func (p Paths) FontDir(kind fontkind.Kind) string {
	return filepath.Join(p.FontsBase(), kind.Dir())
}

// EnsureFontDir creates the destination directory, parents included.
// A permission failure here is the primary escalation trigger for
// system-mode installs, so the error keeps its permission identity.
func (p Paths) EnsureFontDir(fs filesystem.FS, kind fontkind.Kind) (string, error) {
	dir := p.FontDir(kind)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		if os.IsPermission(err) {
			return "", errors.Wrapf(err, errors.ErrPermission, "failed to create font directory %s", dir)
		}
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create font directory %s", dir)
	}
	return dir, nil
}

// Candidate returns the i-th collision-avoidance candidate for dest.
// Candidate 0 is dest itself; candidate i appends -i to the file stem,
// keeping the extension (or skipping the separator when there is none).
func Candidate(dest string, i int) string {
	if i == 0 {
		return dest
	}

	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)

	if ext == "" {
		return filepath.Join(dir, fmt.Sprintf("%s-%d", stem, i))
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
}

// ResolveDestination returns the first candidate path under dir that
// does not already exist. Resolution only stats the filesystem; calling
// it twice without an intervening move yields the same answer.
func ResolveDestination(fs filesystem.FS, dir, filename string) (string, error) {
	dest := filepath.Join(dir, filename)

	for i := 0; i < maxCandidates; i++ {
		candidate := Candidate(dest, i)
		_, err := fs.Lstat(candidate)
		switch {
		case os.IsNotExist(err):
			return candidate, nil
		case err == nil:
			// Taken, try the next suffix
		case os.IsPermission(err):
			// Keep the permission identity so system-mode installs
			// can still escalate on an unreadable font directory
			return "", errors.Wrapf(err, errors.ErrPermission, "failed to check destination %s", candidate)
		default:
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to check destination %s", candidate)
		}
	}

	return "", errors.Newf(errors.ErrInternal, "no free destination found for %s after %d candidates", dest, maxCandidates)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something refers to another user's home, leave it alone
	return path
}
