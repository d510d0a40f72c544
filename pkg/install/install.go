// Package install implements the fontdrop installation pipeline:
// format detection, destination resolution, collision-safe placement,
// permission normalization and the best-effort cache refresh.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/fontdrop/pkg/config"
	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/filesystem"
	"github.com/arthur-debert/fontdrop/pkg/fontcache"
	"github.com/arthur-debert/fontdrop/pkg/fontkind"
	"github.com/arthur-debert/fontdrop/pkg/logging"
	"github.com/arthur-debert/fontdrop/pkg/paths"
)

// Options holds the parameters for one install
type Options struct {
	// SourcePath is the font file to install
	SourcePath string

	// UserMode installs under the user data home instead of the
	// system font root
	UserMode bool

	// Config carries the system font root and tool names
	Config config.Config

	// FS allows injecting a filesystem for testing; defaults to the OS
	FS filesystem.FS

	// Stdout receives the confirmation line; defaults to os.Stdout
	Stdout io.Writer

	// Stderr receives cache-refresh warnings; defaults to os.Stderr
	Stderr io.Writer
}

// Result describes a completed install
type Result struct {
	Source      string
	Destination string
	Kind        fontkind.Kind
}

// Install runs the full pipeline for one font file. Errors keep their
// permission identity so the caller can decide whether to escalate.
func Install(opts Options) (*Result, error) {
	logger := logging.GetLogger("install")

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	src := paths.ExpandHome(opts.SourcePath)

	logger.Info().
		Str("source", src).
		Bool("userMode", opts.UserMode).
		Msg("Starting install")

	info, err := fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceNotFound, "source file does not exist: %s", src)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat source file %s", src)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrSourceNotFound, "source is not a regular file: %s", src)
	}

	kind, err := fontkind.Detect(fs, src)
	if err != nil {
		return nil, err
	}

	p := paths.New(opts.UserMode, opts.Config)

	dir, err := p.EnsureFontDir(fs, kind)
	if err != nil {
		return nil, err
	}

	dest, err := paths.ResolveDestination(fs, dir, filepath.Base(src))
	if err != nil {
		return nil, err
	}

	if err := Move(fs, src, dest); err != nil {
		return nil, err
	}

	if err := NormalizeMode(fs, dest); err != nil {
		// The font is already in place at this point; the caller
		// still needs to hear about the wrong permission bits
		return nil, err
	}

	fmt.Fprintf(opts.Stdout, "Installed %s -> %s\n", src, dest)

	fontcache.Refresh(opts.Config, opts.Stderr)

	logger.Info().
		Str("source", src).
		Str("destination", dest).
		Str("kind", string(kind)).
		Msg("Install completed")

	return &Result{Source: src, Destination: dest, Kind: kind}, nil
}
