package install

import (
	stderrors "errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/filesystem"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// InstalledMode is the fixed permission set for installed fonts:
// world-readable, owner-writable.
const InstalledMode = os.FileMode(0644)

// isCrossDevice reports whether a rename failed because source and
// destination live on different filesystems. Isolated here so a port
// to another platform touches one function.
func isCrossDevice(err error) bool {
	var errno syscall.Errno
	return stderrors.As(err, &errno) && errno == unix.EXDEV
}

// Move places src at dst. It tries an atomic rename first and falls
// back to copy-then-delete only for cross-device failures; every other
// rename error propagates with its permission identity intact.
func Move(fs filesystem.FS, src, dst string) error {
	logger := logging.GetLogger("install.placer")

	err := fs.Rename(src, dst)
	if err == nil {
		logger.Debug().Str("src", src).Str("dst", dst).Msg("Renamed into place")
		return nil
	}

	if !isCrossDevice(err) {
		if os.IsPermission(err) {
			return errors.Wrapf(err, errors.ErrPermission, "failed to move %s to %s", src, dst)
		}
		return errors.Wrapf(err, errors.ErrFileMove, "failed to move %s to %s", src, dst)
	}

	logger.Debug().Str("src", src).Str("dst", dst).Msg("Cross-device rename, copying instead")

	if err := copyFile(fs, src, dst); err != nil {
		return err
	}
	if err := fs.Remove(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "copied %s but failed to remove source", src)
	}
	return nil
}

// copyFile copies src to dst, dropping a partial destination on failure
func copyFile(fs filesystem.FS, src, dst string) error {
	data, err := fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}

	if err := fs.WriteFile(dst, data, InstalledMode); err != nil {
		_ = fs.Remove(dst)
		if os.IsPermission(err) {
			return errors.Wrapf(err, errors.ErrPermission, "failed to write %s", dst)
		}
		return errors.Wrapf(err, errors.ErrFileMove, "failed to write %s", dst)
	}
	return nil
}

// NormalizeMode sets the installed font's permissions. It runs only
// after a successful move; a failure leaves the file installed with
// wrong bits and must surface to the caller.
func NormalizeMode(fs filesystem.FS, dst string) error {
	if err := fs.Chmod(dst, InstalledMode); err != nil {
		if os.IsPermission(err) {
			return errors.Wrapf(err, errors.ErrPermission, "failed to set permissions on %s", dst)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to set permissions on %s", dst)
	}
	return nil
}
