// Package fontcache triggers a rebuild of the system font cache after
// an install. The rebuild is best-effort: the font is already in place,
// so failures here are reported as warnings and never fail the install.
package fontcache

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/arthur-debert/fontdrop/pkg/config"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// Refresh invokes the configured cache tool with its force-rebuild
// arguments. Warnings go to w; the returned state is logged only.
func Refresh(cfg config.Config, w io.Writer) {
	logger := logging.GetLogger("fontcache")

	cmd := exec.Command(cfg.CacheTool, cfg.CacheArgs...)
	err := cmd.Run()

	switch {
	case err == nil:
		logger.Debug().Str("tool", cfg.CacheTool).Msg("Font cache refreshed")
	case isNonZeroExit(err):
		logger.Warn().Err(err).Str("tool", cfg.CacheTool).Msg("Cache tool returned non-zero status")
		fmt.Fprintf(w, "Warning: %s returned non-zero status.\n", cfg.CacheTool)
	default:
		logger.Warn().Err(err).Str("tool", cfg.CacheTool).Msg("Cache tool could not be run")
		fmt.Fprintf(w, "Warning: %s not found. Install fontconfig or refresh the cache manually.\n", cfg.CacheTool)
	}
}

// isNonZeroExit distinguishes "ran and failed" from "could not run"
func isNonZeroExit(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
