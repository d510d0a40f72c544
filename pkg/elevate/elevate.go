// Package elevate implements the one-shot privilege escalation retry
// for system-mode installs. When the pipeline hits a permission error
// the process re-invokes itself under the configured elevation tool,
// tagging the child so escalation can never recurse.
package elevate

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// EnvElevated marks a child process as already running elevated. It is
// set by fontdrop itself on the re-exec boundary; end users should
// never set it.
const EnvElevated = "FONTDROP_ELEVATED"

// State captures the elevation facts for one invocation. It is read
// once at startup and threaded through explicitly, so the "at most
// once" invariant is checked against a value, not ambient env state.
type State struct {
	// Elevated is true when this process is the escalated retry
	Elevated bool
}

// StateFromEnv reads the elevation marker from the process environment
func StateFromEnv() State {
	return State{Elevated: os.Getenv(EnvElevated) != ""}
}

// IsPermissionDenied is the single predicate for permission failures.
// It accepts the structured fontdrop code, the portable fs.ErrPermission
// kind, and a raw EACCES errno, so both signal styles keep working.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.IsErrorCode(err, errors.ErrPermission) {
		return true
	}
	if stderrors.Is(err, fs.ErrPermission) {
		return true
	}
	var errno syscall.Errno
	return stderrors.As(err, &errno) && errno == unix.EACCES
}

// ShouldEscalate decides whether a pipeline failure warrants the
// elevated retry: permission denial, system mode, and not already
// elevated. User-mode installs never escalate.
func ShouldEscalate(err error, userMode bool, state State) bool {
	return IsPermissionDenied(err) && !userMode && !state.Elevated
}

// CanWrite reports whether the current user can write to dir. Used for
// early logging only; escalation is always driven by the actual error.
func CanWrite(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}

// Options configures the re-exec
type Options struct {
	// Tool is the elevation command, e.g. "sudo"
	Tool string

	// Args are the original process arguments, minus the program name
	Args []string

	// Stderr receives the retry notice and the child's stderr
	Stderr io.Writer
}

// reexecArgv builds the elevation tool's argument vector. The marker
// rides in VAR=value form because sudo's default env_reset strips
// unlisted variables from the child environment.
func reexecArgv(exe string, args []string) []string {
	return append([]string{EnvElevated + "=1", exe}, args...)
}

// ReExec re-invokes the current executable with the original arguments
// under the elevation tool, with the child env tagged so it cannot
// escalate again. It blocks until the child exits and returns the exit
// code the parent should terminate with (1 when the child's status is
// unavailable). A tool that cannot be launched at all is reported as
// ErrElevationTool, distinct from a plain permission error.
func ReExec(opts Options) (int, error) {
	logger := logging.GetLogger("elevate")

	toolPath, err := exec.LookPath(opts.Tool)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrElevationTool, "elevation tool %q not found", opts.Tool)
	}

	exe, err := os.Executable()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrElevationTool, "failed to locate current executable")
	}

	fmt.Fprintln(opts.Stderr, "Permission denied. Retrying with elevated privileges... (you may be prompted for your password)")
	logger.Info().Str("tool", toolPath).Str("exe", exe).Strs("args", opts.Args).Msg("Re-executing with elevation")

	cmd := exec.Command(toolPath, reexecArgv(exe, opts.Args)...)
	cmd.Env = append(os.Environ(), EnvElevated+"=1")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = opts.Stderr

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal, no usable status
			code = 1
		}
		logger.Debug().Int("code", code).Msg("Elevated retry exited non-zero")
		return code, nil
	}

	return 0, errors.Wrapf(err, errors.ErrElevationTool, "failed to run %s", opts.Tool)
}
