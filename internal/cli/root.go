// Package cli wires the fontdrop command line: argument handling, the
// install pipeline, and the elevation retry around it.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fontdrop/internal/version"
	"github.com/arthur-debert/fontdrop/pkg/config"
	"github.com/arthur-debert/fontdrop/pkg/elevate"
	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/install"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// Exit codes
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

// exitCodeError carries the elevated child's exit status up to Main
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("elevated retry exited with status %d", e.code)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		userMode  bool
	)

	rootCmd := &cobra.Command{
		Use:     "fontdrop <path-to-font>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.Newf(errors.ErrUsage, "expected exactly one font file, got %d arguments", len(args))
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], userMode)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.Flags().BoolVar(&userMode, "user", false, MsgFlagUser)

	// Flag misuse is a usage error, same as a bad argument count
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrUsage, "invalid flags")
	})

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runInstall executes the pipeline once and drives the one-shot
// escalation retry for system-mode permission failures.
func runInstall(cmd *cobra.Command, sourcePath string, userMode bool) error {
	logger := logging.GetLogger("cli")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	state := elevate.StateFromEnv()
	logger.Debug().Bool("elevated", state.Elevated).Bool("userMode", userMode).Msg("Resolved elevation state")

	if !userMode && !state.Elevated && !elevate.CanWrite(cfg.SystemFontDir) {
		logger.Debug().Str("dir", cfg.SystemFontDir).Msg("System font dir not writable, escalation likely")
	}

	_, err = install.Install(install.Options{
		SourcePath: sourcePath,
		UserMode:   userMode,
		Config:     cfg,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
	if err == nil {
		return nil
	}

	if !elevate.ShouldEscalate(err, userMode, state) {
		return err
	}

	code, reErr := elevate.ReExec(elevate.Options{
		Tool:   cfg.ElevateTool,
		Args:   os.Args[1:],
		Stderr: cmd.ErrOrStderr(),
	})
	if reErr != nil {
		return reErr
	}
	if code == 0 {
		return nil
	}
	return &exitCodeError{code: code}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fontdrop version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

// ExitCode maps an Execute error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ec *exitCodeError
	if stderrors.As(err, &ec) {
		return ec.code
	}

	if errors.IsErrorCode(err, errors.ErrUsage) {
		return ExitUsage
	}
	return ExitRuntime
}

// Main runs the CLI and returns the process exit code
func Main() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var ec *exitCodeError
	if stderrors.As(err, &ec) {
		// The elevated child already reported its own failure
		return ec.code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.IsErrorCode(err, errors.ErrUsage) {
		fmt.Fprint(os.Stderr, rootCmd.UsageString())
	}
	return ExitCode(err)
}
