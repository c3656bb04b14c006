// Package cli implements the presales command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presales/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app carries the state shared by one command tree.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "presales" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "presales",
		Short: "Track pre-sales opportunities",
		Long:  "Presales records client opportunities with scope, price, and pipeline status\nin a local SQLite file, from the command line or a web page.",
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding "+types.DatabaseFile+" (default: working directory)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps err to 1 for bad input and 2 for storage or configuration
// failures.
func exitCode(err error) int {
	var sys *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &sys), errors.Is(err, types.ErrStorage):
		return exitSysError
	default:
		return exitUserError
	}
}

// sysError marks a failure of the environment rather than of the input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// exactArgs is cobra.ExactArgs with a message naming the expected operand.
func exactArgs(n int, operand string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %s", cmd.Name(), operand)
		}
		return nil
	}
}
