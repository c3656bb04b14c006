package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presales/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every opportunity to a JSONL file",
		Args:  exactArgs(1, "an output file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArchiver(func(ar types.Archiver) error {
				n, err := ar.Export(args[0])
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d opportunities to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load opportunities from a JSONL file",
		Long:  "Import writes each JSONL record in one transaction. Records carrying an ID replace that opportunity; records without one are appended. Malformed lines are skipped.",
		Args:  exactArgs(1, "an input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArchiver(func(ar types.Archiver) error {
				n, err := ar.Import(args[0])
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d opportunities from %s\n", n, args[0])
				return nil
			})
		},
	}
}

// withArchiver attaches the backend and runs fn with its JSONL interface.
func (a *app) withArchiver(fn func(types.Archiver) error) error {
	backend, err := a.attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	ar, ok := backend.(types.Archiver)
	if !ok {
		return sysErr("backend %T does not support JSONL archives", backend)
	}
	return fn(ar)
}
