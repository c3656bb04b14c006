package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presales/pkg/presales"
)

const modulePath = "github.com/mesh-intelligence/presales"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the presales version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "presales v%s\nmodule: %s\n", presales.Version, modulePath)
			return nil
		},
	}
}
