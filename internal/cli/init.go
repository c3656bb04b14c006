package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize presales storage",
		Long:  "Create the configuration directory and a default config.yaml, then create the opportunities table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	s, err := a.resolve()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return sysErr("create config directory: %w", err)
	}
	var dataDir string
	if a.flags.dataDir != "" {
		dataDir = s.dataDir
	}
	written, err := writeConfigIfMissing(configPath(s.configDir), dataDir)
	if err != nil {
		return sysErr("write config: %w", err)
	}

	backend, err := attachAt(s.dataDir)
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return sysErr("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath(s.configDir))
	}
	fmt.Fprintf(out, "Presales initialized in %s\n", s.dataDir)
	return nil
}
