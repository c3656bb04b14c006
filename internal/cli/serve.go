package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presales/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		Long:  "Serve the opportunity tracker as a web page until interrupted.\nThe address comes from --addr, then http_addr in config.yaml, then PRESALES_HTTP_ADDR, then " + web.DefaultAddr + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolve()
			if err != nil {
				return err
			}
			cfg, err := web.LoadConfig()
			if err != nil {
				return sysErr("%w", err)
			}
			if s.httpAddr != "" {
				cfg.HTTPAddr = s.httpAddr
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			backend, err := attachAt(s.dataDir)
			if err != nil {
				return err
			}
			defer backend.Detach()

			logger := log.New(cmd.ErrOrStderr(), "presales ", log.LstdFlags)
			srv := web.NewServer(cfg, web.NewHandler(backend, logger))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Printf("serving addr=%s data_dir=%s", srv.Addr(), s.dataDir)
			if err := srv.ListenAndServe(ctx); err != nil {
				return sysErr("%w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")
	return cmd
}
