package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"georeduce/internal/server"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reductions over HTTP",
	Long: `Serve exposes GET and POST /reduce, /metrics and /healthz. Reduction parameters
given as query values override the configured defaults per request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		if cmd.Flags().Changed("addr") {
			a.cfg.HTTPAddr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(a.svc, a.cfg, a.log).Run(ctx, a.cfg.HTTPAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
}
