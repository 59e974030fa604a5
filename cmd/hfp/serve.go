package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/hfp/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET  /healthz
  GET  /v1/presets
  POST /v1/projection   {"params": {...}, "horizon": 30}
  POST /v1/scenarios    {"scenarios": {"name": {...}}, "presets": ["moderate"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = settings.ListenAddr
		}

		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(newEngine(), manager, settings.MaxHorizon, simpleCLILogger{})
		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (HFP_ADDR)")

	rootCmd.AddCommand(serveCmd)
}
