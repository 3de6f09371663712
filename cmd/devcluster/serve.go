package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/drakos74/devcluster/internal/artifact"
	"github.com/drakos74/devcluster/internal/dashboard"
	"github.com/drakos74/devcluster/internal/metrics"
	"github.com/drakos74/devcluster/internal/server"
	"github.com/spf13/cobra"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the dashboard server.

The dashboard needs a trained model in the model storage. With the default
configuration, place the dataset at World_development_mesurement.csv and run

  devcluster train

once before serving, or set dataset.path to an existing CSV file and pass the
same file to train with --dataset. Without dataset.path the dashboard asks for
an upload instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		models, err := artifact.Models(ctx, cfg.Model)
		if err != nil {
			return err
		}
		uploads, err := artifact.Uploads(cfg.Dataset)
		if err != nil {
			return err
		}
		loader := artifact.NewLoader(cfg.Dataset.Path, models, cfg.Model.Name)
		service := dashboard.NewService(loader, uploads, cfg)

		srv := server.NewServer("devcluster", cfg.Server.Port).
			WithMetrics(metrics.Observer).
			Add(dashboard.Routes(service)...)
		if cfg.Server.Debug || debug {
			srv.Debug()
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
