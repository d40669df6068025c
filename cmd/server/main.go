package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/live-event-tracker/internal/config"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/server"
)

const (
	appName    = "live-event-tracker"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		envFiles   []string
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Polls scores for live events and publishes them to Kafka",
		Version:       appVersion,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadEnvFiles(envFiles)
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env", ".env.local"}, "dotenv files to load when present")
	return cmd
}

func run(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}

// loadEnvFiles applies dotenv files without overriding variables already set.
func loadEnvFiles(files []string) {
	for _, file := range files {
		_ = godotenv.Load(file)
	}
}
