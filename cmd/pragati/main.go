// Command pragati runs the agricultural assistant core: the session
// orchestrator plus the HTTP surface the chat UI talks to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pragati/internal/backend"
	"pragati/internal/config"
	"pragati/internal/history/filestore"
	"pragati/internal/logging"
	"pragati/internal/orchestrator"
	"pragati/internal/server"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "pragati",
		Short: "PRAGATI agricultural assistant core",
		Long:  "Session orchestration and agent routing for the PRAGATI agricultural AI assistant.",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./pragati.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assistant HTTP server",
		RunE:  runServe,
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewComponentLogger("Main")

	client := backend.NewHTTPClient(cfg.BackendBaseURL, backend.Options{
		Timeout:   cfg.RequestTimeout,
		BodyLimit: cfg.ResponseBodyLimit,
	})
	cached, err := backend.WithTranslationCache(client, cfg.TranslationCacheSize)
	if err != nil {
		return err
	}

	orch := orchestrator.New(orchestrator.Options{
		Backend:          cached,
		Store:            filestore.New(cfg.SessionDir),
		Logger:           logging.NewComponentLogger("Orchestrator"),
		Language:         cfg.DefaultLanguage,
		AutosaveDebounce: cfg.AutosaveDebounce,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch.Initialize(ctx)
	defer orch.Close()

	srv := server.New(orch, server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		EnableCORS:   cfg.Server.EnableCORS,
		Debug:        cfg.Server.Debug,
		ReadTimeout:  server.DefaultConfig().ReadTimeout,
		WriteTimeout: server.DefaultConfig().WriteTimeout,
	})

	fmt.Println(green(fmt.Sprintf("PRAGATI assistant listening on %s:%d (backend: %s)",
		cfg.Server.Host, cfg.Server.Port, cfg.BackendBaseURL)))
	logger.Info("Starting server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
