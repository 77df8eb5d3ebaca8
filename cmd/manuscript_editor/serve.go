package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/manuscript-editor/internal/config"
	"github.com/jonathan/manuscript-editor/internal/server"
	"github.com/jonathan/manuscript-editor/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveConfig  string
	serveVerbose bool
	serveIdleTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the editing sessions over REST and Server-Sent Events.
Sessions live in memory and expire after --session-ttl without use. GEMINI_API_KEY is the default credential; clients may supply their own per session.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, then 8080)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().DurationVar(&serveIdleTTL, "session-ttl", server.DefaultSessionIdleTTL, "Drop sessions idle for longer than this")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log every request and generation call")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(serveConfig)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	policy, err := wizard.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:    cfg.Port,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Policy:  policy,
		Verbose: cfg.Verbose || serveVerbose,

		SessionIdleTTL: serveIdleTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
