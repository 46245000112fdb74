package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanja-cards/backend/internal/api"
	"github.com/hanja-cards/backend/internal/infrastructure/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Logs go to stderr so command output on stdout stays machine-readable.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	serveCmd := newServeCmd(logger)
	root := &cobra.Command{
		Use:           "hanja",
		Short:         "Daily hanja flashcard study tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}

	root.AddCommand(serveCmd)
	root.AddCommand(newStatsCmd(logger))
	root.AddCommand(newHistoryCmd(logger))
	root.AddCommand(newResetCmd(logger))
	return root
}

func newServeCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.LoadServer()
			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.ServerConfig, logger *slog.Logger) error {
	// ── Dependencies ────────────────────────────────────────────────
	a, err := openApp(cfg.Config, logger)
	if err != nil {
		return err
	}
	defer a.Close(logger)

	// Build or migrate today's session up front so startup logs show it.
	a.study.BuildOrLoadSession(context.Background())

	handler := api.NewHandler(a.study, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", a.metrics.Handler())

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	api.RegisterDocs(mux)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "store", cfg.StoreDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
