package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/randomtoy/tarot3d/internal/adapters/http"
	"github.com/randomtoy/tarot3d/internal/config"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the JSON API under /api. A missing LLM API key or an unreachable
reading store stops the server at startup.`,
		Example: `  # SQLite file in the working directory, OpenAI-compatible model
  LLM_API_KEY=sk-... tarotd serve

  # MongoDB and Gemini
  MONGO_URL=mongodb://localhost:27017 DB_NAME=tarot \
    LLM_PROVIDER=gemini LLM_API_KEY=... tarotd serve --addr :8001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(os.Stdout, cfg.LogLevel())
			slog.SetDefault(logger)

			ctx := cmd.Context()
			d, err := wire(ctx, cfg, logger, needs{llm: true, store: true})
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}
			defer d.Close(context.Background())

			e := httpadapter.NewServer(d.svc, logger)

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("starting server",
					"addr", cfg.HTTP.Addr,
					"llm_provider", cfg.LLM.Provider,
					"deck", cfg.Deck.Path,
				)
				if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := e.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown error", "error", err)
					return err
				}
				return nil
			case err := <-serverErr:
				logger.Error("server error", "error", err)
				return err
			}
		},
	}
}
