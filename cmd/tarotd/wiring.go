package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/randomtoy/tarot3d/internal/adapters/decks"
	"github.com/randomtoy/tarot3d/internal/adapters/llm/gemini"
	"github.com/randomtoy/tarot3d/internal/adapters/llm/openai"
	"github.com/randomtoy/tarot3d/internal/adapters/store"
	"github.com/randomtoy/tarot3d/internal/app"
	"github.com/randomtoy/tarot3d/internal/config"
	"github.com/randomtoy/tarot3d/internal/ports"
)

// needs selects which optional dependencies a command connects to.
type needs struct {
	llm   bool
	store bool
}

type deps struct {
	svc     *app.TarotService
	logger  *slog.Logger
	closers []func(context.Context) error
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// wire builds the service from cfg. Anything that fails here fails the
// command before it starts serving.
func wire(ctx context.Context, cfg config.Config, logger *slog.Logger, n needs) (*deps, error) {
	d := &deps{logger: logger}

	deckStore := decks.NewStore(cfg.Deck.Path)
	if err := deckStore.Load(); err != nil {
		return nil, err
	}

	var completer ports.Completer
	if n.llm {
		c, closeFn, err := newCompleter(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		completer = c
		if closeFn != nil {
			d.closers = append(d.closers, closeFn)
		}
	}

	var readings ports.ReadingStore
	if n.store {
		rs, err := store.Open(ctx, cfg.DB.URL, cfg.DB.Name)
		if err != nil {
			d.Close(ctx)
			return nil, fmt.Errorf("open reading store: %w", err)
		}
		readings = rs
		d.closers = append(d.closers, rs.Close)
	}

	d.svc = app.NewTarotService(deckStore, completer, readings, stdRNG{}, logger,
		app.WithGenerationTimeout(cfg.LLM.Timeout),
	)
	return d, nil
}

func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (ports.Completer, func(context.Context) error, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, func(context.Context) error { return c.Close() }, nil
	default:
		c, err := openai.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg.APIKey, cfg.BaseURL, cfg.Model, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("openai client: %w", err)
		}
		return c, nil, nil
	}
}

// Close releases connections in reverse order of acquisition.
func (d *deps) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			d.logger.Error("close failed", "error", err)
		}
	}
	d.closers = nil
}
