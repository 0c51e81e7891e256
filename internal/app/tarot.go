package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/tarot3d/internal/domain"
	"github.com/randomtoy/tarot3d/internal/ports"
)

// HistoryLimit caps how many readings a history query returns.
const HistoryLimit = 50

// TarotService ties the deck, the chat model and the reading store together.
type TarotService struct {
	deckStore ports.DeckStore
	completer ports.Completer
	store     ports.ReadingStore
	rng       domain.RNG
	logger    *slog.Logger

	now     func() time.Time
	newID   func() string
	timeout time.Duration
}

// Option customizes a TarotService.
type Option func(*TarotService)

// WithClock replaces the clock used to stamp saved readings.
func WithClock(now func() time.Time) Option {
	return func(s *TarotService) { s.now = now }
}

// WithIDGenerator replaces the reading id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TarotService) { s.newID = newID }
}

// WithGenerationTimeout bounds a single model call. Zero means no limit
// beyond the caller's context.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *TarotService) { s.timeout = d }
}

// NewTarotService wires the service. completer and store may be nil for
// callers that only draw cards; generation then degrades and persistence
// fails.
func NewTarotService(ds ports.DeckStore, completer ports.Completer, store ports.ReadingStore, rng domain.RNG, logger *slog.Logger, opts ...Option) *TarotService {
	s := &TarotService{
		deckStore: ds,
		completer: completer,
		store:     store,
		rng:       rng,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deck returns the card catalog.
func (s *TarotService) Deck(ctx context.Context) (domain.Deck, error) {
	deck, err := s.deckStore.GetDeck(ctx)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("get deck: %w", err)
	}
	return deck, nil
}

// Spreads lists the known spread layouts.
func (s *TarotService) Spreads() []domain.Spread {
	return domain.Spreads()
}

// DrawCards draws count distinct cards and labels them for the spread.
func (s *TarotService) DrawCards(ctx context.Context, count int, spread domain.SpreadType) ([]domain.DrawnCard, error) {
	deck, err := s.Deck(ctx)
	if err != nil {
		return nil, err
	}

	cards, err := domain.Draw(deck.Cards, count, spread, s.rng)
	if err != nil {
		return nil, fmt.Errorf("draw cards: %w", err)
	}
	return cards, nil
}

// SaveReadingRequest is the application-level input for persisting a reading.
type SaveReadingRequest struct {
	SessionID      string
	SpreadType     domain.SpreadType
	Question       *string
	Cards          []domain.DrawnCard
	Interpretation string
}

// SaveReading stamps the reading with a fresh id and creation time, stores
// it and returns the id.
func (s *TarotService) SaveReading(ctx context.Context, req SaveReadingRequest) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("save reading: %w: no store configured", domain.ErrStore)
	}

	cards := req.Cards
	if cards == nil {
		cards = []domain.DrawnCard{}
	}

	r := domain.Reading{
		ID:             s.newID(),
		SessionID:      req.SessionID,
		SpreadType:     req.SpreadType,
		Question:       req.Question,
		Cards:          cards,
		Interpretation: req.Interpretation,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return "", fmt.Errorf("save reading: %w", err)
	}

	s.logger.InfoContext(ctx, "reading saved", "reading_id", r.ID, "spread_type", r.SpreadType, "cards", len(r.Cards))
	return r.ID, nil
}

// History returns the newest readings of a session, at most HistoryLimit.
func (s *TarotService) History(ctx context.Context, sessionID string) ([]domain.Reading, error) {
	if s.store == nil {
		return nil, fmt.Errorf("load history: %w: no store configured", domain.ErrStore)
	}

	readings, err := s.store.History(ctx, sessionID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return readings, nil
}
