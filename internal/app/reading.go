package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randomtoy/tarot3d/internal/domain"
)

var errEmptyInterpretation = errors.New("model returned an empty interpretation")

// GenerateReading asks the chat model for an interpretation of the cards.
// It never fails: any error along the way is logged and the fixed fallback
// reading is returned with OutcomeDegraded.
func (s *TarotService) GenerateReading(ctx context.Context, cards []domain.DrawnCard, spread domain.SpreadType, question string) domain.ReadingResult {
	start := time.Now()

	interp, err := s.interpret(ctx, cards, spread, question)
	if err != nil {
		s.logger.ErrorContext(ctx, "reading generation failed, using fallback",
			"spread_type", spread,
			"cards", len(cards),
			"error", err,
		)
		return domain.FallbackResult()
	}

	s.logger.InfoContext(ctx, "reading generated",
		"spread_type", spread,
		"cards", len(cards),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return domain.ReadingResult{Interpretation: interp, Outcome: domain.OutcomeOK}
}

func (s *TarotService) interpret(ctx context.Context, cards []domain.DrawnCard, spread domain.SpreadType, question string) (interp domain.Interpretation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during generation: %v", r)
		}
	}()

	if s.completer == nil {
		return domain.Interpretation{}, fmt.Errorf("%w: no llm client configured", domain.ErrProvider)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	systemPrompt := domain.BuildSystemPrompt(spread, question)
	userMessage := domain.BuildUserMessage(cards)

	text, err := s.completer.Complete(ctx, systemPrompt, userMessage)
	if err != nil {
		return domain.Interpretation{}, err
	}

	interp = domain.ParseInterpretation(text)
	if interp.Interpretation == "" {
		return domain.Interpretation{}, errEmptyInterpretation
	}
	return interp, nil
}
