package ports

import (
	"context"

	"github.com/randomtoy/tarot3d/internal/domain"
)

// DeckStore provides access to the card catalog.
type DeckStore interface {
	GetDeck(ctx context.Context) (domain.Deck, error)
}
