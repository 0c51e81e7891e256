package ports

import (
	"context"

	"github.com/randomtoy/tarot3d/internal/domain"
)

// ReadingStore persists readings. Readings are inserted as given and never
// updated or deleted.
type ReadingStore interface {
	Insert(ctx context.Context, r domain.Reading) error
	// History returns up to limit readings for sessionID, newest first.
	History(ctx context.Context, sessionID string, limit int) ([]domain.Reading, error)
	Close(ctx context.Context) error
}
