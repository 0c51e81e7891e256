package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/randomtoy/tarot3d/internal/adapters/store/mongo"
	"github.com/randomtoy/tarot3d/internal/adapters/store/sqlite"
	"github.com/randomtoy/tarot3d/internal/domain"
	"github.com/randomtoy/tarot3d/internal/ports"
)

// Open picks the reading store backend from the URL scheme:
//
//	mongodb://..., mongodb+srv://...  MongoDB, using database
//	sqlite:path, sqlite://path        SQLite file (sqlite::memory: for an in-memory db)
//	file:path                         SQLite file
func Open(ctx context.Context, url, database string) (ports.ReadingStore, error) {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		s, err := mongo.Open(ctx, url, database)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return s, nil
	case strings.HasPrefix(url, "sqlite:"), strings.HasPrefix(url, "file:"):
		s, err := sqlite.Open(ctx, SQLiteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedStore, redact(url))
	}
}

// SQLiteDSN strips the sqlite scheme; file: URLs are passed through as-is.
func SQLiteDSN(url string) string {
	if rest, ok := strings.CutPrefix(url, "sqlite://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(url, "sqlite:"); ok {
		return rest
	}
	return url
}

// redact hides credentials in URLs that end up in error messages.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return url
}
