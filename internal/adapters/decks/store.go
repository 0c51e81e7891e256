package decks

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/randomtoy/tarot3d/internal/domain"
)

//go:embed data/*.toml
var deckFS embed.FS

const embeddedDeck = "data/major_arcana.toml"

// deckFile is the on-disk layout of a deck definition.
type deckFile struct {
	ID    string        `toml:"id"`
	Name  string        `toml:"name"`
	Cards []domain.Card `toml:"cards"`
}

// Store loads the card catalog once and serves it read-only afterwards.
// With an empty path the embedded major arcana deck is used.
type Store struct {
	path string

	once sync.Once
	deck domain.Deck
	err  error
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewEmbeddedStore serves the built-in deck.
func NewEmbeddedStore() *Store {
	return NewStore("")
}

func (s *Store) init() {
	var (
		raw []byte
		err error
	)
	if s.path == "" {
		raw, err = fs.ReadFile(deckFS, embeddedDeck)
	} else {
		raw, err = os.ReadFile(s.path)
	}
	if err != nil {
		s.err = fmt.Errorf("read deck %s: %w", s.source(), err)
		return
	}

	var df deckFile
	if _, err := toml.Decode(string(raw), &df); err != nil {
		s.err = fmt.Errorf("parse deck %s: %w", s.source(), err)
		return
	}
	if err := validate(df); err != nil {
		s.err = fmt.Errorf("invalid deck %s: %w", s.source(), err)
		return
	}

	s.deck = domain.Deck{ID: df.ID, Name: df.Name, Cards: df.Cards}
}

func (s *Store) source() string {
	if s.path == "" {
		return embeddedDeck
	}
	return s.path
}

// Load forces the catalog to be read so that a broken deck file fails at startup.
func (s *Store) Load() error {
	s.once.Do(s.init)
	return s.err
}

func (s *Store) GetDeck(_ context.Context) (domain.Deck, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Deck{}, s.err
	}
	return s.deck, nil
}

func validate(df deckFile) error {
	if len(df.Cards) == 0 {
		return domain.ErrDeckNotFound
	}
	seen := make(map[int]bool, len(df.Cards))
	for _, c := range df.Cards {
		if seen[c.ID] {
			return fmt.Errorf("duplicate card id %d", c.ID)
		}
		seen[c.ID] = true
		if c.Name == "" {
			return fmt.Errorf("card %d has no name", c.ID)
		}
		if c.Arcana != domain.ArcanaMajor && c.Arcana != domain.ArcanaMinor {
			return fmt.Errorf("card %d: unknown arcana %q", c.ID, c.Arcana)
		}
	}
	return nil
}
