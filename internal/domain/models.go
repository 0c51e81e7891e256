package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Arcana is the tarot category of a card.
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Card is an immutable catalog entry.
type Card struct {
	ID              int      `json:"id" bson:"id" toml:"id"`
	Name            string   `json:"name" bson:"name" toml:"name"`
	Arcana          Arcana   `json:"arcana" bson:"arcana" toml:"arcana"`
	Image           string   `json:"image" bson:"image" toml:"image"`
	Keywords        []string `json:"keywords" bson:"keywords" toml:"keywords"`
	UprightMeaning  string   `json:"upright_meaning" bson:"upright_meaning" toml:"upright_meaning"`
	ReversedMeaning string   `json:"reversed_meaning" bson:"reversed_meaning" toml:"reversed_meaning"`
}

// Meaning returns the meaning text that applies to the given orientation.
func (c Card) Meaning(reversed bool) string {
	if reversed {
		return c.ReversedMeaning
	}
	return c.UprightMeaning
}

// DrawnCard is a card that has been drawn as part of a spread.
type DrawnCard struct {
	Card     `bson:",inline"`
	Reversed bool   `json:"reversed" bson:"reversed"`
	Position string `json:"position,omitempty" bson:"position,omitempty"`
}

// Deck is a named collection of tarot cards.
type Deck struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Reading is a persisted question+cards+interpretation record tied to a session.
// Readings are only ever inserted and read back.
type Reading struct {
	ID             string      `json:"id" bson:"id"`
	SessionID      string      `json:"session_id" bson:"session_id"`
	SpreadType     SpreadType  `json:"spread_type" bson:"spread_type"`
	Question       *string     `json:"question" bson:"question"`
	Cards          []DrawnCard `json:"cards" bson:"cards"`
	Interpretation string      `json:"interpretation" bson:"interpretation"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
}
