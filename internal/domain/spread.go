package domain

import "fmt"

// ReversedProbability is the chance that a drawn card comes out reversed.
const ReversedProbability = 0.3

// SpreadType identifies a spread layout.
type SpreadType string

const (
	SpreadSingle SpreadType = "single"
	SpreadDaily  SpreadType = "daily"
	SpreadThree  SpreadType = "three"
	SpreadLove   SpreadType = "love"
	SpreadWeekly SpreadType = "weekly"
	SpreadCeltic SpreadType = "celtic"
)

// Spread describes a layout: how many cards it takes and what each position means.
type Spread struct {
	Type          SpreadType `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Layout        string     `json:"layout"`
	Positions     int        `json:"positions"`
	PositionNames []string   `json:"position_names"`
}

var spreads = []Spread{
	{
		Type:          SpreadSingle,
		Name:          "Одна карта",
		Description:   "Простой ответ на ваш вопрос",
		Layout:        "single",
		PositionNames: []string{"Ответ"},
	},
	{
		Type:          SpreadThree,
		Name:          "Три карты",
		Description:   "Прошлое, настоящее, будущее",
		Layout:        "horizontal",
		PositionNames: []string{"Прошлое", "Настоящее", "Будущее"},
	},
	{
		Type:        SpreadCeltic,
		Name:        "Кельтский крест",
		Description: "Полный анализ ситуации",
		Layout:      "cross",
		PositionNames: []string{
			"Текущая ситуация",
			"Препятствие/Помощь",
			"Далёкое прошлое",
			"Недавнее прошлое",
			"Возможное будущее",
			"Ближайшее будущее",
			"Ваш подход",
			"Внешние влияния",
			"Надежды и страхи",
			"Итоговый результат",
		},
	},
	{
		Type:          SpreadDaily,
		Name:          "Карта дня",
		Description:   "Энергии и события сегодня",
		Layout:        "single",
		PositionNames: []string{"Карта дня"},
	},
	{
		Type:          SpreadWeekly,
		Name:          "Расклад на неделю",
		Description:   "Энергии каждого дня недели",
		Layout:        "weekly",
		PositionNames: []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"},
	},
	{
		Type:          SpreadLove,
		Name:          "Расклад на отношения",
		Description:   "Анализ любовной ситуации",
		Layout:        "love",
		PositionNames: []string{"Ваши чувства", "Чувства партнёра", "Препятствия", "Совет", "Исход"},
	},
}

func init() {
	for i := range spreads {
		spreads[i].Positions = len(spreads[i].PositionNames)
	}
}

// Spreads returns the known spread layouts in display order.
func Spreads() []Spread {
	out := make([]Spread, len(spreads))
	copy(out, spreads)
	return out
}

// LookupSpread returns the layout for st.
func LookupSpread(st SpreadType) (Spread, bool) {
	for _, s := range spreads {
		if s.Type == st {
			return s, true
		}
	}
	return Spread{}, false
}

// PositionNames returns the ordered position labels for a spread.
// Unknown spreads get generic labels, one per drawn card.
func PositionNames(st SpreadType, count int) []string {
	if s, ok := LookupSpread(st); ok {
		return s.PositionNames
	}
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("Позиция %d", i+1)
	}
	return names
}

// AssignPositions labels cards in order. Cards past the end of the
// layout's label list keep an empty position.
func AssignPositions(cards []DrawnCard, st SpreadType) {
	names := PositionNames(st, len(cards))
	for i := range cards {
		if i < len(names) {
			cards[i].Position = names[i]
		}
	}
}

// Draw samples count distinct cards from catalog, flips each one with
// ReversedProbability and labels them for the spread.
func Draw(catalog []Card, count int, st SpreadType, rng RNG) ([]DrawnCard, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidArgument, count)
	}
	if count > len(catalog) {
		return nil, fmt.Errorf("%w: cannot draw %d cards from a deck of %d", ErrInvalidArgument, count, len(catalog))
	}

	// Partial Fisher-Yates: only the first count slots are settled.
	indices := make([]int, len(catalog))
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
	}

	cards := make([]DrawnCard, count)
	for i := range count {
		cards[i] = DrawnCard{
			Card:     catalog[indices[i]],
			Reversed: rng.Float64() < ReversedProbability,
		}
	}
	AssignPositions(cards, st)

	return cards, nil
}
