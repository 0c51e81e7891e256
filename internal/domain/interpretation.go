package domain

import "strings"

const (
	InterpretationMarker = "ИНТЕРПРЕТАЦИЯ:"
	AdviceMarker         = "СОВЕТ:"
)

// DefaultAdvice is used when the model ignored the requested answer format.
const DefaultAdvice = "Доверьтесь своей интуиции и используйте полученную информацию для принятия осознанных решений."

// Fallback content returned when a reading could not be generated at all.
const (
	FallbackInterpretation = "Карты указывают на важный период в вашей жизни. Доверьтесь своей интуиции и будьте открыты к переменам."
	FallbackAdvice         = "Помните, что карты Таро - это инструмент для самопознания. Используйте их мудрость для принятия осознанных решений."
)

// Outcome tells a real model answer apart from the fallback content.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDegraded
)

func (o Outcome) String() string {
	if o == OutcomeDegraded {
		return "degraded"
	}
	return "ok"
}

// Interpretation is the structured form of a model answer.
type Interpretation struct {
	Interpretation string
	Advice         string
}

// ReadingResult is what reading generation hands back to callers.
type ReadingResult struct {
	Interpretation
	Outcome Outcome
}

// FallbackResult is the fixed degraded reading.
func FallbackResult() ReadingResult {
	return ReadingResult{
		Interpretation: Interpretation{
			Interpretation: FallbackInterpretation,
			Advice:         FallbackAdvice,
		},
		Outcome: OutcomeDegraded,
	}
}

// ParseInterpretation splits a model answer into interpretation and advice.
// When both markers are present the text is split at the first advice marker;
// anything after it, later markers included, is advice. Otherwise the whole
// text is the interpretation and DefaultAdvice is used.
func ParseInterpretation(text string) Interpretation {
	if !strings.Contains(text, InterpretationMarker) || !strings.Contains(text, AdviceMarker) {
		return Interpretation{Interpretation: text, Advice: DefaultAdvice}
	}

	head, tail, _ := strings.Cut(text, AdviceMarker)
	return Interpretation{
		Interpretation: strings.TrimSpace(strings.ReplaceAll(head, InterpretationMarker, "")),
		Advice:         strings.TrimSpace(tail),
	}
}
