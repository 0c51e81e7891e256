package domain

import (
	"fmt"
	"strings"
)

const readerPreamble = `Ты - опытный мастер Таро с глубокими знаниями символики карт и многолетним опытом интерпретации.
Твоя задача - дать вдумчивое, точное и практичное предсказание на основе выпавших карт.

Учитывай:
- Традиционные значения каждой карты
- Влияние перевёрнутых карт
- Взаимодействие карт между собой
- Контекст заданного вопроса
- Позицию каждой карты в раскладе

Отвечай на русском языке, создавая связное, вдохновляющее предсказание.`

// spreadInstructions holds the spread-specific closing line of the system prompt.
var spreadInstructions = map[SpreadType]string{
	SpreadSingle: "Дай интерпретацию одной карты как ответа на вопрос.",
	SpreadDaily:  "Интерпретируй карту дня, фокусируясь на энергиях и событиях предстоящего дня.",
	SpreadThree:  "Проанализируй расклад 'Три карты' (Прошлое-Настоящее-Будущее), показав развитие ситуации во времени.",
	SpreadLove:   "Дай интерпретацию любовного расклада, анализируя чувства, препятствия и перспективы отношений.",
	SpreadWeekly: "Проанализируй недельный расклад, дав краткий прогноз для каждого дня недели.",
	SpreadCeltic: "Дай полную интерпретацию Кельтского креста - самого глубокого и информативного расклада Таро.",
}

const answerFormat = `Пожалуйста, дай детальную интерпретацию этого расклада. Структурируй ответ следующим образом:

ИНТЕРПРЕТАЦИЯ:
[Подробный анализ карт и их взаимодействия, учитывающий позиции и вопрос]

СОВЕТ:
[Практические рекомендации и советы на основе полученной информации]

Говори доброжелательно, но честно. Избегай слишком общих фраз, фокусируйся на конкретной ситуации.`

// SpreadInstruction returns the instruction for st, falling back to the
// single-card instruction for unknown spreads.
func SpreadInstruction(st SpreadType) string {
	if s, ok := spreadInstructions[st]; ok {
		return s
	}
	return spreadInstructions[SpreadSingle]
}

// BuildSystemPrompt assembles the system prompt. An empty question is omitted.
func BuildSystemPrompt(st SpreadType, question string) string {
	var b strings.Builder
	b.WriteString(readerPreamble)
	if question != "" {
		fmt.Fprintf(&b, "\n\nВопрос: %s", question)
	}
	b.WriteString("\n\n")
	b.WriteString(SpreadInstruction(st))
	return b.String()
}

// FormatCards renders the drawn cards as a numbered block for the model.
func FormatCards(cards []DrawnCard) string {
	var b strings.Builder
	b.WriteString("Выпавшие карты:\n\n")

	for i, card := range cards {
		fmt.Fprintf(&b, "%d. %s", i+1, card.Name)
		if card.Position != "" {
			fmt.Fprintf(&b, " (%s)", card.Position)
		}
		if card.Reversed {
			b.WriteString(" (перевёрнутая)")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Ключевые слова: %s\n", strings.Join(card.Keywords, ", "))
		fmt.Fprintf(&b, "   Значение: %s\n\n", card.Meaning(card.Reversed))
	}

	return b.String()
}

// BuildUserMessage is the cards block followed by the answer-format request.
func BuildUserMessage(cards []DrawnCard) string {
	return FormatCards(cards) + "\n" + answerFormat
}
