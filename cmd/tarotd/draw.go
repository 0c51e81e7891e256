package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/randomtoy/tarot3d/internal/config"
	"github.com/randomtoy/tarot3d/internal/domain"
)

const defaultWidth = 80

func newDrawCmd() *cobra.Command {
	var (
		spread    string
		count     int
		question  string
		interpret bool
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a spread in the terminal",
		Long: `Draws cards for a spread and prints them. With --interpret the cards are
sent to the configured chat model, the same way the API does it.`,
		Example: `  tarotd draw --spread three
  tarotd draw --spread love --question "Как развиваются мои отношения?" --interpret
  tarotd draw --spread custom --count 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger(os.Stderr, cfg.LogLevel())
			d, err := wire(ctx, cfg, logger, needs{llm: interpret})
			if err != nil {
				return err
			}
			defer d.Close(ctx)

			st := domain.SpreadType(spread)
			if count <= 0 {
				s, ok := domain.LookupSpread(st)
				if !ok {
					return fmt.Errorf("unknown spread %q: pass --count", spread)
				}
				count = s.Positions
			}

			cards, err := d.svc.DrawCards(ctx, count, st)
			if err != nil {
				return err
			}

			var res *domain.ReadingResult
			if interpret {
				r := d.svc.GenerateReading(ctx, cards, st, question)
				res = &r
			}

			renderDraw(cmd.OutOrStdout(), terminalWidth(), st, question, cards, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&spread, "spread", "s", string(domain.SpreadThree), "spread type (single, daily, three, love, weekly, celtic)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of cards (spread size when 0)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question for the reading")
	cmd.Flags().BoolVarP(&interpret, "interpret", "i", false, "ask the chat model for an interpretation")

	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func renderDraw(w io.Writer, width int, st domain.SpreadType, question string, cards []domain.DrawnCard, res *domain.ReadingResult) {
	label := color.New(color.FgCyan).SprintFunc()
	title := color.New(color.FgHiWhite, color.Bold).SprintFunc()
	reversed := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	name := string(st)
	if s, ok := domain.LookupSpread(st); ok {
		name = s.Name
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", label("Расклад:"), title(name))
	if question != "" {
		fmt.Fprintf(w, "%s %s\n", label("Вопрос:"), question)
	}
	fmt.Fprintln(w)

	textWidth := max(width-6, 20)
	for i, c := range cards {
		line := fmt.Sprintf("%d. %s", i+1, title(c.Name))
		if c.Position != "" {
			line += " " + label("("+c.Position+")")
		}
		if c.Reversed {
			line += " " + reversed("(перевёрнутая)")
		}
		fmt.Fprintln(w, line)
		if len(c.Keywords) > 0 {
			fmt.Fprintf(w, "   %s %s\n", label("Ключевые слова:"), strings.Join(c.Keywords, ", "))
		}
		for _, l := range wrapText(c.Meaning(c.Reversed), textWidth) {
			fmt.Fprintf(w, "   %s\n", l)
		}
		fmt.Fprintln(w)
	}

	if res == nil {
		return
	}
	if res.Outcome == domain.OutcomeDegraded {
		fmt.Fprintln(w, warn("Модель недоступна, показано резервное толкование."))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, label("Интерпретация:"))
	for _, l := range wrapText(res.Interpretation.Interpretation, textWidth) {
		fmt.Fprintf(w, "   %s\n", l)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, label("Совет:"))
	for _, l := range wrapText(res.Advice, textWidth) {
		fmt.Fprintf(w, "   %s\n", l)
	}
	fmt.Fprintln(w)
}

// wrapText breaks text into lines of at most width runes, keeping paragraph
// breaks. Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
