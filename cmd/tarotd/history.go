package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randomtoy/tarot3d/internal/config"
	"github.com/randomtoy/tarot3d/internal/domain"
)

// historyEntry is the export shape of a saved reading.
type historyEntry struct {
	ID             string        `json:"id" yaml:"id"`
	SessionID      string        `json:"session_id" yaml:"session_id"`
	SpreadType     string        `json:"spread_type" yaml:"spread_type"`
	Question       *string       `json:"question" yaml:"question"`
	Cards          []historyCard `json:"cards" yaml:"cards"`
	Interpretation string        `json:"interpretation" yaml:"interpretation"`
	CreatedAt      time.Time     `json:"created_at" yaml:"created_at"`
}

type historyCard struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
	Reversed bool   `json:"reversed" yaml:"reversed"`
}

func newHistoryCmd() *cobra.Command {
	var (
		session string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Export the saved readings of a session",
		Example: `  tarotd history --session test_session_1
  tarotd history --session test_session_1 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger(os.Stderr, cfg.LogLevel())
			d, err := wire(ctx, cfg, logger, needs{store: true})
			if err != nil {
				return err
			}
			defer d.Close(ctx)

			readings, err := d.svc.History(ctx, session)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), format, readings)
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "session id")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func writeHistory(w io.Writer, format string, readings []domain.Reading) error {
	entries := make([]historyEntry, 0, len(readings))
	for _, r := range readings {
		cards := make([]historyCard, 0, len(r.Cards))
		for _, c := range r.Cards {
			cards = append(cards, historyCard{ID: c.ID, Name: c.Name, Position: c.Position, Reversed: c.Reversed})
		}
		entries = append(entries, historyEntry{
			ID:             r.ID,
			SessionID:      r.SessionID,
			SpreadType:     string(r.SpreadType),
			Question:       r.Question,
			Cards:          cards,
			Interpretation: r.Interpretation,
			CreatedAt:      r.CreatedAt,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]historyEntry{"readings": entries})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]historyEntry{"readings": entries}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
