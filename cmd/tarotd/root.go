package main

import (
	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot3d/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tarotd",
		Short: "Tarot reading backend with AI interpretations",
		Long: `tarotd draws tarot spreads, asks a chat model to interpret them and keeps
a per-session history of saved readings.

Settings come from flags, environment variables (MONGO_URL, DB_NAME,
LLM_API_KEY, LLM_PROVIDER, ...), an optional YAML file given with --config
and a .env file in the working directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(".env")
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDrawCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}
