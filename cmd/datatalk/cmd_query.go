package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"datatalk/internal/bot"
)

// queryCmd resolves a single utterance and prints the result
var queryCmd = &cobra.Command{
	Use:   "query [utterance]",
	Short: "Resolve one utterance to intent, filters and SQL",
	Long: `Runs a single utterance through the full pipeline without any
conversation context and prints the resolved intent, the extracted
filters and the generated SQL.

Example:
  datatalk query "facturas que vencen en las próximas dos semanas"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := bot.New(cfg, logger)
		if err != nil {
			return err
		}

		utterance := strings.Join(args, " ")
		turn := pipeline.HandleTurn(utterance, "cli")

		filters, err := json.Marshal(turn.Filters)
		if err != nil {
			return fmt.Errorf("encode filters: %w", err)
		}

		fmt.Printf("intent:  %s\n", turn.Intent)
		fmt.Printf("filters: %s\n", filters)
		fmt.Printf("sql:\n%s\n", turn.SQL)
		return nil
	},
}
