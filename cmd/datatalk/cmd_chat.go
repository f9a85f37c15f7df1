package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"datatalk/internal/bot"
	"datatalk/internal/nlu"
)

// chatCmd runs an interactive session so carry-over can be exercised
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session with conversation context",
	Long: `Starts a line-oriented chat session against the pipeline. All turns
share one conversation id, so contextual refinements work the way they
do in the real channel:

  > facturas que vencen este mes
  > y el 22?
  > y de todo el mes?

Type "salir" or "exit" to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := bot.New(cfg, logger)
		if err != nil {
			return err
		}

		conversationID := uuid.NewString()
		fmt.Println("datatalk chat - escribe tu consulta (salir/exit para terminar)")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := scanner.Text()
			if line == "salir" || line == "exit" {
				break
			}

			turn := pipeline.HandleTurn(line, conversationID)
			if turn.Intent == nlu.IntentHelp {
				fmt.Println(turn.Reply)
				continue
			}
			fmt.Printf("[%s] %s\n%s\n", turn.Intent, turn.Reply, turn.SQL)
		}
		return scanner.Err()
	},
}
