package main

import (
	"github.com/spf13/cobra"

	"datatalk/internal/bot"
	"datatalk/internal/gateway"
)

// serveCmd runs the HTTP gateway
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Starts the HTTP gateway the channel adapter talks to:

  POST /api/messages  {"conversation_id": "...", "text": "..."}
  GET  /health
  GET  /diag/env

The gateway returns intent, filters and SQL per turn; executing the SQL
against the database remains the adapter's job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := bot.New(cfg, logger)
		if err != nil {
			return err
		}
		return gateway.New(pipeline, cfg, logger).Run()
	},
}
