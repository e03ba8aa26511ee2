// ABOUTME: The mcp command: serves templates and session history over stdio.
// ABOUTME: Keeps a day-history cache bound to the store's bus for the life of the server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/history"
	"github.com/harperreed/liftlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve liftlog to an assistant over MCP (stdio)",
	Long: `Serve templates and session history over the Model Context Protocol on
stdin/stdout. The server holds the database lock until it exits, so other
liftlog commands wait or fail with "database is locked" while it runs.

Point an MCP client at "liftlog mcp"; see 'liftlog --help' for a config snippet.

Tools:    list_templates, get_template, record_session, list_logged_days,
          list_logs_for_day, list_sessions, delete_session
Resources: liftlog://sessions/recent, liftlog://sessions/today, liftlog://summary

Stop with Ctrl-C or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveMCP(ctx)
	},
}

// serveMCP runs the server until ctx is done or the client disconnects.
func serveMCP(ctx context.Context) error {
	days := history.NewDayCache(logStore, logger)
	days.Bind(bus)
	defer days.Close()

	server, err := mcp.NewServer(templateStore, logStore, days)
	if err != nil {
		return err
	}

	logger.Info("mcp server starting", zap.String("db", dbConn.Path()))
	err = server.Serve(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
