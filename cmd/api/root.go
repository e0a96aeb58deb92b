package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"notesapi/cmd/internal/app"
	"notesapi/cmd/internal/config"
	"notesapi/cmd/internal/utils/apierror"
	"notesapi/cmd/internal/utils/uid"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "notesapi",
	Short: "Multi-user notes REST API",
	Long: `notesapi serves a per-user notes API backed by SQLite.
Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded

		log.SetLevel(cfg.GommonLevel())
		uid.Init(cfg.NodeID)
		return nil
	},
	RunE: runServe,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp wires the application for one-shot commands.
func openApp() (*app.App, error) {
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func apiError(e apierror.ErrorResponse) error {
	body, _ := json.Marshal(e)
	return fmt.Errorf("request rejected (%d): %s", e.Code(), body)
}
