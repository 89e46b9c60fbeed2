/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AzerQ/sed-notifications/internal/client"
	"github.com/AzerQ/sed-notifications/internal/coordinator"
	"github.com/AzerQ/sed-notifications/internal/push"
	"github.com/AzerQ/sed-notifications/internal/tui"
)

var panelUser string

// panelCmd represents the panel command
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the terminal notification panel",
	Long: `Open the terminal notification panel.

Shows the unread badge, the unread panel and the paginated history
view. New notifications pushed by the backend appear live; toasts are
shown while neither the panel nor the history view is open.`,
	RunE: runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.Flags().StringVar(&panelUser, "user", "", "user id sent with settings requests")
}

func runPanel(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg := loadedCfg.Client

	opts := []client.Option{client.WithLogger(logger)}
	if panelUser != "" {
		opts = append(opts, client.WithUserID(panelUser))
	}
	svc := client.New(cfg.BaseURL, opts...)
	channel := push.NewChannel(cfg.WebSocketURL, logger)

	ctx := context.Background()
	coord := coordinator.New(ctx, svc, channel,
		coordinator.WithLogger(logger),
		coordinator.WithPageSize(cfg.PageSize),
		coordinator.WithUnreadPageSize(cfg.UnreadPageSize),
	)
	defer coord.Dispose()

	// The panel stays usable without a live push connection.
	if err := coord.Connect(ctx); err != nil {
		logger.Warn("push channel unavailable", "error", err)
	}

	return tui.Run(coord)
}
