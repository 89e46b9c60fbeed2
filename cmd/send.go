/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AzerQ/sed-notifications/internal/client"
	"github.com/AzerQ/sed-notifications/internal/domain"
)

var (
	sendType        string
	sendSubtype     string
	sendAuthor      string
	sendDescription string
	sendDate        string
	sendCardURL     string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <title>",
	Short: "Publish a notification to the backend",
	Long: `Publish a notification to the backend.

The backend stores it and pushes it to every connected panel. Useful
for wiring shell hooks and for exercising a running backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendType, "type", string(domain.TypeOther), "notification type: document, task, system, other")
	sendCmd.Flags().StringVar(&sendSubtype, "subtype", "", "free-form subtype")
	sendCmd.Flags().StringVar(&sendAuthor, "author", "", "author shown in the panel")
	sendCmd.Flags().StringVar(&sendDescription, "description", "", "long description shown in the history view")
	sendCmd.Flags().StringVar(&sendDate, "date", "", "RFC3339 timestamp (default: now)")
	sendCmd.Flags().StringVar(&sendCardURL, "card-url", "", "link to the related card")
}

func runSend(cmd *cobra.Command, args []string) error {
	nt, err := domain.ParseNotificationType(sendType)
	if err != nil {
		return err
	}

	date := sendDate
	if date == "" {
		date = nowRFC3339()
	}

	svc := client.New(loadedCfg.Client.BaseURL, client.WithLogger(newLogger()))
	created, err := svc.CreateNotification(cmd.Context(), domain.Notification{
		Title:       args[0],
		Type:        nt,
		Subtype:     sendSubtype,
		Description: sendDescription,
		Author:      sendAuthor,
		Date:        date,
		CardURL:     sendCardURL,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "notification %d created\n", created.ID)
	return nil
}

func nowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}
