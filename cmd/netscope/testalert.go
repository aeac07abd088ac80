package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/alert"
	"github.com/netscope/netscope/internal/config"
)

var testAlertCmd = &cobra.Command{
	Use:   "test-alert",
	Short: "Send a test alert to verify alerting configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		dispatcher, err := alert.FromConfig(config.Load(), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !dispatcher.Configured() {
			fmt.Fprintln(os.Stderr, "Error: no alert URL configured")
			fmt.Fprintln(os.Stderr, "Set the NETSCOPE_ALERT_URL environment variable")
			os.Exit(1)
		}

		fmt.Println("Sending test alert...")
		if err := dispatcher.SendTestAlert(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send test alert: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Test alert sent successfully")
		return nil
	},
}
