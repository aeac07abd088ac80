package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var sources []string

var rootCmd = &cobra.Command{
	Use:     "netscope",
	Short:   "Inspect Docker networks for DNS conflicts and visualize topology",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&sources, "sources", []string{"docker"},
		"topology sources to scan (docker, kubernetes, aws)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(testAlertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
