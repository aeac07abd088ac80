package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/client"
	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/dash"
	"github.com/netscope/netscope/internal/dashboard"
)

// layout simulation space for the terminal graph
const (
	dashWidth  = 900
	dashHeight = 600
)

func defaultAPI() string {
	if s := os.Getenv("NETSCOPE_API"); s != "" {
		return s
	}
	return "http://127.0.0.1:8080"
}

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Interactive terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api")
		noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")

		// Logging would corrupt the TUI, so it goes to a file or nowhere
		if path := os.Getenv("NETSCOPE_DEBUG_LOG"); path != "" {
			f, err := tea.LogToFile(path, "netscope")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}

		renderer := dashboard.NewRenderer(dashWidth, dashHeight)
		controller := dashboard.NewController(client.NewHTTPClient(apiURL), renderer)
		states := dashboard.NewStateStore(config.StateDir())
		model := dash.New(controller, renderer, states)

		var opts []tea.ProgramOption
		if !noAltScreen {
			opts = append(opts, tea.WithAltScreen())
		}

		if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	dashCmd.Flags().String("api", defaultAPI(), "netscope server base URL")
	dashCmd.Flags().Bool("no-alt-screen", false, "render inline instead of the alternate screen")
}
