package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/alert"
	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/conflict"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/monitor"
	"github.com/netscope/netscope/internal/render"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor Docker events and alert on conflicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		noWarnings, _ := cmd.Flags().GetBool("no-warnings")
		noInitialScan, _ := cmd.Flags().GetBool("no-initial-scan")

		cfg := config.Load()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		registry, docker, closeAll := mustRegistry(ctx, cfg, cfg.IncludeDefaultNetworks)
		defer closeAll()
		if docker == nil {
			fmt.Fprintln(os.Stderr, "Error: watch requires the docker source")
			os.Exit(1)
		}

		dispatcher, err := alert.FromConfig(cfg, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !dispatcher.Configured() {
			fmt.Println("Warning: no alert URL configured. Set NETSCOPE_ALERT_URL to enable alerts.")
			fmt.Println()
		}

		detector := conflict.NewDetector(!noWarnings)
		rescan := func(ctx context.Context) (*domain.Report, error) {
			snap, err := registry.Collect(ctx)
			if err != nil {
				return nil, err
			}
			report := detector.Analyze(snap)
			fmt.Println(render.Summary(report))
			if report.HasConflicts() {
				fmt.Println()
				fmt.Println(render.ConflictReport(report))
			}
			return report, nil
		}

		debounce := time.Duration(cfg.DebounceSeconds * float64(time.Second))
		m := monitor.New(docker, rescan, dispatcher, debounce, !noInitialScan)
		m.Start()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.Stop()
				return nil
			case <-ticker.C:
				// the monitor stops itself when the event stream keeps failing
				if !m.IsRunning() {
					os.Exit(1)
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().Bool("no-warnings", false, "suppress warnings for generic names")
	watchCmd.Flags().Bool("no-initial-scan", false, "skip the initial scan on startup")
}
