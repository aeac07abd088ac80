package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/conflict"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/render"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan networks for DNS conflicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		network, _ := cmd.Flags().GetString("network")
		includeDefault, _ := cmd.Flags().GetBool("include-default")
		noWarnings, _ := cmd.Flags().GetBool("no-warnings")
		quiet, _ := cmd.Flags().GetBool("quiet")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg := config.Load()
		ctx := context.Background()

		// A named network is looked up across every network, defaults
		// included, so "scan -n bridge" works without the extra flag.
		registry, _, closeAll := mustRegistry(ctx, cfg, includeDefault || network != "")
		defer closeAll()

		snap, err := registry.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if network != "" {
			snap = filterNetwork(snap, network)
			if snap.Empty() {
				fmt.Fprintf(os.Stderr, "Network %q not found or empty\n", network)
				os.Exit(1)
			}
		}

		detector := conflict.NewDetector(!noWarnings)
		report := detector.Analyze(snap)

		if quiet && !report.HasConflicts() {
			return nil
		}

		if jsonOutput {
			out := map[string]any{
				"summary":   report.Summary(),
				"conflicts": report.Conflicts,
				"tree":      conflict.BuildTree(snap, report),
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			fmt.Println(render.ConflictReport(report))
		}

		if code := exitCode(report); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// filterNetwork narrows a snapshot to a single network's attachments
func filterNetwork(snap *domain.Snapshot, network string) *domain.Snapshot {
	filtered := domain.NewSnapshot(snap.Source)
	for _, node := range snap.Networks[network] {
		filtered.AddNode(network, node)
	}
	return filtered
}

// exitCode maps the report's worst severity to the scan exit code
func exitCode(r *domain.Report) int {
	switch {
	case r.CriticalCount() > 0:
		return 2
	case r.HighCount() > 0:
		return 1
	}
	return 0
}

func init() {
	scanCmd.Flags().StringP("network", "n", "", "scan a specific network only")
	scanCmd.Flags().Bool("include-default", false, "include default networks (bridge, host, none)")
	scanCmd.Flags().Bool("no-warnings", false, "suppress warnings for generic names")
	scanCmd.Flags().BoolP("quiet", "q", false, "only output if conflicts found")
	scanCmd.Flags().Bool("json", false, "emit the report as JSON")
}
