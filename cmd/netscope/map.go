package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/conflict"
	"github.com/netscope/netscope/internal/render"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Display network topology as an ASCII tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		includeDefault, _ := cmd.Flags().GetBool("include-default")

		cfg := config.Load()
		ctx := context.Background()

		registry, _, closeAll := mustRegistry(ctx, cfg, includeDefault)
		defer closeAll()

		snap, err := registry.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if snap.Empty() {
			fmt.Println("No user-defined networks found")
			if !includeDefault {
				fmt.Println("Use --include-default to see default networks")
			}
			return nil
		}

		detector := conflict.NewDetector(true)
		report := detector.Analyze(snap)

		fmt.Println(render.Tree(conflict.BuildTree(snap, report)))
		return nil
	},
}

func init() {
	mapCmd.Flags().Bool("include-default", false, "include default networks (bridge, host, none)")
}
