package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netscope/netscope/internal/alert"
	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/conflict"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/monitor"
	"github.com/netscope/netscope/internal/observability"
	"github.com/netscope/netscope/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")

		cfg := config.Load()
		if cmd.Flags().Changed("host") {
			cfg.ServerHost, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.ServerPort, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("cors-origin") {
			cfg.CORSAllowOrigin, _ = cmd.Flags().GetString("cors-origin")
		}

		ctx := context.Background()
		registry, docker, closeAll := mustRegistry(ctx, cfg, cfg.IncludeDefaultNetworks)
		defer closeAll()

		metrics := observability.NewMetrics()
		detector := conflict.NewDetector(cfg.WarnGenericNames)
		srv := server.New(cfg, registry, detector, metrics, watch)

		if watch {
			if docker == nil {
				fmt.Fprintln(os.Stderr, "Error: --watch requires the docker source")
				os.Exit(1)
			}
			dispatcher, err := alert.FromConfig(cfg, metrics)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			// The monitor keeps the store fresh; handlers serve from it
			rescan := func(ctx context.Context) (*domain.Report, error) {
				if err := srv.Refresh(ctx); err != nil {
					return nil, err
				}
				return srv.Store().Report(), nil
			}
			debounce := time.Duration(cfg.DebounceSeconds * float64(time.Second))
			m := monitor.New(docker, rescan, dispatcher, debounce, true)
			m.Start()
			defer m.Stop()
		}

		r := srv.Router()

		addr := cfg.ServerHost + ":" + cfg.ServerPort
		log.Printf("netscope server starting on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind the server to")
	serveCmd.Flags().StringP("port", "p", "8080", "port to serve on")
	serveCmd.Flags().String("cors-origin", "*", "allowed CORS origin")
	serveCmd.Flags().Bool("watch", false, "keep scans fresh from the Docker event stream")
}
