package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/netscope/netscope/internal/collector"
	"github.com/netscope/netscope/internal/config"
)

// buildRegistry constructs the collectors named by --sources. The docker
// collector is returned separately for callers that need its event
// stream; it is nil when docker is not among the sources.
func buildRegistry(ctx context.Context, cfg *config.Config, includeDefault bool) (*collector.Registry, *collector.DockerCollector, func(), error) {
	var (
		collectors []collector.Collector
		docker     *collector.DockerCollector
	)

	fail := func(err error) (*collector.Registry, *collector.DockerCollector, func(), error) {
		if docker != nil {
			docker.Close()
		}
		return nil, nil, nil, err
	}

	for _, source := range sources {
		switch strings.ToLower(strings.TrimSpace(source)) {
		case "docker":
			dc, err := collector.NewDockerCollector(ctx, includeDefault)
			if err != nil {
				return fail(err)
			}
			docker = dc
			collectors = append(collectors, dc)
		case "kubernetes", "k8s":
			kc, err := collector.NewKubernetesCollector(cfg.KubeConfig, includeDefault)
			if err != nil {
				return fail(err)
			}
			collectors = append(collectors, kc)
		case "aws":
			ac, err := collector.NewAWSCollector(ctx, cfg.AWSRegion)
			if err != nil {
				return fail(err)
			}
			collectors = append(collectors, ac)
		default:
			return fail(fmt.Errorf("unknown source %q (expected docker, kubernetes or aws)", source))
		}
	}

	closeAll := func() {
		if docker != nil {
			docker.Close()
		}
	}
	return collector.NewRegistry(collectors...), docker, closeAll, nil
}

// mustRegistry builds the registry or exits with a connection hint
func mustRegistry(ctx context.Context, cfg *config.Config, includeDefault bool) (*collector.Registry, *collector.DockerCollector, func()) {
	registry, docker, closeAll, err := buildRegistry(ctx, cfg, includeDefault)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if strings.Contains(err.Error(), "docker") {
			fmt.Fprintln(os.Stderr, "Is Docker running? Is the socket accessible?")
		}
		os.Exit(1)
	}
	return registry, docker, closeAll
}
