package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"

	"github.com/netscope/netscope/internal/domain"
)

const (
	labelComposeService = "com.docker.compose.service"
	labelComposeProject = "com.docker.compose.project"
)

// defaultNetworks ship with the daemon and rarely carry compose stacks
var defaultNetworks = map[string]struct{}{
	"bridge": {},
	"host":   {},
	"none":   {},
}

// DockerCollector scans the local Docker daemon for networks and the
// containers attached to them
type DockerCollector struct {
	cli            client.APIClient
	includeDefault bool
}

// NewDockerCollector connects to the daemon through the standard DOCKER_*
// environment and verifies it responds before returning.
// includeDefault keeps the bridge, host and none networks in scans.
func NewDockerCollector(ctx context.Context, includeDefault bool) (*DockerCollector, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("docker ping: %w", err)
	}
	return &DockerCollector{cli: cli, includeDefault: includeDefault}, nil
}

// Name identifies this source in merged snapshots
func (c *DockerCollector) Name() string {
	return "docker"
}

// Close releases the daemon connection
func (c *DockerCollector) Close() error {
	return c.cli.Close()
}

// Events subscribes to the daemon's event stream, filtered to the
// container and network changes that can alter DNS resolution. The
// stream stays open until ctx is cancelled or the daemon drops it.
func (c *DockerCollector) Events(ctx context.Context) (<-chan events.Message, <-chan error) {
	f := filters.NewArgs(
		filters.Arg("type", string(events.ContainerEventType)),
		filters.Arg("type", string(events.NetworkEventType)),
		filters.Arg("event", string(events.ActionStart)),
		filters.Arg("event", string(events.ActionStop)),
		filters.Arg("event", string(events.ActionDie)),
		filters.Arg("event", string(events.ActionConnect)),
		filters.Arg("event", string(events.ActionDisconnect)),
	)
	return c.cli.Events(ctx, events.ListOptions{Filters: f})
}

// Collect walks every network and resolves each attached container.
// Containers that vanish between the network listing and their inspect
// are skipped. Attachment order is sorted by container id so repeated
// scans of an unchanged daemon produce identical snapshots.
func (c *DockerCollector) Collect(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot(c.Name())

	networks, err := c.cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}

	for _, summary := range networks {
		if !c.includeDefault {
			if _, ok := defaultNetworks[summary.Name]; ok {
				continue
			}
		}

		inspect, err := c.cli.NetworkInspect(ctx, summary.ID, network.InspectOptions{})
		if err != nil {
			return nil, fmt.Errorf("inspect network %s: %w", summary.Name, err)
		}

		snap.AddNetwork(inspect.Name)

		ids := make([]string, 0, len(inspect.Containers))
		for id := range inspect.Containers {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			info, err := c.cli.ContainerInspect(ctx, id)
			if err != nil {
				continue
			}
			if node, ok := buildNode(info, inspect.Name); ok {
				snap.AddNode(inspect.Name, node)
			}
		}
	}

	return snap, nil
}

// buildNode extracts one container's attachment to the named network.
// The second return is false when the container has no endpoint on that
// network. Docker injects the short container id as an implicit alias on
// every endpoint; it is noise for naming analysis and gets dropped.
func buildNode(info container.InspectResponse, networkName string) (domain.NetworkNode, bool) {
	if info.ContainerJSONBase == nil || info.NetworkSettings == nil {
		return domain.NetworkNode{}, false
	}
	attachment, ok := info.NetworkSettings.Networks[networkName]
	if !ok || attachment == nil {
		return domain.NetworkNode{}, false
	}

	shortID := info.ID
	if len(shortID) > 12 {
		shortID = shortID[:12]
	}

	node := domain.NetworkNode{
		ContainerID:   info.ID,
		ContainerName: strings.TrimPrefix(info.Name, "/"),
		IPAddress:     attachment.IPAddress,
	}
	if info.Config != nil {
		node.ServiceName = info.Config.Labels[labelComposeService]
		node.ComposeProject = info.Config.Labels[labelComposeProject]
	}
	for _, alias := range attachment.Aliases {
		if alias == shortID {
			continue
		}
		node.Aliases = append(node.Aliases, alias)
	}
	return node, true
}
