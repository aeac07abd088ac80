package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/netscope/netscope/internal/domain"
)

// Collector discovers networks and the containers attached to them from
// a single environment
type Collector interface {
	// Name identifies the source. With several collectors registered it
	// also becomes the network name prefix in merged snapshots.
	Name() string
	// Collect performs one full scan
	Collect(ctx context.Context) (*domain.Snapshot, error)
}

// Registry fans one scan out over every registered collector and merges
// the results into a single snapshot
type Registry struct {
	collectors []Collector
}

// NewRegistry builds a registry over the given collectors
func NewRegistry(collectors ...Collector) *Registry {
	return &Registry{collectors: collectors}
}

// Register adds a collector to the fan-out set
func (r *Registry) Register(c Collector) {
	r.collectors = append(r.collectors, c)
}

// Sources lists the registered collector names in registration order
func (r *Registry) Sources() []string {
	names := make([]string, len(r.collectors))
	for i, c := range r.collectors {
		names[i] = c.Name()
	}
	return names
}

// SourceLabel joins the source names into the label used for merged
// snapshot attribution and metrics
func (r *Registry) SourceLabel() string {
	return strings.Join(r.Sources(), "+")
}

// Collect scans every source concurrently and merges the results. A
// failing source is logged and skipped so one dead environment does not
// blank the whole dashboard; an error comes back only when no source
// produced data. With more than one collector registered, network names
// and container ids are prefixed with "<source>/" to keep the
// per-network conflict analysis scoped to its own environment.
func (r *Registry) Collect(ctx context.Context) (*domain.Snapshot, error) {
	if len(r.collectors) == 0 {
		return nil, domain.ErrNoCollectors
	}

	snaps := make([]*domain.Snapshot, len(r.collectors))
	errs := make([]error, len(r.collectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range r.collectors {
		g.Go(func() error {
			snap, err := c.Collect(gctx)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", c.Name(), err)
				return nil
			}
			snaps[i] = snap
			return nil
		})
	}
	// goroutines absorb their own errors, Wait is just the join point
	_ = g.Wait()

	merged := domain.NewSnapshot(r.SourceLabel())
	collected := 0
	for i, snap := range snaps {
		if snap == nil {
			if errs[i] != nil {
				log.Printf("Scan source failed: %v", errs[i])
			}
			continue
		}
		collected++
		r.mergeInto(merged, snap)
	}

	if collected == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return nil, domain.ErrNoCollectors
	}
	return merged, nil
}

func (r *Registry) mergeInto(dst, src *domain.Snapshot) {
	prefix := ""
	if len(r.collectors) > 1 {
		prefix = src.Source + "/"
	}
	for _, network := range src.NetworkNames() {
		nodes := src.Networks[network]
		if len(nodes) == 0 {
			dst.AddNetwork(prefix + network)
			continue
		}
		for _, node := range nodes {
			if prefix != "" {
				node.ContainerID = prefix + node.ContainerID
			}
			dst.AddNode(prefix+network, node)
		}
	}
}
