package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netscope/netscope/internal/client"
	"github.com/netscope/netscope/internal/domain"
)

// Fetcher is the slice of the API client the controller needs
type Fetcher interface {
	GetTopology(ctx context.Context) (*domain.Topology, error)
	GetConflicts(ctx context.Context) (*client.ConflictsResponse, error)
}

// Controller coordinates dashboard refreshes against the API. Only one
// refresh runs at a time; a request arriving while one is in flight is
// rejected with domain.ErrRefreshInFlight instead of stacking. Data
// from the previous refresh stays readable the whole time.
type Controller struct {
	fetcher  Fetcher
	renderer *Renderer

	refreshing atomic.Bool
	now        func() time.Time

	mu          sync.RWMutex
	topology    *domain.Topology
	conflicts   *client.ConflictsResponse
	lastRefresh time.Time
	topoErr     error
	conflictErr error
}

// NewController wires a controller to its fetcher and renderer. The
// renderer may be nil when no graph view is attached.
func NewController(fetcher Fetcher, renderer *Renderer) *Controller {
	return &Controller{
		fetcher:  fetcher,
		renderer: renderer,
		now:      time.Now,
	}
}

// Refresh fetches topology and conflicts concurrently and stores
// whichever of the two succeeded. The in-flight latch re-arms on every
// exit path, and the refresh timestamp is bumped after both fetches
// join regardless of their outcome.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		return domain.ErrRefreshInFlight
	}
	defer c.refreshing.Store(false)

	var (
		topo        *domain.Topology
		topoErr     error
		conflicts   *client.ConflictsResponse
		conflictErr error
	)

	// Each fetch absorbs its own error so Wait is just the join point
	// and one source failing never cancels the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		topo, topoErr = c.fetcher.GetTopology(gctx)
		return nil
	})
	g.Go(func() error {
		conflicts, conflictErr = c.fetcher.GetConflicts(gctx)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	if topoErr == nil {
		c.topology = topo
	}
	if conflictErr == nil {
		c.conflicts = conflicts
	}
	c.topoErr = topoErr
	c.conflictErr = conflictErr
	c.lastRefresh = c.now()
	c.mu.Unlock()

	if topoErr == nil && c.renderer != nil {
		c.renderer.Apply(topo)
	}

	if topoErr != nil {
		return topoErr
	}
	return conflictErr
}

// Refreshing reports whether a refresh is currently in flight
func (c *Controller) Refreshing() bool {
	return c.refreshing.Load()
}

// Topology returns the most recently fetched topology, which may be nil
// before the first successful refresh
func (c *Controller) Topology() *domain.Topology {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topology
}

// Conflicts returns the most recently fetched conflict response, which
// may be nil before the first successful refresh
func (c *Controller) Conflicts() *client.ConflictsResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conflicts
}

// LastRefresh returns when the last refresh attempt finished
func (c *Controller) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// Errors returns the per-source errors from the last refresh attempt
func (c *Controller) Errors() (topology, conflicts error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topoErr, c.conflictErr
}
