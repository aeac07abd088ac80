package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netscope/netscope/internal/collector"
	"github.com/netscope/netscope/internal/conflict"
	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/dashboard"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
	"github.com/netscope/netscope/internal/observability"
	"github.com/netscope/netscope/internal/render"
)

// page rendering geometry
const (
	pageWidth  = 1200
	pageHeight = 700
)

// settle bounds for the per-request page layout
const (
	pageIterations = 300
	pageEpsilon    = 0.5
)

// Server wires the scan pipeline behind the HTTP API. By default every
// API request triggers a fresh scan; with serveCached set the handlers
// read whatever the background monitor last put in the store.
type Server struct {
	cfg      *config.Config
	registry *collector.Registry
	detector *conflict.Detector
	store    *Store
	metrics  *observability.Metrics

	serveCached bool

	// layout survives across page requests so node positions stay put
	layoutMu sync.Mutex
	layout   *layout.Engine
	built    bool
}

// New creates a server around the given scan pipeline
func New(cfg *config.Config, registry *collector.Registry, detector *conflict.Detector, metrics *observability.Metrics, serveCached bool) *Server {
	return &Server{
		cfg:         cfg,
		registry:    registry,
		detector:    detector,
		store:       NewStore(),
		metrics:     metrics,
		serveCached: serveCached,
		layout:      layout.NewEngine(pageWidth, pageHeight),
	}
}

// Store exposes the result store so a background monitor can feed it
func (s *Server) Store() *Store {
	return s.store
}

// Refresh runs a full scan and updates the store
func (s *Server) Refresh(ctx context.Context) error {
	s.metrics.RecordScanStart()
	start := time.Now()

	snap, err := s.registry.Collect(ctx)
	if err != nil {
		s.metrics.RecordScanEnd(s.registry.SourceLabel(), "error", time.Since(start).Seconds())
		return err
	}

	report := s.detector.Analyze(snap)
	topo := domain.BuildTopology(snap)
	tree := conflict.BuildTree(snap, report)
	s.store.Update(snap, report, topo, tree)

	s.metrics.RecordScanEnd(snap.Source, "success", time.Since(start).Seconds())
	s.metrics.RecordReport(report.TotalNetworks, report.TotalContainers,
		report.CriticalCount(), report.HighCount(), report.WarningCount())
	return nil
}

// Router configures all API routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(s.cfg.CORSAllowOrigin))
	r.Use(PrometheusMiddleware(s.metrics))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/", s.handlePage)

	api := r.Group("/api")
	{
		api.GET("/topology", s.handleTopology)
		api.GET("/conflicts", s.handleConflicts)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"sources": s.registry.Sources(),
	})
}

// ensureFresh makes sure the store holds servable data, scanning when
// the server is not in cached mode. It writes the error response itself
// and reports whether the handler should continue.
func (s *Server) ensureFresh(c *gin.Context) bool {
	if s.serveCached {
		if !s.store.Empty() {
			return true
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrNoSnapshot.Error()})
		return false
	}

	if err := s.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) handleTopology(c *gin.Context) {
	if !s.ensureFresh(c) {
		return
	}

	topo := s.store.Topology()
	if topo == nil {
		topo = &domain.Topology{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}
	}
	c.JSON(http.StatusOK, topo)
}

func (s *Server) handleConflicts(c *gin.Context) {
	if !s.ensureFresh(c) {
		return
	}

	report := s.store.Report()
	if report == nil {
		report = &domain.Report{Conflicts: []domain.Conflict{}}
	}
	tree := s.store.Tree()
	if tree == nil {
		tree = []domain.TreeNetwork{}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   report.Summary(),
		"conflicts": report.Conflicts,
		"tree":      tree,
	})
}

func (s *Server) handlePage(c *gin.Context) {
	if !s.ensureFresh(c) {
		return
	}

	topo := s.store.Topology()
	report := s.store.Report()

	var conflicts []domain.Conflict
	var summary domain.Summary
	if report != nil {
		conflicts = report.Conflicts
		summary = report.Summary()
	}

	positions := s.layoutPositions(topo)
	page := render.Page(render.PageData{
		GeneratedAt: s.store.ScannedAt(),
		Topology:    topo,
		Positions:   positions,
		Summary:     summary,
		Conflicts:   conflicts,
		Tree:        s.store.Tree(),
		Width:       pageWidth,
		Height:      pageHeight,
	})
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// layoutPositions feeds the topology into the server-held layout. The
// first page view builds it cold; later views merge so surviving nodes
// keep their positions across refreshes.
func (s *Server) layoutPositions(topo *domain.Topology) map[string]layout.Position {
	ids, edges := dashboard.GraphInput(topo)

	s.layoutMu.Lock()
	defer s.layoutMu.Unlock()

	if !s.built {
		s.layout.SetGraph(ids, edges)
		s.built = true
	} else {
		s.layout.Merge(ids, edges)
	}
	s.layout.Stabilize(pageIterations, pageEpsilon)
	return s.layout.Positions()
}
