// Package dashboard serves the latest ingestion snapshot and its aggregates
// over a JSON HTTP API.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gauthierbraillon/socialdash/internal/aggregator"
	"github.com/gauthierbraillon/socialdash/internal/ingest"
	"github.com/gauthierbraillon/socialdash/internal/logging"
	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/normalize"
)

// DefaultTopN is the ranking size when the n query parameter is absent.
const DefaultTopN = 10

// Runner produces snapshots; *ingest.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, sources ingest.Sources) (ingest.Snapshot, error)
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the collector on /metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithRefreshTimeout bounds each ingestion run.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.refreshTimeout = d
	}
}

// Server holds the current snapshot and answers dashboard queries on it.
type Server struct {
	runner         Runner
	sources        ingest.Sources
	logger         logrus.FieldLogger
	metrics        *metrics.Collector
	refreshTimeout time.Duration

	mu       sync.RWMutex
	snapshot ingest.Snapshot
	refresh  sync.Mutex
}

// NewServer creates a server with an empty snapshot; call Refresh to load data.
func NewServer(runner Runner, sources ingest.Sources, opts ...Option) *Server {
	s := &Server{
		runner:         runner,
		sources:        sources,
		logger:         logging.Discard(),
		refreshTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current snapshot.
func (s *Server) Snapshot() ingest.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh runs the pipeline and replaces the snapshot wholesale.
// Concurrent refreshes are serialized.
func (s *Server) Refresh(ctx context.Context) (ingest.Snapshot, error) {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.refreshTimeout)
	defer cancel()

	snap, err := s.runner.Run(ctx, s.sources)
	if err != nil {
		return ingest.Snapshot{}, fmt.Errorf("refresh failed: %w", err)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"run_id": snap.RunID,
		"rows":   snap.Table.Len(),
	}).Info("Snapshot refreshed")
	return snap, nil
}

// Router builds the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api")
	api.GET("/posts", s.handlePosts)
	api.GET("/kpis", s.handleKPIs)
	api.GET("/top", s.handleTop)
	api.GET("/timeline", s.handleTimeline)
	api.GET("/platforms", s.handlePlatforms)
	api.POST("/refresh", s.handleRefresh)

	return router
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.refreshTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("HTTP request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"run_id": snap.RunID,
		"rows":   snap.Table.Len(),
	})
}

// filtered applies the request's filter to the current table, writing a 400
// and returning false on a bad filter.
func (s *Server) filtered(c *gin.Context) (normalize.Table, bool) {
	f, err := ParseFilter(c.QueryArray("platform"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return normalize.Table{}, false
	}
	return f.Apply(s.Snapshot().Table), true
}

func (s *Server) handlePosts(c *gin.Context) {
	table, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": table.Columns(),
		"posts":   table.NewestFirst(),
	})
}

func (s *Server) handleKPIs(c *gin.Context) {
	table, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregator.ComputeKPIs(table))
}

func (s *Server) handleTop(c *gin.Context) {
	n := DefaultTopN
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid n %q: must be an integer", raw)})
			return
		}
		n = parsed
	}
	table, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregator.TopByEngagement(table, n))
}

func (s *Server) handleTimeline(c *gin.Context) {
	bucket, err := aggregator.ParseBucket(c.DefaultQuery("bucket", string(aggregator.BucketDay)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bucket":  bucket,
		"buckets": aggregator.PostsOverTime(table, bucket),
	})
}

func (s *Server) handlePlatforms(c *gin.Context) {
	table, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregator.PlatformDistribution(table))
}

func (s *Server) handleRefresh(c *gin.Context) {
	snap, err := s.Refresh(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Refresh request failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":     snap.RunID,
		"fetched_at": snap.FetchedAt,
		"rows":       snap.Table.Len(),
	})
}
