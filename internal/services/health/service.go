// Package health probes the three storage backends and reports a composite
// status.
package health

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"dms-backend/internal/shared/storage/object"
	"dms-backend/internal/shared/telemetry"
)

// Counter reports index liveness via a cheap document count.
type Counter interface {
	DocCount() (uint64, error)
}

// Service runs the backend probes. Nil dependencies are skipped, which keeps
// dev mode (no database) reporting healthy.
type Service struct {
	DB      *sql.DB
	Index   Counter
	Blobs   object.BlobStore
	Timeout time.Duration
}

// NewService constructs a health service.
func NewService(db *sql.DB, index Counter, blobs object.BlobStore, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{DB: db, Index: index, Blobs: blobs, Timeout: timeout}
}

// Status is the aggregated probe outcome.
type Status struct {
	Healthy  bool              `json:"healthy"`
	Services map[string]string `json:"services"`
}

// Check probes all backends concurrently under one timeout. The composite is
// healthy only when every probe succeeds; individual failures are logged, the
// payload carries per-backend detail.
func (s *Service) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	type probe struct {
		name string
		run  func(context.Context) error
	}
	probes := []probe{
		{name: "database", run: s.probeDB},
		{name: "search", run: s.probeIndex},
		{name: "storage", run: s.probeBlobs},
	}

	results := make([]error, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			results[i] = p.run(gctx)
			// Probe errors are collected, not propagated; one failing
			// backend must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	status := Status{Healthy: true, Services: make(map[string]string, len(probes))}
	for i, p := range probes {
		if err := results[i]; err != nil {
			status.Healthy = false
			status.Services[p.name] = "error: " + err.Error()
			telemetry.Error("health.probe_failed", map[string]any{
				"backend": p.name,
				"error":   err.Error(),
			})
			continue
		}
		status.Services[p.name] = "ok"
	}
	return status
}

func (s *Service) probeDB(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.PingContext(ctx)
}

func (s *Service) probeIndex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.Index.DocCount()
	return err
}

func (s *Service) probeBlobs(ctx context.Context) error {
	if s.Blobs == nil {
		return nil
	}
	return s.Blobs.Ping(ctx)
}
