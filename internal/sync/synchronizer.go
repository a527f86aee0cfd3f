package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	"example.com/ecom-backend/internal/infra/metrics"
)

// Fetcher is implemented by network-backed carrier clients that can pull
// their full reference hierarchy.
type Fetcher interface {
	Carrier() domdelivery.Carrier
	FetchRegions(ctx context.Context) ([]domdelivery.Region, error)
	FetchCities(ctx context.Context) ([]domdelivery.City, error)
	FetchPoints(ctx context.Context) ([]domdelivery.Point, error)
}

type ReferenceRepository interface {
	UpsertRegions(ctx context.Context, regions []domdelivery.Region) (int, error)
	UpsertCities(ctx context.Context, cities []domdelivery.City) (int, error)
	UpsertPoints(ctx context.Context, points []domdelivery.Point) (int, error)
}

type Invalidator interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// Synchronizer refreshes cached carrier reference data on a fixed
// interval, decoupled from request handling. It touches only the
// reference tables, never order/payment/delivery rows.
type Synchronizer struct {
	fetchers []Fetcher
	repo     ReferenceRepository
	cache    Invalidator
	metrics  *metrics.SyncMetrics
	interval time.Duration
}

func NewSynchronizer(repo ReferenceRepository, cache Invalidator, m *metrics.SyncMetrics, interval time.Duration, fetchers ...Fetcher) *Synchronizer {
	return &Synchronizer{
		fetchers: fetchers,
		repo:     repo,
		cache:    cache,
		metrics:  m,
		interval: interval,
	}
}

func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("refdata sync: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce refreshes every network-backed carrier. Upserts are idempotent
// and in-place, so a run that dies mid-fetch leaves previously known
// entries intact; the error is surfaced for observability only.
func (s *Synchronizer) RunOnce(ctx context.Context) error {
	var errs []error
	for _, f := range s.fetchers {
		if err := s.syncCarrier(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Carrier(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Synchronizer) syncCarrier(ctx context.Context, f Fetcher) (retErr error) {
	carrier := string(f.Carrier())
	start := time.Now()
	defer func() {
		s.metrics.DurationMS.Observe(float64(time.Since(start).Milliseconds()))
		status := "ok"
		if retErr != nil {
			status = "error"
		}
		s.metrics.Runs.WithLabelValues(carrier, status).Inc()
	}()

	regions, err := f.FetchRegions(ctx)
	if err != nil {
		return err
	}
	n, err := s.repo.UpsertRegions(ctx, regions)
	s.metrics.Upserts.WithLabelValues(carrier, "regions").Add(float64(n))
	if err != nil {
		return err
	}

	cities, err := f.FetchCities(ctx)
	if err != nil {
		return err
	}
	n, err = s.repo.UpsertCities(ctx, cities)
	s.metrics.Upserts.WithLabelValues(carrier, "cities").Add(float64(n))
	if err != nil {
		return err
	}

	points, err := f.FetchPoints(ctx)
	if err != nil {
		return err
	}
	n, err = s.repo.UpsertPoints(ctx, points)
	s.metrics.Upserts.WithLabelValues(carrier, "points").Add(float64(n))
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeletePrefix(ctx, fmt.Sprintf("refdata:%s:", carrier)); err != nil {
			// Stale listings age out by TTL; the refresh itself succeeded.
			log.Printf("refdata sync: cache invalidation for %s: %v", carrier, err)
		}
	}
	return nil
}
