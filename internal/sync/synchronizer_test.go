package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	"example.com/ecom-backend/internal/infra/metrics"
)

// --- Mocks ---

type mockFetcher struct {
	carrier domdelivery.Carrier

	regions []domdelivery.Region
	cities  []domdelivery.City
	points  []domdelivery.Point

	citiesErr error
}

func (m *mockFetcher) Carrier() domdelivery.Carrier { return m.carrier }

func (m *mockFetcher) FetchRegions(ctx context.Context) ([]domdelivery.Region, error) {
	return m.regions, nil
}

func (m *mockFetcher) FetchCities(ctx context.Context) ([]domdelivery.City, error) {
	if m.citiesErr != nil {
		return nil, m.citiesErr
	}
	return m.cities, nil
}

func (m *mockFetcher) FetchPoints(ctx context.Context) ([]domdelivery.Point, error) {
	return m.points, nil
}

type mockReferenceRepository struct {
	regions map[string]domdelivery.Region
	cities  map[string]domdelivery.City
	points  map[string]domdelivery.Point
}

func newMockReferenceRepository() *mockReferenceRepository {
	return &mockReferenceRepository{
		regions: make(map[string]domdelivery.Region),
		cities:  make(map[string]domdelivery.City),
		points:  make(map[string]domdelivery.Point),
	}
}

func (m *mockReferenceRepository) UpsertRegions(ctx context.Context, regions []domdelivery.Region) (int, error) {
	for _, r := range regions {
		m.regions[r.ExternalRef] = r
	}
	return len(regions), nil
}

func (m *mockReferenceRepository) UpsertCities(ctx context.Context, cities []domdelivery.City) (int, error) {
	for _, c := range cities {
		m.cities[c.ExternalRef] = c
	}
	return len(cities), nil
}

func (m *mockReferenceRepository) UpsertPoints(ctx context.Context, points []domdelivery.Point) (int, error) {
	for _, p := range points {
		m.points[p.ExternalRef] = p
	}
	return len(points), nil
}

type mockInvalidator struct {
	prefixes []string
	err      error
}

func (m *mockInvalidator) DeletePrefix(ctx context.Context, prefix string) error {
	m.prefixes = append(m.prefixes, prefix)
	return m.err
}

func healthyFetcher() *mockFetcher {
	return &mockFetcher{
		carrier: domdelivery.CarrierNovaPoshta,
		regions: []domdelivery.Region{{Carrier: domdelivery.CarrierNovaPoshta, ExternalRef: "r1", Name: "Kyivska"}},
		cities:  []domdelivery.City{{Carrier: domdelivery.CarrierNovaPoshta, ExternalRef: "c1", RegionRef: "r1", Name: "Kyiv"}},
		points: []domdelivery.Point{
			{Carrier: domdelivery.CarrierNovaPoshta, ExternalRef: "p1", CityRef: "c1", Name: "WH 1", IsActive: true},
			{Carrier: domdelivery.CarrierNovaPoshta, ExternalRef: "p2", CityRef: "c1", Name: "WH 2", IsActive: true},
		},
	}
}

// --- Test Cases ---

func TestRunOnce_UpsertsAllKinds(t *testing.T) {
	repo := newMockReferenceRepository()
	cache := &mockInvalidator{}
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())
	s := NewSynchronizer(repo, cache, m, time.Hour, healthyFetcher())

	require.NoError(t, s.RunOnce(context.Background()))

	require.Len(t, repo.regions, 1)
	require.Len(t, repo.cities, 1)
	require.Len(t, repo.points, 2)
	require.Equal(t, []string{"refdata:novaposhta:"}, cache.prefixes)

	require.InDelta(t, 1, testutil.ToFloat64(m.Runs.WithLabelValues("novaposhta", "ok")), 0.001)
	require.InDelta(t, 2, testutil.ToFloat64(m.Upserts.WithLabelValues("novaposhta", "points")), 0.001)
}

func TestRunOnce_MidFetchFailureKeepsExistingData(t *testing.T) {
	repo := newMockReferenceRepository()
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())
	s := NewSynchronizer(repo, &mockInvalidator{}, m, time.Hour, healthyFetcher())
	require.NoError(t, s.RunOnce(context.Background()))

	failing := healthyFetcher()
	failing.citiesErr = errors.New("api unavailable")
	cache := &mockInvalidator{}
	s = NewSynchronizer(repo, cache, m, time.Hour, failing)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "novaposhta")

	// The earlier snapshot survives a failed refresh.
	require.Len(t, repo.regions, 1)
	require.Len(t, repo.cities, 1)
	require.Len(t, repo.points, 2)
	// No invalidation on failure.
	require.Empty(t, cache.prefixes)

	require.InDelta(t, 1, testutil.ToFloat64(m.Runs.WithLabelValues("novaposhta", "error")), 0.001)
}

func TestRunOnce_OneCarrierFailureDoesNotBlockOthers(t *testing.T) {
	repo := newMockReferenceRepository()
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())

	failing := &mockFetcher{carrier: "ukrposhta", citiesErr: errors.New("down")}
	s := NewSynchronizer(repo, &mockInvalidator{}, m, time.Hour, failing, healthyFetcher())

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	require.Len(t, repo.points, 2)
}

func TestRunOnce_CacheInvalidationFailureIsNotFatal(t *testing.T) {
	repo := newMockReferenceRepository()
	cache := &mockInvalidator{err: errors.New("redis down")}
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())
	s := NewSynchronizer(repo, cache, m, time.Hour, healthyFetcher())

	require.NoError(t, s.RunOnce(context.Background()))
	require.Len(t, cache.prefixes, 1)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := newMockReferenceRepository()
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())
	s := NewSynchronizer(repo, &mockInvalidator{}, m, time.Millisecond, healthyFetcher())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	require.NotEmpty(t, repo.regions)
}
