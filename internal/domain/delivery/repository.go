package delivery

import "context"

// ReferenceRepository stores carrier reference data. Upserts are keyed by
// (carrier, external ref) so repeated synchronizer runs are idempotent and
// a partial run never drops previously known entries.
type ReferenceRepository interface {
	Regions(ctx context.Context, carrier Carrier) ([]Region, error)
	Cities(ctx context.Context, carrier Carrier, regionRef string) ([]City, error)
	Points(ctx context.Context, carrier Carrier, cityRef string) ([]Point, error)
	GetPoint(ctx context.Context, carrier Carrier, ref string) (*Point, error)
	UpsertRegions(ctx context.Context, regions []Region) (int, error)
	UpsertCities(ctx context.Context, cities []City) (int, error)
	UpsertPoints(ctx context.Context, points []Point) (int, error)
}
