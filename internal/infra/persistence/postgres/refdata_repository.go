package postgres

import (
	"context"
	"database/sql"
	"errors"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
)

// ReferenceRepository stores the carrier reference hierarchy. Upserts are
// keyed by (carrier, external_ref); a failed synchronizer run therefore
// never drops entries that were known before it started.
type ReferenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) Regions(ctx context.Context, carrier domdelivery.Carrier) ([]domdelivery.Region, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, carrier, external_ref, name
        FROM delivery_regions
        WHERE carrier = $1
        ORDER BY name
    `, carrier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []domdelivery.Region
	for rows.Next() {
		var reg domdelivery.Region
		if err := rows.Scan(&reg.ID, &reg.Carrier, &reg.ExternalRef, &reg.Name); err != nil {
			return nil, err
		}
		regions = append(regions, reg)
	}
	return regions, rows.Err()
}

func (r *ReferenceRepository) Cities(ctx context.Context, carrier domdelivery.Carrier, regionRef string) ([]domdelivery.City, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, carrier, external_ref, region_ref, name
        FROM delivery_cities
        WHERE carrier = $1 AND region_ref = $2
        ORDER BY name
    `, carrier, regionRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domdelivery.City
	for rows.Next() {
		var c domdelivery.City
		if err := rows.Scan(&c.ID, &c.Carrier, &c.ExternalRef, &c.RegionRef, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *ReferenceRepository) Points(ctx context.Context, carrier domdelivery.Carrier, cityRef string) ([]domdelivery.Point, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, carrier, external_ref, city_ref, name, address, phone, is_active
        FROM delivery_points
        WHERE carrier = $1 AND city_ref = $2 AND is_active
        ORDER BY name
    `, carrier, cityRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domdelivery.Point
	for rows.Next() {
		var p domdelivery.Point
		if err := rows.Scan(&p.ID, &p.Carrier, &p.ExternalRef, &p.CityRef, &p.Name, &p.Address, &p.Phone, &p.IsActive); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *ReferenceRepository) GetPoint(ctx context.Context, carrier domdelivery.Carrier, ref string) (*domdelivery.Point, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, carrier, external_ref, city_ref, name, address, phone, is_active
        FROM delivery_points
        WHERE carrier = $1 AND external_ref = $2
    `, carrier, ref)

	var p domdelivery.Point
	err := row.Scan(&p.ID, &p.Carrier, &p.ExternalRef, &p.CityRef, &p.Name, &p.Address, &p.Phone, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domdelivery.ErrPointNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ReferenceRepository) UpsertRegions(ctx context.Context, regions []domdelivery.Region) (int, error) {
	count := 0
	for _, reg := range regions {
		_, err := r.db.ExecContext(ctx, `
            INSERT INTO delivery_regions (carrier, external_ref, name)
            VALUES ($1, $2, $3)
            ON CONFLICT (carrier, external_ref)
            DO UPDATE SET name = EXCLUDED.name
        `, reg.Carrier, reg.ExternalRef, reg.Name)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *ReferenceRepository) UpsertCities(ctx context.Context, cities []domdelivery.City) (int, error) {
	count := 0
	for _, c := range cities {
		_, err := r.db.ExecContext(ctx, `
            INSERT INTO delivery_cities (carrier, external_ref, region_ref, name)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (carrier, external_ref)
            DO UPDATE SET region_ref = EXCLUDED.region_ref, name = EXCLUDED.name
        `, c.Carrier, c.ExternalRef, c.RegionRef, c.Name)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *ReferenceRepository) UpsertPoints(ctx context.Context, points []domdelivery.Point) (int, error) {
	count := 0
	for _, p := range points {
		_, err := r.db.ExecContext(ctx, `
            INSERT INTO delivery_points (carrier, external_ref, city_ref, name, address, phone, is_active)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (carrier, external_ref)
            DO UPDATE SET city_ref = EXCLUDED.city_ref, name = EXCLUDED.name,
                          address = EXCLUDED.address, phone = EXCLUDED.phone,
                          is_active = EXCLUDED.is_active
        `, p.Carrier, p.ExternalRef, p.CityRef, p.Name, p.Address, p.Phone, p.IsActive)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
