package delivery

import (
	"context"
	"fmt"
	"log"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
)

type CarrierFactory interface {
	Resolve(carrier domdelivery.Carrier) (domdelivery.Gateway, error)
}

// ReferenceCache fronts the reference tables for checkout-time lookups.
// Cache trouble degrades to a repository read, never to an error.
type ReferenceCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
}

type Service struct {
	carriers CarrierFactory
	cache    ReferenceCache
}

func NewService(carriers CarrierFactory, cache ReferenceCache) *Service {
	return &Service{
		carriers: carriers,
		cache:    cache,
	}
}

func (s *Service) Regions(ctx context.Context, carrier domdelivery.Carrier) ([]domdelivery.Region, error) {
	gw, err := s.carriers.Resolve(carrier)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("refdata:%s:regions", carrier)
	var cached []domdelivery.Region
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	regions, err := gw.Regions(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, regions)
	return regions, nil
}

func (s *Service) Cities(ctx context.Context, carrier domdelivery.Carrier, regionRef string) ([]domdelivery.City, error) {
	gw, err := s.carriers.Resolve(carrier)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("refdata:%s:cities:%s", carrier, regionRef)
	var cached []domdelivery.City
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	cities, err := gw.Cities(ctx, regionRef)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, cities)
	return cities, nil
}

func (s *Service) Points(ctx context.Context, carrier domdelivery.Carrier, cityRef string) ([]domdelivery.Point, error) {
	gw, err := s.carriers.Resolve(carrier)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("refdata:%s:points:%s", carrier, cityRef)
	var cached []domdelivery.Point
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	points, err := gw.Points(ctx, cityRef)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, points)
	return points, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest) == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("refdata cache set %s: %v", key, err)
	}
}
