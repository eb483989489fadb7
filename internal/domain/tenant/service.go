package tenant

import (
	"context"
	"errors"

	postcodedomain "property-match-go/internal/domain/postcode"
	"property-match-go/pkg/logger"
)

const DefaultPageSize = 10

// Postcodes is the slice of the postcode service the tenant service needs.
type Postcodes interface {
	Format(raw string) string
	Coordinates(ctx context.Context, raw string) (*postcodedomain.Coordinates, error)
	EnsureCachedBulk(ctx context.Context, raws []string) error
}

type Service struct {
	repo      Repository
	postcodes Postcodes
	pageSize  int
	log       logger.Logger
}

func NewService(repo Repository, postcodes Postcodes, pageSize int, log logger.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{repo: repo, postcodes: postcodes, pageSize: pageSize, log: log}
}

// FilterNearest returns the tenants a property would accept, nearest first.
// Pages are 1-based; a page past the end is an empty slice, not an error.
// ErrPostcodeNotFound signals the caller to fall back to an unsorted list.
func (s *Service) FilterNearest(ctx context.Context, targetPostcode string, filter Filter, page int) ([]Tenant, error) {
	coords, err := s.postcodes.Coordinates(ctx, targetPostcode)
	if err != nil {
		if errors.Is(err, postcodedomain.ErrNotFound) {
			return nil, ErrPostcodeNotFound
		}
		return nil, err
	}

	limit, offset := s.pageBounds(page)
	tenants, err := s.repo.ListNearest(ctx, coords.Lat, coords.Lon, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// SortByLocation is FilterNearest without exclusions, for the admin tenant
// directory.
func (s *Service) SortByLocation(ctx context.Context, targetPostcode string, page int) ([]Tenant, error) {
	return s.FilterNearest(ctx, targetPostcode, Filter{}, page)
}

// List returns tenants in storage order, still honoring the exclusions. It
// is both the admin directory default and the fallback when the target
// postcode cannot be resolved.
func (s *Service) List(ctx context.Context, filter Filter, page int) ([]Tenant, error) {
	limit, offset := s.pageBounds(page)
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) pageBounds(page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return s.pageSize, (page - 1) * s.pageSize
}
