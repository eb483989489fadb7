package tenant

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	postcodedomain "property-match-go/internal/domain/postcode"
	"property-match-go/pkg/logger"
)

type fakeTenantRepo struct {
	tenants []Tenant
	coords  map[string]postcodedomain.Coordinates
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{coords: make(map[string]postcodedomain.Coordinates)}
}

func (r *fakeTenantRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeTenantRepo) DeleteAll(ctx context.Context) error {
	r.tenants = nil
	return nil
}

func (r *fakeTenantRepo) CreateBatch(ctx context.Context, tenants []Tenant) error {
	r.tenants = append(r.tenants, tenants...)
	return nil
}

func excluded(t Tenant, filter Filter) bool {
	switch {
	case filter.ExcludePets && t.HasPet != nil && *t.HasPet:
		return true
	case filter.ExcludeNotInEET && t.InEET != nil && !*t.InEET:
		return true
	case filter.ExcludeFailedCredit && t.PassedCreditCheck != nil && !*t.PassedCreditCheck:
		return true
	case filter.ExcludeOnBenefits && t.OnBenefits != nil && *t.OnBenefits:
		return true
	case filter.ExcludeOver35 && t.Over35 != nil && *t.Over35:
		return true
	case filter.ExcludeNoGuarantor && t.HasGuarantor != nil && !*t.HasGuarantor:
		return true
	}
	return false
}

func (r *fakeTenantRepo) List(ctx context.Context, filter Filter, limit, offset int) ([]Tenant, error) {
	kept := make([]Tenant, 0)
	for _, t := range r.tenants {
		if !excluded(t, filter) {
			kept = append(kept, t)
		}
	}
	return page(kept, limit, offset), nil
}

func (r *fakeTenantRepo) ListNearest(ctx context.Context, lat, lon float64, filter Filter, limit, offset int) ([]Tenant, error) {
	kept := make([]Tenant, 0)
	for _, t := range r.tenants {
		if excluded(t, filter) {
			continue
		}
		if t.Postcode == nil {
			continue
		}
		if _, ok := r.coords[*t.Postcode]; !ok {
			continue
		}
		kept = append(kept, t)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return r.distance(kept[i], lat, lon) < r.distance(kept[j], lat, lon)
	})
	return page(kept, limit, offset), nil
}

func (r *fakeTenantRepo) distance(t Tenant, lat, lon float64) float64 {
	c := r.coords[*t.Postcode]
	return math.Hypot(c.Lat-lat, c.Lon-lon)
}

func (r *fakeTenantRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.tenants)), nil
}

func page(items []Tenant, limit, offset int) []Tenant {
	if offset >= len(items) {
		return []Tenant{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type fakePostcodes struct {
	coords map[string]postcodedomain.Coordinates
}

func (f *fakePostcodes) Format(raw string) string {
	return raw
}

func (f *fakePostcodes) Coordinates(ctx context.Context, raw string) (*postcodedomain.Coordinates, error) {
	coords, ok := f.coords[raw]
	if !ok {
		return nil, postcodedomain.ErrNotFound
	}
	return &coords, nil
}

func (f *fakePostcodes) EnsureCachedBulk(ctx context.Context, raws []string) error {
	return nil
}

func boolp(v bool) *bool { return &v }

func strp(s string) *string { return &s }

func nearbySetup() (*fakeTenantRepo, *fakePostcodes) {
	repo := newFakeTenantRepo()
	repo.coords = map[string]postcodedomain.Coordinates{
		"NEAR": {Lat: 51.50, Lon: -0.14},
		"MID":  {Lat: 52.00, Lon: -1.00},
		"FAR":  {Lat: 55.00, Lon: -3.00},
	}
	postcodes := &fakePostcodes{coords: map[string]postcodedomain.Coordinates{
		"TARGET": {Lat: 51.50, Lon: -0.14},
	}}
	return repo, postcodes
}

func TestFilterNearestOrdersByDistance(t *testing.T) {
	repo, postcodes := nearbySetup()
	repo.tenants = []Tenant{
		{ID: "t-far", Name: "Far", Postcode: strp("FAR")},
		{ID: "t-near", Name: "Near", Postcode: strp("NEAR")},
		{ID: "t-mid", Name: "Mid", Postcode: strp("MID")},
	}

	svc := NewService(repo, postcodes, 10, logger.NewDiscard())
	result, err := svc.FilterNearest(context.Background(), "TARGET", Filter{}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected three tenants, got %d", len(result))
	}
	if result[0].ID != "t-near" || result[1].ID != "t-mid" || result[2].ID != "t-far" {
		t.Fatalf("expected nearest-first order, got %s %s %s", result[0].ID, result[1].ID, result[2].ID)
	}
}

func TestFilterNearestExcludesConflicts(t *testing.T) {
	repo, postcodes := nearbySetup()
	repo.tenants = []Tenant{
		{ID: "t-pet", Name: "Pet owner", Postcode: strp("NEAR"), HasPet: boolp(true)},
		{ID: "t-no-pet", Name: "No pet", Postcode: strp("MID"), HasPet: boolp(false)},
		{ID: "t-unknown", Name: "Unknown", Postcode: strp("FAR")},
	}

	svc := NewService(repo, postcodes, 10, logger.NewDiscard())
	result, err := svc.FilterNearest(context.Background(), "TARGET", Filter{ExcludePets: true}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected two tenants, got %d", len(result))
	}
	for _, item := range result {
		if item.ID == "t-pet" {
			t.Fatalf("expected pet owner excluded")
		}
	}
}

func TestFilterNearestNullAttributesNeverConflict(t *testing.T) {
	repo, postcodes := nearbySetup()
	repo.tenants = []Tenant{
		{ID: "t-unknown", Name: "Unknown", Postcode: strp("NEAR")},
	}

	svc := NewService(repo, postcodes, 10, logger.NewDiscard())
	result, err := svc.FilterNearest(context.Background(), "TARGET", Filter{
		ExcludePets:         true,
		ExcludeNotInEET:     true,
		ExcludeFailedCredit: true,
		ExcludeOnBenefits:   true,
		ExcludeOver35:       true,
		ExcludeNoGuarantor:  true,
	}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected the all-null tenant to survive every exclusion, got %d results", len(result))
	}
}

func TestFilterNearestUnknownPostcode(t *testing.T) {
	repo, postcodes := nearbySetup()
	svc := NewService(repo, postcodes, 10, logger.NewDiscard())

	if _, err := svc.FilterNearest(context.Background(), "NOWHERE", Filter{}, 1); !errors.Is(err, ErrPostcodeNotFound) {
		t.Fatalf("expected ErrPostcodeNotFound, got %v", err)
	}
}

func TestFilterNearestPagination(t *testing.T) {
	repo, postcodes := nearbySetup()
	for i := 0; i < 12; i++ {
		repo.tenants = append(repo.tenants, Tenant{ID: string(rune('a' + i)), Name: "T", Postcode: strp("NEAR")})
	}

	svc := NewService(repo, postcodes, DefaultPageSize, logger.NewDiscard())

	first, err := svc.FilterNearest(context.Background(), "TARGET", Filter{}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(first) != DefaultPageSize {
		t.Fatalf("expected a full first page, got %d", len(first))
	}

	second, err := svc.FilterNearest(context.Background(), "TARGET", Filter{}, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected two tenants on page 2, got %d", len(second))
	}

	third, err := svc.FilterNearest(context.Background(), "TARGET", Filter{}, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(third) != 0 {
		t.Fatalf("expected an empty slice past the end, got %d", len(third))
	}
}

func TestListFallbackKeepsFilter(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants = []Tenant{
		{ID: "t-pet", Name: "Pet owner", HasPet: boolp(true)},
		{ID: "t-no-pet", Name: "No pet", HasPet: boolp(false)},
	}

	svc := NewService(repo, &fakePostcodes{}, 10, logger.NewDiscard())
	result, err := svc.List(context.Background(), Filter{ExcludePets: true}, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 1 || result[0].ID != "t-no-pet" {
		t.Fatalf("expected only the pet-free tenant, got %+v", result)
	}
}
