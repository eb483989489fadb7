package postcode

import (
	"context"
	"errors"
	"testing"

	"property-match-go/pkg/logger"
)

type fakePostcodeRepo struct {
	records map[string]*Postcode
}

func newFakePostcodeRepo() *fakePostcodeRepo {
	return &fakePostcodeRepo{records: make(map[string]*Postcode)}
}

func (r *fakePostcodeRepo) Get(ctx context.Context, postcode string) (*Postcode, error) {
	record, ok := r.records[postcode]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

func (r *fakePostcodeRepo) ListExisting(ctx context.Context, postcodes []string) ([]string, error) {
	existing := make([]string, 0)
	for _, pc := range postcodes {
		if _, ok := r.records[pc]; ok {
			existing = append(existing, pc)
		}
	}
	return existing, nil
}

func (r *fakePostcodeRepo) Create(ctx context.Context, record *Postcode) error {
	r.records[record.Postcode] = record
	return nil
}

func (r *fakePostcodeRepo) CreateBatch(ctx context.Context, records []Postcode) error {
	for i := range records {
		r.records[records[i].Postcode] = &records[i]
	}
	return nil
}

type fakeGeocoder struct {
	coords      map[string]Coordinates
	lookups     int
	bulkCalls   int
	failBulk    bool
	failLookups bool
}

func (g *fakeGeocoder) Lookup(ctx context.Context, postcode string) (*Coordinates, error) {
	g.lookups++
	if g.failLookups {
		return nil, errors.New("geocoder down")
	}
	coords, ok := g.coords[postcode]
	if !ok {
		return nil, nil
	}
	return &coords, nil
}

func (g *fakeGeocoder) LookupBulk(ctx context.Context, postcodes []string) (map[string]Coordinates, error) {
	g.bulkCalls++
	if g.failBulk {
		return nil, errors.New("geocoder down")
	}
	result := make(map[string]Coordinates, len(postcodes))
	for _, pc := range postcodes {
		if coords, ok := g.coords[pc]; ok {
			result[pc] = coords
		}
	}
	return result, nil
}

func newService(repo Repository, geocoder Geocoder) *Service {
	return NewService(repo, geocoder, logger.NewDiscard())
}

func TestFormat(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"sw1a1aa", "SW1A 1AA"},
		{"SW1A 1AA", "SW1A 1AA"},
		{"  m1 1ae  ", "M1 1AE"},
		{"EC1A1BB", "EC1A 1BB"},
		{"not a postcode", ""},
		{"12345", ""},
		{"", ""},
	}
	svc := newService(newFakePostcodeRepo(), &fakeGeocoder{})
	for _, tc := range cases {
		if got := svc.Format(tc.raw); got != tc.want {
			t.Fatalf("Format(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestFormatIdempotent(t *testing.T) {
	svc := newService(newFakePostcodeRepo(), &fakeGeocoder{})
	once := svc.Format("sw1a1aa")
	if twice := svc.Format(once); twice != once {
		t.Fatalf("expected %q stable under Format, got %q", once, twice)
	}
}

func TestEnsureCachedSkipsInvalid(t *testing.T) {
	geocoder := &fakeGeocoder{}
	svc := newService(newFakePostcodeRepo(), geocoder)

	if err := svc.EnsureCached(context.Background(), "nonsense"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if geocoder.lookups != 0 {
		t.Fatalf("expected no lookups for invalid input, got %d", geocoder.lookups)
	}
}

func TestEnsureCachedOnlyResolvesOnce(t *testing.T) {
	repo := newFakePostcodeRepo()
	geocoder := &fakeGeocoder{coords: map[string]Coordinates{
		"SW1A 1AA": {Lat: 51.501, Lon: -0.142},
	}}
	svc := newService(repo, geocoder)

	for i := 0; i < 3; i++ {
		if err := svc.EnsureCached(context.Background(), "sw1a1aa"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if geocoder.lookups != 1 {
		t.Fatalf("expected one lookup, got %d", geocoder.lookups)
	}
	record, ok := repo.records["SW1A 1AA"]
	if !ok || record.Lat == nil || *record.Lat != 51.501 {
		t.Fatalf("expected cached coordinates, got %+v", record)
	}
}

func TestEnsureCachedGeocoderFailureIsNotFatal(t *testing.T) {
	repo := newFakePostcodeRepo()
	svc := newService(repo, &fakeGeocoder{failLookups: true})

	if err := svc.EnsureCached(context.Background(), "SW1A 1AA"); err != nil {
		t.Fatalf("expected lookup failure to be swallowed, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected nothing cached, got %d records", len(repo.records))
	}
}

func TestEnsureCachedBulkDeduplicatesAndSkipsCached(t *testing.T) {
	repo := newFakePostcodeRepo()
	lat, lon := 53.48, -2.24
	repo.records["M1 1AE"] = &Postcode{Postcode: "M1 1AE", Lat: &lat, Lon: &lon}

	geocoder := &fakeGeocoder{coords: map[string]Coordinates{
		"SW1A 1AA": {Lat: 51.501, Lon: -0.142},
	}}
	svc := newService(repo, geocoder)

	raws := []string{"sw1a1aa", "SW1A 1AA", "m1 1ae", "garbage"}
	if err := svc.EnsureCachedBulk(context.Background(), raws); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if geocoder.bulkCalls != 1 {
		t.Fatalf("expected one bulk call, got %d", geocoder.bulkCalls)
	}
	if _, ok := repo.records["SW1A 1AA"]; !ok {
		t.Fatalf("expected SW1A 1AA cached")
	}
	if len(repo.records) != 2 {
		t.Fatalf("expected two records, got %d", len(repo.records))
	}
}

func TestEnsureCachedBulkChunkFailureIsNotFatal(t *testing.T) {
	repo := newFakePostcodeRepo()
	svc := newService(repo, &fakeGeocoder{failBulk: true})

	if err := svc.EnsureCachedBulk(context.Background(), []string{"SW1A 1AA", "M1 1AE"}); err != nil {
		t.Fatalf("expected chunk failure to be swallowed, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected nothing cached, got %d records", len(repo.records))
	}
}

func TestCoordinatesResolvesOnDemand(t *testing.T) {
	repo := newFakePostcodeRepo()
	geocoder := &fakeGeocoder{coords: map[string]Coordinates{
		"SW1A 1AA": {Lat: 51.501, Lon: -0.142},
	}}
	svc := newService(repo, geocoder)

	coords, err := svc.Coordinates(context.Background(), "sw1a1aa")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if coords.Lat != 51.501 || coords.Lon != -0.142 {
		t.Fatalf("unexpected coordinates %+v", coords)
	}
	if _, ok := repo.records["SW1A 1AA"]; !ok {
		t.Fatalf("expected on-demand resolution to cache the postcode")
	}
}

func TestCoordinatesNotFound(t *testing.T) {
	svc := newService(newFakePostcodeRepo(), &fakeGeocoder{})

	if _, err := svc.Coordinates(context.Background(), "ZZ9 9ZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Coordinates(context.Background(), "invalid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for invalid input, got %v", err)
	}
}
