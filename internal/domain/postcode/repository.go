package postcode

import "context"

type Repository interface {
	Get(ctx context.Context, postcode string) (*Postcode, error)
	ListExisting(ctx context.Context, postcodes []string) ([]string, error)
	Create(ctx context.Context, record *Postcode) error
	CreateBatch(ctx context.Context, records []Postcode) error
}

// Geocoder resolves normalized postcodes to coordinates via the external
// API. Lookup returns (nil, nil) when the API does not know the postcode.
type Geocoder interface {
	Lookup(ctx context.Context, postcode string) (*Coordinates, error)
	LookupBulk(ctx context.Context, postcodes []string) (map[string]Coordinates, error)
}
