package tenant

import "context"

// Repository persists tenants. Transaction runs fn at serializable
// isolation; the CSV import's replace-all depends on that.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	DeleteAll(ctx context.Context) error
	CreateBatch(ctx context.Context, tenants []Tenant) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]Tenant, error)
	// ListNearest returns tenants with resolvable coordinates, filtered and
	// ordered by great-circle distance from (lat, lon). Ties fall wherever
	// the database puts them.
	ListNearest(ctx context.Context, lat, lon float64, filter Filter, limit, offset int) ([]Tenant, error)
	Count(ctx context.Context) (int64, error)
}
