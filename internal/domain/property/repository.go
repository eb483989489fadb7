package property

import "context"

// Repository persists properties and their images. Read methods return
// each property with its images attached.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Property, error)
	GetByPublicLink(ctx context.Context, id, link string) (*Property, error)
	Create(ctx context.Context, property *Property) error
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id string) error
	ListByLandlord(ctx context.Context, landlordID string) ([]Property, error)
	ListAll(ctx context.Context) ([]Property, error)
	AddImage(ctx context.Context, image *Image) error
}
