package landlord

import "context"

// Repository covers landlord rows plus the user-side link column, since
// registration and invite redemption mutate both inside one transaction.
// Transaction runs fn at serializable isolation.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*Landlord, error)
	GetByUser(ctx context.Context, userID string) (*Landlord, error)
	GetByInviteLink(ctx context.Context, link string) (*Landlord, error)
	Create(ctx context.Context, landlord *Landlord) error
	Update(ctx context.Context, landlord *Landlord) error
	List(ctx context.Context, approved *bool) ([]Landlord, error)
	IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	IsMembershipIDTaken(ctx context.Context, membershipID string) (bool, error)
	SetApproval(ctx context.Context, id, adminID, membershipID string) error
	ClearInviteLink(ctx context.Context, id string) error
	UserLandlordID(ctx context.Context, userID string) (*string, error)
	LinkUser(ctx context.Context, userID, landlordID string) error
}
