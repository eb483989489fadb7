package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByAuthID(ctx context.Context, authID string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id, email, name string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	SetRequestedAdmin(ctx context.Context, id string, requested bool) error
	List(ctx context.Context) ([]User, error)
	ListAdminRequests(ctx context.Context) ([]User, error)
}
