package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertByAuthID loads the user for an external auth id, creating the record
// on first login and refreshing email/name on subsequent ones.
func (s *Service) UpsertByAuthID(ctx context.Context, authID, email, name string) (*User, error) {
	authID = strings.TrimSpace(authID)
	if authID == "" {
		return nil, errors.New("auth id is required")
	}

	existing, err := s.repo.GetByAuthID(ctx, authID)
	if err == nil {
		if existing.Email != email || existing.Name != name {
			if err := s.repo.UpdateProfile(ctx, existing.ID, email, name); err != nil {
				return nil, err
			}
			existing.Email = email
			existing.Name = name
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created := &User{
		ID:     uuid.NewString(),
		AuthID: authID,
		Email:  email,
		Name:   name,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) RequestAdmin(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin || u.HasRequestedAdmin {
		return nil
	}
	return s.repo.SetRequestedAdmin(ctx, id, true)
}

// SetAdmin grants or revokes the admin role. Granting clears any pending
// request flag.
func (s *Service) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetAdmin(ctx, id, isAdmin); err != nil {
		return err
	}
	return s.repo.SetRequestedAdmin(ctx, id, false)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListAdminRequests(ctx context.Context) ([]User, error) {
	return s.repo.ListAdminRequests(ctx)
}
