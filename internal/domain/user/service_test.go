package user

import (
	"context"
	"errors"
	"testing"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	record, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return record, nil
}

func (r *fakeUserRepo) GetByAuthID(ctx context.Context, authID string) (*User, error) {
	for _, record := range r.users {
		if record.AuthID == authID {
			return record, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id, email, name string) error {
	record, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	record.Email = email
	record.Name = name
	return nil
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	record, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	record.IsAdmin = isAdmin
	return nil
}

func (r *fakeUserRepo) SetRequestedAdmin(ctx context.Context, id string, requested bool) error {
	record, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	record.HasRequestedAdmin = requested
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(r.users))
	for _, record := range r.users {
		result = append(result, *record)
	}
	return result, nil
}

func (r *fakeUserRepo) ListAdminRequests(ctx context.Context) ([]User, error) {
	result := make([]User, 0)
	for _, record := range r.users {
		if record.HasRequestedAdmin {
			result = append(result, *record)
		}
	}
	return result, nil
}

func TestUpsertCreatesOnFirstLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	created, err := svc.UpsertByAuthID(context.Background(), "auth-1", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.AuthID != "auth-1" || created.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", created)
	}
	if created.IsAdmin {
		t.Fatalf("new users must not be admins")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
}

func TestUpsertRefreshesProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	first, err := svc.UpsertByAuthID(context.Background(), "auth-1", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := svc.UpsertByAuthID(context.Background(), "auth-1", "ada@new.example.com", "Ada L")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same user, got %s and %s", first.ID, second.ID)
	}
	if second.Email != "ada@new.example.com" || second.Name != "Ada L" {
		t.Fatalf("expected refreshed profile, got %+v", second)
	}
}

func TestUpsertRequiresAuthID(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	if _, err := svc.UpsertByAuthID(context.Background(), "  ", "a@b.c", "A"); err == nil {
		t.Fatalf("expected error for blank auth id")
	}
}

func TestRequestAdminIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u-1"] = &User{ID: "u-1", AuthID: "auth-1"}
	svc := NewService(repo)

	for i := 0; i < 2; i++ {
		if err := svc.RequestAdmin(context.Background(), "u-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if !repo.users["u-1"].HasRequestedAdmin {
		t.Fatalf("expected request flag set")
	}

	requests, _ := svc.ListAdminRequests(context.Background())
	if len(requests) != 1 {
		t.Fatalf("expected one pending request, got %d", len(requests))
	}
}

func TestRequestAdminNoOpForAdmins(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u-1"] = &User{ID: "u-1", AuthID: "auth-1", IsAdmin: true}
	svc := NewService(repo)

	if err := svc.RequestAdmin(context.Background(), "u-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.users["u-1"].HasRequestedAdmin {
		t.Fatalf("admins should not accumulate request flags")
	}
}

func TestSetAdminClearsRequestFlag(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u-1"] = &User{ID: "u-1", AuthID: "auth-1", HasRequestedAdmin: true}
	svc := NewService(repo)

	if err := svc.SetAdmin(context.Background(), "u-1", true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	record := repo.users["u-1"]
	if !record.IsAdmin || record.HasRequestedAdmin {
		t.Fatalf("expected admin granted and request cleared, got %+v", record)
	}
}

func TestSetAdminUnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	if err := svc.SetAdmin(context.Background(), "missing", true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
