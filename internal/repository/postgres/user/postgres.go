package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userdomain "property-match-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByAuthID(ctx context.Context, authID string) (*userdomain.User, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, email, name string) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email": email, "name": name}).Error
}

func (r *PostgresRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin).Error
}

func (r *PostgresRepository) SetRequestedAdmin(ctx context.Context, id string, requested bool) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Update("has_requested_admin", requested).Error
}

func (r *PostgresRepository) List(ctx context.Context) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) ListAdminRequests(ctx context.Context) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).
		Where("has_requested_admin = ? AND is_admin = ?", true, false).
		Order("created_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
