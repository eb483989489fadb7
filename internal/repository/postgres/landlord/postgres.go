package landlord

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	landlorddomain "property-match-go/internal/domain/landlord"
	userdomain "property-match-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Transaction runs fn at serializable isolation: the registration and
// invite flows re-check uniqueness inside it and rely on the database to
// serialize conflicting writers.
func (r *PostgresRepository) Transaction(ctx context.Context, fn func(landlorddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*landlorddomain.Landlord, error) {
	var record landlorddomain.Landlord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, landlorddomain.ErrLandlordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*landlorddomain.Landlord, error) {
	var record landlorddomain.Landlord
	err := r.db.WithContext(ctx).
		Table("landlords").
		Joins("join users on users.landlord_id = landlords.id").
		Where("users.id = ?", userID).
		Limit(1).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, landlorddomain.ErrLandlordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByInviteLink(ctx context.Context, link string) (*landlorddomain.Landlord, error) {
	var record landlorddomain.Landlord
	if err := r.db.WithContext(ctx).Where("invite_link = ?", link).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, landlorddomain.ErrInviteNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, landlord *landlorddomain.Landlord) error {
	return r.db.WithContext(ctx).Create(landlord).Error
}

func (r *PostgresRepository) Update(ctx context.Context, landlord *landlorddomain.Landlord) error {
	return r.db.WithContext(ctx).Save(landlord).Error
}

func (r *PostgresRepository) List(ctx context.Context, approved *bool) ([]landlorddomain.Landlord, error) {
	query := r.db.WithContext(ctx).Order("created_at asc")
	if approved != nil {
		query = query.Where("is_charter_approved = ?", *approved)
	}

	var landlords []landlorddomain.Landlord
	if err := query.Find(&landlords).Error; err != nil {
		return nil, err
	}
	return landlords, nil
}

func (r *PostgresRepository) IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&landlorddomain.Landlord{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IsMembershipIDTaken(ctx context.Context, membershipID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&landlorddomain.Landlord{}).
		Where("membership_id = ?", membershipID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) SetApproval(ctx context.Context, id, adminID, membershipID string) error {
	return r.db.WithContext(ctx).
		Model(&landlorddomain.Landlord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_charter_approved": true,
			"approval_admin_id":   adminID,
			"approval_time":       time.Now().UTC(),
			"membership_id":       membershipID,
		}).Error
}

func (r *PostgresRepository) ClearInviteLink(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&landlorddomain.Landlord{}).
		Where("id = ?", id).
		Update("invite_link", nil).Error
}

func (r *PostgresRepository) UserLandlordID(ctx context.Context, userID string) (*string, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).Select("landlord_id").Where("id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return record.LandlordID, nil
}

func (r *PostgresRepository) LinkUser(ctx context.Context, userID, landlordID string) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("landlord_id", landlordID).Error
}
