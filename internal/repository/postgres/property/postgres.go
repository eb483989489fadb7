package property

import (
	"context"
	"errors"

	"gorm.io/gorm"

	propertydomain "property-match-go/internal/domain/property"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*propertydomain.Property, error) {
	var record propertydomain.Property
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertydomain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByPublicLink(ctx context.Context, id, link string) (*propertydomain.Property, error) {
	var record propertydomain.Property
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ? AND public_view_link = ?", id, link).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertydomain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, property *propertydomain.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *PostgresRepository) Update(ctx context.Context, property *propertydomain.Property) error {
	return r.db.WithContext(ctx).Omit("Images").Save(property).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&propertydomain.Property{}).Error
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string) ([]propertydomain.Property, error) {
	var properties []propertydomain.Property
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("landlord_id = ?", landlordID).
		Order("created_at asc").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]propertydomain.Property, error) {
	var properties []propertydomain.Property
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Order("created_at asc").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, image *propertydomain.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}
