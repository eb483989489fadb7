package postcode

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	postcodedomain "property-match-go/internal/domain/postcode"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, postcode string) (*postcodedomain.Postcode, error) {
	var record postcodedomain.Postcode
	if err := r.db.WithContext(ctx).Where("postcode = ?", postcode).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postcodedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListExisting(ctx context.Context, postcodes []string) ([]string, error) {
	var existing []string
	if err := r.db.WithContext(ctx).
		Model(&postcodedomain.Postcode{}).
		Where("postcode IN ?", postcodes).
		Pluck("postcode", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *postcodedomain.Postcode) error {
	// Concurrent requests may race to cache the same postcode; the first
	// writer wins and the rest are no-ops.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, records []postcodedomain.Postcode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records).Error
}
