package tenant

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"

	tenantdomain "property-match-go/internal/domain/tenant"
)

const createBatchSize = 500

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Transaction runs fn at serializable isolation; the CSV import's
// delete-then-insert must not interleave with another import.
func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tenantdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&tenantdomain.Tenant{}).Error
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, tenants []tenantdomain.Tenant) error {
	return r.db.WithContext(ctx).CreateInBatches(tenants, createBatchSize).Error
}

func (r *PostgresRepository) List(ctx context.Context, filter tenantdomain.Filter, limit, offset int) ([]tenantdomain.Tenant, error) {
	query := r.db.WithContext(ctx).Model(&tenantdomain.Tenant{})
	for _, condition := range exclusionConditions(filter) {
		query = query.Where(condition)
	}

	var tenants []tenantdomain.Tenant
	if err := query.
		Order("name asc").
		Limit(limit).
		Offset(offset).
		Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// exclusionConditions turns each reject-preference exclusion into one WHERE
// clause. Null tenant attributes never conflict, so the clauses compare with
// IS NOT TRUE / IS NOT FALSE rather than equality.
func exclusionConditions(filter tenantdomain.Filter) []string {
	var conditions []string
	if filter.ExcludePets {
		conditions = append(conditions, "tenants.has_pet IS NOT TRUE")
	}
	if filter.ExcludeNotInEET {
		conditions = append(conditions, "tenants.in_eet IS NOT FALSE")
	}
	if filter.ExcludeFailedCredit {
		conditions = append(conditions, "tenants.passed_credit_check IS NOT FALSE")
	}
	if filter.ExcludeOnBenefits {
		conditions = append(conditions, "tenants.on_benefits IS NOT TRUE")
	}
	if filter.ExcludeOver35 {
		conditions = append(conditions, "tenants.over_35 IS NOT TRUE")
	}
	if filter.ExcludeNoGuarantor {
		conditions = append(conditions, "tenants.has_guarantor IS NOT FALSE")
	}
	return conditions
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&tenantdomain.Tenant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListNearest orders tenants by great-circle distance from the target
// coordinates, computed with the haversine formula in SQL against the
// postcode cache. Tenants without cached coordinates never appear.
func (r *PostgresRepository) ListNearest(ctx context.Context, lat, lon float64, filter tenantdomain.Filter, limit, offset int) ([]tenantdomain.Tenant, error) {
	conditions := []string{
		"postcodes.lat IS NOT NULL",
		"postcodes.lon IS NOT NULL",
	}
	conditions = append(conditions, exclusionConditions(filter)...)

	query := `
		SELECT tenants.*
		FROM tenants
		JOIN postcodes ON postcodes.postcode = tenants.postcode
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY 6371 * acos(LEAST(1.0, GREATEST(-1.0,
			cos(radians(?)) * cos(radians(postcodes.lat)) * cos(radians(postcodes.lon) - radians(?))
			+ sin(radians(?)) * sin(radians(postcodes.lat)))))
		LIMIT ? OFFSET ?`

	var tenants []tenantdomain.Tenant
	if err := r.db.WithContext(ctx).
		Raw(query, lat, lon, lat, limit, offset).
		Scan(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
