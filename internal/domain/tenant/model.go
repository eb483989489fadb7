package tenant

import "time"

// Tenant is a housing-seeker record. The requirement flags are nullable:
// CSV import leaves a field null when the cell cannot be parsed, and a null
// never conflicts with any property preference.
type Tenant struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"not null"`
	Email             string    `gorm:"not null;default:''"`
	Phone             string    `gorm:"not null;default:''"`
	Postcode          *string   `gorm:"size:10;index"`
	HasPet            *bool     `gorm:""`
	InEET             *bool     `gorm:""`
	PassedCreditCheck *bool     `gorm:""`
	OnBenefits        *bool     `gorm:""`
	Over35            *bool     `gorm:"column:over_35"`
	HasGuarantor      *bool     `gorm:""`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Filter lists the exclusions derived from a property's reject preferences.
// Each true field removes tenants whose attribute conflicts with it; a null
// tenant attribute never conflicts.
type Filter struct {
	ExcludePets         bool
	ExcludeNotInEET     bool
	ExcludeFailedCredit bool
	ExcludeOnBenefits   bool
	ExcludeOver35       bool
	ExcludeNoGuarantor  bool
}
