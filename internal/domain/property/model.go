package property

import "time"

// Availability states a property moves through once listed.
const (
	AvailabilityDraft         = "draft"
	AvailabilityAvailable     = "available"
	AvailabilityAvailableSoon = "available_soon"
	AvailabilityOccupied      = "occupied"
	AvailabilityUnavailable   = "unavailable"
)

// Preference is a three-value acceptance flag. The empty string means the
// landlord expressed no preference and the dimension places no restriction
// on matching.
type Preference string

const (
	PrefNone   Preference = ""
	PrefAccept Preference = "accept"
	PrefReject Preference = "reject"
)

// Listing steps. A property is a single partially-filled record; CompletedStep
// tracks how far through the listing flow it has advanced.
const (
	StepAddress      = 1
	StepDetails      = 2
	StepPreferences  = 3
	StepAvailability = 4

	FinalStep = StepAvailability
)

type Property struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	LandlordID   string `gorm:"type:uuid;not null;index"`
	AddressLine1 string `gorm:"not null;default:''"`
	AddressLine2 string `gorm:"not null;default:''"`
	TownOrCity   string `gorm:"not null;default:''"`
	County       string `gorm:"not null;default:''"`
	// Postcode holds the normalized form and joins against the postcodes
	// cache table; nil until the address step supplies a valid one.
	Postcode      *string    `gorm:"size:10"`
	Description   string     `gorm:"not null;default:''"`
	RentPerMonth  *float64   `gorm:"type:numeric(10,2)"`
	NumBedrooms   *int       `gorm:""`
	CompletedStep int        `gorm:"not null;default:1"`
	IsIncomplete  bool       `gorm:"not null;default:true"`
	Availability  string     `gorm:"type:varchar(16);not null;default:'draft'"`
	AvailableFrom *time.Time `gorm:"type:date"`
	TotalUnits    int        `gorm:"not null;default:1"`
	OccupiedUnits int        `gorm:"not null;default:0;check:occupied_units <= total_units"`

	PrefPets         Preference `gorm:"type:varchar(8);not null;default:''"`
	PrefNotInEET     Preference `gorm:"type:varchar(8);not null;default:''"`
	PrefFailedCredit Preference `gorm:"type:varchar(8);not null;default:''"`
	PrefOnBenefits   Preference `gorm:"type:varchar(8);not null;default:''"`
	PrefOver35       Preference `gorm:"column:pref_over_35;type:varchar(8);not null;default:''"`
	PrefNoGuarantor  Preference `gorm:"type:varchar(8);not null;default:''"`

	PublicViewLink *string   `gorm:"uniqueIndex"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Images []Image `gorm:"foreignKey:PropertyID"`
}

type Image struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	PropertyID string    `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Image) TableName() string {
	return "property_images"
}

type CreateInput struct {
	AddressLine1 string
	AddressLine2 string
	TownOrCity   string
	County       string
	Postcode     string
}

// UpdateInput carries the optional fields a listing step may set. Which
// fields a given step is allowed to touch is enforced by the service.
type UpdateInput struct {
	AddressLine1     *string
	AddressLine2     *string
	TownOrCity       *string
	County           *string
	Postcode         *string
	Description      *string
	RentPerMonth     *float64
	NumBedrooms      *int
	PrefPets         *Preference
	PrefNotInEET     *Preference
	PrefFailedCredit *Preference
	PrefOnBenefits   *Preference
	PrefOver35       *Preference
	PrefNoGuarantor  *Preference
	Availability     *string
	AvailableFrom    *time.Time
	TotalUnits       *int
	OccupiedUnits    *int
}
