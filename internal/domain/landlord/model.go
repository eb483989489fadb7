package landlord

import "time"

const (
	TypeIndividual = "individual"
	TypeCompany    = "company"
)

type Landlord struct {
	ID                string     `gorm:"type:uuid;primaryKey"`
	Title             string     `gorm:"not null;default:''"`
	FirstName         string     `gorm:"not null"`
	LastName          string     `gorm:"not null"`
	Email             string     `gorm:"not null;index"`
	Phone             string     `gorm:"not null;default:''"`
	CompanyName       string     `gorm:"not null;default:''"`
	LandlordType      string     `gorm:"type:varchar(16);not null;default:'individual'"`
	AddressLine1      string     `gorm:"not null;default:''"`
	AddressLine2      string     `gorm:"not null;default:''"`
	TownOrCity        string     `gorm:"not null;default:''"`
	County            string     `gorm:"not null;default:''"`
	Postcode          string     `gorm:"not null;default:''"`
	IsCharterApproved bool       `gorm:"not null;default:false"`
	ApprovalAdminID   *string    `gorm:"type:uuid"`
	ApprovalTime      *time.Time `gorm:""`
	MembershipID      *string    `gorm:"uniqueIndex"`
	InviteLink        *string    `gorm:"uniqueIndex"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

type RegisterInput struct {
	Title        string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	CompanyName  string
	LandlordType string
	AddressLine1 string
	AddressLine2 string
	TownOrCity   string
	County       string
	Postcode     string
}

type UpdateInput struct {
	Title        *string
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CompanyName  *string
	LandlordType *string
	AddressLine1 *string
	AddressLine2 *string
	TownOrCity   *string
	County       *string
	Postcode     *string
}
