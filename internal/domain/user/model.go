package user

import "time"

// User is created on first verified external login and carries the role
// flags the route gates check. LandlordID is set by landlord registration or
// invite redemption and is unique: one user per landlord record.
type User struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	AuthID            string    `gorm:"not null;uniqueIndex"`
	Email             string    `gorm:"not null;default:''"`
	Name              string    `gorm:"not null;default:''"`
	IsAdmin           bool      `gorm:"not null;default:false"`
	HasRequestedAdmin bool      `gorm:"not null;default:false"`
	LandlordID        *string   `gorm:"type:uuid;uniqueIndex"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}
