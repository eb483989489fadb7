package postcode

import "time"

// Postcode caches the geocoded location for a normalized postcode string.
// Rows are inserted lazily the first time a postcode is seen; Lat/Lon stay
// null when the geocoding API returned no geometry for it.
type Postcode struct {
	Postcode  string    `gorm:"primaryKey;size:10"`
	Lat       *float64  `gorm:"type:double precision"`
	Lon       *float64  `gorm:"type:double precision"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Coordinates struct {
	Lat float64
	Lon float64
}
