package property

import "errors"

var (
	ErrPropertyNotFound     = errors.New("property not found")
	ErrNotOwner             = errors.New("property belongs to another landlord")
	ErrInvalidStep          = errors.New("invalid listing step")
	ErrIncomplete           = errors.New("property listing is incomplete")
	ErrInvalidAvailability  = errors.New("invalid availability state")
	ErrOccupiedExceedsTotal = errors.New("occupied units exceed total units")
	ErrInvalidImageType     = errors.New("unsupported image file type")
)
