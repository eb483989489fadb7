package postcode

import "errors"

var (
	ErrNotFound = errors.New("postcode not found")
)
