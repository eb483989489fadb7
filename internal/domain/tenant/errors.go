package tenant

import "errors"

var (
	// ErrPostcodeNotFound means the target postcode could not be resolved
	// to coordinates; callers fall back to an unsorted list.
	ErrPostcodeNotFound = errors.New("target postcode has no known coordinates")
)
