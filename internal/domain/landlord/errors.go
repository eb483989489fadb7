package landlord

import "errors"

var (
	ErrLandlordNotFound       = errors.New("landlord not found")
	ErrEmailAlreadyRegistered = errors.New("landlord email already registered")
	ErrUserAlreadyHasLandlord = errors.New("user already has a landlord record")
	ErrInviteNotFound         = errors.New("invite link does not exist")
	ErrAlreadyApproved        = errors.New("landlord charter already approved")
	ErrDuplicateMembershipID  = errors.New("membership id already in use")
)
