package auth

import "errors"

var (
	ErrAccountInactive    = errors.New("Your account is not active. Please contact admin.")
	ErrNotAuthenticated   = errors.New("please log in to continue")
	ErrResetTokenMissing  = errors.New("Reset token missing. Verify OTP again.")
	ErrMissingCredentials = errors.New("email and password are required")
)
