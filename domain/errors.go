package domain

import "errors"

// Phone and account resolution errors
var (
	ErrInvalidPhoneFormat = errors.New("phone must be 8 digits for Qatar")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRoleMismatch       = errors.New("account lacks required role")
)

// OTP challenge errors
var (
	ErrTooManyRequests      = errors.New("too many otp requests")
	ErrCooldown             = errors.New("otp requested too soon")
	ErrSessionExpired       = errors.New("otp session expired")
	ErrOtpExpired           = errors.New("otp has expired")
	ErrChallengeNotFound    = errors.New("otp challenge not found")
	ErrProviderSendFailed   = errors.New("verification provider send failed")
	ErrProviderVerifyFailed = errors.New("invalid otp code")
)

// Signup uniqueness errors
var (
	ErrDuplicatePhone = errors.New("phone already exists")
	ErrDuplicateQID   = errors.New("qid already exists")
	ErrDuplicateEmail = errors.New("derived email already exists")
)

// Registration review errors
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRecordHidden         = errors.New("record is hidden and cannot be modified")
	ErrReasonRequired       = errors.New("rejection reason is required")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("malformed token")
)
