package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrWriteRejected       = errors.New("write rejected")
	ErrAuthRejected        = errors.New("auth rejected")
	ErrForbiddenRole       = errors.New("role not permitted")
	ErrUnknownRole         = errors.New("unknown role")
	ErrEncodingFailure     = errors.New("encoding failure")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPurchaseInProgress  = errors.New("purchase with this idempotency key is in progress")
	ErrIdempotencyReused   = errors.New("idempotency key was used for a different purchase")
	ErrSignOutFailed       = errors.New("sign out failed")
	ErrInternalServerError = errors.New("internal server error")
)
