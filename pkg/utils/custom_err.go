package utils

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidPage         = errors.New("invalid page parameter")
	ErrInvalidPageSize     = errors.New("invalid page size parameter")
	ErrThemeNotOwned       = errors.New("theme not owned")
	ErrProtectedCollection = errors.New("collection cannot be deleted")

	ErrAccountNotFound    = errors.New("account not found")
	ErrJournalNotFound    = errors.New("journal not found")
	ErrMailNotFound       = errors.New("mail not found")
	ErrItemNotFound       = errors.New("shop item not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrCollectionNotFound = errors.New("collection not found")

	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrStaleWrite         = errors.New("account was modified concurrently")
	ErrInsufficientFunds  = errors.New("insufficient coins")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotRecipient       = errors.New("account is not a recipient of this mail")
	ErrForbidden          = errors.New("forbidden")

	ErrNoRecipients  = errors.New("no accounts to deliver mail to")
	ErrDatabaseError = errors.New("database error")
)
