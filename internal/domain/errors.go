package domain

import "errors"

var (
	// ErrMalformedNotification is returned when an inbound notification cannot be correlated
	ErrMalformedNotification = errors.New("malformed notification")

	// ErrDuplicateTransaction is returned when a terminal transaction row already exists
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrUserNotFound is returned when the correlated user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrContextNotFound is returned when the correlated context does not exist
	ErrContextNotFound = errors.New("context not found")

	// ErrConditionNotFound is returned when no paypal condition is attached to the resource
	ErrConditionNotFound = errors.New("paypal condition not found")

	// ErrInvalidCondition is returned when a paypal condition fails validation
	ErrInvalidCondition = errors.New("invalid paypal condition")
)
