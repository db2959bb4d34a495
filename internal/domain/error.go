package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Payment-relay errors
	ErrNotAdmin             = errors.New("requester is not an admin")
	ErrInvoiceRequestFailed = errors.New("invoice request failed")
	ErrInvalidSecret        = errors.New("invalid webhook secret")
	ErrMessageEditFailed    = errors.New("message edit failed")
)
