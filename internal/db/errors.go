package db

import "errors"

var (
	// ErrNoRows is returned when an insert is given an empty batch.
	ErrNoRows = errors.New("no rows to insert")
	// ErrMismatchedFields is returned when the rows of a batch don't share
	// the same field names in the same order.
	ErrMismatchedFields = errors.New("rows have mismatched fields")
	// ErrNoColumns is returned when a batch or CSV file has no columns.
	ErrNoColumns = errors.New("no columns found")
)

// ErrClosed is returned when a closed handle is used.
var ErrClosed = errors.New("database is closed")
