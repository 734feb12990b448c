package store

import "errors"

// Low-level database operation errors. Repository methods wrap the driver
// error with one of them.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when reading a result row fails.
	ErrScanningRows = errors.New("failed to scan session rows")
)

// ErrEmptyKey is returned for a blank preference key.
var ErrEmptyKey = errors.New("session key is empty")
