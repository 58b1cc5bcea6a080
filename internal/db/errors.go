package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrKeyExists     = errors.New("db: key already exists")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrClosed        = errors.New("db: store closed")
	// ErrTooManyResults signals an unlimited find the store cannot return in full.
	ErrTooManyResults = errors.New("db: too many results")
)

// Op constants map to Redis command names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpAggregate   = "FT.AGGREGATE"
	OpDel         = "DEL"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
)

// Op constants for the embedded driver.
const (
	OpOpen        = "open"
	OpInsert      = "insert"
	OpFindOne     = "findOne"
	OpFind        = "find"
	OpCount       = "count"
	OpUpdate      = "update"
	OpRemove      = "remove"
	OpEnsureIndex = "ensureIndex"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
