package db

import (
	"context"
	"time"
)

// Document is a stored record: field name to JSON-compatible value.
// Numbers read back from a driver are float64.
type Document = map[string]any

// Well-known document fields shared by every collection.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	DocumentStore
	IndexManager
	Finder
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore provides keyed document operations within a named collection.
type DocumentStore interface {
	// Insert stores doc under doc["_id"]. Returns ErrKeyExists if the id is taken.
	Insert(ctx context.Context, collection string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	// Replace overwrites an existing document. Returns ErrKeyNotFound if absent.
	Replace(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
}

// IndexManager provides per-collection index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, collection string) (bool, error)
}

// Finder runs filtered, sorted queries over a collection.
type Finder interface {
	Find(ctx context.Context, q *FindQuery) ([]Document, error)
}
