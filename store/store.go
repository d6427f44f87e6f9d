// store/store.go
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get, Update and Delete when no document with
// the given id exists in the collection.
var ErrNotFound = errors.New("document not found")

// Op is a filter comparison operator.
type Op string

const (
	OpEq Op = "=="
	OpGt Op = ">"
	OpLt Op = "<"
)

type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Query describes a filtered, optionally sorted and limited read of a
// collection. Filters combine with AND.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Eq is shorthand for an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Batch accumulates update and delete operations that commit together.
type Batch interface {
	Update(collection, id string, partial map[string]interface{})
	Delete(collection, id string)
	Commit(ctx context.Context) error
}

// Store is the persistence contract consumed by the lifecycle core and the
// handlers: a collection-of-documents store with partial-merge updates,
// simple filtered queries and change notification.
type Store interface {
	// Insert writes doc into collection and returns the assigned id.
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)

	// Update merges partial into the document with the given id. Fields
	// not present in partial are left untouched.
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, collection, id string) error

	// Get decodes the document with the given id into out.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// Find decodes all documents matching q into out, which must be a
	// pointer to a slice.
	Find(ctx context.Context, collection string, q Query, out interface{}) error

	// Batch starts a new atomic batch of updates and deletes.
	Batch() Batch

	// Subscribe returns a channel that receives a (coalesced) notification
	// whenever the collection changes, and a release function that must be
	// called when the consumer is done. After release the channel is closed.
	Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error)
}
