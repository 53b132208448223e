// Package store is the document-store boundary: arbitrary documents
// keyed by collection and id, with atomic single-document field-path
// updates and simple equality/inclusion queries. The Mongo
// implementation backs the server; the in-memory implementation backs
// the tests with the same semantics.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: document not found")

// Op identifies a field-path mutation primitive.
type Op string

const (
	OpSet      Op = "set"
	OpUnset    Op = "unset"
	OpInc      Op = "inc"
	OpAddToSet Op = "addToSet"
	OpPull     Op = "pull"
	OpPush     Op = "push"
)

// FieldUpdate is one field-path mutation. Path may be dotted
// ("likedBy.<uid>"); updates in a single Update call apply atomically
// to the document.
type FieldUpdate struct {
	Path  string
	Op    Op
	Value interface{}
}

func SetField(path string, value interface{}) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpSet, Value: value}
}

func UnsetField(path string) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpUnset}
}

func IncField(path string, delta int64) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpInc, Value: delta}
}

// AddToSet appends value to the array at path unless an equal element
// is already present.
func AddToSet(path string, value interface{}) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpAddToSet, Value: value}
}

// Pull removes every element equal to value from the array at path.
func Pull(path string, value interface{}) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpPull, Value: value}
}

// Push appends value to the array at path unconditionally.
func Push(path string, value interface{}) FieldUpdate {
	return FieldUpdate{Path: path, Op: OpPush, Value: value}
}

// Filter is a conjunction of field conditions for Find. Equals
// matches a field exactly (an array field matches when it contains
// the value, as Mongo does); Regex matches a string field
// case-insensitively.
type Filter struct {
	Equals map[string]interface{}
	Regex  map[string]string
}

type DocumentStore interface {
	// Get decodes the document at collection/id into out.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// Insert stores a new document. The document must carry its own id.
	Insert(ctx context.Context, collection string, doc interface{}) error

	// Replace overwrites the document at collection/id, creating it if
	// absent.
	Replace(ctx context.Context, collection, id string, doc interface{}) error

	// Update applies the field updates atomically to a single document.
	// Returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, updates ...FieldUpdate) error

	// Query decodes every document whose top-level field equals value
	// into out (a pointer to a slice).
	Query(ctx context.Context, collection, field string, value interface{}, out interface{}) error

	// QueryIn decodes every document whose top-level field is one of
	// values into out.
	QueryIn(ctx context.Context, collection, field string, values []string, out interface{}) error

	// Find decodes every document matching the filter into out. An
	// empty filter matches the whole collection.
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error

	// List decodes every document in the collection into out.
	List(ctx context.Context, collection string, out interface{}) error
}
