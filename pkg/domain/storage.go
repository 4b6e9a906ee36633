package domain

import "fmt"

// DocumentStore defines the contract between the request flows and the
// underlying document database. Implementations must be safe for use by
// concurrent requests.
type DocumentStore interface {
	// Create inserts one document into the named collection and returns the
	// identity assigned to it. The collection is created on first write.
	// Returns *DuplicateKeyError if the document violates a unique index.
	Create(collName string, doc Document) (string, error)

	// Query returns up to limit documents whose fields equal the filter
	// values. A limit <= 0 means the default of 50. An unknown collection
	// or an unmatched filter yields an empty slice, not an error.
	Query(collName string, filter map[string]interface{}, limit int) ([]Document, error)

	// CreateUniqueIndex registers a unique constraint on a field. Existing
	// documents are indexed immediately; duplicates among them are an error.
	CreateUniqueIndex(collName, fieldName string) error

	// Collections lists the names of all collections holding documents.
	Collections() []string

	// Stats reports store-level counters for introspection endpoints.
	Stats() map[string]interface{}
}

// DefaultQueryLimit applies when a caller passes limit <= 0 to Query.
const DefaultQueryLimit = 50

// DuplicateKeyError reports a write rejected by a unique index.
type DuplicateKeyError struct {
	Collection string
	Field      string
	Value      interface{}
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value %v for unique field %s in collection %s", e.Value, e.Field, e.Collection)
}
