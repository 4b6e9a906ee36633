package storage

import (
	"fmt"

	"github.com/podhealth/pod-api/pkg/domain"
)

// uniqueIndex maps each value of one field to the single document ID holding
// it. A second document with the same value is a duplicate-key violation.
type uniqueIndex struct {
	Field  string
	Values map[interface{}]string
}

func newUniqueIndex(field string) *uniqueIndex {
	return &uniqueIndex{
		Field:  field,
		Values: make(map[interface{}]string),
	}
}

// Build indexes all documents in a collection, failing on duplicates.
func (idx *uniqueIndex) Build(collection *domain.Collection) error {
	for docID, doc := range collection.Documents {
		value, ok := doc[idx.Field]
		if !ok || value == nil {
			continue
		}
		if existing, taken := idx.Values[value]; taken && existing != docID {
			return &domain.DuplicateKeyError{Collection: collection.Name, Field: idx.Field, Value: value}
		}
		idx.Values[value] = docID
	}
	return nil
}

// uniqueIndexEngine tracks unique indexes per collection and field. All
// methods assume the storage engine's lock is held.
type uniqueIndexEngine struct {
	indexes map[string]map[string]*uniqueIndex // collection -> field -> index
}

func newUniqueIndexEngine() *uniqueIndexEngine {
	return &uniqueIndexEngine{
		indexes: make(map[string]map[string]*uniqueIndex),
	}
}

// Create registers a unique index and builds it from the collection's
// current documents. The collection may be nil when nothing has been written
// to it yet.
func (ie *uniqueIndexEngine) Create(collName, fieldName string, collection *domain.Collection) error {
	if ie.indexes[collName] == nil {
		ie.indexes[collName] = make(map[string]*uniqueIndex)
	}
	if _, exists := ie.indexes[collName][fieldName]; exists {
		return fmt.Errorf("unique index on field %s already exists in collection %s", fieldName, collName)
	}

	index := newUniqueIndex(fieldName)
	if collection != nil {
		if err := index.Build(collection); err != nil {
			return err
		}
	}
	ie.indexes[collName][fieldName] = index
	return nil
}

// Check returns a DuplicateKeyError if inserting doc would violate any
// unique index on the collection.
func (ie *uniqueIndexEngine) Check(collName string, doc domain.Document) error {
	for _, index := range ie.indexes[collName] {
		value, ok := doc[index.Field]
		if !ok || value == nil {
			continue
		}
		if _, taken := index.Values[value]; taken {
			return &domain.DuplicateKeyError{Collection: collName, Field: index.Field, Value: value}
		}
	}
	return nil
}

// Record registers a newly inserted document in every unique index on the
// collection. Check must have passed under the same lock.
func (ie *uniqueIndexEngine) Record(collName, docID string, doc domain.Document) {
	for _, index := range ie.indexes[collName] {
		if value, ok := doc[index.Field]; ok && value != nil {
			index.Values[value] = docID
		}
	}
}

// Lookup resolves a value through a unique index, if one covers the field.
// Returns the matching document ID (empty when no document holds the value)
// and whether an index was available.
func (ie *uniqueIndexEngine) Lookup(collName, fieldName string, value interface{}) (string, bool) {
	index, exists := ie.indexes[collName][fieldName]
	if !exists {
		return "", false
	}
	return index.Values[value], true
}

// Rebuild re-indexes all registered indexes from loaded collections,
// discarding previous entries. Used after LoadFromFile.
func (ie *uniqueIndexEngine) Rebuild(collections map[string]*domain.Collection) error {
	for collName, fields := range ie.indexes {
		for fieldName := range fields {
			index := newUniqueIndex(fieldName)
			if collection, exists := collections[collName]; exists {
				if err := index.Build(collection); err != nil {
					return err
				}
			}
			fields[fieldName] = index
		}
	}
	return nil
}
