package storage

import (
	"github.com/google/uuid"

	"github.com/podhealth/pod-api/pkg/domain"
)

// Create inserts a document into a collection, creating the collection on
// first write, and returns the identity assigned to the document. The unique
// index check and the insert happen under one write lock, so two concurrent
// creates cannot both claim the same unique value.
func (se *StorageEngine) Create(collName string, doc domain.Document) (string, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	if err := se.indexes.Check(collName, doc); err != nil {
		return "", err
	}

	collection := se.getOrCreateCollection(collName)

	stored := doc.Copy()
	docID := uuid.NewString()
	stored["_id"] = docID

	collection.Documents[docID] = stored
	se.indexes.Record(collName, docID, stored)
	se.dirty = true

	if se.saveOnWrite && se.dataFile != "" {
		if err := se.saveToFileLocked(se.dataFile); err != nil {
			return "", err
		}
	}

	return docID, nil
}

// Query returns up to limit documents from a collection whose fields equal
// the filter values. An unknown collection or an unmatched filter yields an
// empty slice. A limit <= 0 means domain.DefaultQueryLimit.
func (se *StorageEngine) Query(collName string, filter map[string]interface{}, limit int) ([]domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}

	results := []domain.Document{}
	collection, exists := se.collections[collName]
	if !exists {
		return results, nil
	}

	// Unique-index fast path for single-field equality filters.
	if len(filter) == 1 {
		for fieldName, value := range filter {
			if docID, indexed := se.indexes.Lookup(collName, fieldName, value); indexed {
				if doc, ok := collection.Documents[docID]; ok {
					results = append(results, doc.Copy())
				}
				return results, nil
			}
		}
	}

	for _, doc := range collection.Documents {
		if len(filter) == 0 || MatchesFilter(doc, filter) {
			results = append(results, doc.Copy())
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}
