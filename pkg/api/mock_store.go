package api

import (
	"fmt"
	"sync"

	"github.com/podhealth/pod-api/pkg/domain"
	"github.com/podhealth/pod-api/pkg/storage"
)

// MockStore provides a mock implementation of domain.DocumentStore for
// handler tests, with call counters and injectable failures.
type MockStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
	unique      map[string][]string // collection -> unique fields
	nextID      int

	createCalls int
	queryCalls  int

	// Injected failures; nil means the operation succeeds.
	CreateErr error
	QueryErr  error
}

// NewMockStore creates a new mock document store
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string][]domain.Document),
		unique:      make(map[string][]string),
	}
}

// Create adds a document to a collection and returns a generated identity
func (m *MockStore) Create(collName string, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.CreateErr != nil {
		return "", m.CreateErr
	}

	for _, field := range m.unique[collName] {
		value, ok := doc[field]
		if !ok || value == nil {
			continue
		}
		for _, existing := range m.collections[collName] {
			if existing[field] == value {
				return "", &domain.DuplicateKeyError{Collection: collName, Field: field, Value: value}
			}
		}
	}

	m.nextID++
	id := fmt.Sprintf("mock-%d", m.nextID)
	stored := doc.Copy()
	stored["_id"] = id
	m.collections[collName] = append(m.collections[collName], stored)
	return id, nil
}

// Query returns up to limit documents matching the filter by equality
func (m *MockStore) Query(collName string, filter map[string]interface{}, limit int) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.queryCalls++
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}

	results := []domain.Document{}
	for _, doc := range m.collections[collName] {
		if len(filter) == 0 || storage.MatchesFilter(doc, filter) {
			results = append(results, doc)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// CreateUniqueIndex records a unique constraint enforced by Create
func (m *MockStore) CreateUniqueIndex(collName, fieldName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique[collName] = append(m.unique[collName], fieldName)
	return nil
}

// Collections lists collection names holding documents
func (m *MockStore) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	return names
}

// Stats reports per-collection document counts
func (m *MockStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]interface{}, len(m.collections))
	for name, docs := range m.collections {
		counts[name] = len(docs)
	}
	return map[string]interface{}{
		"collections": len(m.collections),
		"documents":   counts,
	}
}

// GetCreateCalls returns the number of Create invocations
func (m *MockStore) GetCreateCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.createCalls
}

// GetQueryCalls returns the number of Query invocations
func (m *MockStore) GetQueryCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queryCalls
}

// GetCollectionCount returns the number of documents in a collection
func (m *MockStore) GetCollectionCount(collName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collName])
}
