package storage

import (
	"sync"
	"time"

	"github.com/podhealth/pod-api/pkg/domain"
)

// StorageEngine is an in-memory document store with single-file persistence
// and unique-index support. It implements domain.DocumentStore and is safe
// for concurrent use by multiple requests.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection
	indexes     *uniqueIndexEngine

	// Configuration
	dataFile       string // set on load, used by save-on-write
	saveOnWrite    bool
	backgroundSave bool
	saveInterval   time.Duration

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	dirty        bool
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:  make(map[string]*domain.Collection),
		indexes:      newUniqueIndexEngine(),
		saveInterval: 5 * time.Minute,
		stopChan:     make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// getOrCreateCollection returns the named collection, creating it on first
// write. Callers must hold the write lock.
func (se *StorageEngine) getOrCreateCollection(collName string) *domain.Collection {
	if collection, exists := se.collections[collName]; exists {
		return collection
	}
	collection := domain.NewCollection(collName)
	se.collections[collName] = collection
	return collection
}

// CreateUniqueIndex registers a unique constraint on a field and indexes any
// existing documents. Duplicate values among existing documents are an error.
func (se *StorageEngine) CreateUniqueIndex(collName, fieldName string) error {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.indexes.Create(collName, fieldName, se.collections[collName])
}

// Collections lists the names of all collections holding documents.
func (se *StorageEngine) Collections() []string {
	se.mu.RLock()
	defer se.mu.RUnlock()

	names := make([]string, 0, len(se.collections))
	for name := range se.collections {
		names = append(names, name)
	}
	return names
}

// Stats reports per-collection document counts for introspection.
func (se *StorageEngine) Stats() map[string]interface{} {
	se.mu.RLock()
	defer se.mu.RUnlock()

	counts := make(map[string]interface{}, len(se.collections))
	for name, collection := range se.collections {
		counts[name] = len(collection.Documents)
	}
	return map[string]interface{}{
		"collections": len(se.collections),
		"documents":   counts,
	}
}
