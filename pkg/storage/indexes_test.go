package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhealth/pod-api/pkg/domain"
)

func TestStorageEngine_UniqueIndexRejectsDuplicates(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.CreateUniqueIndex("user", "email"))

	_, err := engine.Create("user", domain.Document{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = engine.Create("user", domain.Document{"email": "a@x.com"})
	require.Error(t, err)

	var dup *domain.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "user", dup.Collection)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "a@x.com", dup.Value)

	docs, err := engine.Query("user", nil, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "rejected write must not leave a document behind")
}

func TestStorageEngine_UniqueIndexIgnoresAbsentField(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.CreateUniqueIndex("user", "email"))

	// Documents without the indexed field are not constrained
	_, err := engine.Create("user", domain.Document{"full_name": "Alice"})
	require.NoError(t, err)
	_, err = engine.Create("user", domain.Document{"full_name": "Bob"})
	require.NoError(t, err)
}

func TestStorageEngine_CreateUniqueIndexOnExistingData(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	_, err := engine.Create("profile", domain.Document{"username": "bob"})
	require.NoError(t, err)
	_, err = engine.Create("profile", domain.Document{"username": "carol"})
	require.NoError(t, err)

	require.NoError(t, engine.CreateUniqueIndex("profile", "username"))

	_, err = engine.Create("profile", domain.Document{"username": "bob"})
	var dup *domain.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
}

func TestStorageEngine_CreateUniqueIndexFailsOnExistingDuplicates(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	_, err := engine.Create("profile", domain.Document{"username": "bob"})
	require.NoError(t, err)
	_, err = engine.Create("profile", domain.Document{"username": "bob"})
	require.NoError(t, err)

	err = engine.CreateUniqueIndex("profile", "username")
	var dup *domain.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
}

func TestStorageEngine_CreateUniqueIndexTwice(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.CreateUniqueIndex("user", "email"))
	err := engine.CreateUniqueIndex("user", "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestStorageEngine_UniqueIndexFastPath(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.CreateUniqueIndex("user", "email"))

	var wantID string
	for i := 0; i < 20; i++ {
		id, err := engine.Create("user", domain.Document{"email": fmt.Sprintf("user%d@x.com", i)})
		require.NoError(t, err)
		if i == 7 {
			wantID = id
		}
	}

	docs, err := engine.Query("user", map[string]interface{}{"email": "user7@x.com"}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, wantID, docs[0]["_id"])

	docs, err = engine.Query("user", map[string]interface{}{"email": "nobody@x.com"}, 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStorageEngine_ConcurrentCreatesSameKey(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.CreateUniqueIndex("profile", "username"))

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Create("profile", domain.Document{"username": "bob"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var dup *domain.DuplicateKeyError
		assert.True(t, errors.As(err, &dup))
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create may win")

	docs, err := engine.Query("profile", map[string]interface{}{"username": "bob"}, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
