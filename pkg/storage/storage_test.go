package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhealth/pod-api/pkg/domain"
)

func TestNewStorageEngine(t *testing.T) {
	tests := []struct {
		name               string
		options            []StorageOption
		wantSaveOnWrite    bool
		wantBackgroundSave bool
		wantInterval       time.Duration
	}{
		{
			name:         "default options",
			options:      []StorageOption{},
			wantInterval: 5 * time.Minute,
		},
		{
			name:            "save on write",
			options:         []StorageOption{WithSaveOnWrite(true)},
			wantSaveOnWrite: true,
			wantInterval:    5 * time.Minute,
		},
		{
			name:               "background save disables save on write",
			options:            []StorageOption{WithSaveOnWrite(true), WithBackgroundSave(time.Minute)},
			wantSaveOnWrite:    false,
			wantBackgroundSave: true,
			wantInterval:       time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewStorageEngine(tt.options...)

			assert.Equal(t, tt.wantSaveOnWrite, engine.saveOnWrite)
			assert.Equal(t, tt.wantBackgroundSave, engine.backgroundSave)
			assert.Equal(t, tt.wantInterval, engine.saveInterval)
			assert.NotNil(t, engine.collections)
			assert.NotNil(t, engine.indexes)
			assert.NotNil(t, engine.stopChan)
		})
	}
}

func TestStorageEngine_CreateAndQuery(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	id1, err := engine.Create("user", domain.Document{"email": "a@x.com"})
	require.NoError(t, err)
	id2, err := engine.Create("user", domain.Document{"email": "b@x.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2)

	docs, err := engine.Query("user", nil, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = engine.Query("user", map[string]interface{}{"email": "a@x.com"}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id1, docs[0]["_id"])
}

func TestStorageEngine_QueryUnknownCollection(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	// Missing collections yield an empty result, not an error
	docs, err := engine.Query("user", map[string]interface{}{"email": "a@x.com"}, 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStorageEngine_QueryExactStringMatch(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	_, err := engine.Create("profile", domain.Document{"username": "Bob"})
	require.NoError(t, err)

	docs, err := engine.Query("profile", map[string]interface{}{"username": "bob"}, 1)
	require.NoError(t, err)
	assert.Empty(t, docs, "string matching is case-sensitive")

	docs, err = engine.Query("profile", map[string]interface{}{"username": "Bob"}, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStorageEngine_QueryNumericCoercion(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	_, err := engine.Create("review", domain.Document{"product_id": "p1", "rating": 4})
	require.NoError(t, err)

	// JSON-decoded filters carry float64
	docs, err := engine.Query("review", map[string]interface{}{"rating": float64(4)}, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStorageEngine_QueryLimit(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	for i := 0; i < 60; i++ {
		_, err := engine.Create("post", domain.Document{"user_id": "u1", "content": fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}

	docs, err := engine.Query("post", nil, 0)
	require.NoError(t, err)
	assert.Len(t, docs, domain.DefaultQueryLimit, "limit <= 0 applies the default")

	docs, err = engine.Query("post", map[string]interface{}{"user_id": "u1"}, 3)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestStorageEngine_CreateDoesNotAliasCallerDocument(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	doc := domain.Document{"email": "a@x.com"}
	_, err := engine.Create("user", doc)
	require.NoError(t, err)

	_, hasID := doc["_id"]
	assert.False(t, hasID, "caller's document must not be mutated")

	docs, err := engine.Query("user", nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	docs[0]["email"] = "tampered"

	docs, err = engine.Query("user", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", docs[0]["email"], "query results must not alias stored documents")
}

func TestStorageEngine_Stats(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	_, err := engine.Create("user", domain.Document{"email": "a@x.com"})
	require.NoError(t, err)
	_, err = engine.Create("group", domain.Document{"name": "carers"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"user", "group"}, engine.Collections())

	stats := engine.Stats()
	assert.Equal(t, 2, stats["collections"])
	counts := stats["documents"].(map[string]interface{})
	assert.Equal(t, 1, counts["user"])
	assert.Equal(t, 1, counts["group"])
}
