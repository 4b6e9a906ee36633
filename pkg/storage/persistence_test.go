package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhealth/pod-api/pkg/domain"
)

func TestStorageEngine_SaveAndLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data"+FileExtension)

	engine := NewStorageEngine()
	_, err := engine.Create("user", domain.Document{"email": "a@x.com", "created_at": "2026-01-01T00:00:00.000Z"})
	require.NoError(t, err)
	id, err := engine.Create("profile", domain.Document{"username": "bob"})
	require.NoError(t, err)
	require.NoError(t, engine.SaveToFile(filename))
	engine.StopBackgroundWorkers()

	restored := NewStorageEngine()
	defer restored.StopBackgroundWorkers()
	require.NoError(t, restored.LoadFromFile(filename))

	docs, err := restored.Query("profile", map[string]interface{}{"username": "bob"}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0]["_id"])

	docs, err = restored.Query("user", nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a@x.com", docs[0]["email"])
	assert.Equal(t, "2026-01-01T00:00:00.000Z", docs[0]["created_at"])
}

func TestStorageEngine_LoadMissingFile(t *testing.T) {
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	err := engine.LoadFromFile(filepath.Join(t.TempDir(), "absent"+FileExtension))
	assert.NoError(t, err, "a missing data file starts the store empty")
	assert.Empty(t, engine.Collections())
}

func TestStorageEngine_LoadRebuildsUniqueIndexes(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data"+FileExtension)

	engine := NewStorageEngine()
	_, err := engine.Create("profile", domain.Document{"username": "bob"})
	require.NoError(t, err)
	require.NoError(t, engine.SaveToFile(filename))
	engine.StopBackgroundWorkers()

	restored := NewStorageEngine()
	defer restored.StopBackgroundWorkers()
	// Index registered before the load, the way the server wires it
	require.NoError(t, restored.CreateUniqueIndex("profile", "username"))
	require.NoError(t, restored.LoadFromFile(filename))

	_, err = restored.Create("profile", domain.Document{"username": "bob"})
	var dup *domain.DuplicateKeyError
	assert.True(t, errors.As(err, &dup), "loaded documents must count against unique indexes")
}

func TestStorageEngine_SaveOnWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data"+FileExtension)

	engine := NewStorageEngine(WithSaveOnWrite(true))
	defer engine.StopBackgroundWorkers()
	require.NoError(t, engine.LoadFromFile(filename))

	_, err := engine.Create("group", domain.Document{"name": "carers"})
	require.NoError(t, err)

	restored := NewStorageEngine()
	defer restored.StopBackgroundWorkers()
	require.NoError(t, restored.LoadFromFile(filename))
	docs, err := restored.Query("group", nil, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStorageEngine_LoadRejectsBadHeader(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data"+FileExtension)
	require.NoError(t, os.WriteFile(filename, []byte("not a poddb file"), 0o644))

	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()
	err := engine.LoadFromFile(filename)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file header")
}
