package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/podhealth/pod-api/pkg/domain"
)

// SaveToFile writes a snapshot of all collections to a single file.
func (se *StorageEngine) SaveToFile(filename string) error {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.saveToFileLocked(filename)
}

// saveToFileLocked is the snapshot core. Callers must hold the write lock.
func (se *StorageEngine) saveToFileLocked(filename string) error {
	storageData := NewStorageData()
	for collName, collection := range se.collections {
		storageData.Collections[collName] = make(map[string]interface{}, len(collection.Documents))
		for docID, doc := range collection.Documents {
			storageData.Collections[collName][docID] = map[string]interface{}(doc)
		}
	}

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	// n == 0 means the payload is incompressible; store it raw.
	var flags uint8
	payload := compressedData[:n]
	if n == 0 {
		flags = FlagUncompressed
		payload = msgpackData
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteHeader(file, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	se.dirty = false
	return nil
}

// LoadFromFile restores a snapshot and rebuilds registered unique indexes.
// A missing file is not an error; the store starts empty and remembers the
// filename for later saves.
func (se *StorageEngine) LoadFromFile(filename string) error {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.dataFile = filename

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	if header.Flags&FlagUncompressed == 0 {
		decompressedData := make([]byte, len(payload)*10)
		n, err := lz4.UncompressBlock(payload, decompressedData)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = decompressedData[:n]
	}

	var storageData StorageData
	if err := msgpack.Unmarshal(payload, &storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	for collName, docs := range storageData.Collections {
		collection := domain.NewCollection(collName)
		for docID, docData := range docs {
			doc := domain.Document{}
			fields, ok := docData.(map[string]interface{})
			if !ok {
				return fmt.Errorf("malformed document %s in collection %s", docID, collName)
			}
			for key, value := range fields {
				doc[key] = value
			}
			collection.Documents[docID] = doc
		}
		se.collections[collName] = collection
	}

	if err := se.indexes.Rebuild(se.collections); err != nil {
		return fmt.Errorf("failed to rebuild unique indexes: %w", err)
	}
	return nil
}
