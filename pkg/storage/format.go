package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "PODB"
	// Current version
	FormatVersion = 1
	// File extension for our format
	FileExtension = ".poddb"
	// FlagUncompressed marks a payload stored raw because lz4 could not
	// shrink it (small snapshots are often incompressible).
	FlagUncompressed uint8 = 1
)

// FileHeader represents the header of our storage file
type FileHeader struct {
	Magic    [4]byte // "PODB"
	Version  uint8   // Format version
	Flags    uint8   // Reserved for future use
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:   [4]byte{'P', 'O', 'D', 'B'},
		Version: FormatVersion,
		Flags:   flags,
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData is the on-disk shape of a snapshot. Unique indexes are not
// persisted; they rebuild from registered definitions on load.
type StorageData struct {
	Collections map[string]map[string]interface{} `msgpack:"collections"`
	Metadata    map[string]interface{}            `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]map[string]interface{}),
		Metadata:    make(map[string]interface{}),
	}
}
