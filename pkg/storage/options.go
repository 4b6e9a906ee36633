package storage

import "time"

type StorageOption func(*StorageEngine)

// WithSaveOnWrite saves a snapshot after every write (default: false).
// Has no effect until a data file is set by LoadFromFile.
func WithSaveOnWrite(enabled bool) StorageOption {
	return func(engine *StorageEngine) {
		engine.saveOnWrite = enabled
	}
}

// WithBackgroundSave enables periodic snapshot saves at the given interval.
// Disables save-on-write to avoid doubled disk traffic.
func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
		engine.saveOnWrite = false
	}
}
