package storage

import (
	"log"
	"time"
)

// StartBackgroundWorkers starts the periodic snapshot saver, if enabled.
func (se *StorageEngine) StartBackgroundWorkers() {
	if !se.backgroundSave {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				se.saveIfDirty()
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers
func (se *StorageEngine) StopBackgroundWorkers() {
	select {
	case <-se.stopChan:
		// Channel already closed, do nothing
	default:
		close(se.stopChan)
	}
	se.backgroundWg.Wait()
}

// saveIfDirty snapshots the store when writes happened since the last save.
func (se *StorageEngine) saveIfDirty() {
	se.mu.Lock()
	defer se.mu.Unlock()

	if !se.dirty || se.dataFile == "" {
		return
	}
	if err := se.saveToFileLocked(se.dataFile); err != nil {
		log.Printf("ERROR: Background save to %s failed: %v", se.dataFile, err)
	}
}
