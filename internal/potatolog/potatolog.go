// Package potatolog keeps recent log output in memory, so that it can be
// shown inside the workbench.
package potatolog

import (
	"encoding/json"
	"fmt"
	"sync"
)

// LogEntry is a single log entry, as decoded from zerolog's JSON output.
type LogEntry = map[string]any

// MemoryLogReaderWriter is a simple in-memory log reader and writer.
// Writes come from the logger, which may be used from other goroutines than
// the one reading.
type MemoryLogReaderWriter struct {
	mtx sync.Mutex
	log []LogEntry
	max int
}

// NewMemoryLogReaderWriter returns an empty log keeping at most max entries,
// dropping the oldest ones. A max of zero or less keeps all entries.
func NewMemoryLogReaderWriter(max int) *MemoryLogReaderWriter {
	return &MemoryLogReaderWriter{log: []LogEntry{}, max: max}
}

// Write appends a log entry to the log.
func (w *MemoryLogReaderWriter) Write(p []byte) (int, error) {
	entry := LogEntry{}
	err := json.Unmarshal(p, &entry)
	if err != nil {
		return 0, fmt.Errorf("could not unmarshal log entry (err:%s) (input:'%s')", err.Error(), string(p))
	}

	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.log = append(w.log, entry)
	if w.max > 0 && len(w.log) > w.max {
		w.log = w.log[len(w.log)-w.max:]
	}
	return len(p), nil
}

// Get returns a copy of the log, oldest entry first.
func (w *MemoryLogReaderWriter) Get() []LogEntry {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	result := make([]LogEntry, len(w.log))
	copy(result, w.log)
	return result
}

// LogReader allows reading access to a log.
type LogReader interface {
	Get() []LogEntry
}

// Field returns the entry's value for key as text, or "" if it is absent.
func Field(entry LogEntry, key string) string {
	v, ok := entry[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
