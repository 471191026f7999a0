package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileWriter appends events to a JSONL file.
type FileWriter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter opens path for appending, creating it if needed.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the file being written.
func (f *FileWriter) Path() string { return f.file.Name() }

// WriteEvent appends a single event line.
func (f *FileWriter) WriteEvent(ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enc.Encode(ev)
}

// WriteEvents appends multiple event lines.
func (f *FileWriter) WriteEvents(evs []Event) error {
	for _, ev := range evs {
		if err := f.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
