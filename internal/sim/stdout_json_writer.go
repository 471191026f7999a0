package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONStdoutWriter prints events as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteEvent outputs an event in JSON format.
func (w *JSONStdoutWriter) WriteEvent(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteEvents outputs multiple events in JSON format.
func (w *JSONStdoutWriter) WriteEvents(evs []Event) error {
	for _, ev := range evs {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
