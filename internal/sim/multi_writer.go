package sim

import (
	"errors"
	"io"
)

// MultiWriter fans events out to multiple writers.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter creates a new MultiWriter. Nil writers are ignored.
func NewMultiWriter(ws ...EventWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Add appends a writer to the fan-out.
func (mw *MultiWriter) Add(w EventWriter) {
	if w != nil {
		mw.writers = append(mw.writers, w)
	}
}

// WriteEvent sends an event to all writers, stopping at the first failure.
func (mw *MultiWriter) WriteEvent(ev Event) error {
	for _, w := range mw.writers {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(evs []Event) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteEvents(evs); err != nil {
				return err
			}
			continue
		}
		for _, ev := range evs {
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetAdminStatus forwards the admin endpoint status to writers that accept it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}

// Close closes every writer implementing io.Closer and joins their errors.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
