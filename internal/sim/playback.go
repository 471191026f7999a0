package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ReplayLog replays events from a JSONL stream in r to writer. A speed >0
// replays with the recorded gaps divided by speed; speed <= 0 inserts no delay.
func ReplayLog(ctx context.Context, r io.Reader, writer EventWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var prev time.Time
	n := 0
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("decode event %d: %w", n+1, err)
		}
		ts := ev.Time()
		if !prev.IsZero() && !ts.IsZero() && speed > 0 {
			diff := ts.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				select {
				case <-ctx.Done():
					return n, ctx.Err()
				case <-time.After(diff):
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := writer.WriteEvent(ev); err != nil {
			return n, err
		}
		n++
		if !ts.IsZero() {
			prev = ts
		}
	}
}

// ReplayLogFile opens a file and replays its events.
func ReplayLogFile(ctx context.Context, path string, writer EventWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open replay log: %w", err)
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
