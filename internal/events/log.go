package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogFileName is the event log file kept under the configuration
// directory.
const DefaultLogFileName = "events.log"

// Log persists events as JSON lines. The agent and one-shot runs append to
// it, and `events` reads it back, so event history survives the process.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates a log over the given file path. The file is created on
// first append.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one event to the log.
func (l *Log) Append(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	_, err = f.Write(data)
	return err
}

// Recent returns the most recent events in oldest-first order, at most
// limit of them (limit <= 0 means all). A missing log file yields an empty
// result.
func (l *Log) Recent(limit int) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var evts []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			// A truncated write must not hide the rest of the history.
			continue
		}
		evts = append(evts, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(evts) > limit {
		evts = evts[len(evts)-limit:]
	}
	return evts, nil
}
