// Package history defines the applied/rolled-back batch log.
package history

import (
	"errors"
	"time"
)

// MaxEntries is the number of entries the log retains.
const MaxEntries = 100

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Type distinguishes forward batches from rollbacks.
type Type string

const (
	TypeApply    Type = "apply"
	TypeRollback Type = "rollback"
)

// Entry is an immutable record of one batch.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Items     []string  `json:"items"`
	Type      Type      `json:"type"`
}

// Prepend returns a new log with entry at the front, pruned to MaxEntries.
// The input slice is never modified.
func Prepend(log []Entry, entry Entry) []Entry {
	n := min(len(log)+1, MaxEntries)
	out := make([]Entry, 0, n)
	out = append(out, entry)
	out = append(out, log[:n-1]...)
	return out
}

// Find returns the entry with the given id.
func Find(log []Entry, id string) (Entry, error) {
	for _, e := range log {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
