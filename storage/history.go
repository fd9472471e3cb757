// Package storage holds the command history and its persistence.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const historyKey = "history"

// CommandRecord is one completed command round-trip. Records are
// immutable once appended; a regeneration appends a new record instead
// of replacing the old one.
type CommandRecord struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Intent      string    `json:"intent"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CommandType string    `json:"commandType"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRecordID returns a fresh unguessable record id.
func NewRecordID() string {
	return uuid.New().String()
}

// HistoryStore is an ordered, most-recent-first log of command records.
// The session appends; the UI reads through Records and Filter. Persist
// runs on a command goroutine while appends keep arriving on the update
// loop, so every access to records goes through the mutex.
type HistoryStore struct {
	kv KV

	mu      sync.Mutex
	records []CommandRecord
}

// NewHistoryStore creates an empty store persisting through kv.
func NewHistoryStore(kv KV) *HistoryStore {
	return &HistoryStore{kv: kv}
}

// Append inserts a record at the front.
func (h *HistoryStore) Append(rec CommandRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append([]CommandRecord{rec}, h.records...)
}

// Records returns the full ordered list. The slice is a copy; mutating
// it does not affect the store.
func (h *HistoryStore) Records() []CommandRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]CommandRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len reports the number of stored records.
func (h *HistoryStore) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Filter returns the records whose command, title or command type
// contains query, case-insensitively, preserving order. A blank query
// returns everything.
func (h *HistoryStore) Filter(query string) []CommandRecord {
	if strings.TrimSpace(query) == "" {
		return h.Records()
	}

	q := strings.ToLower(query)
	var matches []CommandRecord
	for _, rec := range h.Records() {
		if strings.Contains(strings.ToLower(rec.Command), q) ||
			strings.Contains(strings.ToLower(rec.Title), q) ||
			strings.Contains(strings.ToLower(rec.CommandType), q) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Load replaces the store contents with the persisted history. A missing
// or corrupt payload yields an empty store rather than an error, so a
// damaged history file never blocks startup.
func (h *HistoryStore) Load() error {
	payload, ok, err := h.kv.Get(historyKey)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if !ok {
		h.setRecords(nil)
		return nil
	}

	var records []CommandRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		h.setRecords(nil)
		return nil
	}
	h.setRecords(records)
	return nil
}

func (h *HistoryStore) setRecords(records []CommandRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = records
}

// Persist writes the full ordered history through the KV collaborator.
// An empty store is never written, so a load race can't clobber
// previously saved history with an empty list. The snapshot is taken
// under the mutex; a concurrent Append lands in the next Persist.
func (h *HistoryStore) Persist() error {
	records := h.Records()
	if len(records) == 0 {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := h.kv.Set(historyKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// RelativeTime formats how long ago t was relative to now, in coarse
// buckets. Negative deltas (clock skew) are clamped to zero.
func RelativeTime(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}
