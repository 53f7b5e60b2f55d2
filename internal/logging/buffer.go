package logging

import (
	"sync"
	"time"
)

// LogEntry is one captured log record.
type LogEntry struct {
	Seq        uint64         `json:"seq"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the most recent entries and numbers them 1, 2, 3...
// in write order. Safe for concurrent use.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
	seq     uint64
}

// NewRingBuffer creates a buffer holding up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{entries: make([]LogEntry, size)}
}

// Write stores entry, evicting the oldest one when full, and returns the
// sequence number it was given.
func (rb *RingBuffer) Write(entry LogEntry) uint64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.seq++
	entry.Seq = rb.seq
	rb.entries[rb.next] = entry
	rb.next++
	if rb.next == len(rb.entries) {
		rb.next = 0
		rb.full = true
	}
	return entry.Seq
}

// ReadAll returns the buffered entries, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	return rb.ReadSince(0)
}

// ReadSince returns the buffered entries with Seq greater than seq, oldest first.
func (rb *RingBuffer) ReadSince(seq uint64) []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	count := rb.countLocked()
	oldest := rb.seq - uint64(count) + 1
	if count == 0 || seq >= rb.seq {
		return nil
	}
	skip := 0
	if seq >= oldest {
		skip = int(seq - oldest + 1)
	}

	start := 0
	if rb.full {
		start = rb.next
	}
	out := make([]LogEntry, 0, count-skip)
	for i := skip; i < count; i++ {
		out = append(out, rb.entries[(start+i)%len(rb.entries)])
	}
	return out
}

// Count returns the number of buffered entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.countLocked()
}

func (rb *RingBuffer) countLocked() int {
	if rb.full {
		return len(rb.entries)
	}
	return rb.next
}
