package capture

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultCapacity is the rolling window size of the bounded log.
const DefaultCapacity = 50

// BoundedLog holds the most recent captures, newest first. It is safe for
// concurrent use: gin dispatches handlers in parallel and the log is the
// only shared mutable state in the service.
type BoundedLog struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
	logger   *zap.Logger
}

// NewBoundedLog creates an empty log with the given capacity.
func NewBoundedLog(capacity int, logger *zap.Logger) *BoundedLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoundedLog{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Prepend inserts a record at the front and trims the tail back to
// capacity. It always succeeds; the oldest entries are discarded once the
// window is full.
func (l *BoundedLog) Prepend(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, Record{})
	copy(l.records[1:], l.records)
	l.records[0] = rec

	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}

	l.logger.Debug("captured request",
		zap.String("method", rec.Method),
		zap.String("path", rec.Path),
		zap.Int("stored", len(l.records)),
	)
}

// Snapshot returns a point-in-time copy of the log, newest first. The
// copy is safe to read while later prepends mutate the log.
func (l *BoundedLog) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the current number of stored records.
func (l *BoundedLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
