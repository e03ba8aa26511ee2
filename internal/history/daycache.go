// ABOUTME: On-demand cache of per-day session history for display code.
// ABOUTME: Entries load once per (workout, day) and are dropped when a session changes.
package history

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

type dayKey struct {
	workout string
	day     string
}

type entry struct {
	rows  []models.DayLogEntry
	stale bool
}

// DayCache holds the logs for each (workout, day) a caller has expanded.
// A day is read from the store the first time it is requested and again
// only after it has been invalidated.
type DayCache struct {
	reader storage.DayLogReader
	logger *zap.Logger

	mu      sync.Mutex
	entries map[dayKey]*entry
	subs    []*events.Subscription
}

// NewDayCache returns an empty cache over reader.
func NewDayCache(reader storage.DayLogReader, logger *zap.Logger) *DayCache {
	return &DayCache{
		reader:  reader,
		logger:  logging.OrNop(logger),
		entries: make(map[dayKey]*entry),
	}
}

// Get returns the logs for (workout, day), loading them if needed. When a
// load fails the error is logged and the last good rows are returned, or
// an empty slice if there are none. Failures are not cached.
func (c *DayCache) Get(ctx context.Context, workout, day string) []models.DayLogEntry {
	key := dayKey{workout, day}

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.stale {
		rows := e.rows
		c.mu.Unlock()
		return rows
	}
	c.mu.Unlock()

	rows, err := c.reader.LogsForDay(ctx, workout, day)
	if err != nil {
		c.logger.Error("load day history failed",
			zap.String("workout", workout),
			zap.String("day", day),
			zap.Error(err))
		if ok {
			return e.rows
		}
		return []models.DayLogEntry{}
	}
	if rows == nil {
		rows = []models.DayLogEntry{}
	}

	c.mu.Lock()
	c.entries[key] = &entry{rows: rows}
	c.mu.Unlock()
	return rows
}

// Loaded reports whether (workout, day) has a fresh cached value.
func (c *DayCache) Loaded(workout, day string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[dayKey{workout, day}]
	return ok && !e.stale
}

// Invalidate marks one day stale. Its rows stay available as a fallback
// until the next successful load.
func (c *DayCache) Invalidate(workout, day string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[dayKey{workout, day}]; ok {
		e.stale = true
	}
}

// InvalidateAll marks every day stale.
func (c *DayCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.stale = true
	}
}

// Bind subscribes the cache to session changes on bus. A *models.WorkoutLog
// payload invalidates that log's day; any other payload invalidates all.
func (c *DayCache) Bind(bus *events.Bus) {
	sub := bus.Subscribe(events.WorkoutsUpdated, func(payload any) {
		if log, ok := payload.(*models.WorkoutLog); ok && log != nil {
			c.Invalidate(log.WorkoutName, log.DayName)
			return
		}
		c.InvalidateAll()
	})

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
}

// Close unsubscribes from every bus the cache was bound to.
func (c *DayCache) Close() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
