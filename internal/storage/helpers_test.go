// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Opens a temp database with the schema in place and records bus traffic.
package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "liftlog.db")
	db, err := Open(dbPath)
	require.NoError(t, err, "open database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, NewSchemaManager(db, zap.NewNop()).EnsureSchema(context.Background()))
	return db
}

// recorder captures every payload published for one event.
type recorder struct {
	mu       sync.Mutex
	payloads []any
}

func record(bus *events.Bus, event string) *recorder {
	r := &recorder{}
	bus.Subscribe(event, func(payload any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.payloads = append(r.payloads, payload)
	})
	return r
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func (r *recorder) last() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.payloads) == 0 {
		return nil
	}
	return r.payloads[len(r.payloads)-1]
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// benchSession is the session used across log tests: Bench Press three
// sets, Squat two.
func benchSession() models.SessionInput {
	return *models.NewSessionInput("Push Pull Legs", "Push Day").
		AddExercise("Bench Press", 3, 8,
			models.LoggedSet{WeightLogged: 135, RepsLogged: 8},
			models.LoggedSet{WeightLogged: 140, RepsLogged: 6},
			models.LoggedSet{WeightLogged: 145, RepsLogged: 5},
		).
		AddExercise("Squat", 2, 5,
			models.LoggedSet{WeightLogged: 185, RepsLogged: 5},
			models.LoggedSet{WeightLogged: 195, RepsLogged: 5},
		)
}
