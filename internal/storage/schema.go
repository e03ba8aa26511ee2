// ABOUTME: SQLite schema definition and the Schema Manager.
// ABOUTME: Creates template and log tables if absent, then runs additive migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/logging"
)

// Base DDL. Columns added after the first release live in migrations.go,
// never here, so old and new installs converge on the same shape.
const (
	createTemplateWorkouts = `CREATE TABLE IF NOT EXISTS template_workouts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	difficulty TEXT NOT NULL DEFAULT 'Beginner'
)`

	createTemplateDays = `CREATE TABLE IF NOT EXISTS template_days (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workout_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (workout_id, name),
	FOREIGN KEY (workout_id) REFERENCES template_workouts(id) ON DELETE CASCADE
)`

	createTemplateExercises = `CREATE TABLE IF NOT EXISTS template_exercises (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	day_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	sets INTEGER NOT NULL CHECK (sets > 0),
	reps INTEGER NOT NULL CHECK (reps > 0),
	UNIQUE (day_id, name),
	FOREIGN KEY (day_id) REFERENCES template_days(id) ON DELETE CASCADE
)`

	createWorkoutLogs = `CREATE TABLE IF NOT EXISTS workout_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workout_date TEXT NOT NULL,
	day_name TEXT NOT NULL,
	workout_name TEXT NOT NULL
)`

	createLoggedExercises = `CREATE TABLE IF NOT EXISTS logged_exercises (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workout_log_id INTEGER NOT NULL,
	exercise_name TEXT NOT NULL,
	sets INTEGER NOT NULL,
	reps INTEGER NOT NULL,
	FOREIGN KEY (workout_log_id) REFERENCES workout_logs(id) ON DELETE CASCADE
)`

	createWeightLogs = `CREATE TABLE IF NOT EXISTS weight_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workout_log_id INTEGER NOT NULL,
	logged_exercise_id INTEGER NOT NULL,
	exercise_name TEXT NOT NULL,
	set_number INTEGER NOT NULL CHECK (set_number >= 1),
	weight_logged REAL NOT NULL,
	reps_logged INTEGER NOT NULL,
	FOREIGN KEY (workout_log_id) REFERENCES workout_logs(id) ON DELETE CASCADE,
	FOREIGN KEY (logged_exercise_id) REFERENCES logged_exercises(id) ON DELETE CASCADE
)`

	createMeta = `CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
)

// tableDDL lists CREATE TABLE statements in dependency order.
var tableDDL = []struct {
	table string
	ddl   string
}{
	{"template_workouts", createTemplateWorkouts},
	{"template_days", createTemplateDays},
	{"template_exercises", createTemplateExercises},
	{"workout_logs", createWorkoutLogs},
	{"logged_exercises", createLoggedExercises},
	{"weight_logs", createWeightLogs},
	{"meta", createMeta},
}

var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_template_days_workout ON template_days(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_template_exercises_day ON template_exercises(day_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_logs_workout_day ON workout_logs(workout_name, day_name)`,
	`CREATE INDEX IF NOT EXISTS idx_logged_exercises_log ON logged_exercises(workout_log_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weight_logs_log ON weight_logs(workout_log_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weight_logs_exercise ON weight_logs(logged_exercise_id)`,
}

// templateTables lists the template tables child-first, for drops.
var templateTables = []string{"template_exercises", "template_days", "template_workouts"}

// SchemaManager declares and evolves the schema.
type SchemaManager struct {
	db     *DB
	logger *zap.Logger
}

// NewSchemaManager returns a schema manager for db.
func NewSchemaManager(db *DB, logger *zap.Logger) *SchemaManager {
	return &SchemaManager{db: db, logger: logging.OrNop(logger)}
}

// EnsureSchema creates missing tables and indexes and applies pending
// column migrations. Safe to run on every startup. Failures are returned
// as *SchemaError and logged.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	if err := m.ensureSchema(ctx); err != nil {
		m.logger.Error("schema setup failed", zap.Error(err))
		return err
	}
	return nil
}

func (m *SchemaManager) ensureSchema(ctx context.Context) error {
	var applied []string
	err := m.db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		applied, err = applySchema(ctx, tx)
		return err
	})
	if err != nil {
		if IsSchemaError(err) {
			return err
		}
		return &SchemaError{Op: "ensure schema", Err: err}
	}
	for _, name := range applied {
		m.logger.Info("applied schema migration", zap.String("migration", name))
	}
	return nil
}

// applySchema creates tables, runs migrations, then creates indexes, all
// inside tx. It returns the migrations that changed something.
func applySchema(ctx context.Context, tx *sql.Tx) ([]string, error) {
	for _, t := range tableDDL {
		if _, err := tx.ExecContext(ctx, t.ddl); err != nil {
			return nil, &SchemaError{Op: "create table " + t.table, Err: err}
		}
	}

	applied, err := runMigrations(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, ddl := range indexDDL {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return nil, &SchemaError{Op: "create index", Err: err}
		}
	}
	return applied, nil
}

// dropTemplateTables removes the template tables. Log tables are untouched.
func dropTemplateTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range templateTables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return &SchemaError{Op: "drop table " + table, Err: err}
		}
	}
	return nil
}
