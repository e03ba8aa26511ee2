// ABOUTME: Additive column migrations for tables that have already shipped.
// ABOUTME: Each migration inspects pragma_table_info before altering anything.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Migration is one idempotent schema change.
type Migration struct {
	Name        string
	Description string
	Func        func(ctx context.Context, tx *sql.Tx) (applied bool, err error)
}

// migrationsList is run in order on every EnsureSchema. Every entry must be
// a no-op when its change is already present: installs may skip releases.
var migrationsList = []Migration{
	{
		Name:        "exercise_link",
		Description: "Adds optional link column to template_exercises",
		Func:        migrateExerciseLink,
	},
	{
		Name:        "default_template_flag",
		Description: "Adds is_default column to template_workouts to tell seeded templates from user ones",
		Func:        migrateDefaultTemplateFlag,
	},
	{
		Name:        "session_id",
		Description: "Adds session_id column to workout_logs, backfills UUIDs, and indexes it uniquely",
		Func:        migrateSessionID,
	},
}

// MigrationInfo describes a registered migration.
type MigrationInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListMigrations returns all registered migrations in run order.
func ListMigrations() []MigrationInfo {
	result := make([]MigrationInfo, len(migrationsList))
	for i, m := range migrationsList {
		result[i] = MigrationInfo{Name: m.Name, Description: m.Description}
	}
	return result
}

func runMigrations(ctx context.Context, tx *sql.Tx) ([]string, error) {
	var applied []string
	for _, m := range migrationsList {
		changed, err := m.Func(ctx, tx)
		if err != nil {
			return nil, &SchemaError{Op: "migration " + m.Name, Err: err}
		}
		if changed {
			applied = append(applied, m.Name)
		}
	}
	return applied, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// hasColumn reports whether table has a column named column.
func hasColumn(ctx context.Context, q queryRower, table, column string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// addColumnIfMissing issues ALTER TABLE only when the column is absent.
func addColumnIfMissing(ctx context.Context, tx *sql.Tx, table, column, decl string) (bool, error) {
	exists, err := hasColumn(ctx, tx, table, column)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return true, nil
}

func migrateExerciseLink(ctx context.Context, tx *sql.Tx) (bool, error) {
	return addColumnIfMissing(ctx, tx, "template_exercises", "link", "TEXT")
}

func migrateDefaultTemplateFlag(ctx context.Context, tx *sql.Tx) (bool, error) {
	return addColumnIfMissing(ctx, tx, "template_workouts", "is_default", "INTEGER NOT NULL DEFAULT 0")
}

func migrateSessionID(ctx context.Context, tx *sql.Tx) (bool, error) {
	added, err := addColumnIfMissing(ctx, tx, "workout_logs", "session_id", "TEXT")
	if err != nil {
		return false, err
	}

	// Backfill runs even when the column already existed, in case an
	// earlier attempt added it but stopped before filling it.
	rows, err := tx.QueryContext(ctx, `SELECT id FROM workout_logs WHERE session_id IS NULL`)
	if err != nil {
		return false, fmt.Errorf("query logs without session_id: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return false, fmt.Errorf("scan log id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, fmt.Errorf("iterate logs: %w", err)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workout_logs SET session_id = ? WHERE id = ?`, uuid.NewString(), id,
		); err != nil {
			return false, fmt.Errorf("backfill session_id for log %d: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_workout_logs_session ON workout_logs(session_id)`,
	); err != nil {
		return false, fmt.Errorf("index session_id: %w", err)
	}

	return added || len(ids) > 0, nil
}
