// ABOUTME: Starter template catalogue and the Template Seeder.
// ABOUTME: Seeding runs once per database; reset is guarded, destructive, and atomic.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
)

type seedWorkout struct {
	name       string
	difficulty models.Difficulty
	days       []seedDay
}

type seedDay struct {
	name      string
	exercises []seedExercise
}

type seedExercise struct {
	name       string
	sets, reps int
}

// defaultCatalogue is what a fresh install starts with.
var defaultCatalogue = []seedWorkout{
	{
		name:       "Push Pull Legs",
		difficulty: models.DifficultyIntermediate,
		days: []seedDay{
			{"Push Day", []seedExercise{
				{"Bench Press", 4, 8},
				{"Overhead Press", 3, 10},
				{"Incline Dumbbell Press", 3, 10},
				{"Lateral Raise", 3, 15},
				{"Tricep Pushdown", 3, 12},
			}},
			{"Pull Day", []seedExercise{
				{"Deadlift", 3, 5},
				{"Pull-Up", 4, 8},
				{"Barbell Row", 4, 8},
				{"Face Pull", 3, 15},
				{"Bicep Curl", 3, 12},
			}},
			{"Leg Day", []seedExercise{
				{"Squat", 4, 6},
				{"Romanian Deadlift", 3, 10},
				{"Leg Press", 3, 12},
				{"Leg Curl", 3, 12},
				{"Calf Raise", 4, 15},
			}},
		},
	},
	{
		name:       "Full Body Starter",
		difficulty: models.DifficultyBeginner,
		days: []seedDay{
			{"Day A", []seedExercise{
				{"Goblet Squat", 3, 10},
				{"Push-Up", 3, 10},
				{"Dumbbell Row", 3, 10},
				{"Glute Bridge", 3, 12},
			}},
			{"Day B", []seedExercise{
				{"Dumbbell Deadlift", 3, 10},
				{"Dumbbell Shoulder Press", 3, 10},
				{"Lat Pulldown", 3, 10},
				{"Walking Lunge", 3, 12},
			}},
		},
	},
	{
		name:       "Upper Lower Split",
		difficulty: models.DifficultyIntermediate,
		days: []seedDay{
			{"Upper Day", []seedExercise{
				{"Bench Press", 4, 6},
				{"Barbell Row", 4, 6},
				{"Overhead Press", 3, 8},
				{"Pull-Up", 3, 8},
			}},
			{"Lower Day", []seedExercise{
				{"Squat", 4, 6},
				{"Romanian Deadlift", 3, 8},
				{"Bulgarian Split Squat", 3, 10},
				{"Calf Raise", 4, 12},
			}},
		},
	},
	{
		name:       "5x5 Strength",
		difficulty: models.DifficultyAdvanced,
		days: []seedDay{
			{"Workout A", []seedExercise{
				{"Squat", 5, 5},
				{"Bench Press", 5, 5},
				{"Barbell Row", 5, 5},
			}},
			{"Workout B", []seedExercise{
				{"Squat", 5, 5},
				{"Overhead Press", 5, 5},
				{"Deadlift", 1, 5},
			}},
		},
	},
}

// SeedSummary counts rows inserted by a seeding run. A run that found
// everything already present reports zeros.
type SeedSummary struct {
	Workouts  int
	Days      int
	Exercises int
}

// Total returns the number of rows inserted.
func (s SeedSummary) Total() int {
	return s.Workouts + s.Days + s.Exercises
}

// ResetOptions guards the destructive template reset.
type ResetOptions struct {
	// AllowDataLoss must be set when user-created templates exist.
	AllowDataLoss bool
}

// ResetSummary reports what a reset discarded and reseeded.
type ResetSummary struct {
	DiscardedUserWorkouts int
	Seeded                SeedSummary
}

// catalogueSeededKey marks, in the meta table, that the starter catalogue
// has been installed. Once set, startup seeding leaves templates alone.
const catalogueSeededKey = "catalogue_seeded"

// TemplateSeeder populates the starter catalogue.
type TemplateSeeder struct {
	db        *DB
	catalogue []seedWorkout
	bus       *events.Bus
	logger    *zap.Logger
}

// NewTemplateSeeder returns a seeder. bus may be nil.
func NewTemplateSeeder(db *DB, bus *events.Bus, logger *zap.Logger) *TemplateSeeder {
	return &TemplateSeeder{
		db:        db,
		catalogue: defaultCatalogue,
		bus:       bus,
		logger:    logging.OrNop(logger),
	}
}

// SeedDefaultTemplates installs the starter catalogue in one transaction
// the first time it runs against a database. Later runs are no-ops, so
// starter workouts the user deleted stay deleted. The schema must already
// exist.
func (s *TemplateSeeder) SeedDefaultTemplates(ctx context.Context) (SeedSummary, error) {
	var summary SeedSummary
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		done, err := catalogueSeeded(ctx, tx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		summary, err = seedCatalogue(ctx, tx, s.catalogue)
		if err != nil {
			return err
		}
		return markCatalogueSeeded(ctx, tx)
	})
	if err != nil {
		return SeedSummary{}, &WriteError{Op: "seed default templates", Err: err}
	}

	if summary.Total() > 0 {
		s.logger.Info("seeded default templates",
			zap.Int("workouts", summary.Workouts),
			zap.Int("days", summary.Days),
			zap.Int("exercises", summary.Exercises))
		s.publish()
	}
	return summary, nil
}

// ResetTemplates drops and recreates the template tables, then reseeds,
// all in one transaction. User-created templates are lost. Logs are not
// touched. When user-created workouts exist and opts.AllowDataLoss is
// false, nothing changes and ErrResetWouldDiscard is returned. A failure
// at any step leaves the previous templates in place.
func (s *TemplateSeeder) ResetTemplates(ctx context.Context, opts ResetOptions) (ResetSummary, error) {
	var summary ResetSummary
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM template_workouts WHERE is_default = 0`,
		).Scan(&summary.DiscardedUserWorkouts)
		if err != nil {
			return &ReadError{Op: "count user templates", Err: err}
		}
		if summary.DiscardedUserWorkouts > 0 && !opts.AllowDataLoss {
			return fmt.Errorf("%w: %d workout(s)", ErrResetWouldDiscard, summary.DiscardedUserWorkouts)
		}

		if err := dropTemplateTables(ctx, tx); err != nil {
			return err
		}
		if _, err := applySchema(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE key = ?`, catalogueSeededKey); err != nil {
			return &WriteError{Op: "clear seed marker", Err: err}
		}
		summary.Seeded, err = seedCatalogue(ctx, tx, s.catalogue)
		if err != nil {
			return &WriteError{Op: "reseed default templates", Err: err}
		}
		if err := markCatalogueSeeded(ctx, tx); err != nil {
			return &WriteError{Op: "set seed marker", Err: err}
		}
		return nil
	})
	if err != nil {
		return ResetSummary{}, err
	}

	s.logger.Warn("reset template tables",
		zap.Int("discarded_user_workouts", summary.DiscardedUserWorkouts),
		zap.Int("seeded_workouts", summary.Seeded.Workouts))
	s.publish()
	return summary, nil
}

// catalogueSeeded reports whether the starter catalogue was installed
// before. Databases from before the marker existed count as seeded when
// they already hold starter workouts.
func catalogueSeeded(ctx context.Context, tx *sql.Tx) (bool, error) {
	var value string
	err := tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, catalogueSeededKey).Scan(&value)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("read seed marker: %w", err)
	}

	var legacy bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM template_workouts WHERE is_default = 1)`,
	).Scan(&legacy)
	if err != nil {
		return false, fmt.Errorf("check starter workouts: %w", err)
	}
	if legacy {
		return true, markCatalogueSeeded(ctx, tx)
	}
	return false, nil
}

func markCatalogueSeeded(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
		catalogueSeededKey, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write seed marker: %w", err)
	}
	return nil
}

func (s *TemplateSeeder) publish() {
	if s.bus != nil {
		s.bus.Publish(events.TemplatesUpdated, nil)
	}
}

// seedCatalogue inserts workouts, then days, then exercises. Each pass
// resolves parent ids by their unique names, so it works whether the
// parent was inserted now or on an earlier run.
func seedCatalogue(ctx context.Context, tx *sql.Tx, catalogue []seedWorkout) (SeedSummary, error) {
	var summary SeedSummary

	workoutIDs := make(map[string]int64, len(catalogue))
	for _, w := range catalogue {
		n, err := execAffected(ctx, tx,
			`INSERT OR IGNORE INTO template_workouts (name, difficulty, is_default) VALUES (?, ?, 1)`,
			w.name, string(w.difficulty))
		if err != nil {
			return summary, fmt.Errorf("seed workout %s: %w", w.name, err)
		}
		summary.Workouts += n

		id, err := lookupID(ctx, tx, `SELECT id FROM template_workouts WHERE name = ?`, w.name)
		if err != nil {
			return summary, fmt.Errorf("resolve workout %s: %w", w.name, err)
		}
		workoutIDs[w.name] = id
	}

	type dayKey struct{ workout, day string }
	dayIDs := make(map[dayKey]int64)
	for _, w := range catalogue {
		workoutID := workoutIDs[w.name]
		for _, d := range w.days {
			n, err := execAffected(ctx, tx,
				`INSERT OR IGNORE INTO template_days (workout_id, name) VALUES (?, ?)`,
				workoutID, d.name)
			if err != nil {
				return summary, fmt.Errorf("seed day %s/%s: %w", w.name, d.name, err)
			}
			summary.Days += n

			id, err := lookupID(ctx, tx,
				`SELECT id FROM template_days WHERE workout_id = ? AND name = ?`, workoutID, d.name)
			if err != nil {
				return summary, fmt.Errorf("resolve day %s/%s: %w", w.name, d.name, err)
			}
			dayIDs[dayKey{w.name, d.name}] = id
		}
	}

	for _, w := range catalogue {
		for _, d := range w.days {
			dayID := dayIDs[dayKey{w.name, d.name}]
			for _, e := range d.exercises {
				n, err := execAffected(ctx, tx,
					`INSERT OR IGNORE INTO template_exercises (day_id, name, sets, reps) VALUES (?, ?, ?, ?)`,
					dayID, e.name, e.sets, e.reps)
				if err != nil {
					return summary, fmt.Errorf("seed exercise %s/%s/%s: %w", w.name, d.name, e.name, err)
				}
				summary.Exercises += n
			}
		}
	}

	return summary, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execAffected runs stmt and returns the number of rows it changed.
func execAffected(ctx context.Context, e execer, stmt string, args ...any) (int, error) {
	res, err := e.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// lookupID returns the single id selected by query, or ErrNotFound.
func lookupID(ctx context.Context, q queryRower, query string, args ...any) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
