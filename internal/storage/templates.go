// ABOUTME: Template CRUD for workouts, days, and exercises.
// ABOUTME: Inserts are insert-or-ignore; deletes rely on foreign-key cascades.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/models"
)

// TemplateStore reads and writes template trees.
type TemplateStore struct {
	db  *DB
	bus *events.Bus
}

// NewTemplateStore returns a template store. bus may be nil.
func NewTemplateStore(db *DB, bus *events.Bus) *TemplateStore {
	return &TemplateStore{db: db, bus: bus}
}

// CreateWorkout adds a user workout and returns its id. If a workout with
// the same name exists, its id is returned and nothing changes.
func (s *TemplateStore) CreateWorkout(ctx context.Context, name string, difficulty models.Difficulty) (int64, error) {
	return s.createWorkout(ctx, s.db.db, name, difficulty, false)
}

func (s *TemplateStore) createWorkout(ctx context.Context, e execQueryer, name string, difficulty models.Difficulty, isDefault bool) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: workout name is required", ErrInvalidTemplate)
	}
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	n, err := execAffected(ctx, e,
		`INSERT OR IGNORE INTO template_workouts (name, difficulty, is_default) VALUES (?, ?, ?)`,
		name, string(difficulty), boolToInt(isDefault))
	if err != nil {
		return 0, &WriteError{Op: "create workout", Err: err}
	}
	id, err := lookupID(ctx, e, `SELECT id FROM template_workouts WHERE name = ?`, name)
	if err != nil {
		return 0, &WriteError{Op: "create workout", Err: err}
	}
	if n > 0 {
		s.publish()
	}
	return id, nil
}

// AddDay adds a day to a workout. A duplicate (workout, name) pair is a
// no-op that returns the existing day's id.
func (s *TemplateStore) AddDay(ctx context.Context, workoutID int64, name string) (int64, error) {
	return s.addDay(ctx, s.db.db, workoutID, name)
}

func (s *TemplateStore) addDay(ctx context.Context, e execQueryer, workoutID int64, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: day name is required", ErrInvalidTemplate)
	}

	n, err := execAffected(ctx, e,
		`INSERT OR IGNORE INTO template_days (workout_id, name) VALUES (?, ?)`, workoutID, name)
	if err != nil {
		return 0, &WriteError{Op: "add day", Err: err}
	}
	id, err := lookupID(ctx, e,
		`SELECT id FROM template_days WHERE workout_id = ? AND name = ?`, workoutID, name)
	if err != nil {
		return 0, &WriteError{Op: "add day", Err: err}
	}
	if n > 0 {
		s.publish()
	}
	return id, nil
}

// AddExercise adds an exercise to a day. A duplicate (day, name) pair is a
// no-op that returns the existing exercise's id.
func (s *TemplateStore) AddExercise(ctx context.Context, dayID int64, ex *models.TemplateExercise) (int64, error) {
	return s.addExercise(ctx, s.db.db, dayID, ex)
}

func (s *TemplateStore) addExercise(ctx context.Context, e execQueryer, dayID int64, ex *models.TemplateExercise) (int64, error) {
	if !ex.Valid() {
		return 0, fmt.Errorf("%w: exercise needs a name and positive sets and reps", ErrInvalidTemplate)
	}
	name := strings.TrimSpace(ex.Name)

	n, err := execAffected(ctx, e,
		`INSERT OR IGNORE INTO template_exercises (day_id, name, sets, reps, link) VALUES (?, ?, ?, ?, ?)`,
		dayID, name, ex.Sets, ex.Reps, ex.Link)
	if err != nil {
		return 0, &WriteError{Op: "add exercise", Err: err}
	}
	id, err := lookupID(ctx, e,
		`SELECT id FROM template_exercises WHERE day_id = ? AND name = ?`, dayID, name)
	if err != nil {
		return 0, &WriteError{Op: "add exercise", Err: err}
	}
	if n > 0 {
		s.publish()
	}
	return id, nil
}

// RenameExercise changes a template exercise's name. Logged sessions keep
// the name they were recorded with.
func (s *TemplateStore) RenameExercise(ctx context.Context, exerciseID int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidTemplate)
	}
	n, err := execAffected(ctx, s.db.db,
		`UPDATE template_exercises SET name = ? WHERE id = ?`, newName, exerciseID)
	if err != nil {
		return &WriteError{Op: "rename exercise", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}
	s.publish()
	return nil
}

// DeleteWorkout removes a workout and, by cascade, its days and exercises.
func (s *TemplateStore) DeleteWorkout(ctx context.Context, workoutID int64) error {
	return s.deleteByID(ctx, "template_workouts", "workout", workoutID)
}

// DeleteDay removes a day and, by cascade, its exercises.
func (s *TemplateStore) DeleteDay(ctx context.Context, dayID int64) error {
	return s.deleteByID(ctx, "template_days", "day", dayID)
}

// DeleteExercise removes one exercise.
func (s *TemplateStore) DeleteExercise(ctx context.Context, exerciseID int64) error {
	return s.deleteByID(ctx, "template_exercises", "exercise", exerciseID)
}

func (s *TemplateStore) deleteByID(ctx context.Context, table, kind string, id int64) error {
	n, err := execAffected(ctx, s.db.db, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return &WriteError{Op: "delete " + kind, Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	s.publish()
	return nil
}

// ListWorkouts returns all template workouts ordered by name, without days.
func (s *TemplateStore) ListWorkouts(ctx context.Context) ([]*models.TemplateWorkout, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, name, difficulty, is_default FROM template_workouts ORDER BY name`)
	if err != nil {
		return nil, &ReadError{Op: "list workouts", Err: err}
	}
	defer rows.Close()

	var workouts []*models.TemplateWorkout
	for rows.Next() {
		w, err := scanTemplateWorkout(rows)
		if err != nil {
			return nil, &ReadError{Op: "list workouts", Err: err}
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list workouts", Err: err}
	}
	return workouts, nil
}

// GetWorkoutTree returns a workout by name with its days and exercises.
func (s *TemplateStore) GetWorkoutTree(ctx context.Context, name string) (*models.TemplateWorkout, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT id, name, difficulty, is_default FROM template_workouts WHERE name = ?`, name)
	w, err := scanTemplateWorkout(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workout %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, &ReadError{Op: "get workout", Err: err}
	}

	days, err := s.listDays(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.listExercisesForWorkout(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	for i := range days {
		days[i].Exercises = exercises[days[i].ID]
	}
	w.Days = days
	return w, nil
}

func (s *TemplateStore) listDays(ctx context.Context, workoutID int64) ([]models.TemplateDay, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, workout_id, name FROM template_days WHERE workout_id = ? ORDER BY id`, workoutID)
	if err != nil {
		return nil, &ReadError{Op: "list days", Err: err}
	}
	defer rows.Close()

	var days []models.TemplateDay
	for rows.Next() {
		var d models.TemplateDay
		if err := rows.Scan(&d.ID, &d.WorkoutID, &d.Name); err != nil {
			return nil, &ReadError{Op: "list days", Err: err}
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list days", Err: err}
	}
	return days, nil
}

// listExercisesForWorkout returns exercises grouped by day id, in insertion order.
func (s *TemplateStore) listExercisesForWorkout(ctx context.Context, workoutID int64) (map[int64][]models.TemplateExercise, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT e.id, e.day_id, e.name, e.sets, e.reps, e.link
		FROM template_exercises e
		JOIN template_days d ON d.id = e.day_id
		WHERE d.workout_id = ?
		ORDER BY e.day_id, e.id`, workoutID)
	if err != nil {
		return nil, &ReadError{Op: "list exercises", Err: err}
	}
	defer rows.Close()

	byDay := make(map[int64][]models.TemplateExercise)
	for rows.Next() {
		var e models.TemplateExercise
		var link sql.NullString
		if err := rows.Scan(&e.ID, &e.DayID, &e.Name, &e.Sets, &e.Reps, &link); err != nil {
			return nil, &ReadError{Op: "list exercises", Err: err}
		}
		if link.Valid {
			e.Link = &link.String
		}
		byDay[e.DayID] = append(byDay[e.DayID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list exercises", Err: err}
	}
	return byDay, nil
}

func (s *TemplateStore) publish() {
	if s.bus != nil {
		s.bus.Publish(events.TemplatesUpdated, nil)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplateWorkout(row rowScanner) (*models.TemplateWorkout, error) {
	var w models.TemplateWorkout
	var difficulty string
	var isDefault int
	if err := row.Scan(&w.ID, &w.Name, &difficulty, &isDefault); err != nil {
		return nil, err
	}
	w.Difficulty = models.Difficulty(difficulty)
	w.IsDefault = isDefault != 0
	return &w, nil
}

type execQueryer interface {
	execer
	queryRower
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
