// ABOUTME: Workout Log Store: records sessions and reads their history.
// ABOUTME: Session writes are a single transaction; the list queries fail soft.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
)

// LogStore reads and writes executed-session data.
type LogStore struct {
	db     *DB
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
}

// NewLogStore returns a log store. bus and logger may be nil.
func NewLogStore(db *DB, bus *events.Bus, logger *zap.Logger) *LogStore {
	return &LogStore{
		db:     db,
		bus:    bus,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// RecordSession writes one WorkoutLog, a LoggedExercise per exercise and a
// WeightLog per logged set, all in one transaction. Names, sets, reps and
// weights are copied as given. Set numbers follow each set's position,
// starting at 1. WorkoutsUpdated is published after commit with the new log.
func (s *LogStore) RecordSession(ctx context.Context, in models.SessionInput) (*models.WorkoutLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	date := in.WorkoutDate
	if date.IsZero() {
		date = s.now()
	}

	var log *models.WorkoutLog
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		log, err = insertSession(ctx, tx, in, uuid.New(), date)
		return err
	})
	if err != nil {
		s.logger.Error("record session failed",
			zap.String("workout", in.WorkoutName),
			zap.String("day", in.DayName),
			zap.Error(err))
		return nil, &WriteError{Op: "record session", Err: err}
	}

	s.logger.Info("recorded session",
		zap.Int64("workout_log_id", log.ID),
		zap.String("workout", log.WorkoutName),
		zap.String("day", log.DayName),
		zap.Int("exercises", len(log.Exercises)))
	s.publish(log)
	return log, nil
}

func insertSession(ctx context.Context, tx *sql.Tx, in models.SessionInput, sessionID uuid.UUID, date time.Time) (*models.WorkoutLog, error) {
	log := &models.WorkoutLog{
		SessionID:   sessionID,
		WorkoutDate: date.UTC().Truncate(time.Second),
		DayName:     strings.TrimSpace(in.DayName),
		WorkoutName: strings.TrimSpace(in.WorkoutName),
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO workout_logs (workout_date, day_name, workout_name, session_id) VALUES (?, ?, ?, ?)`,
		log.WorkoutDate.Format(time.RFC3339), log.DayName, log.WorkoutName, log.SessionID.String())
	if err != nil {
		return nil, fmt.Errorf("insert workout log: %w", err)
	}
	if log.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("workout log id: %w", err)
	}

	for _, ex := range in.Exercises {
		le := models.LoggedExercise{
			WorkoutLogID: log.ID,
			ExerciseName: strings.TrimSpace(ex.Name),
			Sets:         ex.Sets,
			Reps:         ex.Reps,
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO logged_exercises (workout_log_id, exercise_name, sets, reps) VALUES (?, ?, ?, ?)`,
			le.WorkoutLogID, le.ExerciseName, le.Sets, le.Reps)
		if err != nil {
			return nil, fmt.Errorf("insert logged exercise %s: %w", le.ExerciseName, err)
		}
		if le.ID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("logged exercise id: %w", err)
		}

		for i, set := range ex.LoggedSets {
			wl := models.WeightLog{
				WorkoutLogID:     log.ID,
				LoggedExerciseID: le.ID,
				ExerciseName:     le.ExerciseName,
				SetNumber:        i + 1,
				WeightLogged:     set.WeightLogged,
				RepsLogged:       set.RepsLogged,
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO weight_logs
					(workout_log_id, logged_exercise_id, exercise_name, set_number, weight_logged, reps_logged)
				VALUES (?, ?, ?, ?, ?, ?)`,
				wl.WorkoutLogID, wl.LoggedExerciseID, wl.ExerciseName, wl.SetNumber, wl.WeightLogged, wl.RepsLogged)
			if err != nil {
				return nil, fmt.Errorf("insert set %d of %s: %w", wl.SetNumber, wl.ExerciseName, err)
			}
			if wl.ID, err = res.LastInsertId(); err != nil {
				return nil, fmt.Errorf("weight log id: %w", err)
			}
			le.WeightLogs = append(le.WeightLogs, wl)
		}
		log.Exercises = append(log.Exercises, le)
	}

	return log, nil
}

// LoggedDays returns the day names logged at least once for workoutName,
// in order of their first log.
func (s *LogStore) LoggedDays(ctx context.Context, workoutName string) ([]string, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT day_name FROM workout_logs
		WHERE workout_name = ?
		GROUP BY day_name
		ORDER BY MIN(id)`, workoutName)
	if err != nil {
		return nil, &ReadError{Op: "list logged days", Err: err}
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, &ReadError{Op: "list logged days", Err: err}
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list logged days", Err: err}
	}
	return days, nil
}

// ListLoggedDays is LoggedDays for display code: a failed query is logged
// and reported as no days.
func (s *LogStore) ListLoggedDays(ctx context.Context, workoutName string) []string {
	days, err := s.LoggedDays(ctx, workoutName)
	if err != nil {
		s.logger.Error("read failed", zap.String("workout", workoutName), zap.Error(err))
		return []string{}
	}
	if days == nil {
		return []string{}
	}
	return days
}

// LogsForDay returns every logged set for (workoutName, dayName), ordered
// by exercise name, then set number, then session date and row.
func (s *LogStore) LogsForDay(ctx context.Context, workoutName, dayName string) ([]models.DayLogEntry, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT w.id, w.workout_date, wl.exercise_name, wl.set_number, wl.weight_logged, wl.reps_logged
		FROM weight_logs wl
		JOIN workout_logs w ON w.id = wl.workout_log_id
		WHERE w.workout_name = ? AND w.day_name = ?
		ORDER BY wl.exercise_name ASC, wl.set_number ASC, w.workout_date ASC, wl.id ASC`,
		workoutName, dayName)
	if err != nil {
		return nil, &ReadError{Op: "list logs for day", Err: err}
	}
	defer rows.Close()

	var entries []models.DayLogEntry
	for rows.Next() {
		var e models.DayLogEntry
		var date string
		if err := rows.Scan(&e.WorkoutLogID, &date, &e.ExerciseName, &e.SetNumber, &e.WeightLogged, &e.RepsLogged); err != nil {
			return nil, &ReadError{Op: "list logs for day", Err: err}
		}
		if e.WorkoutDate, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, &ReadError{Op: "list logs for day", Err: fmt.Errorf("invalid workout_date %q: %w", date, err)}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list logs for day", Err: err}
	}
	return entries, nil
}

// ListLogsForDay is LogsForDay for display code: a failed query is logged
// and reported as no rows.
func (s *LogStore) ListLogsForDay(ctx context.Context, workoutName, dayName string) []models.DayLogEntry {
	entries, err := s.LogsForDay(ctx, workoutName, dayName)
	if err != nil {
		s.logger.Error("read failed",
			zap.String("workout", workoutName),
			zap.String("day", dayName),
			zap.Error(err))
		return []models.DayLogEntry{}
	}
	if entries == nil {
		return []models.DayLogEntry{}
	}
	return entries
}

// ListLoggedWorkouts returns workout names with at least one log, in order of first log.
func (s *LogStore) ListLoggedWorkouts(ctx context.Context) ([]string, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT workout_name FROM workout_logs GROUP BY workout_name ORDER BY MIN(id)`)
	if err != nil {
		return nil, &ReadError{Op: "list logged workouts", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &ReadError{Op: "list logged workouts", Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list logged workouts", Err: err}
	}
	return names, nil
}

// ListWorkoutLogs returns sessions, most recent first, without exercises.
// A limit of 0 or less returns all sessions.
func (s *LogStore) ListWorkoutLogs(ctx context.Context, limit int) ([]*models.WorkoutLog, error) {
	query := `
		SELECT id, session_id, workout_date, day_name, workout_name
		FROM workout_logs
		ORDER BY workout_date DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ReadError{Op: "list sessions", Err: err}
	}
	defer rows.Close()

	var logs []*models.WorkoutLog
	for rows.Next() {
		l, err := scanWorkoutLog(rows)
		if err != nil {
			return nil, &ReadError{Op: "list sessions", Err: err}
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list sessions", Err: err}
	}
	return logs, nil
}

// GetWorkoutLog returns one session with its exercises and sets.
func (s *LogStore) GetWorkoutLog(ctx context.Context, id int64) (*models.WorkoutLog, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT id, session_id, workout_date, day_name, workout_name
		FROM workout_logs WHERE id = ?`, id)
	log, err := scanWorkoutLog(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, &ReadError{Op: "get session", Err: err}
	}

	exercises, err := s.loggedExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	sets, err := s.weightLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		exercises[i].WeightLogs = sets[exercises[i].ID]
	}
	log.Exercises = exercises
	return log, nil
}

func (s *LogStore) loggedExercises(ctx context.Context, logID int64) ([]models.LoggedExercise, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT id, workout_log_id, exercise_name, sets, reps
		FROM logged_exercises WHERE workout_log_id = ? ORDER BY id`, logID)
	if err != nil {
		return nil, &ReadError{Op: "list logged exercises", Err: err}
	}
	defer rows.Close()

	var out []models.LoggedExercise
	for rows.Next() {
		var le models.LoggedExercise
		if err := rows.Scan(&le.ID, &le.WorkoutLogID, &le.ExerciseName, &le.Sets, &le.Reps); err != nil {
			return nil, &ReadError{Op: "list logged exercises", Err: err}
		}
		out = append(out, le)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list logged exercises", Err: err}
	}
	return out, nil
}

// weightLogs returns a session's sets grouped by logged exercise id.
func (s *LogStore) weightLogs(ctx context.Context, logID int64) (map[int64][]models.WeightLog, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT id, workout_log_id, logged_exercise_id, exercise_name, set_number, weight_logged, reps_logged
		FROM weight_logs WHERE workout_log_id = ?
		ORDER BY logged_exercise_id, set_number`, logID)
	if err != nil {
		return nil, &ReadError{Op: "list weight logs", Err: err}
	}
	defer rows.Close()

	out := make(map[int64][]models.WeightLog)
	for rows.Next() {
		var wl models.WeightLog
		if err := rows.Scan(&wl.ID, &wl.WorkoutLogID, &wl.LoggedExerciseID, &wl.ExerciseName,
			&wl.SetNumber, &wl.WeightLogged, &wl.RepsLogged); err != nil {
			return nil, &ReadError{Op: "list weight logs", Err: err}
		}
		out[wl.LoggedExerciseID] = append(out[wl.LoggedExerciseID], wl)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list weight logs", Err: err}
	}
	return out, nil
}

// DeleteWorkoutLog removes a session and, by cascade, its exercises and sets.
func (s *LogStore) DeleteWorkoutLog(ctx context.Context, id int64) error {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT id, session_id, workout_date, day_name, workout_name
		FROM workout_logs WHERE id = ?`, id)
	log, err := scanWorkoutLog(row)
	if err == sql.ErrNoRows {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return &ReadError{Op: "delete session", Err: err}
	}

	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id); err != nil {
		return &WriteError{Op: "delete session", Err: err}
	}

	s.logger.Info("deleted session", zap.Int64("workout_log_id", id))
	s.publish(log)
	return nil
}

func (s *LogStore) publish(log *models.WorkoutLog) {
	if s.bus != nil {
		s.bus.Publish(events.WorkoutsUpdated, log)
	}
}

func scanWorkoutLog(row rowScanner) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	var sessionID sql.NullString
	var date string
	if err := row.Scan(&l.ID, &sessionID, &date, &l.DayName, &l.WorkoutName); err != nil {
		return nil, err
	}

	var err error
	if l.WorkoutDate, err = time.Parse(time.RFC3339, date); err != nil {
		return nil, fmt.Errorf("invalid workout_date %q: %w", date, err)
	}
	if sessionID.Valid {
		if l.SessionID, err = uuid.Parse(sessionID.String); err != nil {
			return nil, fmt.Errorf("invalid session_id %q: %w", sessionID.String, err)
		}
	}
	return &l, nil
}
