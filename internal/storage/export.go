// ABOUTME: Export and import of templates and logged sessions.
// ABOUTME: Supports JSON and YAML; import skips sessions already present by session_id.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/models"
)

// ExportFormatVersion is written into every export.
const ExportFormatVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version    string                    `json:"version" yaml:"version"`
	ExportedAt time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool       string                    `json:"tool" yaml:"tool"`
	Templates  []*models.TemplateWorkout `json:"templates" yaml:"templates"`
	Sessions   []*models.WorkoutLog      `json:"sessions" yaml:"sessions"`
}

// ImportSummary counts what an import added.
type ImportSummary struct {
	Templates       int
	Sessions        int
	SkippedSessions int
}

// Export returns every template tree and every session with its sets,
// sessions oldest first.
func (s *LogStore) Export(ctx context.Context) (*ExportData, error) {
	templates := NewTemplateStore(s.db, nil)
	workouts, err := templates.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	trees := make([]*models.TemplateWorkout, 0, len(workouts))
	for _, w := range workouts {
		tree, err := templates.GetWorkoutTree(ctx, w.Name)
		if err != nil {
			return nil, fmt.Errorf("get template %s: %w", w.Name, err)
		}
		trees = append(trees, tree)
	}

	logs, err := s.ListWorkoutLogs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions := make([]*models.WorkoutLog, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		full, err := s.GetWorkoutLog(ctx, logs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get session %d: %w", logs[i].ID, err)
		}
		sessions = append(sessions, full)
	}

	return &ExportData{
		Version:    ExportFormatVersion,
		ExportedAt: s.now().UTC(),
		Tool:       "liftlog",
		Templates:  trees,
		Sessions:   sessions,
	}, nil
}

// Import adds templates with insert-or-ignore and records each session
// whose session_id is not already stored. Each session is its own
// transaction, so a failure leaves earlier sessions in place. Null
// entries, as left by a hand-edited backup, are skipped.
func (s *LogStore) Import(ctx context.Context, data *ExportData) (ImportSummary, error) {
	var summary ImportSummary
	if data == nil {
		return summary, nil
	}

	templates := NewTemplateStore(s.db, nil)
	for i, w := range data.Templates {
		if w == nil {
			s.logger.Warn("skipping empty template entry", zap.Int("index", i))
			continue
		}
		var inserted bool
		err := s.db.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			inserted, err = importTemplate(ctx, tx, templates, w)
			return err
		})
		if err != nil {
			return summary, &WriteError{Op: "import template " + w.Name, Err: err}
		}
		if inserted {
			summary.Templates++
		}
	}

	for i, l := range data.Sessions {
		if l == nil {
			s.logger.Warn("skipping empty session entry", zap.Int("index", i))
			continue
		}
		in, err := sessionInputFromLog(l)
		if err != nil {
			return summary, err
		}
		sessionID := l.SessionID
		if sessionID == uuid.Nil {
			sessionID = uuid.New()
		}
		date := l.WorkoutDate
		if date.IsZero() {
			date = s.now()
		}

		var skipped bool
		err = s.db.withTx(ctx, func(tx *sql.Tx) error {
			_, err := lookupID(ctx, tx, `SELECT id FROM workout_logs WHERE session_id = ?`, sessionID.String())
			if err == nil {
				skipped = true
				return nil
			}
			if err != ErrNotFound {
				return err
			}
			_, err = insertSession(ctx, tx, in, sessionID, date)
			return err
		})
		if err != nil {
			return summary, &WriteError{Op: "import session " + sessionID.String(), Err: err}
		}
		if skipped {
			summary.SkippedSessions++
		} else {
			summary.Sessions++
		}
	}

	s.logger.Info("import finished",
		zap.Int("templates", summary.Templates),
		zap.Int("sessions", summary.Sessions),
		zap.Int("skipped_sessions", summary.SkippedSessions))

	if s.bus != nil {
		if summary.Templates > 0 {
			s.bus.Publish(events.TemplatesUpdated, nil)
		}
		if summary.Sessions > 0 {
			s.bus.Publish(events.WorkoutsUpdated, nil)
		}
	}
	return summary, nil
}

func importTemplate(ctx context.Context, tx *sql.Tx, store *TemplateStore, w *models.TemplateWorkout) (bool, error) {
	_, err := lookupID(ctx, tx, `SELECT id FROM template_workouts WHERE name = ?`, w.Name)
	existed := err == nil
	if err != nil && err != ErrNotFound {
		return false, err
	}

	workoutID, err := store.createWorkout(ctx, tx, w.Name, w.Difficulty, w.IsDefault)
	if err != nil {
		return false, err
	}
	for _, d := range w.Days {
		dayID, err := store.addDay(ctx, tx, workoutID, d.Name)
		if err != nil {
			return false, err
		}
		for i := range d.Exercises {
			if _, err := store.addExercise(ctx, tx, dayID, &d.Exercises[i]); err != nil {
				return false, err
			}
		}
	}
	return !existed, nil
}

// sessionInputFromLog rebuilds the input that would have produced l. Sets
// are taken in set-number order and renumbered from 1.
func sessionInputFromLog(l *models.WorkoutLog) (models.SessionInput, error) {
	in := models.NewSessionInput(l.WorkoutName, l.DayName).WithDate(l.WorkoutDate)
	for _, ex := range l.Exercises {
		sets := append([]models.WeightLog(nil), ex.WeightLogs...)
		sort.SliceStable(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })

		logged := make([]models.LoggedSet, 0, len(sets))
		for _, wl := range sets {
			logged = append(logged, models.LoggedSet{WeightLogged: wl.WeightLogged, RepsLogged: wl.RepsLogged})
		}
		in.AddExercise(ex.ExerciseName, ex.Sets, ex.Reps, logged...)
	}
	if err := in.Validate(); err != nil {
		return models.SessionInput{}, fmt.Errorf("session %s: %w", l.SessionID, err)
	}
	return *in, nil
}

// EncodeJSON renders data as indented JSON.
func EncodeJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// EncodeYAML renders data as YAML.
func EncodeYAML(data *ExportData) ([]byte, error) {
	return yaml.Marshal(data)
}

// DecodeExport parses an export in either format. JSON is tried first.
func DecodeExport(raw []byte) (*ExportData, error) {
	var data ExportData
	jsonErr := json.Unmarshal(raw, &data)
	if jsonErr == nil {
		return &data, nil
	}
	data = ExportData{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export: not JSON (%v) or YAML: %w", jsonErr, err)
	}
	return &data, nil
}
