// ABOUTME: Session log models: executed workouts and their per-set results.
// ABOUTME: Log rows hold snapshot copies of template names, sets, and reps.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is one executed session. DayName and WorkoutName are snapshots.
type WorkoutLog struct {
	ID          int64            `json:"id" yaml:"id"`
	SessionID   uuid.UUID        `json:"session_id" yaml:"session_id"`
	WorkoutDate time.Time        `json:"workout_date" yaml:"workout_date"`
	DayName     string           `json:"day_name" yaml:"day_name"`
	WorkoutName string           `json:"workout_name" yaml:"workout_name"`
	Exercises   []LoggedExercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated by GetWorkoutLog
}

// LoggedExercise is the snapshot of an exercise performed in a session.
type LoggedExercise struct {
	ID           int64       `json:"id" yaml:"id"`
	WorkoutLogID int64       `json:"workout_log_id" yaml:"workout_log_id"`
	ExerciseName string      `json:"exercise_name" yaml:"exercise_name"`
	Sets         int         `json:"sets" yaml:"sets"`
	Reps         int         `json:"reps" yaml:"reps"`
	WeightLogs   []WeightLog `json:"weight_logs,omitempty" yaml:"weight_logs,omitempty"`
}

// WeightLog is one completed set.
type WeightLog struct {
	ID               int64   `json:"id" yaml:"id"`
	WorkoutLogID     int64   `json:"workout_log_id" yaml:"workout_log_id"`
	LoggedExerciseID int64   `json:"logged_exercise_id" yaml:"logged_exercise_id"`
	ExerciseName     string  `json:"exercise_name" yaml:"exercise_name"`
	SetNumber        int     `json:"set_number" yaml:"set_number"`
	WeightLogged     float64 `json:"weight_logged" yaml:"weight_logged"`
	RepsLogged       int     `json:"reps_logged" yaml:"reps_logged"`
}

// DayLogEntry is one row of a day's history: a set joined to its session.
type DayLogEntry struct {
	WorkoutLogID int64     `json:"workout_log_id"`
	WorkoutDate  time.Time `json:"workout_date"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	WeightLogged float64   `json:"weight_logged"`
	RepsLogged   int       `json:"reps_logged"`
}

// LoggedSet is the user's result for one set.
type LoggedSet struct {
	WeightLogged float64 `json:"weight_logged" yaml:"weight_logged"`
	RepsLogged   int     `json:"reps_logged" yaml:"reps_logged"`
}

// ExerciseInput is an exercise as performed, with its completed sets in order.
type ExerciseInput struct {
	Name       string      `json:"name" yaml:"name"`
	Sets       int         `json:"sets" yaml:"sets"`
	Reps       int         `json:"reps" yaml:"reps"`
	LoggedSets []LoggedSet `json:"logged_sets" yaml:"logged_sets"`
}

// SessionInput describes a session to record.
type SessionInput struct {
	WorkoutName string          `json:"workout_name" yaml:"workout_name"`
	DayName     string          `json:"day_name" yaml:"day_name"`
	WorkoutDate time.Time       `json:"workout_date,omitempty" yaml:"workout_date,omitempty"` // Zero means now
	Exercises   []ExerciseInput `json:"exercises" yaml:"exercises"`
}

// ErrInvalidSession is returned when a SessionInput fails validation.
var ErrInvalidSession = errors.New("invalid session")

// NewSessionInput starts a session for the given workout and day.
func NewSessionInput(workoutName, dayName string) *SessionInput {
	return &SessionInput{WorkoutName: workoutName, DayName: dayName}
}

// AddExercise appends an exercise with its logged sets.
func (s *SessionInput) AddExercise(name string, sets, reps int, logged ...LoggedSet) *SessionInput {
	s.Exercises = append(s.Exercises, ExerciseInput{
		Name:       name,
		Sets:       sets,
		Reps:       reps,
		LoggedSets: logged,
	})
	return s
}

// WithDate sets the session timestamp.
func (s *SessionInput) WithDate(t time.Time) *SessionInput {
	s.WorkoutDate = t
	return s
}

// Validate checks names and numbers. Set numbers are not part of the input;
// they are assigned from each set's position when the session is recorded.
func (s *SessionInput) Validate() error {
	if strings.TrimSpace(s.WorkoutName) == "" {
		return fmt.Errorf("%w: workout name is required", ErrInvalidSession)
	}
	if strings.TrimSpace(s.DayName) == "" {
		return fmt.Errorf("%w: day name is required", ErrInvalidSession)
	}
	if len(s.Exercises) == 0 {
		return fmt.Errorf("%w: at least one exercise is required", ErrInvalidSession)
	}
	seen := make(map[string]bool, len(s.Exercises))
	for i, ex := range s.Exercises {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalidSession, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: exercise %q appears twice", ErrInvalidSession, name)
		}
		seen[name] = true
		if ex.Sets <= 0 || ex.Reps <= 0 {
			return fmt.Errorf("%w: %s needs positive sets and reps", ErrInvalidSession, name)
		}
		for j, set := range ex.LoggedSets {
			if math.IsInf(set.WeightLogged, 0) || math.IsNaN(set.WeightLogged) {
				return fmt.Errorf("%w: %s set %d has a non-finite weight", ErrInvalidSession, name, j+1)
			}
			if set.WeightLogged < 0 {
				return fmt.Errorf("%w: %s set %d has negative weight", ErrInvalidSession, name, j+1)
			}
			if set.RepsLogged < 0 {
				return fmt.Errorf("%w: %s set %d has negative reps", ErrInvalidSession, name, j+1)
			}
		}
	}
	return nil
}
