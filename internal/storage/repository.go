// ABOUTME: Capability interfaces over the template and log stores.
// ABOUTME: Consumers depend on the narrowest interface they need.
package storage

import (
	"context"

	"github.com/harperreed/liftlog/internal/models"
)

// TemplateRepository is the template read/write surface.
type TemplateRepository interface {
	CreateWorkout(ctx context.Context, name string, difficulty models.Difficulty) (int64, error)
	AddDay(ctx context.Context, workoutID int64, name string) (int64, error)
	AddExercise(ctx context.Context, dayID int64, ex *models.TemplateExercise) (int64, error)
	RenameExercise(ctx context.Context, exerciseID int64, newName string) error
	DeleteWorkout(ctx context.Context, workoutID int64) error
	DeleteDay(ctx context.Context, dayID int64) error
	DeleteExercise(ctx context.Context, exerciseID int64) error
	ListWorkouts(ctx context.Context) ([]*models.TemplateWorkout, error)
	GetWorkoutTree(ctx context.Context, name string) (*models.TemplateWorkout, error)
}

// DayLogReader is the strict read used by the day cache.
type DayLogReader interface {
	LogsForDay(ctx context.Context, workoutName, dayName string) ([]models.DayLogEntry, error)
}

// LogRepository is the session read/write surface.
type LogRepository interface {
	DayLogReader

	RecordSession(ctx context.Context, in models.SessionInput) (*models.WorkoutLog, error)
	LoggedDays(ctx context.Context, workoutName string) ([]string, error)
	ListLoggedDays(ctx context.Context, workoutName string) []string
	ListLogsForDay(ctx context.Context, workoutName, dayName string) []models.DayLogEntry
	ListLoggedWorkouts(ctx context.Context) ([]string, error)
	ListWorkoutLogs(ctx context.Context, limit int) ([]*models.WorkoutLog, error)
	GetWorkoutLog(ctx context.Context, id int64) (*models.WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, id int64) error

	// Export/Import
	Export(ctx context.Context) (*ExportData, error)
	Import(ctx context.Context, data *ExportData) (ImportSummary, error)
}

var (
	_ TemplateRepository = (*TemplateStore)(nil)
	_ LogRepository      = (*LogStore)(nil)
)
