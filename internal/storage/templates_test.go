// ABOUTME: Tests for template CRUD, uniqueness, and cascade deletes.
// ABOUTME: Verifies that change notifications fire only for real changes.
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/models"
)

func buildTemplate(t *testing.T, store *TemplateStore) (workoutID, dayID, exerciseID int64) {
	t.Helper()
	ctx := context.Background()

	workoutID, err := store.CreateWorkout(ctx, "Home Gym", models.DifficultyBeginner)
	require.NoError(t, err)
	dayID, err = store.AddDay(ctx, workoutID, "Monday")
	require.NoError(t, err)
	exerciseID, err = store.AddExercise(ctx, dayID,
		models.NewTemplateExercise("Goblet Squat", 3, 10).WithLink("https://example.com/goblet"))
	require.NoError(t, err)
	return workoutID, dayID, exerciseID
}

func TestTemplateTreeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewTemplateStore(db, nil)
	workoutID, dayID, exerciseID := buildTemplate(t, store)

	tree, err := store.GetWorkoutTree(context.Background(), "Home Gym")
	require.NoError(t, err)
	assert.Equal(t, workoutID, tree.ID)
	assert.Equal(t, models.DifficultyBeginner, tree.Difficulty)
	assert.False(t, tree.IsDefault)
	require.Len(t, tree.Days, 1)
	assert.Equal(t, dayID, tree.Days[0].ID)
	require.Len(t, tree.Days[0].Exercises, 1)

	ex := tree.Days[0].Exercises[0]
	assert.Equal(t, exerciseID, ex.ID)
	assert.Equal(t, "Goblet Squat", ex.Name)
	assert.Equal(t, 3, ex.Sets)
	assert.Equal(t, 10, ex.Reps)
	require.NotNil(t, ex.Link)
	assert.Equal(t, "https://example.com/goblet", *ex.Link)
}

func TestDuplicateInsertsAreNoOps(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	bus := events.New()
	rec := record(bus, events.TemplatesUpdated)
	store := NewTemplateStore(db, bus)

	workoutID, dayID, exerciseID := buildTemplate(t, store)
	assert.Equal(t, 3, rec.count())

	id, err := store.CreateWorkout(ctx, "Home Gym", models.DifficultyAdvanced)
	require.NoError(t, err)
	assert.Equal(t, workoutID, id)

	id, err = store.AddDay(ctx, workoutID, "Monday")
	require.NoError(t, err)
	assert.Equal(t, dayID, id)

	id, err = store.AddExercise(ctx, dayID, models.NewTemplateExercise("Goblet Squat", 5, 5))
	require.NoError(t, err)
	assert.Equal(t, exerciseID, id)

	assert.Equal(t, 1, countRows(t, db, "template_workouts"))
	assert.Equal(t, 1, countRows(t, db, "template_days"))
	assert.Equal(t, 1, countRows(t, db, "template_exercises"))
	assert.Equal(t, 3, rec.count(), "no-op inserts publish nothing")

	tree, err := store.GetWorkoutTree(ctx, "Home Gym")
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyBeginner, tree.Difficulty)
	assert.Equal(t, 3, tree.Days[0].Exercises[0].Sets)
}

func TestSameDayNameInDifferentWorkouts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)

	a, err := store.CreateWorkout(ctx, "Plan A", "")
	require.NoError(t, err)
	b, err := store.CreateWorkout(ctx, "Plan B", "")
	require.NoError(t, err)

	dayA, err := store.AddDay(ctx, a, "Day 1")
	require.NoError(t, err)
	dayB, err := store.AddDay(ctx, b, "Day 1")
	require.NoError(t, err)
	assert.NotEqual(t, dayA, dayB)
}

func TestTemplateValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)
	workoutID, dayID, _ := buildTemplate(t, store)

	tests := []struct {
		name string
		run  func() error
	}{
		{"empty workout name", func() error { _, err := store.CreateWorkout(ctx, "  ", ""); return err }},
		{"empty day name", func() error { _, err := store.AddDay(ctx, workoutID, ""); return err }},
		{"zero sets", func() error {
			_, err := store.AddExercise(ctx, dayID, models.NewTemplateExercise("Curl", 0, 10))
			return err
		}},
		{"negative reps", func() error {
			_, err := store.AddExercise(ctx, dayID, models.NewTemplateExercise("Curl", 3, -1))
			return err
		}},
		{"empty rename", func() error { return store.RenameExercise(ctx, 1, "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrInvalidTemplate)
		})
	}
}

func TestAddDayToMissingWorkout(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewTemplateStore(db, nil).AddDay(context.Background(), 4242, "Ghost Day")
	require.Error(t, err)

	var we *WriteError
	assert.ErrorAs(t, err, &we)
}

func TestDeleteWorkoutCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)
	workoutID, _, _ := buildTemplate(t, store)

	require.NoError(t, store.DeleteWorkout(ctx, workoutID))

	assert.Zero(t, countRows(t, db, "template_workouts"))
	assert.Zero(t, countRows(t, db, "template_days"), "days are removed with their workout")
	assert.Zero(t, countRows(t, db, "template_exercises"), "exercises are removed with their day")
}

func TestDeleteDayCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)
	_, dayID, _ := buildTemplate(t, store)

	require.NoError(t, store.DeleteDay(ctx, dayID))
	assert.Equal(t, 1, countRows(t, db, "template_workouts"))
	assert.Zero(t, countRows(t, db, "template_exercises"))
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)

	assert.ErrorIs(t, store.DeleteWorkout(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteDay(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteExercise(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.RenameExercise(ctx, 99, "Anything"), ErrNotFound)

	_, err := store.GetWorkoutTree(ctx, "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameExercise(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)
	_, _, exerciseID := buildTemplate(t, store)

	require.NoError(t, store.RenameExercise(ctx, exerciseID, "Front Squat"))

	tree, err := store.GetWorkoutTree(ctx, "Home Gym")
	require.NoError(t, err)
	assert.Equal(t, "Front Squat", tree.Days[0].Exercises[0].Name)
}

func TestListWorkoutsOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTemplateStore(db, nil)

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := store.CreateWorkout(ctx, name, "")
		require.NoError(t, err)
	}

	workouts, err := store.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 3)
	assert.Equal(t, "Alpha", workouts[0].Name)
	assert.Equal(t, "Mid", workouts[1].Name)
	assert.Equal(t, "Zeta", workouts[2].Name)
	assert.Empty(t, workouts[0].Days, "list does not load days")
}
