// ABOUTME: Template models for reusable workout definitions.
// ABOUTME: A TemplateWorkout owns TemplateDays, which own TemplateExercises.
package models

import "strings"

// Difficulty labels a template workout for the user.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// AllDifficulties returns every known difficulty, easiest first.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty matches s case-insensitively against the known difficulties.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range AllDifficulties() {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return "", false
}

// TemplateWorkout is the root of a template tree. Name is unique.
type TemplateWorkout struct {
	ID         int64         `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Difficulty Difficulty    `json:"difficulty" yaml:"difficulty"`
	IsDefault  bool          `json:"is_default" yaml:"is_default"`
	Days       []TemplateDay `json:"days,omitempty" yaml:"days,omitempty"` // Populated by GetWorkoutTree
}

// TemplateDay is one training day within a workout. (WorkoutID, Name) is unique.
type TemplateDay struct {
	ID        int64              `json:"id" yaml:"id"`
	WorkoutID int64              `json:"workout_id" yaml:"workout_id"`
	Name      string             `json:"name" yaml:"name"`
	Exercises []TemplateExercise `json:"exercises,omitempty" yaml:"exercises,omitempty"`
}

// TemplateExercise is a prescribed exercise. (DayID, Name) is unique.
type TemplateExercise struct {
	ID    int64   `json:"id" yaml:"id"`
	DayID int64   `json:"day_id" yaml:"day_id"`
	Name  string  `json:"name" yaml:"name"`
	Sets  int     `json:"sets" yaml:"sets"`
	Reps  int     `json:"reps" yaml:"reps"`
	Link  *string `json:"link,omitempty" yaml:"link,omitempty"`
}

// NewTemplateExercise creates an exercise prescription without a link.
func NewTemplateExercise(name string, sets, reps int) *TemplateExercise {
	return &TemplateExercise{Name: name, Sets: sets, Reps: reps}
}

// WithLink attaches a demo link to the exercise.
func (e *TemplateExercise) WithLink(link string) *TemplateExercise {
	if link == "" {
		e.Link = nil
		return e
	}
	e.Link = &link
	return e
}

// Valid reports whether the exercise has a name and positive sets and reps.
func (e *TemplateExercise) Valid() bool {
	return strings.TrimSpace(e.Name) != "" && e.Sets > 0 && e.Reps > 0
}
