// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Time parsing, exercise spec parsing, and column formatting.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/harperreed/liftlog/internal/models"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts fixed layouts first, then English phrases such as
// "yesterday at 6pm" relative to now.
func parseTime(s string) (time.Time, error) {
	return parseTimeAt(s, time.Now())
}

func parseTimeAt(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized time: %q", s)
	}
	return r.Time, nil
}

// parseExerciseSpec reads "Name;SETSxREPS;WEIGHTxREPS,WEIGHTxREPS".
// The logged sets part is optional.
func parseExerciseSpec(spec string) (models.ExerciseInput, error) {
	parts := strings.Split(spec, ";")
	if len(parts) < 2 || len(parts) > 3 {
		return models.ExerciseInput{}, fmt.Errorf("invalid exercise %q: want \"Name;SETSxREPS;WEIGHTxREPS,...\"", spec)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return models.ExerciseInput{}, fmt.Errorf("invalid exercise %q: name is required", spec)
	}

	sets, reps, err := splitPair(parts[1])
	if err != nil {
		return models.ExerciseInput{}, fmt.Errorf("invalid prescription in %q: %w", spec, err)
	}
	s, err := strconv.Atoi(sets)
	if err != nil {
		return models.ExerciseInput{}, fmt.Errorf("invalid sets in %q", spec)
	}
	r, err := strconv.Atoi(reps)
	if err != nil {
		return models.ExerciseInput{}, fmt.Errorf("invalid reps in %q", spec)
	}

	ex := models.ExerciseInput{Name: name, Sets: s, Reps: r}
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		for _, set := range strings.Split(parts[2], ",") {
			weight, reps, err := splitPair(set)
			if err != nil {
				return models.ExerciseInput{}, fmt.Errorf("invalid set %q: %w", set, err)
			}
			w, err := strconv.ParseFloat(weight, 64)
			if err != nil {
				return models.ExerciseInput{}, fmt.Errorf("invalid weight in set %q", set)
			}
			n, err := strconv.Atoi(reps)
			if err != nil {
				return models.ExerciseInput{}, fmt.Errorf("invalid reps in set %q", set)
			}
			ex.LoggedSets = append(ex.LoggedSets, models.LoggedSet{WeightLogged: w, RepsLogged: n})
		}
	}
	return ex, nil
}

func splitPair(s string) (string, string, error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return "", "", fmt.Errorf("expected AxB, got %q", s)
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}

func formatWeight(w float64) string {
	unit := "lb"
	if cfg != nil {
		unit = cfg.GetWeightUnit()
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + " " + unit
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
