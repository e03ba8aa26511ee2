// ABOUTME: CLI commands for workout templates.
// ABOUTME: List, show, edit, delete, and reset the workout/day/exercise trees.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	templateDifficulty string
	templateSets       int
	templateReps       int
	templateLink       string
	resetDiscard       bool
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl", "t"},
	Short:   "Manage workout templates",
	Long: `Manage workout templates.

A template is a workout (e.g. "Push Pull Legs") made of days (e.g. "Push Day"),
each day a list of exercises with a prescribed number of sets and reps.

Names are unique: workout names globally, day names within a workout, and
exercise names within a day. Adding something that already exists does nothing.

EXAMPLES:

  liftlog templates list
  liftlog templates show "Push Pull Legs"
  liftlog templates add-workout "My Plan" --difficulty Advanced
  liftlog templates add-day "My Plan" "Upper"
  liftlog templates add-exercise "My Plan" "Upper" "Pull Up" --sets 3 --reps 8
  liftlog templates rename-exercise 42 "Weighted Pull Up"
  liftlog templates delete-day "My Plan" "Upper"`,
}

var templatesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workout templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := templateStore.ListWorkouts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			tag := ""
			if !w.IsDefault {
				tag = faint.Sprint(" (custom)")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(padRight(strconv.FormatInt(w.ID, 10), 4)),
				padRight(w.Name, 28),
				string(w.Difficulty),
				tag)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <workout>",
	Short: "Show a workout with its days and exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := templateStore.GetWorkoutTree(cmd.Context(), args[0])
		if err != nil {
			return templateLookupError(args[0], err)
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)

		bold.Printf("%s\n", w.Name)
		fmt.Printf("  Difficulty: %s\n", w.Difficulty)
		if len(w.Days) == 0 {
			fmt.Println("  No days.")
			return nil
		}
		for _, d := range w.Days {
			fmt.Println()
			bold.Printf("  %s\n", d.Name)
			for _, ex := range d.Exercises {
				link := ""
				if ex.Link != nil {
					link = faint.Sprintf(" %s", truncate(*ex.Link, 48))
				}
				fmt.Printf("    %s %s %dx%d%s\n",
					faint.Sprint(padRight(strconv.FormatInt(ex.ID, 10), 5)),
					padRight(ex.Name, 28),
					ex.Sets, ex.Reps,
					link)
			}
		}
		return nil
	},
}

var templatesAddWorkoutCmd = &cobra.Command{
	Use:   "add-workout <name>",
	Short: "Create a workout template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, ok := models.ParseDifficulty(templateDifficulty)
		if !ok {
			return fmt.Errorf("unknown difficulty: %s (use Beginner, Intermediate, or Advanced)", templateDifficulty)
		}

		id, err := templateStore.CreateWorkout(cmd.Context(), args[0], difficulty)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Workout %s", strings.TrimSpace(args[0]))
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprintf("id %d", id), difficulty)
		return nil
	},
}

var templatesAddDayCmd = &cobra.Command{
	Use:   "add-day <workout> <day>",
	Short: "Add a day to a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := templateStore.GetWorkoutTree(cmd.Context(), args[0])
		if err != nil {
			return templateLookupError(args[0], err)
		}

		id, err := templateStore.AddDay(cmd.Context(), w.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to add day: %w", err)
		}

		color.Green("✓ Day %s in %s", strings.TrimSpace(args[1]), w.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("id %d", id))
		return nil
	},
}

var templatesAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <workout> <day> <exercise>",
	Short: "Add an exercise to a day",
	Long: `Add an exercise to a workout day.

EXAMPLES:

  liftlog templates add-exercise "My Plan" "Upper" "Pull Up" --sets 3 --reps 8
  liftlog templates add-exercise "My Plan" "Upper" "Face Pull" -s 3 -r 15 \
      --link https://example.com/face-pull`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := findDay(cmd, args[0], args[1])
		if err != nil {
			return err
		}

		ex := models.NewTemplateExercise(args[2], templateSets, templateReps).WithLink(templateLink)
		id, err := templateStore.AddExercise(cmd.Context(), day.ID, ex)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Exercise %s in %s", strings.TrimSpace(args[2]), day.Name)
		fmt.Printf("  %s %dx%d\n", color.New(color.Faint).Sprintf("id %d", id), templateSets, templateReps)
		return nil
	},
}

var templatesRenameExerciseCmd = &cobra.Command{
	Use:   "rename-exercise <exercise-id> <new-name>",
	Short: "Rename a template exercise",
	Long: `Rename a template exercise by the id shown in 'templates show'.

Sessions already logged keep the name they were recorded with.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := templateStore.RenameExercise(cmd.Context(), id, args[1]); err != nil {
			return fmt.Errorf("failed to rename exercise: %w", err)
		}
		color.Green("✓ Renamed exercise %d to %s", id, strings.TrimSpace(args[1]))
		return nil
	},
}

var templatesDeleteWorkoutCmd = &cobra.Command{
	Use:   "delete-workout <workout>",
	Short: "Delete a workout with its days and exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := templateStore.GetWorkoutTree(cmd.Context(), args[0])
		if err != nil {
			return templateLookupError(args[0], err)
		}
		if err := templateStore.DeleteWorkout(cmd.Context(), w.ID); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		color.Yellow("✗ Deleted workout %s", w.Name)
		return nil
	},
}

var templatesDeleteDayCmd = &cobra.Command{
	Use:   "delete-day <workout> <day>",
	Short: "Delete a day with its exercises",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := findDay(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		if err := templateStore.DeleteDay(cmd.Context(), day.ID); err != nil {
			return fmt.Errorf("failed to delete day: %w", err)
		}
		color.Yellow("✗ Deleted day %s", day.Name)
		return nil
	},
}

var templatesDeleteExerciseCmd = &cobra.Command{
	Use:   "delete-exercise <exercise-id>",
	Short: "Delete a template exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := templateStore.DeleteExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		color.Yellow("✗ Deleted exercise %d", id)
		return nil
	},
}

var templatesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the starter templates",
	Long: `Drop every template and reseed the starter catalogue.

Logged sessions are never touched. If you created your own workouts, the
reset refuses to run unless --discard-user-templates is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := seeder.ResetTemplates(cmd.Context(), storage.ResetOptions{AllowDataLoss: resetDiscard})
		if errors.Is(err, storage.ErrResetWouldDiscard) {
			color.Yellow("⚠ %v", err)
			fmt.Println("  Re-run with --discard-user-templates to reset anyway.")
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to reset templates: %w", err)
		}

		color.Green("✓ Templates reset")
		fmt.Printf("  %d workouts, %d days, %d exercises seeded\n",
			summary.Seeded.Workouts, summary.Seeded.Days, summary.Seeded.Exercises)
		if summary.DiscardedUserWorkouts > 0 {
			fmt.Printf("  %d custom workout(s) discarded\n", summary.DiscardedUserWorkouts)
		}
		return nil
	},
}

func findDay(cmd *cobra.Command, workout, day string) (*models.TemplateDay, error) {
	w, err := templateStore.GetWorkoutTree(cmd.Context(), workout)
	if err != nil {
		return nil, templateLookupError(workout, err)
	}
	for i := range w.Days {
		if w.Days[i].Name == strings.TrimSpace(day) {
			return &w.Days[i], nil
		}
	}
	return nil, fmt.Errorf("day not found: %s in %s", day, w.Name)
}

func templateLookupError(name string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("workout not found: %s", name)
	}
	return fmt.Errorf("failed to get workout: %w", err)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

func init() {
	templatesAddWorkoutCmd.Flags().StringVarP(&templateDifficulty, "difficulty", "d", "Beginner", "Beginner, Intermediate, or Advanced")

	templatesAddExerciseCmd.Flags().IntVarP(&templateSets, "sets", "s", 3, "prescribed sets")
	templatesAddExerciseCmd.Flags().IntVarP(&templateReps, "reps", "r", 10, "prescribed reps per set")
	templatesAddExerciseCmd.Flags().StringVar(&templateLink, "link", "", "demo link")

	templatesResetCmd.Flags().BoolVar(&resetDiscard, "discard-user-templates", false, "allow deleting custom workouts")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesAddWorkoutCmd)
	templatesCmd.AddCommand(templatesAddDayCmd)
	templatesCmd.AddCommand(templatesAddExerciseCmd)
	templatesCmd.AddCommand(templatesRenameExerciseCmd)
	templatesCmd.AddCommand(templatesDeleteWorkoutCmd)
	templatesCmd.AddCommand(templatesDeleteDayCmd)
	templatesCmd.AddCommand(templatesDeleteExerciseCmd)
	templatesCmd.AddCommand(templatesResetCmd)
	rootCmd.AddCommand(templatesCmd)
}
