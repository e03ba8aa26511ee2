// ABOUTME: CLI commands for logged sessions.
// ABOUTME: Record sessions and read day history, session lists, and session details.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	logExercises []string
	logAt        string
	logFromPlan  bool
	logLimit     int
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"l"},
	Short:   "Record and review workout sessions",
	Long: `Record workout sessions and review what you lifted.

A session snapshots the workout, day, and exercise names at the time it is
recorded, so renaming or deleting templates never changes your history.

EXAMPLES:

  liftlog log record "Push Pull Legs" "Push Day" \
      -e "Bench Press;4x8;135x8,140x8,145x6,145x5" \
      -e "Overhead Press;3x10;95x10,95x9"
  liftlog log record "Push Pull Legs" "Push Day" --at "yesterday 6pm" -e "Dips;3x12"
  liftlog log days "Push Pull Legs"
  liftlog log show "Push Pull Legs" "Push Day"
  liftlog log list -n 5
  liftlog log get 12
  liftlog log delete 12`,
}

var logRecordCmd = &cobra.Command{
	Use:   "record <workout> <day>",
	Short: "Record a completed session",
	Long: `Record a completed session in one step.

Each -e flag describes one exercise as "Name;SETSxREPS;WEIGHTxREPS,...".
The third part lists the sets you completed, in order, and may be omitted.

With --from-plan, exercises are taken from the template day and any -e flags
replace matching exercises by name.

--at accepts YYYY-MM-DD, YYYY-MM-DD HH:MM, RFC 3339, or phrases like
"yesterday at 6pm". It defaults to now.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.NewSessionInput(args[0], args[1])

		if logAt != "" {
			t, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			in.WithDate(t)
		}

		given := make(map[string]models.ExerciseInput, len(logExercises))
		var order []string
		for _, spec := range logExercises {
			ex, err := parseExerciseSpec(spec)
			if err != nil {
				return err
			}
			if _, dup := given[ex.Name]; dup {
				return fmt.Errorf("exercise %q given more than once", ex.Name)
			}
			given[ex.Name] = ex
			order = append(order, ex.Name)
		}

		if logFromPlan {
			day, err := findDay(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			for _, planned := range day.Exercises {
				if ex, ok := given[planned.Name]; ok {
					in.Exercises = append(in.Exercises, ex)
					delete(given, planned.Name)
					continue
				}
				in.AddExercise(planned.Name, planned.Sets, planned.Reps)
			}
		}
		for _, name := range order {
			if ex, ok := given[name]; ok {
				in.Exercises = append(in.Exercises, ex)
				delete(given, name)
			}
		}

		log, err := logStore.RecordSession(cmd.Context(), *in)
		if err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		sets := 0
		for _, ex := range log.Exercises {
			sets += len(ex.WeightLogs)
		}
		color.Green("✓ Recorded %s / %s", log.WorkoutName, log.DayName)
		fmt.Printf("  %s %s  %d exercise(s), %d set(s)\n",
			color.New(color.Faint).Sprintf("id %d", log.ID),
			log.WorkoutDate.Local().Format("2006-01-02 15:04"),
			len(log.Exercises), sets)
		return nil
	},
}

var logDaysCmd = &cobra.Command{
	Use:   "days [workout]",
	Short: "List logged days of a workout",
	Long: `List the days of a workout that have at least one logged session,
in the order they were first logged. Without a workout, list every workout
that has logged sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			workouts, err := logStore.ListLoggedWorkouts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list logged workouts: %w", err)
			}
			if len(workouts) == 0 {
				fmt.Println("No sessions logged yet.")
				return nil
			}
			for _, w := range workouts {
				fmt.Println(w)
			}
			return nil
		}

		days := logStore.ListLoggedDays(cmd.Context(), args[0])
		if len(days) == 0 {
			fmt.Println("No logged days found.")
			return nil
		}
		for _, d := range days {
			fmt.Println(d)
		}
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show <workout> <day>",
	Short: "Show every set logged for a day",
	Long: `Show every set logged for a workout day across all sessions, grouped by
exercise and ordered by set number, then date.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := logStore.ListLogsForDay(cmd.Context(), args[0], args[1])
		if len(rows) == 0 {
			fmt.Println("No logs found.")
			return nil
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		current := ""
		for _, r := range rows {
			if r.ExerciseName != current {
				if current != "" {
					fmt.Println()
				}
				current = r.ExerciseName
				bold.Println(current)
			}
			fmt.Printf("  %s %s %s x %d\n",
				faint.Sprint(r.WorkoutDate.Local().Format("2006-01-02")),
				padRight("set "+strconv.Itoa(r.SetNumber), 7),
				formatWeight(r.WeightLogged),
				r.RepsLogged)
		}
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := logStore.ListWorkoutLogs(cmd.Context(), logLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(padRight(strconv.FormatInt(l.ID, 10), 5)),
				faint.Sprint(l.WorkoutDate.Local().Format("2006-01-02 15:04")),
				padRight(truncate(l.WorkoutName, 24), 24),
				l.DayName)
		}
		return nil
	},
}

var logGetCmd = &cobra.Command{
	Use:   "get <session-id>",
	Short: "Show one session with all of its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		l, err := loadSession(cmd.Context(), id)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Printf("%s / %s\n", l.WorkoutName, l.DayName)
		fmt.Printf("  %s %s\n", l.WorkoutDate.Local().Format("2006-01-02 15:04"), faint.Sprint(l.SessionID.String()[:8]))
		for _, ex := range l.Exercises {
			fmt.Printf("\n  %s %s\n", ex.ExerciseName, faint.Sprintf("(%dx%d)", ex.Sets, ex.Reps))
			if len(ex.WeightLogs) == 0 {
				fmt.Println(faint.Sprint("    no sets logged"))
				continue
			}
			for _, w := range ex.WeightLogs {
				fmt.Printf("    %d. %s x %d\n", w.SetNumber, formatWeight(w.WeightLogged), w.RepsLogged)
			}
		}
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <session-id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a session and its sets",
	Long: `Delete a logged session by its id, as shown by 'log list'.

CAUTION:

  This permanently deletes the session and every set in it. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		l, err := loadSession(cmd.Context(), id)
		if err != nil {
			return err
		}

		if err := logStore.DeleteWorkoutLog(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Yellow("✗ Deleted %s / %s", l.WorkoutName, l.DayName)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprintf("id %d", l.ID),
			l.WorkoutDate.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

// loadSession reads one session, telling a missing id apart from a failed read.
func loadSession(ctx context.Context, id int64) (*models.WorkoutLog, error) {
	l, err := logStore.GetWorkoutLog(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("session not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return l, nil
}

func init() {
	logRecordCmd.Flags().StringArrayVarP(&logExercises, "exercise", "e", nil, `exercise as "Name;SETSxREPS;WEIGHTxREPS,..." (repeatable)`)
	logRecordCmd.Flags().StringVar(&logAt, "at", "", "session time (default: now)")
	logRecordCmd.Flags().BoolVar(&logFromPlan, "from-plan", false, "start from the template day's exercises")

	logListCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "max number of results")

	logCmd.AddCommand(logRecordCmd)
	logCmd.AddCommand(logDaysCmd)
	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logGetCmd)
	logCmd.AddCommand(logDeleteCmd)
	rootCmd.AddCommand(logCmd)
}
