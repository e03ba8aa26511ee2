// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parseTime, exercise specs, formatting helpers, and commands end to end.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/prefs"
	"github.com/harperreed/liftlog/internal/storage"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "date and time with space",
			input: "2025-01-31 08:30",
		},
		{
			name:  "date and time with T",
			input: "2025-01-31T08:30",
		},
		{
			name:  "date only",
			input: "2025-01-31",
		},
		{
			name:  "RFC3339",
			input: "2025-01-31T08:30:00Z",
		},
		{
			name:  "RFC3339 with offset",
			input: "2025-01-31T08:30:00+05:00",
		},
		{
			name:  "natural language",
			input: "yesterday",
		},
		{
			name:    "invalid random string",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}

			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseTimeValues(t *testing.T) {
	result, err := parseTime("2025-06-15")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}

	if result.Year() != 2025 || result.Month() != time.June || result.Day() != 15 {
		t.Errorf("parseTime returned wrong date: got %v", result)
	}
}

func TestParseTimeRelative(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	result, err := parseTimeAt("yesterday", base)
	if err != nil {
		t.Fatalf("parseTimeAt failed: %v", err)
	}
	if result.Day() != 9 || result.Month() != time.March {
		t.Errorf("parseTimeAt(yesterday) = %v, want March 9", result)
	}
}

func TestParseExerciseSpec(t *testing.T) {
	ex, err := parseExerciseSpec("Bench Press;4x8;135x8,140x6, 145X5")
	if err != nil {
		t.Fatalf("parseExerciseSpec failed: %v", err)
	}
	if ex.Name != "Bench Press" || ex.Sets != 4 || ex.Reps != 8 {
		t.Errorf("got %+v", ex)
	}
	want := []models.LoggedSet{{WeightLogged: 135, RepsLogged: 8}, {WeightLogged: 140, RepsLogged: 6}, {WeightLogged: 145, RepsLogged: 5}}
	if len(ex.LoggedSets) != len(want) {
		t.Fatalf("got %d sets, want %d", len(ex.LoggedSets), len(want))
	}
	for i := range want {
		if ex.LoggedSets[i] != want[i] {
			t.Errorf("set %d = %+v, want %+v", i+1, ex.LoggedSets[i], want[i])
		}
	}
}

func TestParseExerciseSpecWithoutSets(t *testing.T) {
	ex, err := parseExerciseSpec("Dips;3x12")
	if err != nil {
		t.Fatalf("parseExerciseSpec failed: %v", err)
	}
	if len(ex.LoggedSets) != 0 {
		t.Errorf("expected no logged sets, got %d", len(ex.LoggedSets))
	}

	ex, err = parseExerciseSpec("Dips;3x12;")
	if err != nil {
		t.Fatalf("trailing separator should be accepted: %v", err)
	}
	if len(ex.LoggedSets) != 0 {
		t.Errorf("expected no logged sets, got %d", len(ex.LoggedSets))
	}
}

func TestParseExerciseSpecErrors(t *testing.T) {
	tests := []string{
		"",
		"Bench Press",
		";4x8",
		"Bench Press;four x 8",
		"Bench Press;4-8",
		"Bench Press;4x8;heavy",
		"Bench Press;4x8;135x",
		"Bench Press;4x8;1;2",
	}
	for _, spec := range tests {
		if _, err := parseExerciseSpec(spec); err == nil {
			t.Errorf("parseExerciseSpec(%q) expected error", spec)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	if got := formatWeight(137.5); !strings.HasPrefix(got, "137.5 ") {
		t.Errorf("formatWeight(137.5) = %q", got)
	}
	if got := formatWeight(135); !strings.HasPrefix(got, "135 ") {
		t.Errorf("formatWeight(135) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is a long string", 10, "hello w..."},
		{"abcdefghij", 6, "abc..."},
		{"", 10, ""},
		{"hello", 3, "..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 5, "     "},
		{"hello", 0, "hello"},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "liftlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "liftlog")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}

	want := []string{"init", "migrate", "templates", "log", "export", "import", "prefs", "unlock", "mcp", "version", "install-skill"}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		parent string
		want   []string
	}{
		{"templates", []string{"list", "show", "add-workout", "add-day", "add-exercise", "rename-exercise", "delete-workout", "delete-day", "delete-exercise", "reset"}},
		{"log", []string{"record", "days", "show", "list", "get", "delete"}},
		{"prefs", []string{"show", "set"}},
	}
	for _, tt := range tests {
		parent, _, err := rootCmd.Find([]string{tt.parent})
		if err != nil {
			t.Fatalf("Find(%s) failed: %v", tt.parent, err)
		}
		names := make(map[string]bool)
		for _, c := range parent.Commands() {
			names[c.Name()] = true
		}
		for _, name := range tt.want {
			if !names[name] {
				t.Errorf("Expected %s subcommand %q", tt.parent, name)
			}
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd  interface{ Flags() *pflag.FlagSet }
		flag string
	}{
		{logRecordCmd, "exercise"},
		{logRecordCmd, "at"},
		{logRecordCmd, "from-plan"},
		{logListCmd, "limit"},
		{exportCmd, "output"},
		{exportCmd, "workout"},
		{exportCmd, "since"},
		{templatesAddWorkoutCmd, "difficulty"},
		{templatesAddExerciseCmd, "sets"},
		{templatesAddExerciseCmd, "reps"},
		{templatesAddExerciseCmd, "link"},
		{templatesResetCmd, "discard-user-templates"},
		{migrateCmd, "list"},
		{unlockCmd, "revoke"},
	}
	for _, tt := range tests {
		if tt.cmd.Flags().Lookup(tt.flag) == nil {
			t.Errorf("Expected --%s flag", tt.flag)
		}
	}

	if f := logListCmd.Flags().Lookup("limit"); f.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", f.DefValue)
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "markdown": false}
	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}
	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
}

func TestSkipsStorage(t *testing.T) {
	if !skipsStorage(prefsSetCmd) {
		t.Error("prefs set should not open the database")
	}
	if !skipsStorage(unlockCmd) {
		t.Error("unlock should not open the database")
	}
	if skipsStorage(logRecordCmd) {
		t.Error("log record needs the database")
	}
}

// setupTestCLI points the data and config directories at a temp dir and
// resets flag state left over from earlier runs. It returns the data dir.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("LIFTLOG_DATA_DIR", "")

	resetFlags()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	return filepath.Join(tmpDir, "liftlog")
}

func resetFlags() {
	if f := logRecordCmd.Flags().Lookup("exercise"); f != nil {
		_ = f.Value.(pflag.SliceValue).Replace(nil)
	}
	logExercises = nil
	logAt = ""
	logFromPlan = false
	logLimit = 20
	exportOutput = ""
	exportWorkout = ""
	exportSince = ""
	templateDifficulty = "Beginner"
	templateSets = 3
	templateReps = 10
	templateLink = ""
	resetDiscard = false
	migrateList = false
	unlockRevoke = false
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return Execute()
}

// openTestStores opens the database the CLI wrote to. Commands must have finished.
func openTestStores(t *testing.T, dataDir string) (*storage.TemplateStore, *storage.LogStore) {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, storage.DBFileName))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewTemplateStore(db, nil), storage.NewLogStore(db, nil, nil)
}

func TestInitSeedsTemplates(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := run(t, "init"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	templates, _ := openTestStores(t, dataDir)
	workouts, err := templates.ListWorkouts(context.Background())
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 4 {
		t.Errorf("Expected 4 seeded workouts, got %d", len(workouts))
	}
}

func TestLogRecordCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	err := run(t, "log", "record", "Push Pull Legs", "Push Day",
		"-e", "Bench Press;4x8;135x8,140x6",
		"-e", "Overhead Press;3x10",
		"--at", "2025-02-01 07:30")
	if err != nil {
		t.Fatalf("log record failed: %v", err)
	}

	_, logs := openTestStores(t, dataDir)
	ctx := context.Background()

	sessions, err := logs.ListWorkoutLogs(ctx, 0)
	if err != nil {
		t.Fatalf("ListWorkoutLogs failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	want := time.Date(2025, time.February, 1, 7, 30, 0, 0, time.Local)
	if !sessions[0].WorkoutDate.Equal(want) {
		t.Errorf("WorkoutDate = %v, want %v", sessions[0].WorkoutDate, want)
	}

	rows := logs.ListLogsForDay(ctx, "Push Pull Legs", "Push Day")
	if len(rows) != 2 {
		t.Fatalf("Expected 2 logged sets, got %d", len(rows))
	}
	if rows[0].SetNumber != 1 || rows[0].WeightLogged != 135 || rows[1].SetNumber != 2 || rows[1].RepsLogged != 6 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestLogRecordFromPlan(t *testing.T) {
	dataDir := setupTestCLI(t)

	err := run(t, "log", "record", "Push Pull Legs", "Push Day", "--from-plan",
		"-e", "Bench Press;4x8;135x8")
	if err != nil {
		t.Fatalf("log record --from-plan failed: %v", err)
	}

	templates, logs := openTestStores(t, dataDir)
	ctx := context.Background()

	tree, err := templates.GetWorkoutTree(ctx, "Push Pull Legs")
	if err != nil {
		t.Fatalf("GetWorkoutTree failed: %v", err)
	}
	var planned int
	for _, d := range tree.Days {
		if d.Name == "Push Day" {
			planned = len(d.Exercises)
		}
	}

	sessions, _ := logs.ListWorkoutLogs(ctx, 1)
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	full, err := logs.GetWorkoutLog(ctx, sessions[0].ID)
	if err != nil {
		t.Fatalf("GetWorkoutLog failed: %v", err)
	}
	if len(full.Exercises) != planned {
		t.Errorf("Expected %d exercises from the plan, got %d", planned, len(full.Exercises))
	}
	if full.Exercises[0].ExerciseName != "Bench Press" || len(full.Exercises[0].WeightLogs) != 1 {
		t.Errorf("Expected Bench Press with one set first, got %+v", full.Exercises[0])
	}
}

func TestLogRecordRejectsBadInput(t *testing.T) {
	dataDir := setupTestCLI(t)

	tests := [][]string{
		{"log", "record", "Push Pull Legs", "Push Day"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;0x8"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;-5x8"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8", "--at", "not a date"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;3x5;infx5"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;3x5;nanx5"},
		{"log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8", "-e", "Bench Press;3x5;225x5"},
		{"log", "record", "Push Pull Legs", "Push Day", "--from-plan", "-e", "Bench Press;4x8;135x8", "-e", " Bench Press ;3x5"},
	}
	for _, args := range tests {
		if err := run(t, args...); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}

	_, logs := openTestStores(t, dataDir)
	sessions, _ := logs.ListWorkoutLogs(context.Background(), 0)
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions after rejected input, got %d", len(sessions))
	}
}

func TestLogReadCommands(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8"); err != nil {
		t.Fatalf("log record failed: %v", err)
	}

	for _, args := range [][]string{
		{"log", "days"},
		{"log", "days", "Push Pull Legs"},
		{"log", "show", "Push Pull Legs", "Push Day"},
		{"log", "show", "Push Pull Legs", "Leg Day"},
		{"log", "list"},
		{"log", "list", "-n", "1"},
		{"log", "get", "1"},
	} {
		if err := run(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	if err := run(t, "log", "get", "999"); err == nil {
		t.Error("Expected error for missing session")
	}
	if err := run(t, "log", "get", "abc"); err == nil {
		t.Error("Expected error for invalid id")
	}
}

func TestLogDeleteCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8"); err != nil {
		t.Fatalf("log record failed: %v", err)
	}
	if err := run(t, "log", "delete", "1"); err != nil {
		t.Fatalf("log delete failed: %v", err)
	}
	if err := run(t, "log", "delete", "1"); err == nil {
		t.Error("Expected error deleting a missing session")
	}

	_, logs := openTestStores(t, dataDir)
	if rows := logs.ListLogsForDay(context.Background(), "Push Pull Legs", "Push Day"); len(rows) != 0 {
		t.Errorf("Expected sets to be deleted with the session, got %d", len(rows))
	}
}

func TestLoadSessionErrors(t *testing.T) {
	setupTestCLI(t)
	t.Cleanup(func() { logStore = nil })

	db, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFileName))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := storage.NewSchemaManager(db, nil).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	logStore = storage.NewLogStore(db, nil, nil)

	_, err = loadSession(context.Background(), 42)
	if err == nil || !strings.Contains(err.Error(), "session not found: 42") {
		t.Errorf("missing id: got %v", err)
	}

	db.Close()
	_, err = loadSession(context.Background(), 42)
	if err == nil || strings.Contains(err.Error(), "not found") {
		t.Errorf("failed read should not be reported as not found, got %v", err)
	}
}

func TestTemplateCommands(t *testing.T) {
	dataDir := setupTestCLI(t)

	steps := [][]string{
		{"templates", "add-workout", "My Plan", "--difficulty", "advanced"},
		{"templates", "add-day", "My Plan", "Upper"},
		{"templates", "add-exercise", "My Plan", "Upper", "Pull Up", "--sets", "4", "--reps", "6", "--link", "https://example.com/pullup"},
		{"templates", "add-exercise", "My Plan", "Upper", "Dips"},
		{"templates", "list"},
		{"templates", "show", "My Plan"},
	}
	for _, args := range steps {
		if err := run(t, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	templates, _ := openTestStores(t, dataDir)
	tree, err := templates.GetWorkoutTree(context.Background(), "My Plan")
	if err != nil {
		t.Fatalf("GetWorkoutTree failed: %v", err)
	}
	if tree.Difficulty != models.DifficultyAdvanced || tree.IsDefault {
		t.Errorf("unexpected workout: %+v", tree)
	}
	if len(tree.Days) != 1 || len(tree.Days[0].Exercises) != 2 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
	pull := tree.Days[0].Exercises[0]
	if pull.Name != "Pull Up" || pull.Sets != 4 || pull.Reps != 6 || pull.Link == nil {
		t.Errorf("unexpected exercise: %+v", pull)
	}
	if dips := tree.Days[0].Exercises[1]; dips.Sets != 3 || dips.Reps != 10 {
		t.Errorf("Expected default 3x10 for Dips, got %dx%d", dips.Sets, dips.Reps)
	}
}

func TestTemplateCommandErrors(t *testing.T) {
	setupTestCLI(t)

	tests := [][]string{
		{"templates", "show", "No Such Plan"},
		{"templates", "add-workout", "Plan", "--difficulty", "Impossible"},
		{"templates", "add-day", "No Such Plan", "Day"},
		{"templates", "add-exercise", "Push Pull Legs", "No Such Day", "Curl"},
		{"templates", "add-exercise", "Push Pull Legs", "Push Day", "Curl", "--sets", "0"},
		{"templates", "rename-exercise", "99999", "Curl"},
		{"templates", "rename-exercise", "x", "Curl"},
		{"templates", "delete-exercise", "99999"},
	}
	for _, args := range tests {
		if err := run(t, args...); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestTemplateDeleteKeepsLogs(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8"); err != nil {
		t.Fatalf("log record failed: %v", err)
	}
	if err := run(t, "templates", "delete-day", "Push Pull Legs", "Push Day"); err != nil {
		t.Fatalf("delete-day failed: %v", err)
	}
	if err := run(t, "templates", "delete-workout", "Push Pull Legs"); err != nil {
		t.Fatalf("delete-workout failed: %v", err)
	}

	templates, logs := openTestStores(t, dataDir)
	ctx := context.Background()
	if _, err := templates.GetWorkoutTree(ctx, "Push Pull Legs"); err == nil {
		t.Error("Expected workout to be deleted")
	}
	if rows := logs.ListLogsForDay(ctx, "Push Pull Legs", "Push Day"); len(rows) != 1 {
		t.Errorf("Expected logs to survive template deletion, got %d rows", len(rows))
	}
}

func TestDeletedStarterWorkoutStaysDeleted(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "templates", "delete-workout", "5x5 Strength"); err != nil {
		t.Fatalf("delete-workout failed: %v", err)
	}
	for _, args := range [][]string{{"templates", "list"}, {"init"}, {"log", "list"}} {
		if err := run(t, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	templates, _ := openTestStores(t, dataDir)
	ctx := context.Background()
	if _, err := templates.GetWorkoutTree(ctx, "5x5 Strength"); err == nil {
		t.Error("5x5 Strength came back after later commands")
	}
	workouts, _ := templates.ListWorkouts(ctx)
	if len(workouts) != 3 {
		t.Errorf("Expected 3 starter workouts, got %d", len(workouts))
	}
}

func TestTemplatesResetGuard(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "templates", "add-workout", "My Plan"); err != nil {
		t.Fatalf("add-workout failed: %v", err)
	}
	if err := run(t, "templates", "reset"); err == nil {
		t.Fatal("Expected reset to refuse while custom workouts exist")
	}
	if err := run(t, "templates", "reset", "--discard-user-templates"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	templates, _ := openTestStores(t, dataDir)
	workouts, _ := templates.ListWorkouts(context.Background())
	if len(workouts) != 4 {
		t.Errorf("Expected the 4 starter workouts after reset, got %d", len(workouts))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupTestCLI(t)
	backup := filepath.Join(t.TempDir(), "backup.json")

	if err := run(t, "log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8,140x6"); err != nil {
		t.Fatalf("log record failed: %v", err)
	}
	if err := run(t, "export", "json", "-o", backup); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(raw), `"session_id"`) {
		t.Error("Expected export to contain session ids")
	}

	// A fresh install imports the backup; a second import is a no-op.
	dataDir := setupTestCLI(t)
	if err := run(t, "import", backup); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if err := run(t, "import", backup); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	_, logs := openTestStores(t, dataDir)
	sessions, _ := logs.ListWorkoutLogs(context.Background(), 0)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after two imports, got %d", len(sessions))
	}
}

func TestExportFormats(t *testing.T) {
	setupTestCLI(t)
	out := t.TempDir()

	if err := run(t, "log", "record", "Push Pull Legs", "Push Day", "-e", "Bench Press;4x8;135x8"); err != nil {
		t.Fatalf("log record failed: %v", err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"export", "yaml", "-o", filepath.Join(out, "b.yaml")}, "session_id:"},
		{[]string{"export", "markdown", "-o", filepath.Join(out, "b.md"), "-w", "Push Pull Legs"}, "| Bench Press | 1 |"},
		{[]string{"export", "markdown", "-o", filepath.Join(out, "c.md"), "--since", "2999-01-01"}, "## Templates"},
	}
	for _, tt := range tests {
		if err := run(t, tt.args...); err != nil {
			t.Fatalf("%v failed: %v", tt.args, err)
		}
		data, err := os.ReadFile(tt.args[3])
		if err != nil {
			t.Fatalf("Failed to read %s: %v", tt.args[3], err)
		}
		if !strings.Contains(string(data), tt.want) {
			t.Errorf("%v output missing %q", tt.args, tt.want)
		}
	}

	if err := run(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
	if err := run(t, "export", "markdown", "--since", "01/02/2025"); err == nil {
		t.Error("Expected error for bad --since")
	}
}

func TestImportMissingFile(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMigrateCmd(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "migrate"); err != nil {
		t.Errorf("migrate failed: %v", err)
	}
	if err := run(t, "migrate", "--list"); err != nil {
		t.Errorf("migrate --list failed: %v", err)
	}
}

func TestPrefsCommands(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "prefs", "set", "rest_timer", "2m"); err != nil {
		t.Fatalf("prefs set failed: %v", err)
	}
	if err := run(t, "prefs", "set", "sound", "false"); err != nil {
		t.Fatalf("prefs set failed: %v", err)
	}
	if err := run(t, "prefs", "show"); err != nil {
		t.Fatalf("prefs show failed: %v", err)
	}
	if err := run(t, "prefs", "set", "rest_timer", "1h"); err == nil {
		t.Error("Expected error for out of range rest timer")
	}
	if err := run(t, "prefs", "set", "theme", "dark"); err == nil {
		t.Error("Expected error for unknown key")
	}

	store, err := prefs.Open(filepath.Join(dataDir, "prefs"))
	if err != nil {
		t.Fatalf("prefs.Open failed: %v", err)
	}
	defer store.Close()
	if got := store.RestTimer(); got != 2*time.Minute {
		t.Errorf("RestTimer = %v, want 2m", got)
	}
	if store.Sound() {
		t.Error("Expected sound to be off")
	}
	if _, err := os.Stat(filepath.Join(dataDir, storage.DBFileName)); !os.IsNotExist(err) {
		t.Error("prefs commands should not create the database")
	}
}

func TestUnlockCmd(t *testing.T) {
	dataDir := setupTestCLI(t)
	path := prefs.EntitlementPath(dataDir)

	if err := run(t, "unlock"); err == nil {
		t.Error("Expected error without product id")
	}
	if err := run(t, "unlock", "liftlog.full"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if !prefs.IsUnlocked(path) {
		t.Error("Expected entitlement after unlock")
	}
	if err := run(t, "unlock", "--revoke"); err != nil {
		t.Fatalf("unlock --revoke failed: %v", err)
	}
	if prefs.IsUnlocked(path) {
		t.Error("Expected no entitlement after revoke")
	}
}

func TestVersionCmd(t *testing.T) {
	setupTestCLI(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)

	rootCmd.SetArgs([]string{"version"})
	if err := Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "liftlog "+version) {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestOpenFailureIsReported(t *testing.T) {
	dataDir := setupTestCLI(t)

	// A directory where the database file should be makes the open fail.
	if err := os.MkdirAll(filepath.Join(dataDir, storage.DBFileName, "x"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "templates", "list"); err == nil {
		t.Error("Expected error when the database cannot be opened")
	}
}
