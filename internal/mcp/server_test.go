// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers against a temp database.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/history"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

// setupTestServer creates a seeded database in a temp directory and a server over it.
func setupTestServer(t *testing.T) (*Server, *storage.LogStore) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.NewSchemaManager(db, nil).EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if _, err := storage.NewTemplateSeeder(db, nil, nil).SeedDefaultTemplates(ctx); err != nil {
		t.Fatalf("SeedDefaultTemplates failed: %v", err)
	}

	bus := events.New()
	t.Cleanup(bus.Close)
	logs := storage.NewLogStore(db, bus, nil)
	days := history.NewDayCache(logs, nil)
	days.Bind(bus)
	t.Cleanup(days.Close)

	server, err := NewServer(storage.NewTemplateStore(db, bus), logs, days)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, logs
}

func pushDayInput() recordSessionInput {
	return recordSessionInput{
		WorkoutName: "Push Pull Legs",
		DayName:     "Push Day",
		Exercises: []exerciseInput{
			{Name: "Bench Press", Sets: 3, Reps: 8, LoggedSets: []setInput{{135, 8}, {140, 6}}},
			{Name: "Overhead Press", Sets: 3, Reps: 10, LoggedSets: []setInput{{85, 10}}},
		},
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.templates == nil || server.logs == nil || server.days == nil {
		t.Error("Expected non-nil stores and day cache")
	}
}

func TestNewServerRequiresDayCache(t *testing.T) {
	if _, err := NewServer(nil, nil, nil); err == nil {
		t.Error("Expected error without a day cache")
	}
}

func listDay(t *testing.T, server *Server) []models.DayLogEntry {
	t.Helper()
	_, out, err := server.handleListLogsForDay(context.Background(), &mcp.CallToolRequest{},
		dayInput{WorkoutName: "Push Pull Legs", DayName: "Push Day"})
	if err != nil {
		t.Fatalf("handleListLogsForDay failed: %v", err)
	}
	if entries, ok := out.([]models.DayLogEntry); ok {
		return entries
	}
	return nil
}

func TestListLogsForDayRefreshesAfterWrites(t *testing.T) {
	server, logs := setupTestServer(t)
	ctx := context.Background()

	if got := listDay(t, server); len(got) != 0 {
		t.Fatalf("expected no entries before recording, got %d", len(got))
	}
	if !server.days.Loaded("Push Pull Legs", "Push Day") {
		t.Fatal("expected the empty day to be cached")
	}

	_, rec, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput())
	if err != nil {
		t.Fatalf("handleRecordSession failed: %v", err)
	}
	if got := listDay(t, server); len(got) != 3 {
		t.Fatalf("expected 3 entries after record_session, got %d", len(got))
	}

	// A write made outside the tools also reaches the cache through the bus.
	in := models.NewSessionInput("Push Pull Legs", "Push Day").
		AddExercise("Bench Press", 3, 8, models.LoggedSet{WeightLogged: 150, RepsLogged: 5})
	if _, err := logs.RecordSession(ctx, *in); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
	if got := listDay(t, server); len(got) != 4 {
		t.Fatalf("expected 4 entries after a direct write, got %d", len(got))
	}

	if _, _, err := server.handleDeleteSession(ctx, &mcp.CallToolRequest{}, sessionIDInput{ID: rec.ID}); err != nil {
		t.Fatalf("handleDeleteSession failed: %v", err)
	}
	got := listDay(t, server)
	if len(got) != 1 || got[0].WeightLogged != 150 {
		t.Errorf("expected only the direct write after delete_session, got %+v", got)
	}
}

func TestHandleListTemplates(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleListTemplates(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleListTemplates failed: %v", err)
	}
	workouts, ok := out.([]*models.TemplateWorkout)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	if len(workouts) != 4 {
		t.Errorf("expected 4 templates, got %d", len(workouts))
	}
}

func TestHandleGetTemplate(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetTemplate(ctx, &mcp.CallToolRequest{}, getTemplateInput{Name: "Push Pull Legs"})
	if err != nil {
		t.Fatalf("handleGetTemplate failed: %v", err)
	}
	w := out.(*models.TemplateWorkout)
	if len(w.Days) != 3 {
		t.Errorf("expected 3 days, got %d", len(w.Days))
	}

	_, _, err = server.handleGetTemplate(ctx, &mcp.CallToolRequest{}, getTemplateInput{Name: "Nope"})
	if err == nil || !strings.Contains(err.Error(), "template not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandleRecordSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*recordSessionInput)
		wantErr   bool
		errSubstr string
	}{
		{name: "valid session", mutate: func(*recordSessionInput) {}},
		{
			name:   "RFC3339 date",
			mutate: func(in *recordSessionInput) { in.WorkoutDate = "2025-01-31T08:00:00Z" },
		},
		{
			name:   "simple date",
			mutate: func(in *recordSessionInput) { in.WorkoutDate = "2025-01-31 08:00" },
		},
		{
			name:      "invalid date",
			mutate:    func(in *recordSessionInput) { in.WorkoutDate = "last tuesday-ish" },
			wantErr:   true,
			errSubstr: "invalid workout_date",
		},
		{
			name:      "no exercises",
			mutate:    func(in *recordSessionInput) { in.Exercises = nil },
			wantErr:   true,
			errSubstr: "invalid session",
		},
		{
			name:      "missing day",
			mutate:    func(in *recordSessionInput) { in.DayName = "" },
			wantErr:   true,
			errSubstr: "day name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := setupTestServer(t)
			in := pushDayInput()
			tt.mutate(&in)

			_, out, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, in)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.ID == 0 || out.SessionID == "" {
				t.Errorf("expected ids, got %+v", out)
			}
			if out.Sets != 3 {
				t.Errorf("Sets = %d, want 3", out.Sets)
			}
			if !strings.Contains(out.Message, "Push Day") {
				t.Errorf("Message %q should name the day", out.Message)
			}
		})
	}
}

func TestHandleLoggedDaysAndLogs(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListLoggedDays(ctx, &mcp.CallToolRequest{}, workoutNameInput{WorkoutName: "Push Pull Legs"})
	if err != nil {
		t.Fatalf("handleListLoggedDays failed: %v", err)
	}
	if msg, ok := out.(map[string]interface{}); !ok || msg["message"] != "No logged days found." {
		t.Errorf("expected empty message, got %v", out)
	}

	if _, _, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput()); err != nil {
		t.Fatalf("handleRecordSession failed: %v", err)
	}

	_, out, err = server.handleListLoggedDays(ctx, &mcp.CallToolRequest{}, workoutNameInput{WorkoutName: "Push Pull Legs"})
	if err != nil {
		t.Fatalf("handleListLoggedDays failed: %v", err)
	}
	days := out.(map[string]interface{})["days"].([]string)
	if len(days) != 1 || days[0] != "Push Day" {
		t.Errorf("days = %v, want [Push Day]", days)
	}

	_, out, err = server.handleListLogsForDay(ctx, &mcp.CallToolRequest{}, dayInput{WorkoutName: "Push Pull Legs", DayName: "Push Day"})
	if err != nil {
		t.Fatalf("handleListLogsForDay failed: %v", err)
	}
	entries := out.([]models.DayLogEntry)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ExerciseName != "Bench Press" || entries[2].ExerciseName != "Overhead Press" {
		t.Errorf("unexpected order: %+v", entries)
	}
}

func TestHandleListAndDeleteSessions(t *testing.T) {
	server, logs := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{})
	if err != nil {
		t.Fatalf("handleListSessions failed: %v", err)
	}
	if _, ok := out.(map[string]interface{}); !ok {
		t.Errorf("expected empty message, got %T", out)
	}

	_, rec, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput())
	if err != nil {
		t.Fatalf("handleRecordSession failed: %v", err)
	}

	_, out, err = server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{Limit: 5})
	if err != nil {
		t.Fatalf("handleListSessions failed: %v", err)
	}
	if got := out.([]*models.WorkoutLog); len(got) != 1 {
		t.Errorf("expected 1 session, got %d", len(got))
	}

	_, msg, err := server.handleDeleteSession(ctx, &mcp.CallToolRequest{}, sessionIDInput{ID: rec.ID})
	if err != nil {
		t.Fatalf("handleDeleteSession failed: %v", err)
	}
	if !strings.Contains(msg.Message, "Deleted session") {
		t.Errorf("unexpected message %q", msg.Message)
	}
	if _, err := logs.GetWorkoutLog(ctx, rec.ID); err == nil {
		t.Error("session should be gone")
	}

	if _, _, err := server.handleDeleteSession(ctx, &mcp.CallToolRequest{}, sessionIDInput{ID: rec.ID}); err == nil {
		t.Error("deleting twice should fail")
	}
}

func readResource(t *testing.T, result *mcp.ReadResourceResult, err error) map[string]interface{} {
	t.Helper()
	if err != nil {
		t.Fatalf("resource handler failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(result.Contents))
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return data
}

func TestHandleRecentResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput()); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleRecentResource(ctx, &mcp.ReadResourceRequest{})
	data := readResource(t, result, err)
	if result.Contents[0].URI != recentURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, recentURI)
	}
	sessions := data["sessions"].([]interface{})
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	first := sessions[0].(map[string]interface{})
	if exercises := first["exercises"].([]interface{}); len(exercises) != 2 {
		t.Errorf("recent sessions should include exercises, got %d", len(exercises))
	}
}

func TestHandleTodayResourceFiltersOldSessions(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	old := pushDayInput()
	old.WorkoutDate = time.Now().AddDate(0, 0, -3).Format(time.RFC3339)
	if _, _, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, old); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput()); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	data := readResource(t, result, err)
	counts := data["counts"].(map[string]interface{})
	if counts["sessions"] != float64(1) {
		t.Errorf("expected 1 session today, got %v", counts["sessions"])
	}
	if counts["sets"] != float64(3) {
		t.Errorf("expected 3 sets today, got %v", counts["sets"])
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	data := readResource(t, result, err)
	if data["last_session"] != nil {
		t.Errorf("expected no last session, got %v", data["last_session"])
	}

	if _, _, err := server.handleRecordSession(ctx, &mcp.CallToolRequest{}, pushDayInput()); err != nil {
		t.Fatal(err)
	}

	result, err = server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	data = readResource(t, result, err)
	summary := data["summary"].(map[string]interface{})
	if summary["template_count"] != float64(4) {
		t.Errorf("template_count = %v, want 4", summary["template_count"])
	}
	days := data["logged_days"].(map[string]interface{})["Push Pull Legs"].([]interface{})
	if len(days) != 1 || days[0] != "Push Day" {
		t.Errorf("logged_days = %v", days)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-01-31T08:00:00Z", false},
		{"2025-01-31T08:00:00-05:00", false},
		{"2025-01-31 08:00", false},
		{"2025-01-31", false},
		{"yesterday", true},
	}
	for _, tt := range tests {
		_, err := parseTimestamp(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
