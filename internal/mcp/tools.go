// ABOUTME: MCP tool implementations for templates and logged sessions.
// ABOUTME: Lets an assistant browse plans, record sessions, and read day history.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List workout templates with their difficulty",
	}, s.handleListTemplates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_template",
		Description: "Get a workout template with its days and exercises",
	}, s.handleGetTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_session",
		Description: "Record a completed workout session with the weight and reps of each set",
	}, s.handleRecordSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_logged_days",
		Description: "List the days of a workout that have at least one logged session",
	}, s.handleListLoggedDays)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_logs_for_day",
		Description: "List every logged set for a workout day, ordered by exercise and set number",
	}, s.handleListLogsForDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent sessions, newest first",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a logged session and all of its sets",
	}, s.handleDeleteSession)
}

// Tool input/output types

type emptyInput struct{}

type getTemplateInput struct {
	Name string `json:"name" jsonschema:"Workout template name, e.g. Push Pull Legs"`
}

type setInput struct {
	Weight float64 `json:"weight" jsonschema:"Weight lifted for the set"`
	Reps   int     `json:"reps" jsonschema:"Reps completed in the set"`
}

type exerciseInput struct {
	Name       string     `json:"name" jsonschema:"Exercise name"`
	Sets       int        `json:"sets" jsonschema:"Planned number of sets"`
	Reps       int        `json:"reps" jsonschema:"Planned reps per set"`
	LoggedSets []setInput `json:"logged_sets,omitempty" jsonschema:"Completed sets in order"`
}

type recordSessionInput struct {
	WorkoutName string          `json:"workout_name" jsonschema:"Workout template name"`
	DayName     string          `json:"day_name" jsonschema:"Day within the workout"`
	WorkoutDate string          `json:"workout_date,omitempty" jsonschema:"Session time (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
	Exercises   []exerciseInput `json:"exercises" jsonschema:"Exercises performed"`
}

type sessionOutput struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Sets      int    `json:"sets"`
	Message   string `json:"message"`
}

type workoutNameInput struct {
	WorkoutName string `json:"workout_name" jsonschema:"Workout template name"`
}

type dayInput struct {
	WorkoutName string `json:"workout_name" jsonschema:"Workout template name"`
	DayName     string `json:"day_name" jsonschema:"Day within the workout"`
}

type listSessionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type sessionIDInput struct {
	ID int64 `json:"id" jsonschema:"Session id as shown by list_sessions"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	workouts, err := s.templates.ListWorkouts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(workouts) == 0 {
		return nil, map[string]interface{}{"message": "No templates found."}, nil
	}
	return nil, workouts, nil
}

func (s *Server) handleGetTemplate(ctx context.Context, req *mcp.CallToolRequest, input getTemplateInput) (*mcp.CallToolResult, any, error) {
	w, err := s.templates.GetWorkoutTree(ctx, input.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("template not found: %s", input.Name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get template: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleRecordSession(ctx context.Context, req *mcp.CallToolRequest, input recordSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	in := models.NewSessionInput(input.WorkoutName, input.DayName)

	if input.WorkoutDate != "" {
		t, err := parseTimestamp(input.WorkoutDate)
		if err != nil {
			return nil, sessionOutput{}, err
		}
		in.WithDate(t)
	}

	for _, ex := range input.Exercises {
		logged := make([]models.LoggedSet, 0, len(ex.LoggedSets))
		for _, set := range ex.LoggedSets {
			logged = append(logged, models.LoggedSet{WeightLogged: set.Weight, RepsLogged: set.Reps})
		}
		in.AddExercise(ex.Name, ex.Sets, ex.Reps, logged...)
	}

	log, err := s.logs.RecordSession(ctx, *in)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to record session: %w", err)
	}

	sets := 0
	for _, ex := range log.Exercises {
		sets += len(ex.WeightLogs)
	}
	return nil, sessionOutput{
		ID:        log.ID,
		SessionID: log.SessionID.String(),
		Sets:      sets,
		Message: fmt.Sprintf("Recorded %s / %s with %d exercise(s) and %d set(s) (ID: %d)",
			log.WorkoutName, log.DayName, len(log.Exercises), sets, log.ID),
	}, nil
}

func (s *Server) handleListLoggedDays(ctx context.Context, req *mcp.CallToolRequest, input workoutNameInput) (*mcp.CallToolResult, any, error) {
	days := s.logs.ListLoggedDays(ctx, input.WorkoutName)
	if len(days) == 0 {
		return nil, map[string]interface{}{"message": "No logged days found."}, nil
	}
	return nil, map[string]interface{}{"workout_name": input.WorkoutName, "days": days}, nil
}

func (s *Server) handleListLogsForDay(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	entries := s.days.Get(ctx, input.WorkoutName, input.DayName)
	if len(entries) == 0 {
		return nil, map[string]interface{}{"message": "No logs found."}, nil
	}
	return nil, entries, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	logs, err := s.logs.ListWorkoutLogs(ctx, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(logs) == 0 {
		return nil, map[string]interface{}{"message": "No sessions found."}, nil
	}
	return nil, logs, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.logs.DeleteWorkoutLog(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted session: %d", input.ID),
	}, nil
}

// parseTimestamp accepts RFC 3339 or "YYYY-MM-DD HH:MM" in local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid workout_date %q: use ISO 8601 or YYYY-MM-DD HH:MM", s)
}
