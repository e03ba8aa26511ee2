// ABOUTME: MCP resource implementations for logged sessions.
// ABOUTME: Provides liftlog://sessions/recent, liftlog://sessions/today, and liftlog://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/models"
)

const (
	recentURI  = "liftlog://sessions/recent"
	todayURI   = "liftlog://sessions/today"
	summaryURI = "liftlog://summary"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Sessions",
		Description: "Last 10 logged sessions with their sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Sessions",
		Description: "Sessions logged today with their sets",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Training Summary",
		Description: "Templates, logged days per workout, and the latest session",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logs, err := s.logs.ListWorkoutLogs(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions, err := s.withSets(ctx, logs)
	if err != nil {
		return nil, err
	}

	return jsonResource(recentURI, map[string]interface{}{
		"sessions": sessions,
	})
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	logs, err := s.logs.ListWorkoutLogs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var today []*models.WorkoutLog
	for _, l := range logs {
		if l.WorkoutDate.Before(todayStart) {
			break
		}
		today = append(today, l)
	}
	sessions, err := s.withSets(ctx, today)
	if err != nil {
		return nil, err
	}

	sets := 0
	for _, l := range sessions {
		for _, ex := range l.Exercises {
			sets += len(ex.WeightLogs)
		}
	}

	return jsonResource(todayURI, map[string]interface{}{
		"date":     todayStart.Format("2006-01-02"),
		"sessions": sessions,
		"counts": map[string]int{
			"sessions": len(sessions),
			"sets":     sets,
		},
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	templates, err := s.templates.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	workouts, err := s.logs.ListLoggedWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list logged workouts: %w", err)
	}
	loggedDays := make(map[string][]string, len(workouts))
	for _, w := range workouts {
		loggedDays[w] = s.logs.ListLoggedDays(ctx, w)
	}

	latest, err := s.logs.ListWorkoutLogs(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	var last *models.WorkoutLog
	if len(latest) > 0 {
		last = latest[0]
	}

	return jsonResource(summaryURI, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"templates":    templates,
		"logged_days":  loggedDays,
		"last_session": last,
		"summary": map[string]int{
			"template_count":       len(templates),
			"logged_workout_count": len(workouts),
		},
	})
}

// withSets reloads each session with its exercises and sets.
func (s *Server) withSets(ctx context.Context, logs []*models.WorkoutLog) ([]*models.WorkoutLog, error) {
	full := make([]*models.WorkoutLog, 0, len(logs))
	for _, l := range logs {
		got, err := s.logs.GetWorkoutLog(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get session %d: %w", l.ID, err)
		}
		full = append(full, got)
	}
	return full, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
