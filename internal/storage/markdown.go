// ABOUTME: Markdown rendering of an export for reading or pasting into notes.
// ABOUTME: Sessions become one table per session; templates one list per workout.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// EncodeMarkdown renders data as Markdown. When since is set, only sessions
// on or after it are included; templates are always included.
func EncodeMarkdown(data *ExportData, since *time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Liftlog Export - %s\n\n", data.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	var sessions []*models.WorkoutLog
	for _, l := range data.Sessions {
		if since != nil && l.WorkoutDate.Before(*since) {
			continue
		}
		sessions = append(sessions, l)
	}

	if len(sessions) > 0 {
		sb.WriteString("## Sessions\n\n")
		for _, l := range sessions {
			sb.WriteString(fmt.Sprintf("### %s - %s / %s\n\n",
				l.WorkoutDate.Local().Format("2006-01-02 15:04"), l.WorkoutName, l.DayName))
			sb.WriteString("| Exercise | Set | Weight | Reps |\n")
			sb.WriteString("|----------|-----|--------|------|\n")
			for _, ex := range l.Exercises {
				if len(ex.WeightLogs) == 0 {
					sb.WriteString(fmt.Sprintf("| %s | - | - | - |\n", ex.ExerciseName))
					continue
				}
				for _, wl := range ex.WeightLogs {
					sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %d |\n",
						ex.ExerciseName, wl.SetNumber, wl.WeightLogged, wl.RepsLogged))
				}
			}
			sb.WriteString("\n")
		}
	}

	if len(data.Templates) > 0 {
		sb.WriteString("## Templates\n\n")
		for _, w := range data.Templates {
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", w.Name, w.Difficulty))
			for _, d := range w.Days {
				sb.WriteString(fmt.Sprintf("- **%s**\n", d.Name))
				for _, e := range d.Exercises {
					sb.WriteString(fmt.Sprintf("  - %s %dx%d\n", e.Name, e.Sets, e.Reps))
				}
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
