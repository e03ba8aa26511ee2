// ABOUTME: CLI commands for exporting and importing liftlog data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON or YAML.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	exportOutput  string
	exportWorkout string
	exportSince   string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export templates and sessions",
	Long: `Export templates and logged sessions in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --workout, -w  Only include sessions of this workout (markdown only)
  --since        Only include sessions since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  liftlog export json                          # Export all data as JSON
  liftlog export json -o backup.json           # Save to file
  liftlog export yaml                          # Export as YAML
  liftlog export markdown -w "Push Pull Legs"  # One workout's sessions as Markdown
  liftlog export markdown --since 2025-01-01   # Sessions from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		export, err := logStore.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "json":
			data, err = storage.EncodeJSON(export)
		case "yaml":
			data, err = storage.EncodeYAML(export)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, err := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			if exportWorkout != "" {
				export.Sessions = filterSessions(export.Sessions, exportWorkout)
			}
			data = []byte(storage.EncodeMarkdown(export, since))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import templates and sessions from a backup",
	Long: `Import templates and sessions from a JSON or YAML export.

Templates are merged by name: existing workouts, days, and exercises are
kept and missing ones are added. Sessions already present (same session id)
are skipped, so importing the same file twice is safe.

EXAMPLES:

  liftlog import backup.json
  liftlog import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		data, err := storage.DecodeExport(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		summary, err := logStore.Import(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %d template(s), %d session(s)", summary.Templates, summary.Sessions)
		if summary.SkippedSessions > 0 {
			fmt.Printf(", %d already present", summary.SkippedSessions)
		}
		fmt.Println()
		return nil
	},
}

func filterSessions(sessions []*models.WorkoutLog, workout string) []*models.WorkoutLog {
	var out []*models.WorkoutLog
	for _, s := range sessions {
		if s.WorkoutName == workout {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportWorkout, "workout", "w", "", "filter by workout (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
