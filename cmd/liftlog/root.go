// ABOUTME: Root Cobra command for liftlog CLI.
// ABOUTME: Opens config, logger, database, and stores in PersistentPreRunE; closes them after.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/events"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/storage"
)

// annotationNoStorage marks commands that run without opening the database.
const annotationNoStorage = "liftlog/no-storage"

var (
	cfg           *config.Config
	logger        *zap.Logger
	dbConn        *storage.DB
	bus           *events.Bus
	templateStore *storage.TemplateStore
	logStore      *storage.LogStore
	seeder        *storage.TemplateSeeder
	lastSeed      storage.SeedSummary
)

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Local strength training log",
	Long: `Liftlog keeps workout templates and logged sessions in a local SQLite database.

WHAT IT TRACKS:

  Templates   Workouts made of days, each day a list of exercises (sets x reps)
  Sessions    What you actually did: every set with its weight and reps

QUICK START:

  $ liftlog templates list                        # Starter plans are seeded on first run
  $ liftlog templates show "Push Pull Legs"       # Days and exercises of a plan
  $ liftlog log record "Push Pull Legs" "Push Day" \
      -e "Bench Press;4x8;135x8,140x8,145x6"      # Record a session
  $ liftlog log show "Push Pull Legs" "Push Day"  # Every set logged for that day

TEMPLATES:

  $ liftlog templates add-workout "My Plan" --difficulty Intermediate
  $ liftlog templates add-day "My Plan" "Upper"
  $ liftlog templates add-exercise "My Plan" "Upper" "Pull Up" --sets 3 --reps 8
  $ liftlog templates reset                       # Restore the starter catalogue

BACKUP:

  $ liftlog export json -o backup.json
  $ liftlog import backup.json

MCP INTEGRATION:

  Run 'liftlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "liftlog": { "command": "liftlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored at ~/.local/share/liftlog/liftlog.db unless data_dir is set
  in ~/.config/liftlog/config.json or LIFTLOG_DATA_DIR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = logging.New(logging.Options{
			Path:    cfg.LogPath(),
			Level:   cfg.GetLogLevel(),
			Console: true,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if skipsStorage(cmd) {
			return nil
		}
		return openStorage(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeAll()
		return nil
	},
}

func openStorage(cmd *cobra.Command) error {
	var err error
	dbConn, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := storage.NewSchemaManager(dbConn, logger).EnsureSchema(cmd.Context()); err != nil {
		closeAll()
		return err
	}

	bus = events.New()
	templateStore = storage.NewTemplateStore(dbConn, bus)
	logStore = storage.NewLogStore(dbConn, bus, logger)
	seeder = storage.NewTemplateSeeder(dbConn, bus, logger)

	lastSeed, err = seeder.SeedDefaultTemplates(cmd.Context())
	if err != nil {
		// Seeding is best effort; the database is still usable.
		logger.Warn("seeding default templates failed", zap.Error(err))
	}
	return nil
}

func closeAll() {
	if bus != nil {
		bus.Close()
		bus = nil
	}
	if dbConn != nil {
		if err := dbConn.Close(); err != nil && logger != nil {
			logger.Warn("closing database failed", zap.Error(err))
		}
		dbConn = nil
	}
	templateStore, logStore, seeder = nil, nil, nil
	if logger != nil {
		_ = logger.Sync()
	}
}

// skipsStorage reports whether cmd or a parent opted out of the database.
func skipsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStorage] == "true" {
			return true
		}
	}
	return false
}

func noStorage() map[string]string {
	return map[string]string{annotationNoStorage: "true"}
}
