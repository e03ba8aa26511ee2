// ABOUTME: CLI commands for preparing the database.
// ABOUTME: init seeds the starter templates; migrate reports schema migrations.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/storage"
)

var migrateList bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and seed starter templates",
	Long: `Create the database, apply any pending schema migrations, and seed the
starter templates. Every other command does this too; init only reports it.

The starter templates are seeded once per database. Running init again is
safe, and starter workouts you deleted stay deleted; 'templates reset'
brings them back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		color.Green("✓ Database ready")
		fmt.Printf("  %s\n", dbConn.Path())
		if lastSeed.Total() == 0 {
			fmt.Println("  Starter templates were seeded earlier.")
			return nil
		}
		fmt.Printf("  Seeded %d workouts, %d days, %d exercises\n",
			lastSeed.Workouts, lastSeed.Days, lastSeed.Exercises)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations",
	Long: `Bring an older liftlog database up to the current schema.

Migrations only add columns and indexes; no data is removed. They run
automatically before every command, so this is mostly useful to confirm
that an old database opened cleanly.

USAGE:

  liftlog migrate          # Apply migrations and report
  liftlog migrate --list   # Show every registered migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateList {
			faint := color.New(color.Faint)
			for _, m := range storage.ListMigrations() {
				fmt.Printf("%s %s\n", padRight(m.Name, 24), faint.Sprint(m.Description))
			}
			return nil
		}

		color.Green("✓ Schema is up to date")
		fmt.Printf("  %s\n", dbConn.Path())
		fmt.Printf("  %d migration(s) registered\n", len(storage.ListMigrations()))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "list registered migrations")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
}
