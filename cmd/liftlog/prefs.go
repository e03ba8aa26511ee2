// ABOUTME: CLI commands for device preferences and the unlock marker.
// ABOUTME: Preferences live in a Badger store beside the database.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/prefs"
)

var unlockRevoke bool

var prefsCmd = &cobra.Command{
	Use:         "prefs",
	Short:       "Show or change preferences",
	Annotations: noStorage(),
	Long: `Show or change preferences.

KEYS:

  rest_timer   Rest between sets, e.g. 90s or 2m (5s to 30m, default 90s)
  vibration    Vibrate when the rest timer ends (true/false, default true)
  sound        Play a sound when the rest timer ends (true/false, default true)

EXAMPLES:

  liftlog prefs show
  liftlog prefs set rest_timer 2m
  liftlog prefs set sound false`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(cfg.PrefsDir())
		if err != nil {
			return fmt.Errorf("failed to open preferences: %w", err)
		}
		defer store.Close()

		snap := store.Snapshot()
		stored, err := store.Keys()
		if err != nil {
			return err
		}
		isSet := make(map[string]bool, len(stored))
		for _, k := range stored {
			isSet[k] = true
		}

		faint := color.New(color.Faint)
		rows := []struct {
			key, value string
		}{
			{prefs.KeyRestTimer, snap.RestTimer.String()},
			{prefs.KeyVibration, fmt.Sprint(snap.Vibration)},
			{prefs.KeySound, fmt.Sprint(snap.Sound)},
		}
		for _, r := range rows {
			source := ""
			if !isSet[r.key] {
				source = faint.Sprint(" (default)")
			}
			fmt.Printf("%s %s%s\n", padRight(r.key, 12), r.value, source)
		}

		fmt.Println()
		if prefs.IsUnlocked(cfg.EntitlementPath()) {
			color.Green("Full version unlocked")
		} else {
			fmt.Println(faint.Sprint("Free version"))
		}
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(cfg.PrefsDir())
		if err != nil {
			return fmt.Errorf("failed to open preferences: %w", err)
		}
		defer store.Close()

		key := strings.ToLower(strings.TrimSpace(args[0]))
		if err := store.Set(key, args[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		color.Green("✓ %s = %s", key, args[1])
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:         "unlock [product-id]",
	Short:       "Record a purchase that unlocks the full version",
	Annotations: noStorage(),
	Long: `Record that the full version was purchased on this device.

The marker is written to entitlement.json in the data directory. Use
--revoke to remove it.

EXAMPLES:

  liftlog unlock liftlog.full
  liftlog unlock --revoke`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.EntitlementPath()

		if unlockRevoke {
			if err := prefs.Revoke(path); err != nil {
				return err
			}
			color.Yellow("✗ Unlock removed")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("product id is required")
		}
		e, err := prefs.Unlock(path, args[0], time.Now())
		if err != nil {
			return err
		}
		color.Green("✓ Unlocked %s", e.ProductID)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(e.UnlockedAt.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

func init() {
	unlockCmd.Flags().BoolVar(&unlockRevoke, "revoke", false, "remove the unlock marker")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(unlockCmd)
}
