package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/factory"
)

var (
	holidayYear int
	rosterFile  string
	clearData   bool
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Print the holidays of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		year := holidayYear
		if year == 0 {
			year = calendar.Today().Year
		}
		out := cmd.OutOrStdout()
		for _, h := range calendar.Holidays(year) {
			fmt.Fprintf(out, "%s  %-9s  %s\n", h.Date, h.Date.Weekday(), h.Label)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSON roster into the database",
	Long:  `Loads stations, requirements, employees and leave from --file, or the built-in demo roster.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		doc := factory.DemoRosterJSON
		if rosterFile != "" {
			raw, err := os.ReadFile(rosterFile)
			if err != nil {
				return fmt.Errorf("read roster: %w", err)
			}
			doc = string(raw)
		}
		roster, err := factory.NewRosterFactory().ParseRoster(doc)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if clearData {
			if err := store.Reset(ctx); err != nil {
				return fmt.Errorf("clear database: %w", err)
			}
		}
		if err := roster.Apply(ctx, store); err != nil {
			return err
		}
		slog.Info("Roster loaded",
			"database", cfg.Database.Path,
			"banchine", len(roster.Banchine),
			"requirements", len(roster.Requirements),
			"employees", len(roster.Employees),
			"leaves", len(roster.Leaves),
		)
		return nil
	},
}

func init() {
	holidaysCmd.Flags().IntVar(&holidayYear, "year", 0, "year (default current)")
	seedCmd.Flags().StringVar(&rosterFile, "file", "", "roster JSON file (default built-in demo)")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "clear existing data before seeding")
}
