package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hanja-cards/backend/internal/calendar"
	"github.com/hanja-cards/backend/internal/domain/progress"
	"github.com/hanja-cards/backend/internal/domain/stats"
	"github.com/hanja-cards/backend/internal/infrastructure/config"
)

func newStatsCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print study statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(config.Load(), logger)
			if err != nil {
				return err
			}
			defer a.Close(logger)

			ctx := context.Background()
			out := struct {
				Stats     stats.Stats `json:"stats"`
				StudyDays []string    `json:"study_days"`
			}{a.study.Stats(ctx), a.study.StudyDays(ctx)}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newHistoryCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "history <YYYY-MM-DD>",
		Short: "List the items last reviewed on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := args[0]
			if _, ok := calendar.Parse(day); !ok {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", day)
			}

			a, err := openApp(config.Load(), logger)
			if err != nil {
				return err
			}
			defer a.Close(logger)

			items := a.study.ItemsForDate(context.Background(), day)
			cat := a.study.Catalog()
			w := cmd.OutOrStdout()

			_, _ = fmt.Fprintf(w, "%s: %d reviewed\n", day, items.Total)
			_, _ = fmt.Fprintf(w, "known (%d)\n", len(items.Known))
			for _, it := range cat.Lookup(items.Known) {
				_, _ = fmt.Fprintf(w, "  %s\n", it.Line())
			}
			_, _ = fmt.Fprintf(w, "unknown (%d)\n", len(items.Unknown))
			for _, it := range cat.Lookup(items.Unknown) {
				_, _ = fmt.Fprintf(w, "  %s\n", it.Line())
			}
			return nil
		},
	}
}

func newResetCmd(logger *slog.Logger) *cobra.Command {
	var scope string
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset --scope today|week|all --yes",
		Short: "Delete mastery records and rebuild today's session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := progress.Scope(scope)
			if !s.Valid() {
				return fmt.Errorf("invalid scope %q, want today, week or all", scope)
			}
			if !yes {
				return errors.New("reset is destructive; pass --yes to confirm")
			}

			a, err := openApp(config.Load(), logger)
			if err != nil {
				return err
			}
			defer a.Close(logger)

			_, removed := a.study.ResetScope(context.Background(), s)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d records (%s)\n", removed, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "records to delete: today|week|all")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}
