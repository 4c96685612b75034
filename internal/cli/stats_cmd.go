package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newStatsCmd(app *App) *cobra.Command {
	var recent int
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the parent-facing safety statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if pruneDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -pruneDays)
				n, err := app.Events.DeleteOlderThan(ctx, cutoff)
				if err != nil {
					return err
				}
				fmt.Printf("Pruned %d events older than %d days.\n", n, pruneDays)
			}

			stats, err := app.Events.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatSafetyStats(stats))

			if recent > 0 {
				events, err := app.Events.ListRecent(ctx, recent)
				if err != nil {
					return err
				}
				fmt.Println(formatter.FormatEvents(events))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Also show the N most recent events")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "First delete events older than this many days")

	return cmd
}
