package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new event",
		Long: `Add a timed event to a day.

Example:
  dayslot add "Design review" --date=2025-03-10 --start=09:00 --end=10:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return err
			}
			from, err := clockOn(day, start)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			to, err := clockOn(day, end)
			if err != nil {
				return fmt.Errorf("end: %w", err)
			}

			e, err := event.New(args[0], from, to)
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			existing, err := a.repo.ListEventsBetween(ctx, e.Start, e.End)
			if err != nil {
				return fmt.Errorf("checking overlaps: %w", err)
			}
			if err := a.repo.CreateEvent(ctx, e); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created event #%d: %s %s %s-%s\n",
				e.ID,
				formatEvent(e.Title, e.Source),
				e.Start.Format(dateutil.DateLayout),
				e.Start.Format("15:04"),
				e.End.Format("15:04"),
			)
			for _, other := range event.Timed(existing) {
				if e.OverlapsWith(other) {
					fmt.Fprintln(out, formatWarn(fmt.Sprintf("  overlaps #%d: %s %s-%s",
						other.ID, other.Title, other.Start.Format("15:04"), other.End.Format("15:04"))))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// clockOn returns the instant "HH:MM" on day. "24:00" is the following midnight.
func clockOn(day time.Time, clock string) (time.Time, error) {
	minutes, err := timeaxis.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return dateutil.TruncateToDay(day).Add(time.Duration(minutes) * time.Minute), nil
}
