package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/summary"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date string
		days int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Long: `List events overlapping one or more days.

If no date is given, lists today's events.`,
		Example: `  dayslot list
  dayslot list --date=tomorrow
  dayslot list --date=2025-03-10 --days=7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := 0
			for i := 0; i < days; i++ {
				from, to := dateutil.DayBounds(day.AddDate(0, 0, i))
				events, err := a.repo.ListEventsBetween(context.Background(), from, to)
				if err != nil {
					return fmt.Errorf("listing events: %w", err)
				}
				if len(events) == 0 {
					continue
				}
				if found > 0 {
					fmt.Fprintln(out)
				}
				printDay(out, from, events)
				if w, err := a.config.WindowFor(from); err == nil {
					printOccupancy(out, summary.SummarizeDay(w, events))
				}
				found += len(events)
			}

			if found == 0 {
				fmt.Fprintln(out, "No events found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First day (YYYY-MM-DD, today, tomorrow, weekday)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to list")

	return cmd
}

// printDay prints one day's events, all-day events first.
func printDay(w io.Writer, day time.Time, events []*event.Event) {
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(day.Format("Monday, January 2, 2006")))
	for _, e := range events {
		if e.AllDay {
			fmt.Fprintf(w, "  #%-4d %-11s  %s%s\n", e.ID, "all day", formatEvent(e.Title, e.Source), sourceSuffix(e))
		}
	}
	for _, e := range event.Timed(events) {
		fmt.Fprintf(w, "  #%-4d %s-%s  %s%s\n", e.ID, e.Start.Format("15:04"), e.End.Format("15:04"), formatEvent(e.Title, e.Source), sourceSuffix(e))
	}
}

// printOccupancy prints busy and free time within the visible window.
func printOccupancy(w io.Writer, d *summary.Day) {
	line := fmt.Sprintf("  busy %s · free %s", summary.FormatDuration(d.Busy), summary.FormatDuration(d.Free))
	if g, ok := d.LongestGap(); ok {
		line += fmt.Sprintf(" · longest gap %s-%s", g.Start.Format("15:04"), clockLabel(d.Window.Min, g.End))
	}
	fmt.Fprintln(w, formatMuted(line))
}

func sourceSuffix(e *event.Event) string {
	if e.Source == "" || e.Source == event.SourceLocal {
		return ""
	}
	return " " + formatMuted("("+e.Source+")")
}
