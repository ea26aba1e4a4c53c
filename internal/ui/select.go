package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayslot/internal/column"
	"github.com/javiermolinar/dayslot/internal/config"
	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// pointerX is where simulated gestures cross the column, in percent of its width.
const pointerX = 50

// selectOutcome is the result of one simulated pointer gesture.
type selectOutcome struct {
	Dispatches []column.Dispatch
	Commit     *selection.Commit
	Clicked    *event.Event
	Label      string
}

func (a *App) selectCmd() *cobra.Command {
	var (
		date  string
		from  string
		to    string
		mode  string
		title string
		trace bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Drag-select a time range from the command line",
		Long: `Simulate pressing the pointer at --from, dragging to --to and releasing.

The range covers every slot from the press to the slot under the release,
so --from 09:00 --to 10:30 selects 09:00-11:00 with 30 minute slots.
Equal --from and --to is a click and selects one slot. Business hours,
selection mode and drag-through settings apply as in the day column.
With --title, the committed range is saved as an event.`,
		Example: `  dayslot select --from 09:00 --to 10:30
  dayslot select --from 14:00 --to 14:00 --title "Call"
  dayslot select --from 11:00 --to 09:00 --mode ignore_events --trace`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return err
			}
			press, err := clockOn(day, from)
			if err != nil {
				return fmt.Errorf("from: %w", err)
			}
			release, err := clockOn(day, to)
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}

			cfg := *a.config
			if mode != "" {
				cfg.Selection.Mode = mode
			}
			selMode, err := cfg.SelectionMode()
			if err != nil {
				return err
			}
			window, err := cfg.WindowFor(day)
			if err != nil {
				return err
			}
			if press.Before(window.Min) || !press.Before(window.Max) {
				return fmt.Errorf("from %s is outside the day column %s-%s",
					from, cfg.Column.DayStart, cfg.Column.DayEnd)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			dayStart, dayEnd := dateutil.DayBounds(day)
			events, err := a.repo.ListEventsBetween(ctx, dayStart, dayEnd)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			outcome, err := simulateSelection(&cfg, selMode, window, events, press, release)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if trace {
				printTrace(out, outcome.Dispatches)
			}
			printOutcome(out, outcome)

			if title == "" || outcome.Commit == nil {
				return nil
			}
			e, err := event.New(title, outcome.Commit.Start, outcome.Commit.End)
			if err != nil {
				return err
			}
			if err := a.repo.CreateEvent(ctx, e); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}
			fmt.Fprintf(out, "Created event #%d: %s\n", e.ID, formatEvent(e.Title, e.Source))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, weekday)")
	cmd.Flags().StringVar(&from, "from", "", "Press time (HH:MM, required)")
	cmd.Flags().StringVar(&to, "to", "", "Release time (HH:MM, required)")
	cmd.Flags().StringVar(&mode, "mode", "", "Override the selection mode: on, off or ignore_events")
	cmd.Flags().StringVar(&title, "title", "", "Save the selected range as an event with this title")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print every gesture and how it was handled")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// simulateSelection drives a day column through press at from, a drag to
// to, and release. The column surface is laid out in percent units and the
// pointer lands in the middle of each slot.
func simulateSelection(cfg *config.Config, mode selection.Mode, window timeaxis.Window, events []*event.Event, from, to time.Time) (*selectOutcome, error) {
	outcome := &selectOutcome{}

	var businessHours func(time.Time) bool
	if cfg.HasBusinessHours() {
		set, err := cfg.Hours()
		if err != nil {
			return nil, err
		}
		businessHours = set.Predicate()
	}

	col, err := column.New(column.Options[*event.Event]{
		Window:               window,
		Accessors:            event.Accessors(),
		Mode:                 mode,
		DragThroughEvents:    cfg.Selection.DragThroughEvents,
		RTL:                  cfg.UI.RTL,
		BusinessHours:        businessHours,
		Locale:               cfg.UI.Locale,
		SelectRangeFormat:    cfg.UI.SelectRangeFormat,
		EventTimeRangeFormat: cfg.UI.EventTimeRangeFormat,
		OnSelectEvent: func(e *event.Event) {
			outcome.Clicked = e
		},
		OnSelectSlot: func(selection.Commit) {},
	})
	if err != nil {
		return nil, fmt.Errorf("creating column: %w", err)
	}
	col.Layout(event.Visible(events, window.Min, window.Max))
	col.SetSurface(column.Surface{Top: 0, Bottom: 100, Left: 0, Right: 100})

	col.Press(pointerX, slotCentre(window, from))
	outcome.Dispatches = append(outcome.Dispatches, col.Motion(pointerX, slotCentre(window, to))...)
	outcome.Dispatches = append(outcome.Dispatches, col.Release()...)

	for _, d := range outcome.Dispatches {
		if c := d.Transition.Commit; c != nil {
			outcome.Commit = c
			outcome.Label = col.RangeLabel(c.Range())
		}
	}
	return outcome, nil
}

// slotCentre returns the vertical position of the middle of the slot containing t.
func slotCentre(w timeaxis.Window, t time.Time) float64 {
	return w.PositionOf(w.Snap(t).Add(w.StepDuration() / 2))
}

func printTrace(w io.Writer, dispatches []column.Dispatch) {
	for _, d := range dispatches {
		line := fmt.Sprintf("  %-12s %6.2f%%  %s", d.Signal.Kind, d.Signal.Percent, d.Transition.Result)
		if s := d.Transition.State; s.Valid {
			line += fmt.Sprintf("  %s-%s", s.Start.Format("15:04"), s.End.Format("15:04"))
		}
		fmt.Fprintln(w, formatMuted(line))
	}
}

func printOutcome(w io.Writer, o *selectOutcome) {
	switch {
	case o.Commit != nil:
		fmt.Fprintf(w, "Selected %s (%d slots)\n", formatSelection(o.Label), len(o.Commit.Slots))
		if rejectionReason(o.Dispatches) == "outside business hours" {
			fmt.Fprintln(w, formatWarn("Drag was cut short by business hours"))
		}
	case o.Clicked != nil:
		fmt.Fprintf(w, "Clicked event #%d: %s\n", o.Clicked.ID, formatEvent(o.Clicked.Title, o.Clicked.Source))
	default:
		fmt.Fprintln(w, formatWarn("Nothing selected: "+rejectionReason(o.Dispatches)))
	}
}

// rejectionReason explains why a gesture produced no commit.
func rejectionReason(dispatches []column.Dispatch) string {
	reason := "selection is off or the gesture started on an event"
	for _, d := range dispatches {
		switch d.Transition.Result {
		case selection.OutsideBusinessHours:
			return "outside business hours"
		case selection.Vetoed:
			reason = "range rejected"
		}
	}
	return reason
}
