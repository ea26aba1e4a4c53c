package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/layout"
	"github.com/javiermolinar/dayslot/internal/summary"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// Output formats for machine-readable commands.
const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

// layoutReport is the computed geometry of one day column.
type layoutReport struct {
	Day        string            `json:"day" yaml:"day"`
	DayStart   string            `json:"day_start" yaml:"day_start"`
	DayEnd     string            `json:"day_end" yaml:"day_end"`
	Step       int               `json:"step" yaml:"step"`
	Busy       string            `json:"busy" yaml:"busy"`
	Free       string            `json:"free" yaml:"free"`
	MaxOverlap int               `json:"max_overlap" yaml:"max_overlap"`
	Placements []placementRecord `json:"placements" yaml:"placements"`
}

// placementRecord is one laid-out event. Geometry is in percent of the column.
type placementRecord struct {
	ID              int64   `json:"id" yaml:"id"`
	Title           string  `json:"title" yaml:"title"`
	Source          string  `json:"source" yaml:"source"`
	Start           string  `json:"start" yaml:"start"`
	End             string  `json:"end" yaml:"end"`
	Top             float64 `json:"top" yaml:"top"`
	Height          float64 `json:"height" yaml:"height"`
	XOffset         float64 `json:"x_offset" yaml:"x_offset"`
	Width           float64 `json:"width" yaml:"width"`
	Column          int     `json:"column" yaml:"column"`
	Columns         int     `json:"columns" yaml:"columns"`
	Cluster         int     `json:"cluster" yaml:"cluster"`
	ContinuesBefore bool    `json:"continues_before,omitempty" yaml:"continues_before,omitempty"`
	ContinuesAfter  bool    `json:"continues_after,omitempty" yaml:"continues_after,omitempty"`
}

func (a *App) layoutCmd() *cobra.Command {
	var (
		date   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed event layout of a day",
		Long: `Lay out a day's timed events the way the day column draws them.

Top and height are percentages of the column height, x_offset and width
percentages of its width. Events clipped by the visible window are
flagged as continuing before or after it.`,
		Example: `  dayslot layout
  dayslot layout --date=2025-03-10 --output=yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return err
			}
			window, err := a.config.WindowFor(day)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			from, to := dateutil.DayBounds(day)
			events, err := a.repo.ListEventsBetween(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			report, err := buildLayoutReport(day, window, events)
			if err != nil {
				return err
			}
			return writeLayout(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to lay out (YYYY-MM-DD, today, tomorrow, weekday)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, yaml or json")

	return cmd
}

// buildLayoutReport runs the layout engine over the events visible in window.
func buildLayoutReport(day time.Time, window timeaxis.Window, events []*event.Event) (*layoutReport, error) {
	engine, err := layout.NewEngine(event.Accessors())
	if err != nil {
		return nil, err
	}

	occupancy := summary.SummarizeDay(window, events)
	report := &layoutReport{
		Day:        day.Format(dateutil.DateLayout),
		DayStart:   window.Min.Format("15:04"),
		DayEnd:     clockLabel(window.Min, window.Max),
		Step:       window.Step,
		Busy:       summary.FormatDuration(occupancy.Busy),
		Free:       summary.FormatDuration(occupancy.Free),
		MaxOverlap: occupancy.MaxOverlap,
		Placements: []placementRecord{},
	}
	for _, p := range engine.Layout(event.Visible(events, window.Min, window.Max), window) {
		report.Placements = append(report.Placements, placementRecord{
			ID:              p.Event.ID,
			Title:           p.Title(),
			Source:          p.Event.Source,
			Start:           p.Start.Format("15:04"),
			End:             clockLabel(p.Start, p.End),
			Top:             round2(p.Top),
			Height:          round2(p.Height),
			XOffset:         round2(p.XOffset),
			Width:           round2(p.Width),
			Column:          p.Column,
			Columns:         p.Columns,
			Cluster:         p.Cluster,
			ContinuesBefore: p.ContinuesBefore(window),
			ContinuesAfter:  p.ContinuesAfter(window),
		})
	}
	return report, nil
}

// writeLayout renders report in the requested format.
func writeLayout(w io.Writer, report *layoutReport, format string) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case outputTable, "":
		fmt.Fprintf(w, "%s  %s-%s, %d min slots, busy %s, free %s\n",
			formatHeader(report.Day), report.DayStart, report.DayEnd, report.Step, report.Busy, report.Free)
		if len(report.Placements) == 0 {
			fmt.Fprintln(w, "No timed events.")
			return nil
		}
		fmt.Fprintln(w, layoutTable(report.Placements))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or json)", format)
	}
}

func layoutTable(records []placementRecord) string {
	titleW := max(termWidth()-60, 10)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		span := r.Start + "-" + r.End
		if r.ContinuesBefore {
			span = "▲ " + span
		}
		if r.ContinuesAfter {
			span += " ▼"
		}
		rows = append(rows, []string{
			"#" + strconv.FormatInt(r.ID, 10),
			ansi.Truncate(r.Title, titleW, "…"),
			span,
			pct(r.Top),
			pct(r.Height),
			pct(r.XOffset),
			pct(r.Width),
			fmt.Sprintf("%d/%d", r.Column+1, r.Columns),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Headers("ID", "TITLE", "TIME", "TOP", "HEIGHT", "LEFT", "WIDTH", "COL").
		Border(lipgloss.RoundedBorder()).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Render()
}

// clockLabel formats t as HH:MM, writing the following midnight as 24:00.
func clockLabel(day, t time.Time) string {
	if t.Equal(dateutil.TruncateToDay(day).AddDate(0, 0, 1)) {
		return "24:00"
	}
	return t.Format("15:04")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
