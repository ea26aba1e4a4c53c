package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/dayslot/internal/config"
	"github.com/javiermolinar/dayslot/internal/db"
	"github.com/javiermolinar/dayslot/internal/event"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

func newTestRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "unused.db")
	return cfg
}

// run executes one command line against repo and returns its output.
func run(t *testing.T, repo event.Repository, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	app := NewApp(repo, cfg)
	app.now = func() time.Time { return testNow }

	var out bytes.Buffer
	app.SetOutput(&out, &out)
	app.SetArgs(append([]string{"--no-color"}, args...))
	err := app.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, repo event.Repository, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := run(t, repo, cfg, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestApp_AddListDelete(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)

	out := mustRun(t, repo, cfg, "add", "Standup", "--date=2025-03-10", "--start=09:00", "--end=10:00")
	if !strings.Contains(out, "Created event #1: Standup 2025-03-10 09:00-10:00") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, repo, cfg, "add", "Sync", "--date=2025-03-10", "--start=09:30", "--end=10:30")
	if !strings.Contains(out, "overlaps #1: Standup 09:00-10:00") {
		t.Errorf("overlap warning missing:\n%s", out)
	}
	mustRun(t, repo, cfg, "delete", "2")

	out = mustRun(t, repo, cfg, "list")
	for _, want := range []string{"Monday, March 10, 2025", "#1", "09:00-10:00", "Standup", "busy 1h · free 14h · longest gap 10:00-22:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, repo, cfg, "delete", "1")
	if !strings.Contains(out, "Deleted event #1") {
		t.Errorf("delete output = %q", out)
	}

	out = mustRun(t, repo, cfg, "list", "--date=2025-03-10")
	if !strings.Contains(out, "No events found.") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestApp_AddValidation(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"end before start", []string{"add", "x", "--start=10:00", "--end=09:00"}},
		{"bad clock", []string{"add", "x", "--start=9am", "--end=10:00"}},
		{"bad date", []string{"add", "x", "--date=someday", "--start=09:00", "--end=10:00"}},
		{"missing end", []string{"add", "x", "--start=09:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, repo, cfg, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApp_DeleteMissing(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := run(t, repo, testConfig(t), "delete", "99"); err == nil {
		t.Error("expected an error deleting a missing event")
	}
}

func TestApp_ListDays(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)
	mustRun(t, repo, cfg, "add", "Mon", "--date=2025-03-10", "--start=09:00", "--end=10:00")
	mustRun(t, repo, cfg, "add", "Wed", "--date=2025-03-12", "--start=09:00", "--end=10:00")

	out := mustRun(t, repo, cfg, "list", "--days=3")
	if !strings.Contains(out, "Mon") || !strings.Contains(out, "Wed") {
		t.Errorf("list --days=3 = %q", out)
	}
	if strings.Contains(out, "Tuesday") {
		t.Errorf("empty days should be omitted:\n%s", out)
	}

	if _, err := run(t, repo, cfg, "list", "--days=0"); err == nil {
		t.Error("expected an error for --days=0")
	}
}

func TestApp_Select(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		seed   bool
		args   []string
		want   string
	}{
		{
			name: "drag down includes release slot",
			args: []string{"--from=09:00", "--to=10:30"},
			want: "Selected 09:00 – 11:00 (4 slots)",
		},
		{
			name: "drag up",
			args: []string{"--from=11:00", "--to=09:30"},
			want: "Selected 09:30 – 11:00 (3 slots)",
		},
		{
			name: "click selects one slot",
			args: []string{"--from=14:10", "--to=14:10"},
			want: "Selected 14:00 – 14:30 (1 slots)",
		},
		{
			name: "drag through an event",
			seed: true,
			args: []string{"--from=09:00", "--to=10:30"},
			want: "Selected 09:00 – 11:00 (4 slots)",
		},
		{
			name: "ignore_events turns a drag from an event into a click",
			seed: true,
			args: []string{"--from=09:00", "--to=10:30", "--mode=ignore_events"},
			want: "Clicked event #1: Standup",
		},
		{
			name: "selection off",
			args: []string{"--from=09:00", "--to=10:30", "--mode=off"},
			want: "Nothing selected",
		},
		{
			name: "outside business hours",
			mutate: func(c *config.Config) {
				c.BusinessHours = []config.BusinessHoursConfig{{Start: "09:00", End: "12:00"}}
			},
			args: []string{"--from=08:00", "--to=09:00"},
			want: "Nothing selected: outside business hours",
		},
		{
			name:   "release past the end of the column",
			mutate: func(c *config.Config) { c.Column.DayEnd = "18:00" },
			args:   []string{"--from=17:00", "--to=19:00"},
			want:   "Selected 17:00 – 18:00 (2 slots)",
		},
		{
			name: "drag cut short by business hours",
			mutate: func(c *config.Config) {
				c.BusinessHours = []config.BusinessHoursConfig{{Start: "09:00", End: "12:00"}}
			},
			args: []string{"--from=10:00", "--to=13:00"},
			want: "Selected 10:00 – 10:30 (1 slots)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			cfg := testConfig(t)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			if tt.seed {
				mustRun(t, repo, cfg, "add", "Standup", "--date=2025-03-10", "--start=09:00", "--end=10:00")
			}

			args := append([]string{"select", "--date=2025-03-10"}, tt.args...)
			out := mustRun(t, repo, cfg, args...)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestApp_SelectPressOutsideColumn(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)
	cfg.Column.DayEnd = "18:00"

	for _, from := range []string{"18:00", "19:00", "06:30"} {
		out, err := run(t, repo, cfg, "select", "--date=2025-03-10", "--from="+from, "--to="+from, "--title=Late")
		if err == nil {
			t.Errorf("--from=%s: expected an error, got %q", from, out)
		}
		if strings.Contains(out, "Selected") {
			t.Errorf("--from=%s: nothing should be selected:\n%s", from, out)
		}
	}
	if _, err := repo.GetEvent(context.Background(), 1); err == nil {
		t.Error("no event should have been created")
	}
}

func TestApp_SelectTraceAndSave(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)

	out := mustRun(t, repo, cfg, "select", "--date=2025-03-10", "--from=14:00", "--to=15:00", "--title=Call", "--trace")
	for _, want := range []string{"select_start", "selecting", "accepted", "Created event #1: Call"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	e, err := repo.GetEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if e.Start.Format("15:04") != "14:00" || e.End.Format("15:04") != "15:30" {
		t.Errorf("saved %s-%s, want 14:00-15:30", e.Start.Format("15:04"), e.End.Format("15:04"))
	}
}

func seedOverlap(t *testing.T, repo event.Repository, cfg *config.Config) {
	t.Helper()
	mustRun(t, repo, cfg, "add", "Alpha", "--date=2025-03-10", "--start=09:00", "--end=10:30")
	mustRun(t, repo, cfg, "add", "Bravo", "--date=2025-03-10", "--start=09:30", "--end=10:00")
	mustRun(t, repo, cfg, "add", "Late", "--date=2025-03-10", "--start=21:00", "--end=23:00")
}

func TestApp_LayoutJSON(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)
	seedOverlap(t, repo, cfg)

	out := mustRun(t, repo, cfg, "layout", "--date=2025-03-10", "--output=json")

	var report layoutReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decoding json: %v\n%s", err, out)
	}
	if report.DayStart != "07:00" || report.DayEnd != "22:00" || report.Step != 30 {
		t.Errorf("window = %s-%s/%d", report.DayStart, report.DayEnd, report.Step)
	}
	if len(report.Placements) != 3 {
		t.Fatalf("placements = %d, want 3", len(report.Placements))
	}

	alpha, bravo, late := report.Placements[0], report.Placements[1], report.Placements[2]
	if alpha.Title != "Alpha" || alpha.Width != 50 || alpha.XOffset != 0 {
		t.Errorf("alpha = %+v", alpha)
	}
	if bravo.Title != "Bravo" || bravo.Width != 50 || bravo.XOffset != 50 || bravo.Column != 1 {
		t.Errorf("bravo = %+v", bravo)
	}
	if alpha.Top != 13.33 || alpha.Height != 10 {
		t.Errorf("alpha geometry = %v/%v", alpha.Top, alpha.Height)
	}
	if late.Width != 100 || !late.ContinuesAfter || late.ContinuesBefore {
		t.Errorf("late = %+v", late)
	}
	if report.Busy != "2h30m" || report.MaxOverlap != 2 {
		t.Errorf("busy = %s, max overlap = %d", report.Busy, report.MaxOverlap)
	}
}

func TestApp_LayoutYAMLAndTable(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)
	seedOverlap(t, repo, cfg)

	out := mustRun(t, repo, cfg, "layout", "--date=2025-03-10", "-o", "yaml")
	var report layoutReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decoding yaml: %v\n%s", err, out)
	}
	if report.Day != "2025-03-10" || len(report.Placements) != 3 {
		t.Errorf("yaml report = %+v", report)
	}

	out = mustRun(t, repo, cfg, "layout", "--date=2025-03-10")
	for _, want := range []string{"TITLE", "Alpha", "09:00-10:30", "50.00%", "2/2", "21:00-23:00 ▼"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, repo, cfg, "layout", "-o", "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestApp_LayoutEmpty(t *testing.T) {
	out := mustRun(t, newTestRepo(t), testConfig(t), "layout", "--date=2025-03-10")
	if !strings.Contains(out, "No timed events.") {
		t.Errorf("output = %q", out)
	}

	out = mustRun(t, newTestRepo(t), testConfig(t), "layout", "--date=2025-03-10", "-o", "json")
	if !strings.Contains(out, `"placements": []`) {
		t.Errorf("json should carry an empty list: %q", out)
	}
}

const calendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//dayslot//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup@example\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART:20250310T090000Z\r\n" +
	"DTEND:20250310T091500Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:offsite@example\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250311\r\n" +
	"DTEND;VALUE=DATE:20250312\r\n" +
	"SUMMARY:Offsite\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART:20250310T100000Z\r\n" +
	"SUMMARY:No uid\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestApp_Import(t *testing.T) {
	repo := newTestRepo(t)
	cfg := testConfig(t)

	path := filepath.Join(t.TempDir(), "work.ics")
	if err := os.WriteFile(path, []byte(calendar), 0o644); err != nil {
		t.Fatalf("writing calendar: %v", err)
	}

	out := mustRun(t, repo, cfg, "import", path)
	if !strings.Contains(out, "Imported 2 events from work") {
		t.Errorf("import output = %q", out)
	}
	if !strings.Contains(out, "skipped:") {
		t.Errorf("expected the event without UID to be reported:\n%s", out)
	}

	// Importing again updates instead of duplicating.
	mustRun(t, repo, cfg, "import", path)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	events, err := repo.ListEventsBetween(context.Background(), from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("ListEventsBetween failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("stored %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.Source != "work" {
			t.Errorf("%s: source = %q, want work", e.Title, e.Source)
		}
	}
}

func TestImportCalendar(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, _, err := importCalendar(ctx, repo, event.SourceLocal, strings.NewReader(calendar)); err == nil {
		t.Error("expected an error importing as the local source")
	}
	if _, _, err := importCalendar(ctx, repo, "x", strings.NewReader("not a calendar")); err == nil {
		t.Error("expected a parse error")
	}

	count, skipped, err := importCalendar(ctx, repo, "team", strings.NewReader(calendar))
	if err != nil {
		t.Fatalf("importCalendar failed: %v", err)
	}
	if count != 2 || len(skipped) != 1 {
		t.Errorf("count = %d, skipped = %d", count, len(skipped))
	}
}

func TestApp_Version(t *testing.T) {
	out := mustRun(t, newTestRepo(t), testConfig(t), "version")
	if !strings.HasPrefix(out, "dayslot dev") {
		t.Errorf("version = %q", out)
	}
}

func TestApp_ConfigShow(t *testing.T) {
	cfg := testConfig(t)
	cfg.BusinessHours = []config.BusinessHoursConfig{{Days: []string{"mon"}, Start: "09:00", End: "17:00"}}

	out := mustRun(t, newTestRepo(t), cfg, "config", "--show")
	for _, want := range []string{"[column]", "day_start           = 07:00", "[[business_hours]]", "days                = mon"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestParseBusinessHours(t *testing.T) {
	if got := parseBusinessHours("none"); got != nil {
		t.Errorf("none = %v", got)
	}
	if got := parseBusinessHours(""); got != nil {
		t.Errorf("empty = %v", got)
	}
	got := parseBusinessHours(" 09:00 - 17:00 ")
	if len(got) != 1 || got[0].Start != "09:00" || got[0].End != "17:00" {
		t.Errorf("parseBusinessHours = %+v", got)
	}
}

func TestClockLabel(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	if got := clockLabel(day, day.Add(9*time.Hour+30*time.Minute)); got != "09:30" {
		t.Errorf("clockLabel = %q", got)
	}
	if got := clockLabel(day, day.AddDate(0, 0, 1)); got != "24:00" {
		t.Errorf("clockLabel(midnight) = %q", got)
	}
}
