package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/dayslot/internal/column"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

func TestEventsAcrossZones(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*60*60)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, tokyo)
	e, err := event.New("Sync", start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	got, err := repo.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("failed to get event: %v", err)
	}
	if !got.Start.Equal(start) || !got.End.Equal(start.Add(time.Hour)) {
		t.Errorf("stored instants changed: %v - %v", got.Start, got.End)
	}

	// The instant lands at the same position in a window built in its own zone.
	w, err := timeaxis.ForDay(start, "08:00", "12:00", 30)
	if err != nil {
		t.Fatalf("failed to build window: %v", err)
	}
	col := newColumn(t, column.Options[*event.Event]{Mode: selection.Enabled})
	if err := col.SetWindow(w); err != nil {
		t.Fatalf("failed to set window: %v", err)
	}
	placements := col.Layout([]*event.Event{got})
	if len(placements) != 1 || placements[0].Top != 50 || placements[0].Height != 25 {
		t.Errorf("unexpected placement: %+v", placements)
	}
}
