package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayslot/internal/column"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/layout"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// DebugLogger logs keystrokes, pointer gestures, and layout passes to a file as JSON lines.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "dayslot-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	// Create log file in current directory with fixed name (easy to find)
	logPath := DebugLogPath
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": logPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%T", msg.Type),
	})
}

// LogMouse logs a raw pointer press or release.
func LogMouse(msg tea.MouseMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MOUSE", map[string]any{
		"x":     msg.X,
		"y":     msg.Y,
		"mouse": msg.String(),
	})
}

// LogDispatch logs a classified gesture and the selection transition it produced.
func LogDispatch(d column.Dispatch) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{
		"signal":   d.Signal.Kind.String(),
		"percent":  d.Signal.Percent,
		"on_event": d.Signal.OnEvent,
		"result":   d.Transition.Result.String(),
	}
	if st := d.Transition.State; st.Valid {
		data["start"] = clock(st.Start)
		data["end"] = clock(st.End)
	}
	debugLog.log("DISPATCH", data)
}

// LogSelecting logs a range offered to the selecting observer.
func LogSelecting(r timeaxis.Range) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("SELECTING", map[string]any{
		"start": clock(r.Start),
		"end":   clock(r.End),
	})
}

// LogCommit logs a committed selection.
func LogCommit(c selection.Commit) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	slots := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		slots[i] = clock(s)
	}
	debugLog.log("COMMIT", map[string]any{
		"start": clock(c.Start),
		"end":   clock(c.End),
		"slots": slots,
	})
}

// LogLayout logs the placements of a layout pass.
func LogLayout(day time.Time, placements []layout.Placement[*event.Event]) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	items := make([]map[string]any, 0, len(placements))
	for _, p := range placements {
		items = append(items, map[string]any{
			"id":      p.Event.ID,
			"title":   truncateStr(p.Title(), 20),
			"top":     p.Top,
			"height":  p.Height,
			"x":       p.XOffset,
			"width":   p.Width,
			"column":  p.Column,
			"cluster": p.Cluster,
		})
	}
	debugLog.log("LAYOUT", map[string]any{
		"day":        day.Format("2006-01-02"),
		"placements": items,
	})
}

// LogModeChange logs a selection mode change.
func LogModeChange(from, to selection.Mode, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"reason": reason,
	})
}

// LogDayChange logs day navigation.
func LogDayChange(day time.Time) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("DAY_CHANGE", map[string]any{
		"day": day.Format("2006-01-02"),
	})
}

// LogPrompt logs title prompt transitions.
func LogPrompt(action, label string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("PROMPT", map[string]any{
		"action": action,
		"range":  label,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

// truncateStr truncates a string to max length.
func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
