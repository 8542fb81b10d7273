package tui

import (
	"strings"
	"time"
)

// EventLog records async-operation transitions for the in-TUI debug panel.
// Only active with --debug; recording is a no-op otherwise.
type EventLog struct {
	enabled bool
	lines   []string
	buffer  int
}

// NewEventLog creates an event log
func NewEventLog(enabled bool) *EventLog {
	return &EventLog{
		enabled: enabled,
		buffer:  100,
	}
}

// Enabled reports whether the panel is shown
func (e *EventLog) Enabled() bool {
	return e != nil && e.enabled
}

// Record appends an operation event, e.g. Record("login", "succeeded")
func (e *EventLog) Record(op, outcome string) {
	if !e.Enabled() {
		return
	}
	line := time.Now().Format("15:04:05.000") + " " + op + ": " + outcome
	e.lines = append(e.lines, line)
	if len(e.lines) > e.buffer {
		e.lines = e.lines[len(e.lines)-e.buffer:]
	}
}

// Render renders the panel at the given size
func (e *EventLog) Render(width, height int) string {
	if !e.Enabled() {
		return ""
	}

	contentHeight := height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}

	start := 0
	if len(e.lines) > contentHeight {
		start = len(e.lines) - contentHeight
	}

	maxLen := width - 4
	if maxLen < 10 {
		maxLen = 10
	}

	var lines []string
	for _, line := range e.lines[start:] {
		if len(line) > maxLen {
			line = line[:maxLen-1] + "…"
		}
		lines = append(lines, line)
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}

	return EventLogStyle.
		Width(width).
		Render(EventLogTitleStyle.Render("EVENTS") + "\n" + strings.Join(lines, "\n"))
}
