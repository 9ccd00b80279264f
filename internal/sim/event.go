package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// EventKind represents the type of lifecycle event.
type EventKind int

const (
	EventTaskCreate EventKind = iota
	EventTaskKill
	EventThreadSpawn
	EventThreadKill
	EventFileOpen
	EventFileClose
	EventPageRelease
	EventReschedule
)

func (k EventKind) String() string {
	switch k {
	case EventTaskCreate:
		return "TaskCreate"
	case EventTaskKill:
		return "TaskKill"
	case EventThreadSpawn:
		return "ThreadSpawn"
	case EventThreadKill:
		return "ThreadKill"
	case EventFileOpen:
		return "FileOpen"
	case EventFileClose:
		return "FileClose"
	case EventPageRelease:
		return "PageRelease"
	case EventReschedule:
		return "Reschedule"
	default:
		return "Unknown"
	}
}

// Event is emitted on every lifecycle action.
type Event struct {
	Time     time.Time
	Kind     EventKind
	TaskID   int
	ThreadID int // -1 when the event is not thread-scoped
	Detail   string
}

// Tracer records lifecycle events in memory and, optionally, to a CSV log.
// A nil Tracer is valid and discards everything.
type Tracer struct {
	events []Event

	csvFile   *os.File
	csvWriter *csv.Writer
}

// NewTracer returns an in-memory tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before the first Emit.
func (t *Tracer) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "event", "task_id", "thread_id", "detail"})
	w.Flush()
	t.csvFile = f
	t.csvWriter = w
	return nil
}

// Emit records one event.
func (t *Tracer) Emit(ev Event) {
	if t == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	t.events = append(t.events, ev)

	if t.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			ev.Kind.String(),
			strconv.Itoa(ev.TaskID),
			strconv.Itoa(ev.ThreadID),
			ev.Detail,
		}
		t.csvWriter.Write(rec)
		t.csvWriter.Flush()
	}
}

// Events returns the recorded events in emission order.
func (t *Tracer) Events() []Event {
	if t == nil {
		return nil
	}
	return t.events
}

// Count returns how many events of the given kind were recorded.
func (t *Tracer) Count(kind EventKind) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, ev := range t.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Close flushes and closes the CSV log, if any.
func (t *Tracer) Close() error {
	if t == nil || t.csvFile == nil {
		return nil
	}
	t.csvWriter.Flush()
	err := t.csvFile.Close()
	t.csvFile = nil
	t.csvWriter = nil
	return err
}
