package arena

import (
	"fmt"
	"log"
	"strings"
)

// Event categories recorded by the session.
const (
	CatRound     = "round"
	CatState     = "state"
	CatStrike    = "strike"
	CatHazard    = "hazard"
	CatInvariant = "invariant"
)

// defaultEventLimit caps how many entries an EventLog keeps before it starts
// dropping the oldest half.
const defaultEventLimit = 8192

// Event is one recorded simulation event.
type Event struct {
	Tick     int
	Who      string // combatant label e.g. "P1", "X2", or "--" for global events
	Category string // round, state, strike, hazard, invariant
	Key      string // specific event name within the category
	Value    string // human-readable detail
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P3   strike    hit              P5 pushed E
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Who, e.Category, e.Key, e.Value)
}

// EventLog collects structured events from a session. Invariant breaches are
// also mirrored to the optional sink so a windowed run reports them on stderr.
type EventLog struct {
	entries []Event
	verbose bool
	limit   int
	total   int // entries ever added, including dropped ones
	sink    *log.Logger
}

// NewEventLog creates an EventLog. If verbose is true, per-tick movement
// entries are also recorded.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose, limit: defaultEventLimit}
}

// SetSink mirrors invariant events to l. Pass nil to stop mirroring.
func (el *EventLog) SetSink(l *log.Logger) {
	el.sink = l
}

// Verbose reports whether verbose entries are recorded.
func (el *EventLog) Verbose() bool {
	return el.verbose
}

// Add records a new entry.
func (el *EventLog) Add(tick int, who, category, key, value string) {
	if el == nil {
		return
	}
	e := Event{Tick: tick, Who: who, Category: category, Key: key, Value: value}
	if el.limit > 0 && len(el.entries) >= el.limit {
		n := copy(el.entries, el.entries[len(el.entries)/2:])
		el.entries = el.entries[:n]
	}
	el.entries = append(el.entries, e)
	el.total++
	if category == CatInvariant && el.sink != nil {
		el.sink.Print(e.String())
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EventLog) AddVerbose(tick int, who, category, key, value string) {
	if el == nil || !el.verbose {
		return
	}
	el.Add(tick, who, category, key, value)
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []Event {
	return el.entries
}

// Since returns the entries added after the first seq, and the sequence
// number to pass next time. Entries already dropped by the limit are skipped.
func (el *EventLog) Since(seq int) ([]Event, int) {
	if el == nil {
		return nil, seq
	}
	start := len(el.entries) - (el.total - seq)
	if start < 0 {
		start = 0
	}
	if start > len(el.entries) {
		start = len(el.entries)
	}
	return el.entries[start:], el.total
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterWho returns entries for one combatant label.
func (el *EventLog) FilterWho(label string) []Event {
	var out []Event
	for _, e := range el.entries {
		if e.Who == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (el *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range el.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (el *EventLog) Count(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	for i := len(el.entries) - 1; i >= 0; i-- {
		e := el.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	return formatEvents(el.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (el *EventLog) FormatRange(fromTick, toTick int) string {
	return formatEvents(el.FilterTickRange(fromTick, toTick))
}

func formatEvents(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
