package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

const (
	LogPanelWidth = 220
	logMaxEntries = 60
	logLineHeight = 11
)

// LogPanel is a ring buffer of recent session events drawn beside the arena.
type LogPanel struct {
	entries []arena.Event
	head    int
	count   int
	seq     int
	hidden  map[string]bool // categories not shown
}

// NewLogPanel creates a panel. Crumble claims and steps are frequent enough
// to drown the rest, so hazard events are hidden unless showHazard is set.
func NewLogPanel(showHazard bool) *LogPanel {
	lp := &LogPanel{
		entries: make([]arena.Event, logMaxEntries),
		hidden:  map[string]bool{},
	}
	if !showHazard {
		lp.hidden[arena.CatHazard] = true
	}
	return lp
}

// Add appends an entry to the panel.
func (lp *LogPanel) Add(e arena.Event) {
	if lp.hidden[e.Category] {
		return
	}
	lp.entries[lp.head] = e
	lp.head = (lp.head + 1) % logMaxEntries
	if lp.count < logMaxEntries {
		lp.count++
	}
}

// Sync pulls everything el recorded since the last call.
func (lp *LogPanel) Sync(el *arena.EventLog) {
	events, seq := el.Since(lp.seq)
	for _, e := range events {
		lp.Add(e)
	}
	lp.seq = seq
}

// Reset empties the panel and rewinds the sync cursor for a new log.
func (lp *LogPanel) Reset() {
	lp.head, lp.count, lp.seq = 0, 0, 0
}

// Recent returns entries in chronological order (oldest first).
func (lp *LogPanel) Recent() []arena.Event {
	result := make([]arena.Event, lp.count)
	for i := 0; i < lp.count; i++ {
		idx := (lp.head - lp.count + i + logMaxEntries) % logMaxEntries
		result[i] = lp.entries[idx]
	}
	return result
}

func categoryColor(cat string) color.RGBA {
	switch cat {
	case arena.CatStrike:
		return color.RGBA{R: 230, G: 150, B: 60, A: 255}
	case arena.CatState:
		return color.RGBA{R: 110, G: 170, B: 230, A: 255}
	case arena.CatInvariant:
		return color.RGBA{R: 240, G: 60, B: 60, A: 255}
	case arena.CatHazard:
		return color.RGBA{R: 140, G: 120, B: 90, A: 255}
	default:
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
}

// Draw renders the panel at panelX, newest entry at the bottom.
func (lp *LogPanel) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, LogPanelWidth, float32(panelH), color.RGBA{R: 12, G: 10, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 50, B: 80, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, LogPanelWidth, 16, color.RGBA{R: 26, G: 20, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)

	entries := lp.Recent()
	maxVisible := (panelH - 20) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 18
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), LogPanelWidth-4, logLineHeight, color.RGBA{R: 34, G: 28, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+4), float32(y+3), 3, 5, categoryColor(e.Category), false)
		line := fmt.Sprintf("%4d %-3s %s %s", e.Tick, e.Who, e.Key, e.Value)
		if len(line) > 34 {
			line = line[:34]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+10, y-2)
		y += logLineHeight
	}
}
