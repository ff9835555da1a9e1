// Command arena-tty watches CPU-only rounds in a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
	"github.com/Garsondee/Chaos-Arena/internal/audio"
	"github.com/Garsondee/Chaos-Arena/internal/config"
	"github.com/Garsondee/Chaos-Arena/internal/steer"
	"github.com/Garsondee/Chaos-Arena/internal/tty"
)

const tickInterval = 20 * time.Millisecond

// pauseTicks is how long a finished round stays on screen.
const pauseTicks = 100

func main() {
	var (
		cfgPath string
		layout  string
		rounds  int
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file (defaults when empty)")
	flag.StringVar(&layout, "layout", "", "layout name, overrides the config")
	flag.IntVar(&rounds, "rounds", 0, "stop after this many rounds (0 runs until quit)")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if layout != "" {
		cfg.Layout = layout
	}
	cfg.Slots = spectatorSlots()
	l, err := cfg.ResolveLayout()
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	if err := run(screen, cfg, l, rounds); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
}

// spectatorSlots seats a CPU in every player slot; the terminal reads no
// steering input.
func spectatorSlots() []string {
	out := make([]string, arena.PlayerSlots)
	for i := range out {
		out[i] = steer.ModeCPU.String()
	}
	return out
}

func run(screen tcell.Screen, cfg config.Config, l *arena.Layout, rounds int) error {
	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if isQuitKey(ev) {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	term := tty.New(screen, l, cfg.Tuning.CrumbleSteps)
	player := audio.NewSilent()
	wins := map[string]int{}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for round := 1; rounds == 0 || round <= rounds; round++ {
		sc, err := cfg.Session()
		if err != nil {
			return err
		}
		sc.Seed = cfg.Seed + int64(round-1)
		s, err := arena.NewSession(sc, l, arena.Collaborators{
			Renderer: term,
			Audio:    player,
			Effects:  term,
		})
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}

		pause := -1
		for pause != 0 {
			select {
			case <-quit:
				return nil
			case <-ticker.C:
			}
			if pause > 0 {
				pause--
				continue
			}
			s.Tick()
			if s.RoundOver() {
				winner := "nobody"
				if w := s.LastAliveSlot(); w != arena.NoWinner {
					winner = arena.SlotLabel(w)
				}
				wins[winner]++
				pause = pauseTicks
				term.SetStatus(fmt.Sprintf("round %d: %s wins (%d total)  q quits", round, winner, wins[winner]))
				term.ShowStatus()
				continue
			}
			term.SetStatus(statusLine(round, s))
		}
	}
	return nil
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func statusLine(round int, s *arena.Session) string {
	if s.CountdownActive() {
		return fmt.Sprintf("round %d  get ready %d", round, s.CountdownSeconds())
	}
	return fmt.Sprintf("round %d  tick %d  alive %d  floor %d",
		round, s.TickCount(), s.AliveCount(), s.Hazard().SolidTiles())
}
