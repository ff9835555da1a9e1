package main

import (
	"bytes"
	"log"
	"testing"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
	"github.com/Garsondee/Chaos-Arena/internal/audio"
	"github.com/Garsondee/Chaos-Arena/internal/config"
	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

func TestAwardRound_OnlyHumanSlotsScore(t *testing.T) {
	var modes [arena.PlayerSlots]steer.Mode
	for i := range modes {
		modes[i] = steer.ModeOff
	}
	modes[0] = steer.ModeWSAD
	modes[1] = steer.ModeCPU

	var scores [arena.PlayerSlots]int
	awardRound(&scores, 0, modes)
	awardRound(&scores, 1, modes)
	awardRound(&scores, 3, modes)
	awardRound(&scores, arena.NoWinner, modes)
	if scores != [arena.PlayerSlots]int{1, 0, 0, 0, 0, 0} {
		t.Fatalf("unexpected scores %v", scores)
	}
}

func newTestGame(t *testing.T, edit func(*config.Config)) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Slots = []string{"CPU", "CPU", "CPU", "CPU", "CPU", "CPU"}
	cfg.Tuning.CountdownTicks = 0
	cfg.Tuning.CrumbleClaimInterval = 5
	cfg.Tuning.CrumbleCooldown = 3
	if edit != nil {
		edit(&cfg)
	}
	l, err := cfg.ResolveLayout()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	g, err := newGame(cfg, l, audio.NewSilent(), log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGame_RoundLoopRestartsAfterBanner(t *testing.T) {
	g := newTestGame(t, nil)
	first := g.session

	ended := -1
	for i := 0; i < 20000; i++ {
		if err := g.step(); err != nil {
			t.Fatal(err)
		}
		if g.bannerTicks > 0 {
			ended = i
			break
		}
	}
	if ended < 0 {
		t.Fatal("round never ended")
	}
	if g.banner == "" {
		t.Fatal("no banner after round end")
	}
	if g.scores != [arena.PlayerSlots]int{} {
		t.Fatalf("CPU winners must not score, got %v", g.scores)
	}

	for i := 0; i < summaryTicks; i++ {
		if err := g.step(); err != nil {
			t.Fatal(err)
		}
	}
	if g.session == first {
		t.Fatal("expected a new session after the banner")
	}
	if g.round != 2 || g.bannerTicks != 0 {
		t.Fatalf("round=%d bannerTicks=%d", g.round, g.bannerTicks)
	}
}

func TestGame_LayoutFitsArenaHUDAndPanel(t *testing.T) {
	g := newTestGame(t, nil)
	w, h := g.Layout(0, 0)
	size := g.layout.PixelSize()
	if w <= size.X || h <= size.Y {
		t.Fatalf("layout %dx%d does not contain the %v arena", w, h, size)
	}
}
