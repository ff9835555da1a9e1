package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
	"github.com/Garsondee/Chaos-Arena/internal/config"
	"github.com/Garsondee/Chaos-Arena/internal/input"
	"github.com/Garsondee/Chaos-Arena/internal/render"
	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// summaryTicks is how long the round banner stays up before the next round.
const summaryTicks = 150

// reportTicks is how many trailing ticks of events a copied report includes.
const reportTicks = 300

// errQuit ends RunGame cleanly.
var errQuit = errors.New("quit")

// Game is the windowed frontend: it owns the round loop around a session.
type Game struct {
	cfg    config.Config
	layout *arena.Layout
	modes  [arena.PlayerSlots]steer.Mode

	screen *render.Screen
	panel  *render.LogPanel
	audio  arena.Audio
	pads   *input.Gamepads
	logger *log.Logger

	session *arena.Session
	round   int
	scores  [arena.PlayerSlots]int

	banner      string
	bannerTicks int
	overlay     bool
}

func newGame(cfg config.Config, layout *arena.Layout, audio arena.Audio, logger *log.Logger) (*Game, error) {
	modes, err := cfg.Modes()
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:    cfg,
		layout: layout,
		modes:  modes,
		screen: render.NewScreen(layout, cfg.Tuning.CrumbleSteps),
		panel:  render.NewLogPanel(false),
		audio:  audio,
		pads:   &input.Gamepads{},
		logger: logger,
	}
	if err := g.newRound(); err != nil {
		return nil, err
	}
	return g, nil
}

// newRound seats a fresh session. Each round gets its own seed so spawns
// reshuffle.
func (g *Game) newRound() error {
	sc, err := g.cfg.Session()
	if err != nil {
		return err
	}
	sc.Seed = g.cfg.Seed + int64(g.round)
	el := arena.NewEventLog(false)
	el.SetSink(g.logger)
	s, err := arena.NewSession(sc, g.layout, arena.Collaborators{
		Renderer: g.screen,
		Audio:    g.audio,
		Effects:  g.screen,
		Inputs:   input.Sources(g.pads),
		Log:      el,
	})
	if err != nil {
		return fmt.Errorf("round %d: %w", g.round+1, err)
	}
	g.session = s
	g.round++
	g.banner, g.bannerTicks = "", 0
	g.panel.Reset()
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.overlay = !g.overlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && g.bannerTicks > 0 {
		g.bannerTicks = 1
	}
	g.pads.Refresh()
	return g.step()
}

// step advances one tick of the round loop.
func (g *Game) step() error {
	if g.bannerTicks > 0 {
		g.bannerTicks--
		if g.bannerTicks == 0 {
			return g.newRound()
		}
		return nil
	}
	g.session.Tick()
	g.panel.Sync(g.session.Log())
	if g.session.RoundOver() {
		winner := g.session.LastAliveSlot()
		awardRound(&g.scores, winner, g.modes)
		g.banner = render.RoundBanner(winner, g.hudLabels(), g.scores[:])
		g.bannerTicks = summaryTicks
		g.session.Log().Add(g.session.TickCount(), "--", arena.CatRound, "over", g.banner)
	}
	return nil
}

// awardRound gives the winner a point when a human plays that slot.
func awardRound(scores *[arena.PlayerSlots]int, winner int, modes [arena.PlayerSlots]steer.Mode) {
	if winner < 0 || winner >= arena.PlayerSlots || !modes[winner].IsPlayer() {
		return
	}
	scores[winner]++
}

func (g *Game) hudLabels() []string {
	labels := make([]string, arena.PlayerSlots)
	for i, m := range g.modes {
		if m.IsPlayer() {
			labels[i] = m.String()
		}
	}
	return labels
}

func (g *Game) copyReport() {
	rep := g.session.DebugReport(reportTicks)
	if err := clipboard.WriteAll(rep); err != nil {
		g.logger.Printf("copy report: %v", err)
		return
	}
	g.logger.Printf("debug report copied (%d bytes)", len(rep))
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 4, G: 3, B: 8, A: 255})
	size := g.screen.Size()
	g.screen.Draw(screen, 0, render.HUDHeight)
	if g.overlay {
		render.DrawOccupancy(screen, 0, render.HUDHeight, g.session.OccupiedCells())
	}

	alive := make([]bool, arena.PlayerSlots)
	for i := range alive {
		alive[i] = !g.session.Combatant(i).IsDead()
	}
	hud := render.HUD{
		Labels: g.hudLabels(),
		Scores: g.scores[:],
		Alive:  alive,
		Banner: g.banner,
	}
	if g.session.CountdownActive() {
		hud.Countdown = g.session.CountdownSeconds()
	}
	render.DrawHUD(screen, hud, size.X, size.Y)
	g.panel.Draw(screen, size.X, size.Y+render.HUDHeight)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	size := g.screen.Size()
	return size.X + render.LogPanelWidth, size.Y + render.HUDHeight
}
