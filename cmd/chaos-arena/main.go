package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Chaos-Arena/internal/audio"
	"github.com/Garsondee/Chaos-Arena/internal/config"
)

// ticksPerSecond is the simulation rate; every tuning value counts these ticks.
const ticksPerSecond = 50

func main() {
	var (
		cfgPath string
		layout  string
		seed    int64
		scale   int
		mute    bool
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file (defaults when empty)")
	flag.StringVar(&layout, "layout", "", "layout name, overrides the config")
	flag.Int64Var(&seed, "seed", 0, "spawn shuffle seed, overrides the config when non-zero")
	flag.IntVar(&scale, "scale", 3, "window scale")
	flag.BoolVar(&mute, "mute", false, "disable sound")
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
	if seed != 0 {
		cfg.Seed = seed
	}
	l, err := cfg.ResolveLayout()
	if err != nil {
		log.Fatal(err)
	}

	player := audio.NewSilent()
	if !mute {
		player = audio.New()
	}
	g, err := newGame(cfg, l, player, log.Default())
	if err != nil {
		log.Fatal(err)
	}

	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("Chaos Arena")
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetTPS(ticksPerSecond)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
