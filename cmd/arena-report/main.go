package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
	"github.com/Garsondee/Chaos-Arena/internal/config"
	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

type runStats struct {
	runIndex int
	seed     int64

	endTick        int // -1 when the round was still going at the tick limit
	winner         string
	survivors      int
	firstFallTick  int
	firstDeathTick int
	firstHitTick   int

	hits      int
	falls     int
	deaths    int
	claims    int
	voids     int
	invariant map[string]int

	hitsBy  map[string]int
	deathOf map[string]string // label -> death reason
}

func main() {
	var (
		cfgPath  string
		layout   string
		runs     int
		ticks    int
		seedBase int64
		seedStep int64
		extra    bool
		keep     bool
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file (defaults when empty)")
	flag.StringVar(&layout, "layout", "", "layout name, overrides the config")
	flag.IntVar(&runs, "runs", 5, "number of headless rounds")
	flag.IntVar(&ticks, "ticks", 15000, "tick limit per round")
	flag.Int64Var(&seedBase, "seed-base", 1, "seed of run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&extra, "extra-enemies", false, "add the four extra CPU enemies")
	flag.BoolVar(&keep, "keep-slots", false, "keep configured slot modes instead of seating CPUs everywhere")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}
	if layout != "" {
		cfg.Layout = layout
	}
	if extra {
		cfg.ExtraEnemies = true
	}
	if !keep {
		cfg.Slots = allCPU()
	}
	l, err := cfg.ResolveLayout()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("layout=%s runs=%d ticks=%d seed_base=%d seed_step=%d extra_enemies=%t\n\n",
		l.Name, runs, ticks, seedBase, seedStep, cfg.ExtraEnemies)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		cfg.Seed = seedBase + int64(i)*seedStep
		rs, err := runRound(i+1, cfg, l, ticks)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

func allCPU() []string {
	out := make([]string, arena.PlayerSlots)
	for i := range out {
		out[i] = steer.ModeCPU.String()
	}
	return out
}

func runRound(runIndex int, cfg config.Config, l *arena.Layout, ticks int) (runStats, error) {
	sc, err := cfg.Session()
	if err != nil {
		return runStats{}, err
	}
	el := arena.NewEventLog(false)
	el.SetSink(log.Default())
	s, err := arena.NewSession(sc, l, arena.Collaborators{Log: el})
	if err != nil {
		return runStats{}, err
	}
	end := -1
	for t := 1; t <= ticks; t++ {
		s.Tick()
		if s.RoundOver() {
			end = t
			break
		}
	}
	rs := collectStats(el.Entries())
	rs.runIndex = runIndex
	rs.seed = cfg.Seed
	rs.endTick = end
	rs.survivors = s.AliveCount()
	rs.winner = "none"
	if w := s.LastAliveSlot(); w != arena.NoWinner {
		rs.winner = arena.SlotLabel(w)
	}
	return rs, nil
}

func collectStats(entries []arena.Event) runStats {
	rs := runStats{
		invariant: map[string]int{},
		hitsBy:    map[string]int{},
		deathOf:   map[string]string{},
	}
	for _, e := range entries {
		switch e.Category {
		case arena.CatStrike:
			if e.Key == "hit" {
				rs.hits++
				rs.hitsBy[e.Who]++
			}
		case arena.CatState:
			switch e.Key {
			case "fall":
				rs.falls++
			case "dead":
				rs.deaths++
				rs.deathOf[e.Who] = e.Value
			}
		case arena.CatHazard:
			switch e.Key {
			case "claim":
				rs.claims++
			case "void":
				rs.voids++
			}
		case arena.CatInvariant:
			rs.invariant[e.Key]++
		}
	}
	rs.firstFallTick = firstTick(entries, arena.CatState, "fall", "")
	rs.firstDeathTick = firstTick(entries, arena.CatState, "dead", "")
	rs.firstHitTick = firstTick(entries, arena.CatStrike, "hit", "")
	return rs
}

func firstTick(entries []arena.Event, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: end_tick=%d winner=%s survivors=%d\n", rs.endTick, rs.winner, rs.survivors)
	fmt.Printf("phase_markers: first_hit=%d first_fall=%d first_death=%d\n",
		rs.firstHitTick, rs.firstFallTick, rs.firstDeathTick)
	fmt.Printf("event_totals: hits=%d falls=%d deaths=%d claims=%d voided=%d\n",
		rs.hits, rs.falls, rs.deaths, rs.claims, rs.voids)
	fmt.Printf("hits_by: %s\n", joinCounts(rs.hitsBy))
	fmt.Printf("invariant: %s\n", joinCounts(rs.invariant))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalHits, totalFalls, totalDeaths, totalVoids, totalInvariant := 0, 0, 0, 0, 0
	endTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	wins := map[string]int{}
	reasons := map[string]int{}
	unfinished := 0

	for _, rs := range all {
		totalHits += rs.hits
		totalFalls += rs.falls
		totalDeaths += rs.deaths
		totalVoids += rs.voids
		for _, n := range rs.invariant {
			totalInvariant += n
		}
		if rs.endTick >= 0 {
			endTicks = append(endTicks, rs.endTick)
		} else {
			unfinished++
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		wins[rs.winner]++
		for _, why := range rs.deathOf {
			reasons[why]++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d unfinished=%d\n", len(all), unfinished)
	fmt.Printf("avg_events_per_run: hits=%.1f falls=%.1f deaths=%.1f voided=%.1f invariant=%.1f\n",
		avg(totalHits, len(all)), avg(totalFalls, len(all)), avg(totalDeaths, len(all)),
		avg(totalVoids, len(all)), avg(totalInvariant, len(all)))
	fmt.Printf("avg_ticks: round_end=%s first_death=%s\n", avgTickString(endTicks), avgTickString(deathTicks))
	fmt.Printf("wins: %s\n", joinCounts(wins))
	fmt.Printf("death_reasons: %s\n", joinCounts(reasons))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
