package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

// HUDHeight is the strip above the arena holding scores.
const HUDHeight = 16

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// HUD is what the score strip and banners show for one frame.
type HUD struct {
	Labels    []string // steer mode label per player slot, "" for slots without a human
	Scores    []int
	Alive     []bool
	Countdown int    // seconds left, 0 hides the countdown
	Banner    string // round summary, "" hides it
}

func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}

// DrawHUD renders the score strip at the top of dst and any centred
// countdown or banner over the arena area of size w x h starting at HUDHeight.
func DrawHUD(dst *ebiten.Image, h HUD, w, arenaH int) {
	vector.FillRect(dst, 0, 0, float32(w), HUDHeight, color.RGBA{R: 16, G: 14, B: 22, A: 255}, false)
	x := 4
	for i, mode := range h.Labels {
		if mode == "" {
			continue
		}
		col := color.Color(SlotColor(i))
		if i < len(h.Alive) && !h.Alive[i] {
			col = color.RGBA{R: 90, G: 90, B: 90, A: 255}
		}
		score := 0
		if i < len(h.Scores) {
			score = h.Scores[i]
		}
		s := fmt.Sprintf("%s:%d", arena.SlotLabel(i), score)
		drawText(dst, s, x, 1, col)
		x += len(s)*7 + 8
	}

	if h.Countdown > 0 {
		s := fmt.Sprintf("%d", h.Countdown)
		drawCentered(dst, []string{s}, w, arenaH)
	}
	if h.Banner != "" {
		drawCentered(dst, strings.Split(h.Banner, "\n"), w, arenaH)
	}
}

func drawCentered(dst *ebiten.Image, lines []string, w, arenaH int) {
	widest := 0
	for _, l := range lines {
		widest = max(widest, len(l))
	}
	bw, bh := widest*7+16, len(lines)*14+10
	bx, by := (w-bw)/2, HUDHeight+(arenaH-bh)/2
	vector.FillRect(dst, float32(bx), float32(by), float32(bw), float32(bh), color.RGBA{R: 10, G: 10, B: 16, A: 220}, false)
	vector.StrokeRect(dst, float32(bx), float32(by), float32(bw), float32(bh), 1, color.RGBA{R: 200, G: 180, B: 120, A: 255}, false)
	for i, l := range lines {
		drawText(dst, l, bx+8+(widest-len(l))*7/2, by+5+i*14, color.White)
	}
}

// RoundBanner formats the end-of-round summary for a winner slot, or a draw
// when winner is arena.NoWinner.
func RoundBanner(winner int, labels []string, scores []int) string {
	var b strings.Builder
	if winner == arena.NoWinner || winner >= len(labels) {
		b.WriteString("NOBODY WINS")
	} else {
		fmt.Fprintf(&b, "%s WINS", arena.SlotLabel(winner))
	}
	for i, l := range labels {
		if l == "" || i >= len(scores) {
			continue
		}
		fmt.Fprintf(&b, "\n%s %-6s %2d", arena.SlotLabel(i), l, scores[i])
	}
	return b.String()
}
