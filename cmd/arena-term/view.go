package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"swarmarena/arena"
)

// cellAspect is the height of a terminal cell relative to its width
const cellAspect = 2.0

// hudRows are reserved at the top for the counters
const hudRows = 2

// viewport maps arena coordinates onto terminal cells
type viewport struct {
	cols, rows int
	wall       arena.Wall
	scale      float64 // columns per arena unit
}

func newViewport(cols, rows int, wall arena.Wall) viewport {
	usable := rows - hudRows
	if usable < 1 {
		usable = 1
	}
	// Fit the circle's diameter into whichever dimension is tighter
	scaleX := float64(cols-1) / (2 * wall.Radius)
	scaleY := float64(usable-1) * cellAspect / (2 * wall.Radius)
	return viewport{cols: cols, rows: rows, wall: wall, scale: math.Max(math.Min(scaleX, scaleY), 1e-6)}
}

// toCell returns the terminal cell for an arena point
func (v viewport) toCell(p mgl64.Vec2) (int, int) {
	d := p.Sub(v.wall.Center)
	x := float64(v.cols)/2 + d.X()*v.scale
	y := float64(hudRows) + float64(v.rows-hudRows)/2 + d.Y()*v.scale/cellAspect
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v viewport) inside(x, y int) bool {
	return x >= 0 && x < v.cols && y >= hudRows && y < v.rows
}

// glyph picks the rune for an entity kind
func glyph(k arena.Kind) rune {
	switch k {
	case arena.KindPlayer:
		return '@'
	case arena.KindProjectile:
		return '*'
	default:
		return 'o'
	}
}

func styleFor(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// drawArena draws the boundary, entities and HUD for one tick result
func drawArena(s tcell.Screen, v viewport, res arena.TickResult, tps int) {
	boundary := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	steps := int(2 * math.Pi * v.wall.Radius * v.scale * 2)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		p := v.wall.Center.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(v.wall.Radius))
		if x, y := v.toCell(p); v.inside(x, y) {
			s.SetContent(x, y, '.', nil, boundary)
		}
	}

	plot := func(e arena.Entity) {
		if x, y := v.toCell(e.Pos); v.inside(x, y) {
			s.SetContent(x, y, glyph(e.Kind), nil, styleFor(e.Color))
		}
	}
	for _, e := range res.Swarm {
		plot(e)
	}
	for _, p := range res.Projectiles {
		plot(p)
	}
	plot(res.Player)

	counter := fmt.Sprintf("Small Balls: %d / %d", len(res.Swarm), res.MaxSwarmSize)
	drawText(s, (v.cols-len(counter))/2, 0, counter, tcell.StyleDefault)
	ammo := fmt.Sprintf("Projectiles: %d", res.ProjectilesAvailable)
	if res.ProjectilesAvailable == 0 {
		ammo += fmt.Sprintf("  Reload: %.1fs", float64(res.ReloadRemaining())/float64(tps))
	}
	drawText(s, 0, 0, ammo, tcell.StyleDefault)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawCentered writes lines centred on the screen starting at row y
func drawCentered(s tcell.Screen, y int, style tcell.Style, lines ...string) {
	cols, _ := s.Size()
	for i, line := range lines {
		drawText(s, (cols-len([]rune(line)))/2, y+i, line, style)
	}
}
