package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"swarmarena/arena"
)

// DebugState holds debug flags; it survives returning to the menu
type DebugState struct {
	ShowGrid bool // Show cell grid lines, occupancy and TPS
}

var (
	colorGridLine = color.RGBA{60, 60, 90, 255}
	colorGridBusy = color.RGBA{90, 40, 40, 120}
)

// drawGrid overlays the spatial grid, shading occupied cells
func (r *Renderer) drawGrid(screen *ebiten.Image, g *arena.Grid, tps float64) {
	cols := g.Cols()
	size := g.CellSize()
	origin := g.Origin()
	extent := float64(cols) * size

	for cy := 0; cy < cols; cy++ {
		for cx := 0; cx < cols; cx++ {
			cell := g.GetCell(cx, cy)
			if cell == nil || cell.Count == 0 {
				continue
			}
			x, y := r.camera.WorldToScreen(origin.X()+float64(cx)*size, origin.Y()+float64(cy)*size)
			s := float32(size * r.camera.Zoom)
			vector.DrawFilledRect(screen, float32(x), float32(y), s, s, colorGridBusy, false)
		}
	}

	for i := 0; i <= cols; i++ {
		off := float64(i) * size
		x0, y0 := r.camera.WorldToScreen(origin.X()+off, origin.Y())
		x1, y1 := r.camera.WorldToScreen(origin.X()+off, origin.Y()+extent)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, colorGridLine, false)

		x0, y0 = r.camera.WorldToScreen(origin.X(), origin.Y()+off)
		x1, y1 = r.camera.WorldToScreen(origin.X()+extent, origin.Y()+off)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, colorGridLine, false)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.1f  cells %dx%d @ %.0f", tps, cols, cols, size), 10, r.camera.IntHeight()-20)
}
