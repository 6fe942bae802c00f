package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"swarmarena/arena"
)

// Camera maps arena coordinates onto the screen
type Camera struct {
	X, Y   float64 // Camera position in arena coordinates
	Zoom   float64 // Zoom level
	Width  float64 // Viewport width
	Height float64 // Viewport height
}

// cameraMargin keeps the arena outline and HUD from touching the window edge
const cameraMargin = 100.0

// NewCamera creates a camera that frames the whole arena
func NewCamera(width, height float64, wall arena.Wall) *Camera {
	c := &Camera{Width: width, Height: height}
	c.Fit(wall)
	return c
}

// Fit centres the arena and zooms so its boundary plus a margin fills the
// shorter screen side
func (c *Camera) Fit(wall arena.Wall) {
	c.X, c.Y = wall.Center.X(), wall.Center.Y()
	c.Zoom = math.Min(c.Width, c.Height) / (2 * (wall.Radius + cameraMargin))
}

// WorldToScreen converts arena coordinates to screen coordinates
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + c.Width/2
	sy := (wy-c.Y)*c.Zoom + c.Height/2
	return sx, sy
}

// ScreenToWorld converts screen coordinates to arena coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := (sx-c.Width/2)/c.Zoom + c.X
	wy := (sy-c.Height/2)/c.Zoom + c.Y
	return wx, wy
}

// IntHeight returns the viewport height in whole pixels
func (c *Camera) IntHeight() int { return int(c.Height) }

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorBoundary   = colornames.White
	colorText       = colornames.White
	colorSelect     = color.RGBA{200, 200, 1, 255}
	colorStart      = color.RGBA{1, 255, 1, 255}
	colorTarget     = color.RGBA{255, 255, 255, 90}
)

// Renderer draws arena snapshots and the menu screens
type Renderer struct {
	camera *Camera
	face   *text.GoXFace
}

// NewRenderer creates a new renderer
func NewRenderer(camera *Camera) *Renderer {
	return &Renderer{
		camera: camera,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// Render draws the boundary, every entity and the HUD
func (r *Renderer) Render(screen *ebiten.Image, wall arena.Wall, res arena.TickResult) {
	screen.Fill(colorBackground)

	cx, cy := r.camera.WorldToScreen(wall.Center.X(), wall.Center.Y())
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(wall.Radius*r.camera.Zoom), 2, colorBoundary, true)

	r.RenderEntity(screen, res.Player)
	for i := range res.Swarm {
		r.RenderEntity(screen, res.Swarm[i])
	}
	for i := range res.Projectiles {
		r.RenderEntity(screen, res.Projectiles[i])
	}

	r.drawHUD(screen, res)
}

// RenderEntity draws a single entity as a filled circle
func (r *Renderer) RenderEntity(screen *ebiten.Image, e arena.Entity) {
	sx, sy := r.camera.WorldToScreen(e.Pos.X(), e.Pos.Y())

	radius := e.Radius * r.camera.Zoom
	if radius < 1 {
		radius = 1
	}
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), e.Color, true)
}

// drawTarget marks the point the autopilot steers at
func (r *Renderer) drawTarget(screen *ebiten.Image, from, to mgl64.Vec2) {
	x0, y0 := r.camera.WorldToScreen(from.X(), from.Y())
	x1, y1 := r.camera.WorldToScreen(to.X(), to.Y())
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, colorTarget, true)
	vector.StrokeCircle(screen, float32(x1), float32(y1), 6, 1, colorTarget, true)
}

// hudLines returns the swarm counter and the magazine lines
func hudLines(res arena.TickResult, tps int) (swarm string, ammo []string) {
	swarm = fmt.Sprintf("Small Balls: %d", len(res.Swarm))
	ammo = []string{fmt.Sprintf("Projectiles: %d", res.ProjectilesAvailable)}
	if res.ProjectilesAvailable == 0 {
		ammo = append(ammo, fmt.Sprintf("Reload: %.1fs", float64(res.ReloadRemaining())/float64(tps)))
	}
	return swarm, ammo
}

func (r *Renderer) drawHUD(screen *ebiten.Image, res arena.TickResult) {
	swarm, ammo := hudLines(res, ebiten.TPS())
	r.drawText(screen, swarm, r.camera.Width/2, 10, colorText, text.AlignCenter)
	for i, line := range ammo {
		r.drawText(screen, line, 10, 10+float64(i)*20, colorText, text.AlignStart)
	}
}

// RenderMenu draws the swarm size selection screen
func (r *Renderer) RenderMenu(screen *ebiten.Image, selected, step int) {
	screen.Fill(colorBackground)
	w, h := r.camera.Width, r.camera.Height

	r.drawScaledText(screen, "Big Ball vs Small Balls", w/2, h/4, 3, colorText)
	r.drawText(screen, fmt.Sprintf("Use +/- to increase/decrease by %d", step), w/2, h/2-40, colorText, text.AlignCenter)
	r.drawScaledText(screen, fmt.Sprintf("Select Max Small Balls: %d", selected), w/2, h/2, 2, colorSelect)
	r.drawScaledText(screen, "Press Enter to Start", w/2, h/1.5, 2, colorStart)
	r.drawText(screen, "Press D for a demo run", w/2, h/1.5+40, colorText, text.AlignCenter)
	r.drawText(screen, "Press Space to Shoot!", w/2, h/1.1, colorText, text.AlignCenter)
}

// RenderGameOver draws the winner banner
func (r *Renderer) RenderGameOver(screen *ebiten.Image, outcome arena.Outcome) {
	screen.Fill(colorBackground)
	w, h := r.camera.Width, r.camera.Height

	r.drawScaledText(screen, winnerText(outcome), w/2, h/2-30, 4, colorText)
	r.drawText(screen, "Press Q to exit, R to play again", w/2, h/2+40, colorText, text.AlignCenter)
}

func winnerText(outcome arena.Outcome) string {
	switch outcome {
	case arena.OutcomePlayerWon:
		return "Big Ball Wins!"
	case arena.OutcomeSwarmWon:
		return "Small Balls Win!"
	default:
		return "Game Over"
	}
}

func (r *Renderer) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(screen, s, r.face, op)
}

// drawScaledText draws centred text enlarged from the bitmap face
func (r *Renderer) drawScaledText(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, s, r.face, op)
}
