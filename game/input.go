package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"swarmarena/arena"
)

// KeyFunc reports whether a key is held or was just pressed
type KeyFunc func(ebiten.Key) bool

// anyKey reports whether any of keys satisfies f
func anyKey(f KeyFunc, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if f(k) {
			return true
		}
	}
	return false
}

// PlayerInput maps arrow keys or WASD to movement and Space to fire
type PlayerInput struct {
	pressed     KeyFunc
	justPressed KeyFunc
}

// NewPlayerInput creates an input provider reading the ebiten keyboard
func NewPlayerInput() *PlayerInput {
	return &PlayerInput{
		pressed:     ebiten.IsKeyPressed,
		justPressed: inpututil.IsKeyJustPressed,
	}
}

// Read returns this frame's arena input. Fire triggers on the press edge
// only, holding Space does not auto-fire.
func (p *PlayerInput) Read() arena.Input {
	return arena.Input{
		Move: arena.Axis(
			anyKey(p.pressed, ebiten.KeyArrowLeft, ebiten.KeyA),
			anyKey(p.pressed, ebiten.KeyArrowRight, ebiten.KeyD),
			anyKey(p.pressed, ebiten.KeyArrowUp, ebiten.KeyW),
			anyKey(p.pressed, ebiten.KeyArrowDown, ebiten.KeyS),
		),
		Fire: p.justPressed(ebiten.KeySpace),
	}
}

// menuAction is a menu command decoded from a key press
type menuAction int

const (
	menuNone menuAction = iota
	menuIncrease
	menuDecrease
	menuStart
	menuDemo
)

// readMenu decodes the keys pressed this frame on the menu screen
func readMenu(justPressed KeyFunc) menuAction {
	switch {
	case anyKey(justPressed, ebiten.KeyEqual, ebiten.KeyNumpadAdd, ebiten.KeyArrowUp):
		return menuIncrease
	case anyKey(justPressed, ebiten.KeyMinus, ebiten.KeyNumpadSubtract, ebiten.KeyArrowDown):
		return menuDecrease
	case anyKey(justPressed, ebiten.KeyEnter, ebiten.KeyNumpadEnter):
		return menuStart
	case justPressed(ebiten.KeyD):
		return menuDemo
	}
	return menuNone
}

// stepSwarmSize moves the menu selection by delta, keeping it in [min, max]
func stepSwarmSize(current, delta, min, max int) int {
	next := current + delta
	if next < min {
		return min
	}
	if next > max {
		return max
	}
	return next
}
