package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"swarmarena/arena"
)

type direction int

const (
	dirLeft direction = iota
	dirRight
	dirUp
	dirDown
	dirCount
)

// defaultHold covers the gap between the first key press and the terminal's
// auto-repeat
const defaultHold = 180 * time.Millisecond

// heldKeys emulates key-up for terminals, which only report presses: a
// direction counts as held for a short window after its last press
type heldKeys struct {
	hold  time.Duration
	until [dirCount]time.Time
	fire  bool
}

func newHeldKeys(hold time.Duration) *heldKeys {
	return &heldKeys{hold: hold}
}

// Press records a press of d at now
func (h *heldKeys) Press(d direction, now time.Time) {
	h.until[d] = now.Add(h.hold)
}

// Fire queues one shot for the next Input call
func (h *heldKeys) Fire() { h.fire = true }

// Input returns the arena input at now and clears a queued shot
func (h *heldKeys) Input(now time.Time) arena.Input {
	held := func(d direction) bool { return now.Before(h.until[d]) }
	in := arena.Input{
		Move: arena.Axis(held(dirLeft), held(dirRight), held(dirUp), held(dirDown)),
		Fire: h.fire,
	}
	h.fire = false
	return in
}

// Reset releases every direction
func (h *heldKeys) Reset() {
	h.until = [dirCount]time.Time{}
	h.fire = false
}

// keyDirection maps arrows and WASD to a direction
func keyDirection(ev *tcell.EventKey) (direction, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return dirLeft, true
	case tcell.KeyRight:
		return dirRight, true
	case tcell.KeyUp:
		return dirUp, true
	case tcell.KeyDown:
		return dirDown, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return dirLeft, true
		case 'd', 'D':
			return dirRight, true
		case 'w', 'W':
			return dirUp, true
		case 's', 'S':
			return dirDown, true
		}
	}
	return 0, false
}
