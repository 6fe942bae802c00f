package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarmarena/arena"
)

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func specialKey(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func TestHeldKeysExpire(t *testing.T) {
	now := time.Unix(100, 0)
	h := newHeldKeys(100 * time.Millisecond)

	h.Press(dirLeft, now)
	h.Press(dirDown, now.Add(50*time.Millisecond))
	assert.Equal(t, mgl64.Vec2{-1, 1}, h.Input(now.Add(60*time.Millisecond)).Move)
	assert.Equal(t, mgl64.Vec2{0, 1}, h.Input(now.Add(120*time.Millisecond)).Move)
	assert.Equal(t, mgl64.Vec2{0, 0}, h.Input(now.Add(200*time.Millisecond)).Move)
}

func TestHeldKeysFireOnce(t *testing.T) {
	h := newHeldKeys(defaultHold)
	now := time.Unix(0, 0)

	h.Fire()
	assert.True(t, h.Input(now).Fire)
	assert.False(t, h.Input(now).Fire)

	h.Fire()
	h.Press(dirUp, now)
	h.Reset()
	assert.Equal(t, arena.Input{}, h.Input(now))
}

func TestKeyDirection(t *testing.T) {
	cases := map[*tcell.EventKey]direction{
		specialKey(tcell.KeyLeft): dirLeft,
		runeKey('d'):              dirRight,
		runeKey('W'):              dirUp,
		specialKey(tcell.KeyDown): dirDown,
	}
	for ev, want := range cases {
		got, ok := keyDirection(ev)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := keyDirection(runeKey('x'))
	assert.False(t, ok)
}

func TestViewportMapsArena(t *testing.T) {
	wall := arena.DefaultConfig().Bounds()
	v := newViewport(80, 42, wall)

	cx, cy := v.toCell(wall.Center)
	assert.Equal(t, 40, cx)
	assert.Equal(t, 22, cy)

	for _, p := range []mgl64.Vec2{{100, 450}, {800, 450}, {450, 100}, {450, 800}} {
		x, y := v.toCell(p)
		assert.True(t, v.inside(x, y), "boundary point %v lands at %d,%d", p, x, y)
	}
}

func newTestDriver(t *testing.T) *driver {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 40)
	t.Cleanup(screen.Fini)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newDriver(screen, options{maxSwarm: 100, seed: 9, tps: 60, hold: time.Second}, logger)
}

func TestDriverMenu(t *testing.T) {
	d := newTestDriver(t)
	now := time.Now()

	_, err := d.handle(runeKey('-'), now)
	require.NoError(t, err)
	assert.Equal(t, 100, d.selected)

	_, err = d.handle(runeKey('+'), now)
	require.NoError(t, err)
	assert.Equal(t, 150, d.selected)
	d.draw()

	quit, err := d.handle(runeKey('q'), now)
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestDriverDemoToGameOver(t *testing.T) {
	d := newTestDriver(t)
	now := time.Now()

	_, err := d.handle(runeKey('d'), now)
	require.NoError(t, err)
	require.Equal(t, scenePlay, d.scene)
	require.NotNil(t, d.pilot)

	for i := 0; i < 200000 && d.scene == scenePlay; i++ {
		require.NoError(t, d.step(now))
		if i%500 == 0 {
			d.draw()
		}
	}
	require.Equal(t, sceneHold, d.scene)
	assert.Equal(t, 60, d.holdLeft)

	for d.scene == sceneHold {
		require.NoError(t, d.step(now))
	}
	assert.Equal(t, sceneOver, d.scene)
	d.draw()

	_, err = d.handle(runeKey('r'), now)
	require.NoError(t, err)
	assert.Equal(t, sceneMenu, d.scene)
}

func TestDriverEscapeAbandons(t *testing.T) {
	d := newTestDriver(t)
	now := time.Now()

	_, err := d.handle(specialKey(tcell.KeyEnter), now)
	require.NoError(t, err)
	require.Equal(t, scenePlay, d.scene)

	_, err = d.handle(runeKey('a'), now)
	require.NoError(t, err)
	require.NoError(t, d.step(now))
	assert.Less(t, d.last.Player.Vel.X(), 0.0)

	_, err = d.handle(specialKey(tcell.KeyEscape), now)
	require.NoError(t, err)
	assert.Equal(t, sceneMenu, d.scene)
}
