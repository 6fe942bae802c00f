package sfx

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"

	"swarmarena/arena"
)

// drain streams s to completion and returns the sample count and peak level
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for _, v := range smp {
				if v > peak {
					peak = v
				} else if -v > peak {
					peak = -v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never finished")
	return 0, 0
}

func TestEverySoundIsFiniteAndBounded(t *testing.T) {
	for _, s := range []Sound{SoundFire, SoundPop, SoundSpawn, SoundReload, SoundWin, SoundLose} {
		n, peak := drain(t, Stream(s, SampleRate))
		assert.Greater(t, n, 0, s.String())
		assert.Less(t, n, SampleRate.N(2*time.Second), s.String())
		assert.Greater(t, peak, 0.0, "%s is silent", s)
		assert.LessOrEqual(t, peak, 1.0, "%s clips", s)
	}
}

func TestSweepLength(t *testing.T) {
	n, _ := drain(t, newSweep(SampleRate, 400, 800, 100*time.Millisecond, 10))
	assert.Equal(t, SampleRate.N(100*time.Millisecond), n)
}

func TestFadeEndsSilent(t *testing.T) {
	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	f := newFade(beep.Take(100, sine), 100)

	buf := make([][2]float64, 100)
	n, _ := f.Stream(buf)
	assert.Equal(t, 100, n)
	assert.Equal(t, 1.0, buf[0][0])
	assert.InDelta(t, 0.01, buf[99][0], 1e-9)
}

func TestCues(t *testing.T) {
	assert.Empty(t, Cues(arena.Events{Bounces: 3}, arena.OutcomeNone))

	got := Cues(arena.Events{Fired: true, Consumed: 2, Spawned: 4, Reloaded: true}, arena.OutcomeNone)
	assert.Equal(t, []Sound{SoundFire, SoundPop, SoundSpawn, SoundReload}, got)

	assert.Equal(t, []Sound{SoundPop, SoundWin}, Cues(arena.Events{Collided: 1}, arena.OutcomePlayerWon))
	assert.Equal(t, []Sound{SoundLose}, Cues(arena.Events{}, arena.OutcomeSwarmWon))
}

func TestPlayerWithoutDeviceIsSilent(t *testing.T) {
	p := NewPlayer()
	assert.NotPanics(t, func() {
		p.Play(SoundFire)
		p.PlayTick(arena.TickResult{Events: arena.Events{Fired: true}})
		p.Close()
	})
	assert.True(t, p.ToggleMute())
	assert.False(t, p.ToggleMute())
}
