package sfx

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"swarmarena/arena"
)

// Sound identifies a game sound effect
type Sound int

const (
	SoundFire Sound = iota
	SoundPop
	SoundSpawn
	SoundReload
	SoundWin
	SoundLose
)

func (s Sound) String() string {
	switch s {
	case SoundFire:
		return "fire"
	case SoundPop:
		return "pop"
	case SoundSpawn:
		return "spawn"
	case SoundReload:
		return "reload"
	case SoundWin:
		return "win"
	case SoundLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Cues lists the sounds a tick should trigger. Each kind plays at most once
// per tick so a burst of spawns does not stack into noise.
func Cues(ev arena.Events, outcome arena.Outcome) []Sound {
	var out []Sound
	if ev.Fired {
		out = append(out, SoundFire)
	}
	if ev.Consumed+ev.Collided > 0 {
		out = append(out, SoundPop)
	}
	if ev.Spawned > 0 {
		out = append(out, SoundSpawn)
	}
	if ev.Reloaded {
		out = append(out, SoundReload)
	}
	switch outcome {
	case arena.OutcomePlayerWon:
		out = append(out, SoundWin)
	case arena.OutcomeSwarmWon:
		out = append(out, SoundLose)
	}
	return out
}

// Stream builds a finite streamer for the sound at the given sample rate
func Stream(s Sound, sr beep.SampleRate) beep.Streamer {
	switch s {
	case SoundFire:
		return newVolume(newSweep(sr, 1400, 300, 90*time.Millisecond, 30), 0.35)
	case SoundPop:
		return newVolume(newNoiseBurst(sr, 60*time.Millisecond), 0.3)
	case SoundSpawn:
		return newVolume(newSweep(sr, 220, 520, 120*time.Millisecond, 12), 0.2)
	case SoundReload:
		return beep.Seq(
			tone(sr, 660, 60*time.Millisecond, 0.25),
			beep.Silence(sr.N(30*time.Millisecond)),
			tone(sr, 990, 80*time.Millisecond, 0.25),
		)
	case SoundWin:
		return beep.Seq(
			tone(sr, 523.25, 150*time.Millisecond, 0.3),
			tone(sr, 659.25, 150*time.Millisecond, 0.3),
			tone(sr, 783.99, 300*time.Millisecond, 0.3),
		)
	case SoundLose:
		return beep.Seq(
			tone(sr, 392, 200*time.Millisecond, 0.3),
			tone(sr, 311.13, 200*time.Millisecond, 0.3),
			tone(sr, 196, 400*time.Millisecond, 0.3),
		)
	default:
		return beep.Silence(0)
	}
}

// tone is a sine note with a short fade out
func tone(sr beep.SampleRate, freq float64, d time.Duration, vol float64) beep.Streamer {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return beep.Silence(sr.N(d))
	}
	return newVolume(newFade(beep.Take(sr.N(d), sine), sr.N(d)), vol)
}

// newVolume scales linear volume onto the base-2 effects.Volume
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// fade ramps the inner stream linearly down to silence over total samples
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func newFade(s beep.Streamer, total int) beep.Streamer {
	return &fade{streamer: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.total > 0 {
			vol = 1 - float64(f.pos)/float64(f.total)
		}
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// sweep glides exponentially from one frequency to another under an
// exponential decay envelope
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	decay    float64
	pos      int
	total    int
	phase    float64
}

func newSweep(sr beep.SampleRate, from, to float64, d time.Duration, decay float64) beep.Streamer {
	return &sweep{sr: sr, from: from, to: to, decay: decay, total: sr.N(d)}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		progress := float64(g.pos) / float64(g.total)
		freq := g.from * math.Pow(g.to/g.from, progress)
		env := math.Exp(-progress * g.decay / 10)

		val := env * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = val
		samples[i][1] = val

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// noiseBurst is white noise with a fast exponential decay
type noiseBurst struct {
	sr    beep.SampleRate
	rng   *rand.Rand
	pos   int
	total int
}

func newNoiseBurst(sr beep.SampleRate, d time.Duration) beep.Streamer {
	return &noiseBurst{sr: sr, rng: rand.New(rand.NewSource(time.Now().UnixNano())), total: sr.N(d)}
}

func (g *noiseBurst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		val := math.Exp(-t*60) * (g.rng.Float64()*2 - 1)
		samples[i][0] = val
		samples[i][1] = val
		g.pos++
	}
	return len(samples), true
}

func (g *noiseBurst) Err() error { return nil }
