package sfx

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"swarmarena/arena"
)

// SampleRate is the output rate handed to the speaker
const SampleRate = beep.SampleRate(44100)

// Player mixes sound effects into the speaker. A Player that was never
// initialised, or whose speaker failed to open, silently drops every sound.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewPlayer creates a player; call Init to open the audio device
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker with a 100ms buffer and starts the mixer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "open speaker")
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues one sound on the mixer
func (p *Player) Play(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	speaker.Lock()
	p.mixer.Add(Stream(s, SampleRate))
	speaker.Unlock()
}

// PlayTick plays the cues for one tick result
func (p *Player) PlayTick(res arena.TickResult) {
	for _, s := range Cues(res.Events, res.Outcome) {
		p.Play(s)
	}
}

// ToggleMute flips the mute flag and returns the new state
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Close drops queued sounds and closes the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
