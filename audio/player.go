// Package audio plays short synthesized sounds for game events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/plus3/blockfall/tetris"
)

const SampleRate = beep.SampleRate(44100)

// Notes of the line-clear arpeggio, C major from C5.
var arpeggio = [...]float64{523.25, 659.25, 783.99, 1046.50}

// Notes of the game-over fall.
var fall = [...]float64{392.00, 311.13, 261.63, 196.00}

// Sound returns the streamer played for e, or nil when e is silent.
func Sound(rate beep.SampleRate, e tetris.Event) beep.Streamer {
	switch e.Kind {
	case tetris.EventLocked:
		return NewTone(rate, 180, 40*time.Millisecond, Square)
	case tetris.EventLinesCleared:
		n := min(max(e.Lines, 1), len(arpeggio))
		notes := make([]beep.Streamer, n)
		for i := range n {
			notes[i] = NewTone(rate, arpeggio[i], 90*time.Millisecond, Triangle)
		}
		return beep.Seq(notes...)
	case tetris.EventGameOver:
		notes := make([]beep.Streamer, len(fall))
		for i, f := range fall {
			notes[i] = NewTone(rate, f, 220*time.Millisecond, Sine)
		}
		return beep.Seq(notes...)
	}
	return nil
}

// Player mixes event sounds into the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
}

// NewPlayer returns a player at volume, between 0 and 1.
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker. Calling Init twice is harmless.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		logger().Warn("audio: speaker unavailable", "err", err)
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	logger().Info("audio: speaker ready", "rate", int(SampleRate))
	return nil
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// OnEvent plays the sound for e. It has the shape of a tetris.Listener.
func (p *Player) OnEvent(e tetris.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	s := Sound(SampleRate, e)
	if s == nil {
		return
	}
	logger().Debug("audio: play", "event", e.Kind.String())
	speaker.Lock()
	p.mixer.Add(withVolume(s, p.volume))
	speaker.Unlock()
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
