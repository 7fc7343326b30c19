package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
)

// Tone is a single note with a linear attack and an exponential decay. It
// implements beep.Streamer and ends after its duration.
type Tone struct {
	Freq   float64
	Wave   Wave
	Attack time.Duration
	// Decay is the time constant of the fade after the attack.
	Decay time.Duration

	rate  beep.SampleRate
	total int
	pos   int
	phase float64
}

func NewTone(rate beep.SampleRate, freq float64, d time.Duration, wave Wave) *Tone {
	return &Tone{
		Freq:   freq,
		Wave:   wave,
		Attack: 5 * time.Millisecond,
		Decay:  d / 3,
		rate:   rate,
		total:  rate.N(d),
	}
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	attack := t.rate.N(t.Attack)

	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var v float64
		switch t.Wave {
		case Square:
			v = 0.6
			if t.phase >= 0.5 {
				v = -0.6
			}
		case Triangle:
			v = 4*math.Abs(t.phase-0.5) - 1
		default:
			v = math.Sin(2 * math.Pi * t.phase)
		}

		env := 1.0
		switch {
		case t.pos < attack:
			env = float64(t.pos) / float64(attack)
		case t.Decay > 0:
			env = math.Exp(-float64(t.pos-attack) / float64(t.rate) / t.Decay.Seconds())
		}

		samples[i][0] = v * env
		samples[i][1] = v * env

		t.phase += t.Freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *Tone) Err() error { return nil }

// Len is the tone length in samples.
func (t *Tone) Len() int { return t.total }
