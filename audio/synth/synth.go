// Package synth renders short sound effects as raw PCM in ebiten's native
// audio format: signed 16-bit little-endian, two interleaved channels.
package synth

import (
	"encoding/binary"
	"math"
)

const (
	// BytesPerFrame is two channels of two bytes each.
	BytesPerFrame = 4
	// fade keeps note edges from clicking.
	fade = 0.004
)

// Wave selects the oscillator shape of a note.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Noise
)

// Note is one segment of an effect. Freq glides linearly to FreqEnd when
// FreqEnd is set.
type Note struct {
	Freq     float64
	FreqEnd  float64
	Duration float64
	Wave     Wave
	Gain     float64
}

// Effect is a sequence of notes played back to back.
type Effect []Note

// Duration returns the total length in seconds.
func (e Effect) Duration() float64 {
	var d float64
	for _, n := range e {
		d += n.Duration
	}
	return d
}

// Render returns the PCM bytes of the effect at sampleRate.
func Render(e Effect, sampleRate int) []byte {
	if sampleRate <= 0 {
		return nil
	}
	total := 0
	for _, n := range e {
		total += frames(n.Duration, sampleRate)
	}
	out := make([]byte, total*BytesPerFrame)

	pos := 0
	seed := uint32(0x9e3779b9)
	for _, n := range e {
		count := frames(n.Duration, sampleRate)
		gain := n.Gain
		if gain <= 0 {
			gain = 0.5
		}
		phase := 0.0
		for i := 0; i < count; i++ {
			t := float64(i) / float64(sampleRate)
			freq := n.Freq
			if n.FreqEnd > 0 && n.Duration > 0 {
				freq += (n.FreqEnd - n.Freq) * t / n.Duration
			}
			phase += freq / float64(sampleRate)
			phase -= math.Floor(phase)

			var v float64
			switch n.Wave {
			case Square:
				v = 1
				if phase >= 0.5 {
					v = -1
				}
			case Triangle:
				v = 4*math.Abs(phase-0.5) - 1
			case Noise:
				seed ^= seed << 13
				seed ^= seed >> 17
				seed ^= seed << 5
				v = float64(seed)/float64(math.MaxUint32)*2 - 1
			default:
				v = math.Sin(2 * math.Pi * phase)
			}

			sample := int16(clamp(v*gain*envelope(t, n.Duration), -1, 1) * math.MaxInt16)
			binary.LittleEndian.PutUint16(out[pos:], uint16(sample))
			binary.LittleEndian.PutUint16(out[pos+2:], uint16(sample))
			pos += BytesPerFrame
		}
	}
	return out
}

func frames(seconds float64, sampleRate int) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(sampleRate)))
}

func envelope(t, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	e := 1.0
	if t < fade {
		e = t / fade
	}
	if rem := duration - t; rem < fade {
		e = math.Min(e, rem/fade)
	}
	return math.Max(e, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
