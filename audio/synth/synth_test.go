package synth

import (
	"encoding/binary"
	"testing"
)

func TestRenderLength(t *testing.T) {
	e := Effect{
		{Freq: 440, Duration: 0.1},
		{Freq: 220, Duration: 0.05, Wave: Square},
	}
	got := len(Render(e, 44100))
	want := (4410 + 2205) * BytesPerFrame
	if got != want {
		t.Fatalf("expected %d bytes, got %d", want, got)
	}
}

func TestRenderChannelsMatch(t *testing.T) {
	pcm := Render(Effect{{Freq: 330, Duration: 0.02, Wave: Triangle}}, 8000)
	for i := 0; i+BytesPerFrame <= len(pcm); i += BytesPerFrame {
		l := binary.LittleEndian.Uint16(pcm[i:])
		r := binary.LittleEndian.Uint16(pcm[i+2:])
		if l != r {
			t.Fatalf("frame %d: left %d right %d", i/BytesPerFrame, l, r)
		}
	}
}

func TestRenderFadesEdges(t *testing.T) {
	pcm := Render(Effect{{Freq: 100, Duration: 0.05, Wave: Square, Gain: 1}}, 44100)
	first := int16(binary.LittleEndian.Uint16(pcm[0:]))
	last := int16(binary.LittleEndian.Uint16(pcm[len(pcm)-BytesPerFrame:]))
	if first != 0 {
		t.Fatalf("expected silent first frame, got %d", first)
	}
	if last > 1000 || last < -1000 {
		t.Fatalf("expected faded last frame, got %d", last)
	}

	peak := int16(0)
	for i := 0; i+BytesPerFrame <= len(pcm); i += BytesPerFrame {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if s > peak {
			peak = s
		}
	}
	if peak < 30000 {
		t.Fatalf("expected full-scale square body, got peak %d", peak)
	}
}

func TestRenderEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		rate   int
	}{
		{name: "empty", effect: nil, rate: 44100},
		{name: "zero duration", effect: Effect{{Freq: 440}}, rate: 44100},
		{name: "zero rate", effect: Effect{{Freq: 440, Duration: 1}}, rate: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.effect, tt.rate); len(got) != 0 {
				t.Fatalf("expected no samples, got %d bytes", len(got))
			}
		})
	}
}

func TestEffectDuration(t *testing.T) {
	e := Effect{{Duration: 0.25}, {Duration: 0.5}}
	if got := e.Duration(); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
}
