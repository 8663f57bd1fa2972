package audio

import (
	"testing"

	"github.com/milk9111/pinball/gameplay"
)

func TestEveryCueHasEffect(t *testing.T) {
	for _, cue := range gameplay.Cues {
		effect, ok := Effects[cue]
		if !ok {
			t.Fatalf("cue %q has no effect", cue)
		}
		if effect.Duration() <= 0 {
			t.Fatalf("cue %q has an empty effect", cue)
		}
	}
}

func TestDisabledBankIsSilent(t *testing.T) {
	b := NewBank(0.5, false)
	if len(b.players) != 0 {
		t.Fatalf("expected no players, got %d", len(b.players))
	}
	b.Play(gameplay.CueBumper)
	b.SetVolume(1)
	b.Close()

	var nilBank *Bank
	nilBank.Play(gameplay.CueDrain)
}
