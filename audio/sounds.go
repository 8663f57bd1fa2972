package audio

import (
	"sync"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/pinball/audio/synth"
	"github.com/milk9111/pinball/gameplay"
	"github.com/rs/zerolog/log"
)

// SampleRate is shared by every player. ebiten allows a single context per process.
const SampleRate = 44100

var (
	contextOnce sync.Once
	context     *ebaudio.Context
)

func sharedContext() *ebaudio.Context {
	contextOnce.Do(func() {
		context = ebaudio.CurrentContext()
		if context == nil {
			context = ebaudio.NewContext(SampleRate)
		}
	})
	return context
}

// Effects maps each gameplay cue to its synthesized sound.
var Effects = map[gameplay.Cue]synth.Effect{
	gameplay.CueFlipper: {{Freq: 180, FreqEnd: 90, Duration: 0.05, Wave: synth.Square, Gain: 0.3}},
	gameplay.CueKicker:  {{Freq: 520, FreqEnd: 260, Duration: 0.08, Wave: synth.Square, Gain: 0.35}},
	gameplay.CuePoints: {
		{Freq: 880, Duration: 0.05, Wave: synth.Triangle},
		{Freq: 1320, Duration: 0.07, Wave: synth.Triangle},
	},
	gameplay.CueBumper: {{Freq: 660, FreqEnd: 990, Duration: 0.09, Wave: synth.Sine, Gain: 0.6}},
	gameplay.CueDrain:  {{Freq: 400, FreqEnd: 80, Duration: 0.45, Wave: synth.Triangle, Gain: 0.6}},
	gameplay.CueExtraLife: {
		{Freq: 523, Duration: 0.08, Wave: synth.Square, Gain: 0.3},
		{Freq: 659, Duration: 0.08, Wave: synth.Square, Gain: 0.3},
		{Freq: 784, Duration: 0.08, Wave: synth.Square, Gain: 0.3},
		{Freq: 1046, Duration: 0.16, Wave: synth.Square, Gain: 0.3},
	},
	gameplay.CueCharge:  {{Freq: 120, FreqEnd: 360, Duration: 0.4, Wave: synth.Triangle, Gain: 0.4}},
	gameplay.CueRelease: {{Freq: 200, Duration: 0.12, Wave: synth.Noise, Gain: 0.35}},
	gameplay.CueLaunch:  {{Freq: 300, FreqEnd: 700, Duration: 0.12, Wave: synth.Sine}},
	gameplay.CueGameOver: {
		{Freq: 392, Duration: 0.2, Wave: synth.Triangle},
		{Freq: 330, Duration: 0.2, Wave: synth.Triangle},
		{Freq: 262, Duration: 0.4, Wave: synth.Triangle},
	},
	gameplay.CueWin: {
		{Freq: 523, Duration: 0.12, Wave: synth.Triangle},
		{Freq: 784, Duration: 0.12, Wave: synth.Triangle},
		{Freq: 1046, Duration: 0.3, Wave: synth.Triangle},
	},
}

// Bank holds one player per cue and implements gameplay.Sounds.
type Bank struct {
	players map[gameplay.Cue]*ebaudio.Player
	volume  float64
	enabled bool
}

// NewBank renders every effect up front. A disabled bank plays nothing and
// never opens the audio device.
func NewBank(volume float64, enabled bool) *Bank {
	b := &Bank{
		players: make(map[gameplay.Cue]*ebaudio.Player),
		volume:  volume,
		enabled: enabled,
	}
	if !enabled {
		return b
	}

	ctx := sharedContext()
	for cue, effect := range Effects {
		b.players[cue] = ctx.NewPlayerFromBytes(synth.Render(effect, SampleRate))
	}
	log.Debug().Str("component", "audio").Int("cues", len(b.players)).Float64("volume", volume).Msg("sound bank ready")
	return b
}

// Play restarts the cue's player. Unknown cues are ignored.
func (b *Bank) Play(cue gameplay.Cue) {
	if b == nil || !b.enabled {
		return
	}
	player := b.players[cue]
	if player == nil {
		log.Warn().Str("component", "audio").Str("cue", string(cue)).Msg("no sound for cue")
		return
	}
	player.SetVolume(b.volume)
	if err := player.Rewind(); err != nil {
		log.Error().Err(err).Str("component", "audio").Str("cue", string(cue)).Msg("rewind failed")
		return
	}
	player.Play()
}

// SetVolume applies to the next cue played.
func (b *Bank) SetVolume(volume float64) {
	if b == nil {
		return
	}
	b.volume = volume
}

// Close releases every player.
func (b *Bank) Close() {
	if b == nil {
		return
	}
	for cue, player := range b.players {
		if err := player.Close(); err != nil {
			log.Error().Err(err).Str("component", "audio").Str("cue", string(cue)).Msg("close failed")
		}
	}
	b.players = map[gameplay.Cue]*ebaudio.Player{}
}
