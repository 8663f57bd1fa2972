package gameplay

// Commands is one frame of player intent. Held fields are levels, the
// Pressed and Released fields are edges.
type Commands struct {
	LeftFlipper   bool
	RightFlipper  bool
	LeftPressed   bool
	RightPressed  bool
	LeftReleased  bool
	RightReleased bool

	PlungerPressed  bool
	PlungerHeld     bool
	PlungerReleased bool

	Continue    bool
	ToggleDebug bool

	DragStart bool
	DragHeld  bool
	DragEnd   bool
	CursorX   int
	CursorY   int
}

// Cue names a sound effect.
type Cue string

const (
	CueFlipper   Cue = "flipper"
	CueKicker    Cue = "kicker"
	CuePoints    Cue = "points"
	CueBumper    Cue = "bumper"
	CueDrain     Cue = "drain"
	CueExtraLife Cue = "extra_life"
	CueCharge    Cue = "charge"
	CueRelease   Cue = "release"
	CueLaunch    Cue = "launch"
	CueGameOver  Cue = "game_over"
	CueWin       Cue = "win"
)

// Cues lists every cue gameplay can emit.
var Cues = []Cue{
	CueFlipper, CueKicker, CuePoints, CueBumper, CueDrain, CueExtraLife,
	CueCharge, CueRelease, CueLaunch, CueGameOver, CueWin,
}

// Sounds plays cues. Implementations must not block.
type Sounds interface {
	Play(cue Cue)
}

type silent struct{}

func (silent) Play(Cue) {}
